package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/kozaktomas/pose-coach/internal/pose"
)

// ListPoses returns the reference pose table.
func ListPoses(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, pose.All())
}

// GetPose returns a single reference pose.
func GetPose(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid pose id")
		return
	}

	target, ok := pose.Lookup(pose.ID(id))
	if !ok {
		respondError(w, http.StatusNotFound, "pose not found")
		return
	}

	respondJSON(w, http.StatusOK, pose.Reference{ID: pose.ID(id), Name: pose.ID(id).String(), Target: target})
}
