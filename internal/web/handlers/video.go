package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// FrameWaiter provides the latest camera frame.
type FrameWaiter interface {
	Wait(ctx context.Context, seq uint64) ([]byte, uint64, error)
}

// mjpegBoundary separates parts of the MJPEG stream.
const mjpegBoundary = "frame"

// VideoHandler streams camera frames
type VideoHandler struct {
	frames FrameWaiter
}

// NewVideoHandler creates a video handler. frames may be nil when no camera is configured.
func NewVideoHandler(frames FrameWaiter) *VideoHandler {
	return &VideoHandler{frames: frames}
}

// Feed streams frames as multipart/x-mixed-replace JPEG parts until the client leaves.
func (h *VideoHandler) Feed(w http.ResponseWriter, r *http.Request) {
	if h.frames == nil {
		respondError(w, http.StatusServiceUnavailable, "no camera configured")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		respondError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary="+mjpegBoundary)
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	var seq uint64
	for {
		frame, next, err := h.frames.Wait(r.Context(), seq)
		if err != nil {
			return
		}
		seq = next

		header := fmt.Sprintf("--%s\r\nContent-Type: image/jpeg\r\nContent-Length: %s\r\n\r\n",
			mjpegBoundary, strconv.Itoa(len(frame)))
		if _, err := w.Write([]byte(header)); err != nil {
			return
		}
		if _, err := w.Write(frame); err != nil {
			return
		}
		if _, err := w.Write([]byte("\r\n")); err != nil {
			return
		}
		flusher.Flush()
	}
}
