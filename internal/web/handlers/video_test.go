package handlers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type stubFrames struct {
	frames [][]byte
}

func (s *stubFrames) Wait(ctx context.Context, seq uint64) ([]byte, uint64, error) {
	if int(seq) < len(s.frames) {
		return s.frames[seq], seq + 1, nil
	}
	<-ctx.Done()
	return nil, seq, ctx.Err()
}

func TestVideoHandler_NoCamera(t *testing.T) {
	recorder := httptest.NewRecorder()
	NewVideoHandler(nil).Feed(recorder, httptest.NewRequest(http.MethodGet, "/video_feed", nil))

	if recorder.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", recorder.Code)
	}
}

func TestVideoHandler_StreamsFrames(t *testing.T) {
	frames := &stubFrames{frames: [][]byte{[]byte("jpeg-one"), []byte("jpeg-two")}}
	h := NewVideoHandler(frames)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	recorder := httptest.NewRecorder()
	h.Feed(recorder, httptest.NewRequest(http.MethodGet, "/video_feed", nil).WithContext(ctx))

	if ct := recorder.Header().Get("Content-Type"); ct != "multipart/x-mixed-replace; boundary=frame" {
		t.Errorf("Content-Type = %q", ct)
	}

	body := recorder.Body.Bytes()
	wantPart := []byte("--frame\r\nContent-Type: image/jpeg\r\nContent-Length: 8\r\n\r\njpeg-one\r\n")
	if !bytes.HasPrefix(body, wantPart) {
		t.Errorf("unexpected first part %q", body)
	}
	if !bytes.Contains(body, []byte("jpeg-two\r\n")) {
		t.Error("expected second frame in stream")
	}
}
