package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// SSEHeartbeatInterval is how often a heartbeat comment is sent to keep idle
// connections alive.
const SSEHeartbeatInterval = 15 * time.Second

// StreamEvents handles GET /v1/loads/{id}/events, streaming a job's timeline
// as Server-Sent Events.
func (h *Handlers) StreamEvents(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "id")

	job, err := h.JobManager.GetJob(jobID)
	if err != nil {
		writeError(w, err)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, APIError{Code: 500, Message: "streaming not supported"})
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	eventChan, unsubscribe := job.Emitter.Subscribe()
	defer unsubscribe()

	heartbeat := time.NewTicker(SSEHeartbeatInterval)
	defer heartbeat.Stop()

	sendSSEEvent(w, "connected", map[string]any{"jobId": jobID, "status": job.GetStatus()})
	flusher.Flush()

	for {
		select {
		case event, ok := <-eventChan:
			if !ok {
				sendSSEEvent(w, "disconnected", map[string]string{"reason": "job completed"})
				flusher.Flush()
				return
			}
			sendSSEEvent(w, event.Type, event)
			flusher.Flush()

		case <-heartbeat.C:
			fmt.Fprintf(w, ": heartbeat %d\n\n", time.Now().Unix())
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}

func sendSSEEvent(w http.ResponseWriter, eventType string, data any) {
	fmt.Fprintf(w, "event: %s\n", eventType)
	jsonData, err := json.Marshal(data)
	if err != nil {
		jsonData = []byte(`{"error": "failed to encode event data"}`)
	}
	fmt.Fprintf(w, "data: %s\n\n", jsonData)
}
