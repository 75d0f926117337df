package api

import "encoding/json"

// RequestCompletedEvent is broadcast over the event stream once a
// transform, mask or match request finishes processing.
type RequestCompletedEvent struct {
	Type      string `json:"type"`
	Operation string `json:"operation"`
	Entities  int    `json:"entities"`
	ElapsedMs int64  `json:"elapsedMs"`
}

// BroadcastRequestCompleted encodes and pushes a RequestCompletedEvent
// to every subscribed event-stream client. Encoding failures are
// swallowed: a missed notification never should fail the HTTP request
// that triggered it.
func (h *Hub) BroadcastRequestCompleted(operation string, entities int, elapsedMs int64) {
	data, err := json.Marshal(RequestCompletedEvent{
		Type:      "request_completed",
		Operation: operation,
		Entities:  entities,
		ElapsedMs: elapsedMs,
	})
	if err != nil {
		return
	}
	h.Broadcast(data)
}
