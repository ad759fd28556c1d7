package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// registerEventRoutes registers the advisory event stream with the API.
func (s *Server) registerEventRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "cache-events",
		Method:      http.MethodGet,
		Path:        "/api/cache/events",
		Summary:     "Cache Event Stream",
		Description: "Server-sent events announcing listing cache changes. Delivery is advisory: consumers must tolerate missed events.",
		Tags:        []string{"Cache"},
	}, s.handleCacheEvents)
}

// handleCacheEvents streams cache-change notifications until the client
// disconnects.
func (s *Server) handleCacheEvents(
	_ context.Context,
	_ *struct{},
) (*huma.StreamResponse, error) {
	return &huma.StreamResponse{
		Body: func(ctx huma.Context) {
			ctx.SetHeader("Content-Type", "text/event-stream")
			ctx.SetHeader("Cache-Control", "no-cache")
			ctx.SetHeader("Connection", "keep-alive")

			w := ctx.BodyWriter()
			flusher, _ := w.(http.Flusher)

			events, cancel := s.hub.Subscribe()
			defer cancel()

			for {
				select {
				case <-ctx.Context().Done():
					return
				case event, ok := <-events:
					if !ok {
						return
					}

					payload, err := json.Marshal(event)
					if err != nil {
						continue
					}

					_, err = fmt.Fprintf(w, "event: cache\nid: %s\ndata: %s\n\n", event.ID, payload)
					if err != nil {
						return
					}

					if flusher != nil {
						flusher.Flush()
					}
				}
			}
		},
	}, nil
}
