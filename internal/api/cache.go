package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// CacheCollectionInput represents the input for collection cache operations.
type CacheCollectionInput struct {
	Collection string `doc:"The collection name" path:"collection"`
}

// CacheStatusOutput represents the output of a cache mutation.
type CacheStatusOutput struct {
	Body struct {
		Collection string `json:"collection,omitempty"`
		Status     string `json:"status"`
	}
}

// CacheClearOutput represents the output of a render-cache clear.
type CacheClearOutput struct {
	Body struct {
		Collection string `json:"collection,omitempty"`
		Cleared    int    `json:"cleared"`
	}
}

// registerCacheRoutes registers the cache management routes with the API.
func (s *Server) registerCacheRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "regenerate-listing",
		Method:      http.MethodPost,
		Path:        "/api/cache/listing/{collection}",
		Summary:     "Regenerate Listing",
		Description: "Rescans a collection and rewrites its listing cache tiers. Requires a bearer token.",
		Tags:        []string{"Cache"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleRegenerateListing)

	huma.Register(s.api, huma.Operation{
		OperationID: "invalidate-listing",
		Method:      http.MethodDelete,
		Path:        "/api/cache/listing/{collection}",
		Summary:     "Invalidate Listing",
		Description: "Erases a collection's listing cache from both tiers. Requires a bearer token.",
		Tags:        []string{"Cache"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleInvalidateListing)

	huma.Register(s.api, huma.Operation{
		OperationID: "clear-render-cache",
		Method:      http.MethodDelete,
		Path:        "/api/cache/render",
		Summary:     "Clear Render Cache",
		Description: "Empties the render cache across all collections. Requires a bearer token.",
		Tags:        []string{"Cache"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleClearRenderCache)

	huma.Register(s.api, huma.Operation{
		OperationID: "clear-render-cache-collection",
		Method:      http.MethodDelete,
		Path:        "/api/cache/render/{collection}",
		Summary:     "Clear Collection Render Cache",
		Description: "Removes every render-cache entry for one collection. Requires a bearer token.",
		Tags:        []string{"Cache"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleClearRenderCacheCollection)
}

// handleRegenerateListing rebuilds a collection's listing cache.
func (s *Server) handleRegenerateListing(
	ctx context.Context,
	input *CacheCollectionInput,
) (*CacheStatusOutput, error) {
	if !isAuthorized(ctx) {
		return nil, huma.Error401Unauthorized("Authentication required")
	}

	err := s.listing.Regenerate(ctx, input.Collection)
	if err != nil {
		return nil, huma.Error500InternalServerError("Listing regeneration failed", err)
	}

	resp := &CacheStatusOutput{}
	resp.Body.Collection = input.Collection
	resp.Body.Status = "regenerated"

	return resp, nil
}

// handleInvalidateListing erases a collection's listing cache.
func (s *Server) handleInvalidateListing(
	ctx context.Context,
	input *CacheCollectionInput,
) (*CacheStatusOutput, error) {
	if !isAuthorized(ctx) {
		return nil, huma.Error401Unauthorized("Authentication required")
	}

	err := s.listing.Invalidate(ctx, input.Collection)
	if err != nil {
		return nil, huma.Error500InternalServerError("Listing invalidation failed", err)
	}

	resp := &CacheStatusOutput{}
	resp.Body.Collection = input.Collection
	resp.Body.Status = "invalidated"

	return resp, nil
}

// handleClearRenderCache empties the whole render cache.
func (s *Server) handleClearRenderCache(
	ctx context.Context,
	_ *struct{},
) (*CacheClearOutput, error) {
	if !isAuthorized(ctx) {
		return nil, huma.Error401Unauthorized("Authentication required")
	}

	resp := &CacheClearOutput{}
	resp.Body.Cleared = s.renderCache.ClearAll(ctx)

	return resp, nil
}

// handleClearRenderCacheCollection clears one collection's render entries.
func (s *Server) handleClearRenderCacheCollection(
	ctx context.Context,
	input *CacheCollectionInput,
) (*CacheClearOutput, error) {
	if !isAuthorized(ctx) {
		return nil, huma.Error401Unauthorized("Authentication required")
	}

	resp := &CacheClearOutput{}
	resp.Body.Collection = input.Collection
	resp.Body.Cleared = s.renderCache.ClearCollection(ctx, input.Collection)

	return resp, nil
}
