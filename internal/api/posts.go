package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/BeamLabEU/phoenix-kit-sub002/internal/content"
	"github.com/BeamLabEU/phoenix-kit-sub002/internal/listing"
	"github.com/BeamLabEU/phoenix-kit-sub002/pkg/models"
)

// CollectionInput represents the input for listing a collection.
type CollectionInput struct {
	Collection string `doc:"The collection name" path:"collection"`
}

// PostInput represents the input for fetching one rendered post.
type PostInput struct {
	Collection string `doc:"The collection name"               path:"collection"`
	ID         string `doc:"The post id"                       path:"id"`
	Language   string `doc:"Language variant" query:"language"                   required:"false"`
}

// ListingOutput represents the output for a collection listing.
type ListingOutput struct {
	Body struct {
		Collection string                 `json:"collection"`
		FromCache  bool                   `json:"fromCache"`
		Listing    *models.ListingSnapshot `json:"listing"`
	}
}

// registerPostRoutes registers the post routes with the API.
func (s *Server) registerPostRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "list-posts",
		Method:      http.MethodGet,
		Path:        "/api/posts/{collection}",
		Summary:     "List Posts",
		Description: "Returns the listing snapshot for a collection, scanning the content store directly on a cache miss.",
		Tags:        []string{"Posts"},
	}, s.handleListPosts)

	huma.Register(s.api, huma.Operation{
		OperationID: "get-post",
		Method:      http.MethodGet,
		Path:        "/api/posts/{collection}/{id}",
		Summary:     "Get Rendered Post",
		Description: "Returns the rendered HTML of a published post.",
		Tags:        []string{"Posts"},
	}, s.handleGetPost)
}

// handleListPosts serves a collection listing, preferring the cache tiers. A
// miss falls back to a direct content scan without writing either tier.
func (s *Server) handleListPosts(
	ctx context.Context,
	input *CollectionInput,
) (*ListingOutput, error) {
	resp := &ListingOutput{}
	resp.Body.Collection = input.Collection

	snapshot, err := s.listing.Read(ctx, input.Collection)
	if err == nil {
		resp.Body.FromCache = true
		resp.Body.Listing = snapshot

		return resp, nil
	}

	if !errors.Is(err, listing.ErrCacheMiss) {
		return nil, huma.Error500InternalServerError("Listing lookup failed", err)
	}

	mode := content.Mode(s.db.GetString(ctx, "collection_mode."+input.Collection, string(content.ModeSlug)))

	posts, err := s.content.ListItems(ctx, input.Collection, mode)
	if err != nil {
		return nil, huma.Error404NotFound(fmt.Sprintf("Collection %q not found", input.Collection))
	}

	resp.Body.Listing = listing.Snapshot(posts)

	return resp, nil
}

// handleGetPost streams the rendered HTML of a published post.
func (s *Server) handleGetPost(
	ctx context.Context,
	input *PostInput,
) (*huma.StreamResponse, error) {
	post, err := s.content.GetItem(ctx, input.Collection, input.ID, input.Language)
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			return nil, huma.Error404NotFound("Post not found")
		}

		return nil, huma.Error500InternalServerError("Failed to load post", err)
	}

	if !post.Published() {
		return nil, huma.Error404NotFound("Post not found")
	}

	return s.streamRenderedPost(post), nil
}

// streamRenderedPost streams a post's HTML through the render cache.
func (s *Server) streamRenderedPost(post *models.Post) *huma.StreamResponse {
	return &huma.StreamResponse{
		Body: func(ctx huma.Context) {
			ctx.SetHeader("Content-Type", "text/html; charset=utf-8")
			w := ctx.BodyWriter()

			html := s.renderCache.RenderPost(ctx.Context(), post)

			_, _ = w.Write([]byte(html))
		},
	}
}
