package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const publishedPost = `---
title: First Post
status: published
---

# First Post

Hello from the *content store*.
`

const draftPost = `---
title: Hidden Draft
status: draft
---

Not yet public.
`

func TestHandleListPosts_FallbackScan(t *testing.T) {
	database := newTestDB(t)
	root := t.TempDir()
	writePost(t, root, "blog", "first", publishedPost)
	writePost(t, root, "blog", "second", draftPost)

	server := newTestServer(t, database, root)

	// No regenerate has run, so the listing comes from a direct scan.
	resp, err := server.handleListPosts(context.Background(), &CollectionInput{Collection: "blog"})
	require.NoError(t, err)

	assert.False(t, resp.Body.FromCache)
	require.NotNil(t, resp.Body.Listing)
	assert.Equal(t, 2, resp.Body.Listing.PostCount)
}

func TestHandleListPosts_ServedFromCacheAfterRegenerate(t *testing.T) {
	database := newTestDB(t)
	root := t.TempDir()
	writePost(t, root, "blog", "first", publishedPost)

	server := newTestServer(t, database, root)
	ctx := context.Background()

	require.NoError(t, server.listing.Regenerate(ctx, "blog"))

	resp, err := server.handleListPosts(ctx, &CollectionInput{Collection: "blog"})
	require.NoError(t, err)
	assert.True(t, resp.Body.FromCache)
	assert.Equal(t, 1, resp.Body.Listing.PostCount)
	assert.Equal(t, "First Post", resp.Body.Listing.Posts[0].Title)
}

func TestHandleListPosts_UnknownCollection(t *testing.T) {
	database := newTestDB(t)
	server := newTestServer(t, database, t.TempDir())

	resp, err := server.handleListPosts(context.Background(), &CollectionInput{Collection: "nope"})
	require.Error(t, err)
	require.Nil(t, resp)

	var humaErr *huma.ErrorModel
	require.True(t, errors.As(err, &humaErr))
	assert.Equal(t, 404, humaErr.Status)
}

func TestHandleGetPost_RendersHTML(t *testing.T) {
	database := newTestDB(t)
	root := t.TempDir()
	writePost(t, root, "blog", "first", publishedPost)

	server := newTestServer(t, database, root)

	resp, err := server.handleGetPost(context.Background(), &PostInput{Collection: "blog", ID: "first"})
	require.NoError(t, err)
	require.NotNil(t, resp)

	op := &huma.Operation{
		OperationID: "get-post",
		Method:      http.MethodGet,
		Path:        "/api/posts/{collection}/{id}",
	}
	w := httptest.NewRecorder()
	r, _ := http.NewRequest(http.MethodGet, "/api/posts/blog/first", nil)
	hctx := humatest.NewContext(op, r, w)

	resp.Body(hctx)

	body := w.Body.String()
	assert.Contains(t, body, "<h1")
	assert.Contains(t, body, "First Post")
	assert.Contains(t, body, "<em>content store</em>")
}

func TestHandleGetPost_DraftHidden(t *testing.T) {
	database := newTestDB(t)
	root := t.TempDir()
	writePost(t, root, "blog", "secret", draftPost)

	server := newTestServer(t, database, root)

	resp, err := server.handleGetPost(context.Background(), &PostInput{Collection: "blog", ID: "secret"})
	require.Error(t, err)
	require.Nil(t, resp)

	var humaErr *huma.ErrorModel
	require.True(t, errors.As(err, &humaErr))
	assert.Equal(t, 404, humaErr.Status)
}

func TestHandleGetPost_NotFound(t *testing.T) {
	database := newTestDB(t)
	server := newTestServer(t, database, t.TempDir())

	resp, err := server.handleGetPost(context.Background(), &PostInput{Collection: "blog", ID: "missing"})
	require.Error(t, err)
	require.Nil(t, resp)

	var humaErr *huma.ErrorModel
	require.True(t, errors.As(err, &humaErr))
	assert.Equal(t, 404, humaErr.Status)
}

func TestHandleRenderMarkdown(t *testing.T) {
	database := newTestDB(t)
	server := newTestServer(t, database, t.TempDir())

	input := &RenderMarkdownInput{}
	input.Body.Markdown = "# Hi\n\nSome **bold** text."

	resp, err := server.handleRenderMarkdown(context.Background(), input)
	require.NoError(t, err)
	assert.Contains(t, resp.Body.HTML, "<h1")
	assert.Contains(t, resp.Body.HTML, "<strong>bold</strong>")
}
