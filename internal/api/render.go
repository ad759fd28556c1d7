package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// RenderMarkdownInput represents the input for rendering raw markdown.
type RenderMarkdownInput struct {
	Body struct {
		Markdown string `doc:"Raw markdown text to render" json:"markdown" required:"true"`
	}
}

// RenderMarkdownOutput represents the output of a markdown render.
type RenderMarkdownOutput struct {
	Body struct {
		HTML string `json:"html"`
	}
}

// registerRenderRoutes registers the rendering routes with the API.
func (s *Server) registerRenderRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "render-markdown",
		Method:      http.MethodPost,
		Path:        "/api/render/markdown",
		Summary:     "Render Markdown",
		Description: "Converts raw markdown to HTML without touching any cache.",
		Tags:        []string{"Rendering"},
	}, s.handleRenderMarkdown)
}

// handleRenderMarkdown converts raw markdown to HTML.
func (s *Server) handleRenderMarkdown(
	ctx context.Context,
	input *RenderMarkdownInput,
) (*RenderMarkdownOutput, error) {
	html, err := s.renderer.Markdown(input.Body.Markdown)
	if err != nil {
		return nil, huma.Error422UnprocessableEntity("Markdown conversion failed", err)
	}

	resp := &RenderMarkdownOutput{}
	resp.Body.HTML = html

	return resp, nil
}
