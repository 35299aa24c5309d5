package handlers

import (
	"context"

	"github.com/zarouz/scriptforge/internal/fountain"
	"github.com/zarouz/scriptforge/internal/server/dto"
)

// ParserHandler proxies fountain rendering to the parser collaborator.
type ParserHandler struct {
	client *fountain.Client
}

// NewParserHandler creates a new parser handler.
func NewParserHandler(client *fountain.Client) *ParserHandler {
	return &ParserHandler{client: client}
}

// Preview renders fountain text to HTML. Renderer failures degrade to
// an inline error payload rather than failing the request.
func (h *ParserHandler) Preview(ctx context.Context, req dto.PreviewRequest) (*dto.PreviewResponse, error) {
	return &dto.PreviewResponse{HTML: h.client.Render(ctx, *req.FountainText)}, nil
}
