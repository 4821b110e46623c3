package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/docgraph/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for docgraph resources.
	uriScheme = "docgraph://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "documents",
		Name:        "documents",
		Description: "All ingested documents",
		MIMEType:    "application/json",
	}, s.handleDocumentsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "documents/{documentId}",
		Name:        "document-content",
		Description: "Staged content of a specific document",
		MIMEType:    "text/plain",
	}, s.handleDocumentContentResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "collections",
		Name:        "collections",
		Description: "Collections with their indexes",
		MIMEType:    "application/json",
	}, s.handleCollectionsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "collections/{collectionId}/documents",
		Name:        "collection-documents",
		Description: "Documents that belong to a specific collection",
		MIMEType:    "application/json",
	}, s.handleCollectionDocumentsResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "stats",
		Name:        "stats",
		Description: "Row counts per table",
		MIMEType:    "application/json",
	}, s.handleStatsResource)
}

func jsonResult(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

func (s *Server) handleDocumentsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	docs, err := s.ports.Documents.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	return jsonResult(req.Params.URI, toDocuments(docs))
}

// handleDocumentContentResource returns the staged bytes of a document.
// Binary content is served base64 encoded in Blob.
func (s *Server) handleDocumentContentResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	id, ok := extractDocumentID(req.Params.URI)
	if !ok {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	content, err := s.ports.Documents.Content(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, mcp.ResourceNotFoundError(req.Params.URI)
		}
		return nil, fmt.Errorf("reading document content: %w", err)
	}

	rc := &mcp.ResourceContents{URI: req.Params.URI}
	if utf8.Valid(content) {
		rc.MIMEType = "text/plain"
		rc.Text = string(content)
	} else {
		rc.MIMEType = "application/octet-stream"
		rc.Blob = content
	}
	return &mcp.ReadResourceResult{Contents: []*mcp.ResourceContents{rc}}, nil
}

func (s *Server) handleCollectionsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	list, err := s.ports.Collections.ListWithIndexes(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing collections: %w", err)
	}
	out := make([]CollectionOutput, len(list))
	for i, c := range list {
		out[i] = CollectionOutput{ID: c.ID, Name: c.Name, Indexes: orEmpty(c.Indexes)}
	}
	return jsonResult(req.Params.URI, out)
}

func (s *Server) handleCollectionDocumentsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	id, ok := extractCollectionID(req.Params.URI)
	if !ok {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	docs, err := s.ports.Documents.ListByCollection(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("listing collection documents: %w", err)
	}
	return jsonResult(req.Params.URI, toDocuments(docs))
}

func (s *Server) handleStatsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Stats == nil {
		return jsonResult(req.Params.URI, map[string]int64{})
	}
	stats, err := s.ports.Stats.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading stats: %w", err)
	}
	return jsonResult(req.Params.URI, stats)
}

// extractDocumentID extracts the id from docgraph://documents/{documentId}.
func extractDocumentID(uri string) (int64, bool) {
	const prefix = uriScheme + "documents/"
	if !strings.HasPrefix(uri, prefix) {
		return 0, false
	}
	return parseID(strings.TrimPrefix(uri, prefix))
}

// extractCollectionID extracts the id from
// docgraph://collections/{collectionId}/documents.
func extractCollectionID(uri string) (int64, bool) {
	const prefix = uriScheme + "collections/"
	const suffix = "/documents"
	if !strings.HasPrefix(uri, prefix) || !strings.HasSuffix(uri, suffix) {
		return 0, false
	}
	return parseID(strings.TrimSuffix(strings.TrimPrefix(uri, prefix), suffix))
}

func parseID(s string) (int64, bool) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
