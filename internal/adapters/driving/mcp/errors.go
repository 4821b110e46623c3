// Package mcp exposes every docgraph operation as an MCP (Model Context
// Protocol) tool, over stdio or streamable HTTP.
package mcp

import (
	"errors"
	"fmt"

	"github.com/custodia-labs/docgraph/internal/core/domain"
	"github.com/custodia-labs/docgraph/internal/logger"
)

// ErrMissingService is returned when a required service is not provided.
var ErrMissingService = errors.New("mcp: required service is missing")

// fail tags err with its kind so clients can branch on it, and counts it.
func (s *Server) fail(op string, err error) error {
	kind := domain.KindName(err)
	s.ports.Metrics.OperationError(op, kind)
	logger.Debug("tool %s failed (%s): %v", op, kind, err)
	return fmt.Errorf("[%s] %w", kind, err)
}
