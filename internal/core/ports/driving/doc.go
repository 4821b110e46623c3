// Package driving defines interfaces that external actors (MCP, CLI) use
// to interact with core services. These are the "driving" ports in hexagonal
// architecture terminology - they drive the application.
//
// Implementations of these interfaces live in internal/core/services.
//
// Lookups of a single row that may legitimately be absent return (nil, nil).
// Operations that require the row to exist, such as deleting or renaming a
// specific entity, return an error wrapping domain.ErrNotFound instead.
package driving
