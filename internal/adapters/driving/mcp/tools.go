package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// addTool registers fn as a tool. Errors are returned as tool errors
// prefixed with their kind.
func addTool[In, Out any](s *Server, name, description string, fn func(context.Context, In) (Out, error)) {
	mcp.AddTool(s.server, &mcp.Tool{Name: name, Description: description},
		func(ctx context.Context, _ *mcp.CallToolRequest, in In) (*mcp.CallToolResult, Out, error) {
			out, err := fn(ctx, in)
			if err != nil {
				var zero Out
				return nil, zero, s.fail(name, err)
			}
			return nil, out, nil
		})
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	// Codec
	addTool(s, "hash_text", "MD5 of a UTF-8 string, as lowercase hex", s.hashText)
	addTool(s, "hash_file", "MD5 of a local file, streamed", s.hashFile)

	// Splitting strategies
	addTool(s, "get_or_create_splitting", "Get or create the splitting strategy for a chunk size and overlap", s.getOrCreateSplitting)
	addTool(s, "resolve_splitting", "Resolve a splitting id-or-config reference to an id", s.resolveSplitting)
	addTool(s, "get_splitting", "Get a splitting strategy by id", s.getSplitting)
	addTool(s, "list_splittings", "List splitting strategies", s.listSplittings)

	// Documents
	addTool(s, "get_or_create_document", "Ingest a document, deduplicated by content hash", s.getOrCreateDocument)
	addTool(s, "add_documents", "Ingest several documents in order", s.addDocuments)
	addTool(s, "get_document", "Get a document by id", s.getDocument)
	addTool(s, "list_documents", "List all documents", s.listDocuments)
	addTool(s, "list_documents_by_collection", "List the documents of a collection", s.listDocumentsByCollection)

	// Chunks
	addTool(s, "create_chunks", "Store the chunks of a document under one splitting strategy", s.createChunks)
	addTool(s, "list_chunks", "List the chunks of a document under one splitting strategy", s.listChunks)
	addTool(s, "list_chunk_hashes", "List chunk hashes of several documents under one splitting strategy", s.listChunkHashes)
	addTool(s, "split_document", "Split a staged text document and store its chunks", s.splitDocument)

	// Embedding vectors
	addTool(s, "get_embedding_vector", "Get the cached vector for an embeddings config and chunk hash", s.getEmbeddingVector)
	addTool(s, "upsert_embedding_vector", "Store or replace one vector", s.upsertEmbeddingVector)
	addTool(s, "upsert_embedding_vectors", "Store or replace many vectors atomically", s.upsertEmbeddingVectors)
	addTool(s, "missing_embeddings", "List chunk hashes that have no vector under an embeddings config", s.missingEmbeddings)

	s.registerRegistryTools()
	s.registerGraphTools()
}
