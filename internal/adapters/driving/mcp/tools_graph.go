package mcp

import (
	"context"

	"github.com/samber/lo"

	"github.com/custodia-labs/docgraph/internal/core/domain"
)

// CreateCollectionInput is the input of create_collection.
type CreateCollectionInput struct {
	Name        string  `json:"name"`
	DocumentIDs []int64 `json:"document_ids,omitempty" jsonschema:"initial members"`
}

// RenameCollectionInput is the input of rename_collection.
type RenameCollectionInput struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// CollectionDocumentsInput changes the members of a collection.
type CollectionDocumentsInput struct {
	CollectionID int64   `json:"collection_id"`
	DocumentIDs  []int64 `json:"document_ids"`
}

// CollectionResult wraps an optional collection.
type CollectionResult struct {
	Found      bool              `json:"found"`
	Collection *CollectionOutput `json:"collection,omitempty"`
}

// CollectionsOutput lists collections.
type CollectionsOutput struct {
	Collections []CollectionOutput `json:"collections"`
	Count       int                `json:"count"`
}

// OKOutput acknowledges a mutation with no other result.
type OKOutput struct {
	OK bool `json:"ok"`
}

func collectionResult(c *domain.Collection) CollectionResult {
	if c == nil {
		return CollectionResult{}
	}
	return CollectionResult{Found: true, Collection: &CollectionOutput{ID: c.ID, Name: c.Name}}
}

func (s *Server) createCollection(ctx context.Context, in CreateCollectionInput) (CollectionResult, error) {
	c, err := s.ports.Collections.Create(ctx, in.Name, in.DocumentIDs)
	if err != nil {
		return CollectionResult{}, err
	}
	return collectionResult(c), nil
}

func (s *Server) getCollection(ctx context.Context, in IDInput) (CollectionResult, error) {
	c, err := s.ports.Collections.Get(ctx, in.ID)
	if err != nil {
		return CollectionResult{}, err
	}
	return collectionResult(c), nil
}

func (s *Server) listCollections(ctx context.Context, _ NoInput) (CollectionsOutput, error) {
	list, err := s.ports.Collections.List(ctx)
	if err != nil {
		return CollectionsOutput{}, err
	}
	out := lo.Map(list, func(c domain.Collection, _ int) CollectionOutput {
		return CollectionOutput{ID: c.ID, Name: c.Name}
	})
	return CollectionsOutput{Collections: out, Count: len(out)}, nil
}

func (s *Server) listCollectionsWithIndexes(ctx context.Context, _ NoInput) (CollectionsOutput, error) {
	list, err := s.ports.Collections.ListWithIndexes(ctx)
	if err != nil {
		return CollectionsOutput{}, err
	}
	out := lo.Map(list, func(c domain.CollectionWithIndexes, _ int) CollectionOutput {
		return CollectionOutput{ID: c.ID, Name: c.Name, Indexes: orEmpty(c.Indexes)}
	})
	return CollectionsOutput{Collections: out, Count: len(out)}, nil
}

func (s *Server) renameCollection(ctx context.Context, in RenameCollectionInput) (CollectionResult, error) {
	c, err := s.ports.Collections.Rename(ctx, in.ID, in.Name)
	if err != nil {
		return CollectionResult{}, err
	}
	return collectionResult(c), nil
}

func (s *Server) deleteCollection(ctx context.Context, in IDInput) (OKOutput, error) {
	if err := s.ports.Collections.Delete(ctx, in.ID); err != nil {
		return OKOutput{}, err
	}
	return OKOutput{OK: true}, nil
}

func (s *Server) addCollectionDocuments(ctx context.Context, in CollectionDocumentsInput) (OKOutput, error) {
	if err := s.ports.Collections.AddDocuments(ctx, in.CollectionID, in.DocumentIDs); err != nil {
		return OKOutput{}, err
	}
	return OKOutput{OK: true}, nil
}

func (s *Server) removeCollectionDocuments(ctx context.Context, in CollectionDocumentsInput) (CountOutput, error) {
	n, err := s.ports.Collections.RemoveDocuments(ctx, in.CollectionID, in.DocumentIDs)
	if err != nil {
		return CountOutput{}, err
	}
	return CountOutput{Count: n}, nil
}

func (s *Server) clearCollectionDocuments(ctx context.Context, in IDInput) (CountOutput, error) {
	n, err := s.ports.Collections.ClearDocuments(ctx, in.ID)
	if err != nil {
		return CountOutput{}, err
	}
	return CountOutput{Count: n}, nil
}

// CreateIndexProfileInput is the input of create_index_profile.
type CreateIndexProfileInput struct {
	Name               string            `json:"name"`
	Splitting          SplittingRefInput `json:"splitting"`
	EmbeddingsClientID int64             `json:"embeddings_client_id"`
	EmbeddingsConfigID int64             `json:"embeddings_config_id"`
	VectorDbClientID   int64             `json:"vector_db_client_id"`
	VectorDbConfigID   int64             `json:"vector_db_config_id"`
}

// IndexProfileResult wraps an optional profile.
type IndexProfileResult struct {
	Found   bool                 `json:"found"`
	Profile *domain.IndexProfile `json:"profile,omitempty"`
}

// IndexProfileDetailsResult wraps optional profile details.
type IndexProfileDetailsResult struct {
	Found   bool                       `json:"found"`
	Details *IndexProfileDetailsOutput `json:"details,omitempty"`
}

// IndexProfilesOutput lists profiles.
type IndexProfilesOutput struct {
	Profiles []domain.IndexProfile `json:"profiles"`
	Count    int                   `json:"count"`
}

func (s *Server) createIndexProfile(ctx context.Context, in CreateIndexProfileInput) (IndexProfileResult, error) {
	p, err := s.ports.Profiles.Create(ctx, domain.IndexProfileInput{
		Name:               in.Name,
		Splitting:          in.Splitting.ref(),
		EmbeddingsClientID: in.EmbeddingsClientID,
		EmbeddingsConfigID: in.EmbeddingsConfigID,
		VectorDbClientID:   in.VectorDbClientID,
		VectorDbConfigID:   in.VectorDbConfigID,
	})
	if err != nil {
		return IndexProfileResult{}, err
	}
	return IndexProfileResult{Found: true, Profile: p}, nil
}

func (s *Server) getIndexProfile(ctx context.Context, in IDInput) (IndexProfileResult, error) {
	p, err := s.ports.Profiles.Get(ctx, in.ID)
	if err != nil {
		return IndexProfileResult{}, err
	}
	return IndexProfileResult{Found: p != nil, Profile: p}, nil
}

func (s *Server) getIndexProfileDetails(ctx context.Context, in IDInput) (IndexProfileDetailsResult, error) {
	d, err := s.ports.Profiles.GetDetails(ctx, in.ID)
	if err != nil || d == nil {
		return IndexProfileDetailsResult{}, err
	}
	return IndexProfileDetailsResult{Found: true, Details: &IndexProfileDetailsOutput{
		Profile:          d.IndexProfile,
		Splitting:        d.Splitting,
		EmbeddingsClient: toRegistryEntry(d.EmbeddingsClient),
		EmbeddingsConfig: toRegistryEntry(d.EmbeddingsConfig),
		VectorDbClient:   toRegistryEntry(d.VectorDbClient),
		VectorDbConfig:   toRegistryEntry(d.VectorDbConfig),
	}}, nil
}

func (s *Server) listIndexProfiles(ctx context.Context, _ NoInput) (IndexProfilesOutput, error) {
	list, err := s.ports.Profiles.List(ctx)
	if err != nil {
		return IndexProfilesOutput{}, err
	}
	return IndexProfilesOutput{Profiles: orEmpty(list), Count: len(list)}, nil
}

// CreateCollectionIndexInput is the input of create_collection_index.
type CreateCollectionIndexInput struct {
	Name           string `json:"name"`
	CollectionID   int64  `json:"collection_id"`
	IndexProfileID int64  `json:"index_profile_id"`
}

// IndexIDInput selects one collection index.
type IndexIDInput struct {
	IndexID string `json:"index_id" jsonschema:"collection index id (a UUID)"`
}

// IndexIDsInput selects several collection indexes.
type IndexIDsInput struct {
	IndexIDs []string `json:"index_ids"`
}

// IndexDocumentsInput changes the indexed documents of an index.
type IndexDocumentsInput struct {
	IndexID     string  `json:"index_id"`
	DocumentIDs []int64 `json:"document_ids"`
}

// CollectionIndexResult wraps an optional collection index.
type CollectionIndexResult struct {
	Found bool                    `json:"found"`
	Index *domain.CollectionIndex `json:"index,omitempty"`
}

// CollectionIndexesOutput lists collection indexes.
type CollectionIndexesOutput struct {
	Indexes []domain.CollectionIndex `json:"indexes"`
	Count   int                      `json:"count"`
}

func (s *Server) createCollectionIndex(ctx context.Context, in CreateCollectionIndexInput) (CollectionIndexResult, error) {
	idx, err := s.ports.Indexes.Create(ctx, in.Name, in.CollectionID, in.IndexProfileID)
	if err != nil {
		return CollectionIndexResult{}, err
	}
	return CollectionIndexResult{Found: true, Index: idx}, nil
}

func (s *Server) getCollectionIndex(ctx context.Context, in IndexIDInput) (CollectionIndexResult, error) {
	idx, err := s.ports.Indexes.Get(ctx, in.IndexID)
	if err != nil {
		return CollectionIndexResult{}, err
	}
	return CollectionIndexResult{Found: idx != nil, Index: idx}, nil
}

func (s *Server) listCollectionIndexes(ctx context.Context, in CollectionIDInput) (CollectionIndexesOutput, error) {
	list, err := s.ports.Indexes.ListByCollection(ctx, in.CollectionID)
	if err != nil {
		return CollectionIndexesOutput{}, err
	}
	return CollectionIndexesOutput{Indexes: orEmpty(list), Count: len(list)}, nil
}

func (s *Server) deleteCollectionIndexes(ctx context.Context, in IndexIDsInput) (CountOutput, error) {
	n, err := s.ports.Indexes.Delete(ctx, in.IndexIDs)
	if err != nil {
		return CountOutput{}, err
	}
	return CountOutput{Count: n}, nil
}

func (s *Server) upsertIndexDocuments(ctx context.Context, in IndexDocumentsInput) (OKOutput, error) {
	if err := s.ports.Indexes.UpsertDocuments(ctx, in.IndexID, in.DocumentIDs); err != nil {
		return OKOutput{}, err
	}
	return OKOutput{OK: true}, nil
}

func (s *Server) removeIndexDocuments(ctx context.Context, in IndexDocumentsInput) (CountOutput, error) {
	n, err := s.ports.Indexes.RemoveDocuments(ctx, in.IndexID, in.DocumentIDs)
	if err != nil {
		return CountOutput{}, err
	}
	return CountOutput{Count: n}, nil
}

func (s *Server) indexSyncStatus(ctx context.Context, in IndexIDInput) (SyncStatusOutput, error) {
	st, err := s.ports.Indexes.SyncStatus(ctx, in.IndexID)
	if err != nil {
		return SyncStatusOutput{}, err
	}
	return SyncStatusOutput{
		IndexID:  st.IndexID,
		ToIndex:  toDocuments(st.ToIndex),
		ToDelete: orEmpty(st.ToDelete),
		All:      toDocuments(st.All),
		Clean:    st.Clean(),
	}, nil
}

// CreateSessionInput is the input of create_session.
type CreateSessionInput struct {
	Name    string `json:"name"`
	IndexID string `json:"index_id"`
	History string `json:"history,omitempty" jsonschema:"serialized transcript"`
}

// UpdateSessionInput is the input of update_session. Omitted fields are
// left untouched.
type UpdateSessionInput struct {
	ID      int64   `json:"id"`
	Name    *string `json:"name,omitempty"`
	History *string `json:"history,omitempty"`
}

// SessionResult wraps an optional session.
type SessionResult struct {
	Found   bool            `json:"found"`
	Session *domain.Session `json:"session,omitempty"`
}

// SessionsOutput lists sessions.
type SessionsOutput struct {
	Sessions []domain.Session `json:"sessions"`
	Count    int              `json:"count"`
}

func (s *Server) createSession(ctx context.Context, in CreateSessionInput) (SessionResult, error) {
	sess, err := s.ports.Sessions.Create(ctx, in.Name, in.IndexID, in.History)
	if err != nil {
		return SessionResult{}, err
	}
	return SessionResult{Found: true, Session: sess}, nil
}

func (s *Server) updateSession(ctx context.Context, in UpdateSessionInput) (SessionResult, error) {
	sess, err := s.ports.Sessions.Update(ctx, in.ID, domain.SessionUpdate{Name: in.Name, History: in.History})
	if err != nil {
		return SessionResult{}, err
	}
	return SessionResult{Found: sess != nil, Session: sess}, nil
}

func (s *Server) getSession(ctx context.Context, in IDInput) (SessionResult, error) {
	sess, err := s.ports.Sessions.Get(ctx, in.ID)
	if err != nil {
		return SessionResult{}, err
	}
	return SessionResult{Found: sess != nil, Session: sess}, nil
}

func (s *Server) listSessions(ctx context.Context, _ NoInput) (SessionsOutput, error) {
	list, err := s.ports.Sessions.List(ctx)
	if err != nil {
		return SessionsOutput{}, err
	}
	return SessionsOutput{Sessions: orEmpty(list), Count: len(list)}, nil
}

func (s *Server) listSessionsByIndex(ctx context.Context, in IndexIDInput) (SessionsOutput, error) {
	list, err := s.ports.Sessions.ListByIndex(ctx, in.IndexID)
	if err != nil {
		return SessionsOutput{}, err
	}
	return SessionsOutput{Sessions: orEmpty(list), Count: len(list)}, nil
}

func (s *Server) deleteSession(ctx context.Context, in IDInput) (OKOutput, error) {
	if err := s.ports.Sessions.Delete(ctx, in.ID); err != nil {
		return OKOutput{}, err
	}
	return OKOutput{OK: true}, nil
}

func (s *Server) deleteSessionsByIndexIDs(ctx context.Context, in IndexIDsInput) (CountOutput, error) {
	n, err := s.ports.Sessions.DeleteByIndexIDs(ctx, in.IndexIDs)
	if err != nil {
		return CountOutput{}, err
	}
	return CountOutput{Count: n}, nil
}

func (s *Server) registerGraphTools() {
	// Collections
	addTool(s, "create_collection", "Create a collection with optional initial documents", s.createCollection)
	addTool(s, "get_collection", "Get a collection by id", s.getCollection)
	addTool(s, "list_collections", "List collections", s.listCollections)
	addTool(s, "list_collections_with_indexes", "List collections together with their indexes", s.listCollectionsWithIndexes)
	addTool(s, "rename_collection", "Rename a collection", s.renameCollection)
	addTool(s, "delete_collection", "Delete a collection with its indexes and their sessions", s.deleteCollection)
	addTool(s, "add_documents_to_collection", "Add documents to a collection", s.addCollectionDocuments)
	addTool(s, "remove_documents_from_collection", "Remove documents from a collection", s.removeCollectionDocuments)
	addTool(s, "clear_collection_documents", "Remove every document from a collection", s.clearCollectionDocuments)

	// Index profiles
	addTool(s, "create_index_profile", "Create an index profile", s.createIndexProfile)
	addTool(s, "get_index_profile", "Get an index profile by id", s.getIndexProfile)
	addTool(s, "get_index_profile_details", "Get an index profile with its splitting and registry entries", s.getIndexProfileDetails)
	addTool(s, "list_index_profiles", "List index profiles", s.listIndexProfiles)

	// Collection indexes
	addTool(s, "create_collection_index", "Bind a collection to an index profile", s.createCollectionIndex)
	addTool(s, "get_collection_index", "Get a collection index with its indexed document ids", s.getCollectionIndex)
	addTool(s, "list_collection_indexes", "List the indexes of a collection", s.listCollectionIndexes)
	addTool(s, "delete_collection_indexes", "Delete collection indexes and their sessions", s.deleteCollectionIndexes)
	addTool(s, "upsert_documents_in_index", "Record documents as indexed", s.upsertIndexDocuments)
	addTool(s, "remove_documents_from_index", "Forget indexed documents", s.removeIndexDocuments)
	addTool(s, "index_sync_status", "Compare an index with its collection", s.indexSyncStatus)

	// Sessions
	addTool(s, "create_session", "Create a session on a collection index", s.createSession)
	addTool(s, "update_session", "Update a session's name or history", s.updateSession)
	addTool(s, "get_session", "Get a session by id", s.getSession)
	addTool(s, "list_sessions", "List sessions", s.listSessions)
	addTool(s, "list_sessions_by_index", "List the sessions of a collection index", s.listSessionsByIndex)
	addTool(s, "delete_session", "Delete a session", s.deleteSession)
	addTool(s, "delete_sessions_by_index_ids", "Delete the sessions of several collection indexes", s.deleteSessionsByIndexIDs)
}
