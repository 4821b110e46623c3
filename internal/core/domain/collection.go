package domain

// Collection groups documents and binds them to index profiles.
type Collection struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// CollectionWithIndexes is a Collection together with its CollectionIndexes.
type CollectionWithIndexes struct {
	Collection
	Indexes []CollectionIndex `json:"indexes"`
}

// IndexProfile is one fully specified indexing pipeline configuration.
type IndexProfile struct {
	ID                 int64  `json:"id"`
	Name               string `json:"name"`
	SplittingID        int64  `json:"splitting_id"`
	EmbeddingsClientID int64  `json:"embeddings_client_id"`
	EmbeddingsConfigID int64  `json:"embeddings_config_id"`
	VectorDbClientID   int64  `json:"vector_db_client_id"`
	VectorDbConfigID   int64  `json:"vector_db_config_id"`
}

// IndexProfileInput creates an IndexProfile. The splitting may be given
// inline and is resolved through get-or-create.
type IndexProfileInput struct {
	Name               string       `json:"name"`
	Splitting          SplittingRef `json:"splitting"`
	EmbeddingsClientID int64        `json:"embeddings_client_id"`
	EmbeddingsConfigID int64        `json:"embeddings_config_id"`
	VectorDbClientID   int64        `json:"vector_db_client_id"`
	VectorDbConfigID   int64        `json:"vector_db_config_id"`
}

// IndexProfileDetails is an IndexProfile with every reference resolved.
type IndexProfileDetails struct {
	IndexProfile
	Splitting        Splitting     `json:"splitting"`
	EmbeddingsClient RegistryEntry `json:"embeddings_client"`
	EmbeddingsConfig RegistryEntry `json:"embeddings_config"`
	VectorDbClient   RegistryEntry `json:"vector_db_client"`
	VectorDbConfig   RegistryEntry `json:"vector_db_config"`
}

// CollectionIndex is the binding of one Collection to one IndexProfile.
type CollectionIndex struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	CollectionID   int64  `json:"collection_id"`
	IndexProfileID int64  `json:"index_profile_id"`

	// IndexedDocumentIDs lists the documents recorded as indexed under
	// this binding. Only populated by single-index reads.
	IndexedDocumentIDs []int64 `json:"indexed_document_ids,omitempty"`
}

// IndexSyncStatus compares a collection's members with what its index holds.
type IndexSyncStatus struct {
	IndexID string `json:"index_id"`

	// ToIndex are member documents not yet indexed.
	ToIndex []Document `json:"to_index"`

	// ToDelete are indexed document ids that are no longer members.
	ToDelete []int64 `json:"to_delete"`

	// All are the current member documents.
	All []Document `json:"all"`
}

// Clean reports whether the index already matches the collection.
func (s IndexSyncStatus) Clean() bool {
	return len(s.ToIndex) == 0 && len(s.ToDelete) == 0
}
