package domain

// RegistryKind names one of the four configuration registries. All four share
// one shape: a name, a type tag and an opaque JSON object.
type RegistryKind string

// Available registries.
const (
	// RegistryEmbeddingsClients holds embeddings client definitions (tag: client type).
	RegistryEmbeddingsClients RegistryKind = "embeddings_client"

	// RegistryEmbeddingsConfigs holds embeddings model configs (tag: client type they apply to).
	RegistryEmbeddingsConfigs RegistryKind = "embeddings_config"

	// RegistryVectorDbClients holds vector store client definitions.
	RegistryVectorDbClients RegistryKind = "vector_db_client"

	// RegistryVectorDbConfigs holds vector store configs.
	RegistryVectorDbConfigs RegistryKind = "vector_db_config"
)

// AllRegistryKinds lists every registry in a stable order.
func AllRegistryKinds() []RegistryKind {
	return []RegistryKind{
		RegistryEmbeddingsClients,
		RegistryEmbeddingsConfigs,
		RegistryVectorDbClients,
		RegistryVectorDbConfigs,
	}
}

// IsValid returns true if the kind is recognised.
func (k RegistryKind) IsValid() bool {
	switch k {
	case RegistryEmbeddingsClients, RegistryEmbeddingsConfigs, RegistryVectorDbClients, RegistryVectorDbConfigs:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (k RegistryKind) String() string {
	return string(k)
}

// RegistryEntry is one row of a configuration registry.
type RegistryEntry struct {
	Kind RegistryKind `json:"kind"`
	ID   int64        `json:"id"`
	Name string       `json:"name"`

	// Type is the client type tag. For configs it names the client type the
	// config belongs to; there is no enforced reference between the two.
	Type string `json:"type"`

	// Meta is the parsed JSON payload. It is persisted as a string.
	Meta map[string]any `json:"meta"`
}

// RegistryInput is the writable part of a RegistryEntry.
type RegistryInput struct {
	Name string         `json:"name"`
	Type string         `json:"type"`
	Meta map[string]any `json:"meta,omitempty"`
}
