package domain

// EmbeddingVector is the vector stored for one (embeddings config, content hash)
// pair. Re-upserting the same key replaces Vector entirely.
type EmbeddingVector struct {
	EmbeddingsConfigID int64     `json:"embeddings_config_id"`
	MD5Hash            string    `json:"md5_hash"`
	Vector             []float32 `json:"vector"`
}

// EmbeddingVectorInput is one entry of an upsert. Either Vector holds the
// values, or Encoded holds them already serialized as big-endian float32s
// (for example, copied from another store). Encoded wins when both are set.
type EmbeddingVectorInput struct {
	EmbeddingsConfigID int64     `json:"embeddings_config_id"`
	MD5Hash            string    `json:"md5_hash"`
	Vector             []float32 `json:"vector,omitempty"`
	Encoded            []byte    `json:"encoded,omitempty"`
}
