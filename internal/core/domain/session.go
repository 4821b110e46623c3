package domain

// Session is one conversation against a CollectionIndex. History is an
// opaque serialized transcript owned by the caller.
type Session struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	IndexID string `json:"index_id"`
	History string `json:"history"`
}

// SessionUpdate changes a Session. Nil fields are left untouched.
type SessionUpdate struct {
	Name    *string `json:"name,omitempty"`
	History *string `json:"history,omitempty"`
}
