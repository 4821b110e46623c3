// Package codec holds the two pure codecs the store is built on: the MD5
// content hash used as document and chunk identity, and the big-endian
// float32 packing used for stored embedding vectors.
package codec
