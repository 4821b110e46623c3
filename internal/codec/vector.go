package codec

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/custodia-labs/docgraph/internal/core/domain"
)

// EncodeVector packs values as big-endian float32s, 4 bytes each, in order.
func EncodeVector(values []float32) []byte {
	buf := make([]byte, len(values)*4)
	for i, f := range values {
		binary.BigEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// DecodeVector is the inverse of EncodeVector. It fails with domain.ErrFormat
// when len(data) is not a multiple of 4. Bit patterns, including NaN
// payloads, are preserved exactly.
func DecodeVector(data []byte) ([]float32, error) {
	if len(data)%4 != 0 {
		return nil, domain.E("decode", "embedding_vector", "", domain.ErrFormat,
			fmt.Errorf("payload length %d is not a multiple of 4", len(data)))
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.BigEndian.Uint32(data[i*4:]))
	}
	return floats, nil
}
