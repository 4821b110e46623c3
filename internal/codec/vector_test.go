package codec

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docgraph/internal/core/domain"
)

func TestEncodeVector_BigEndianLayout(t *testing.T) {
	got := EncodeVector([]float32{1.0, -2.5})
	assert.Equal(t, []byte{0x3f, 0x80, 0x00, 0x00, 0xc0, 0x20, 0x00, 0x00}, got)
	assert.Empty(t, EncodeVector(nil))
}

func TestVectorRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		values []float32
	}{
		{"empty", []float32{}},
		{"embedding", []float32{0.1, 0.2, 0.3}},
		{"extremes", []float32{math.MaxFloat32, -math.MaxFloat32, math.SmallestNonzeroFloat32, 0}},
		{"negative zero", []float32{float32(math.Copysign(0, -1))}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeVector(EncodeVector(tt.values))
			require.NoError(t, err)
			require.Len(t, got, len(tt.values))
			for i := range tt.values {
				assert.Equal(t, math.Float32bits(tt.values[i]), math.Float32bits(got[i]))
			}
		})
	}
}

func TestVectorRoundTrip_NaNAndInfBits(t *testing.T) {
	in := []float32{
		math.Float32frombits(0x7fc00001),
		float32(math.Inf(1)),
		float32(math.Inf(-1)),
	}
	got, err := DecodeVector(EncodeVector(in))
	require.NoError(t, err)
	for i := range in {
		assert.Equal(t, math.Float32bits(in[i]), math.Float32bits(got[i]))
	}
}

func TestDecodeVector_BadLength(t *testing.T) {
	for _, n := range []int{1, 2, 3, 5, 7, 13} {
		_, err := DecodeVector(make([]byte, n))
		assert.ErrorIs(t, err, domain.ErrFormat, "length %d", n)
	}
}
