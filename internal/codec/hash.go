package codec

import (
	"crypto/md5" //nolint:gosec // content identity only, not security
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"
	"io/fs"
	"os"
	"syscall"

	"github.com/custodia-labs/docgraph/internal/core/domain"
)

// BlockSize is the read size used when streaming input through the digest.
const BlockSize = 4 << 20

// HashLen is the length of a rendered digest.
const HashLen = md5.Size * 2

// HashBytes returns the lowercase hex MD5 of data.
func HashBytes(data []byte) string {
	sum := md5.Sum(data) //nolint:gosec // content identity only
	return hex.EncodeToString(sum[:])
}

// HashString returns the lowercase hex MD5 of s.
func HashString(s string) string {
	return HashBytes([]byte(s))
}

// HashStream digests r in BlockSize reads. The result equals HashBytes over
// the same content. Read errors are returned without a digest.
func HashStream(r io.Reader) (string, error) {
	h := md5.New() //nolint:gosec // content identity only
	buf := make([]byte, BlockSize)
	if _, err := io.CopyBuffer(h, r, buf); err != nil {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// HashFile digests the file at path.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return HashStream(f)
}

// Digest accumulates the MD5 of everything written to it, so content can
// be hashed while it is copied elsewhere.
type Digest struct {
	h hash.Hash
}

// NewDigest returns an empty digest.
func NewDigest() *Digest {
	return &Digest{h: md5.New()} //nolint:gosec // content identity only
}

func (d *Digest) Write(p []byte) (int, error) {
	return d.h.Write(p)
}

// String renders the digest of the bytes written so far.
func (d *Digest) String() string {
	return hex.EncodeToString(d.h.Sum(nil))
}

// FileError classifies a failure to read a caller-named file. A path that
// does not exist, is not readable or is a directory is bad input; any other
// I/O failure is a store error and may succeed on retry.
func FileError(op, path string, err error) error {
	kind := domain.ErrStore
	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) || errors.Is(err, syscall.EISDIR) {
		kind = domain.ErrInvalidInput
	}
	return domain.E(op, "file", "path="+path, kind, err)
}

// ValidateHash checks that s is a rendered digest: 32 lowercase hex characters.
func ValidateHash(s string) error {
	if len(s) != HashLen {
		return domain.E("validate", "hash", s, domain.ErrFormat,
			fmt.Errorf("expected %d hex characters, got %d", HashLen, len(s)))
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return domain.E("validate", "hash", s, domain.ErrFormat,
				fmt.Errorf("invalid character %q at offset %d", c, i))
		}
	}
	return nil
}
