package manifest

import (
	"encoding/json"
	"fmt"

	"github.com/gowebpki/jcs"
	"github.com/zeebo/blake3"
)

// Hash computes the content hash recorded in a plan's manifest snapshot.
// The manifest's JSON form is canonicalized per RFC 8785 first so the hash
// is stable across key ordering and whitespace, then hashed with blake3.
func Hash(m *Manifest) (string, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("marshal manifest: %w", err)
	}

	canonical, err := jcs.Transform(data)
	if err != nil {
		return "", fmt.Errorf("canonicalize manifest: %w", err)
	}

	hasher := blake3.New()
	if _, err := hasher.Write(canonical); err != nil {
		return "", fmt.Errorf("hash manifest: %w", err)
	}

	return fmt.Sprintf("%x", hasher.Sum(nil)), nil
}
