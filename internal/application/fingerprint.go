package application

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"golang.org/x/crypto/blake2b"

	"github.com/example/event-simulator/internal/scheduler"
)

// fingerprint returns a BLAKE2b-256 digest of the snapshot's wire form. Equal
// snapshots in equal record order produce equal fingerprints.
func fingerprint(raw scheduler.RawSnapshot) (string, error) {
	data, err := json.Marshal(raw)
	if err != nil {
		return "", fmt.Errorf("application: fingerprint snapshot: %w", err)
	}
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
