package graph

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/matzehuels/lineage/pkg/person"
)

// NewSnapshot wraps people fetched from source at the given time.
func NewSnapshot(source string, people []person.Person, fetchedAt time.Time) Snapshot {
	if people == nil {
		people = []person.Person{}
	}
	return Snapshot{
		Version:   FormatVersion,
		Source:    source,
		FetchedAt: fetchedAt.UTC(),
		People:    people,
	}
}

// Repository indexes the snapshot's people.
func (s Snapshot) Repository() *person.Repository {
	return person.Index(s.People)
}

// Hash returns a hex SHA-256 over the people list. Two snapshots with the
// same people in the same order hash equally regardless of source or fetch
// time.
func (s Snapshot) Hash() string {
	h := sha256.New()
	enc := json.NewEncoder(h)
	for i := range s.People {
		_ = enc.Encode(&s.People[i])
	}
	return hex.EncodeToString(h.Sum(nil))
}

// MarshalSnapshot serializes a snapshot to pretty-printed JSON bytes.
func MarshalSnapshot(s Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteSnapshot(s, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalSnapshot deserializes a snapshot. A bare JSON array of people
// is accepted and yields a snapshot with only People set.
func UnmarshalSnapshot(data []byte) (Snapshot, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var people []person.Person
		if err := json.Unmarshal(trimmed, &people); err != nil {
			return Snapshot{}, fmt.Errorf("unmarshal people: %w", err)
		}
		return NewSnapshot("", people, time.Time{}), nil
	}

	var s Snapshot
	if err := json.Unmarshal(trimmed, &s); err != nil {
		return Snapshot{}, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if s.Version > FormatVersion {
		return Snapshot{}, fmt.Errorf("unsupported snapshot version %d", s.Version)
	}
	if s.Version == 0 {
		s.Version = FormatVersion
	}
	if s.People == nil {
		s.People = []person.Person{}
	}
	return s, nil
}

// WriteSnapshot writes a snapshot as indented JSON to w.
func WriteSnapshot(s Snapshot, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadSnapshot decodes a snapshot from r.
func ReadSnapshot(r io.Reader) (Snapshot, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Snapshot{}, fmt.Errorf("read: %w", err)
	}
	return UnmarshalSnapshot(data)
}

// WriteSnapshotFile writes a snapshot to a JSON file.
// The file is created with 0644 permissions.
func WriteSnapshotFile(s Snapshot, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteSnapshot(s, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadSnapshotFile reads a snapshot from a JSON file.
func ReadSnapshotFile(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalSnapshot(data)
}
