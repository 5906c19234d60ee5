package graph

import (
	"context"

	"github.com/matzehuels/lineage/pkg/person"
)

// FileSource serves people from a snapshot file on disk. The file is read
// on every fetch so edits are picked up by a refresh.
type FileSource struct {
	Path string
}

// NewFileSource returns a source reading path.
func NewFileSource(path string) *FileSource { return &FileSource{Path: path} }

// Name returns "file".
func (s *FileSource) Name() string { return "file" }

// FetchPeople reads and decodes the snapshot file. refresh is ignored.
func (s *FileSource) FetchPeople(ctx context.Context, _ bool) ([]person.Person, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	snap, err := ReadSnapshotFile(s.Path)
	if err != nil {
		return nil, err
	}
	return snap.People, nil
}

// StaticSource serves a fixed people list, for offline use and tests.
type StaticSource struct {
	Label  string
	People []person.Person
}

// Name returns the label, or "static".
func (s *StaticSource) Name() string {
	if s.Label != "" {
		return s.Label
	}
	return "static"
}

// FetchPeople returns a copy of the fixed list.
func (s *StaticSource) FetchPeople(ctx context.Context, _ bool) ([]person.Person, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]person.Person, len(s.People))
	copy(out, s.People)
	return out, nil
}
