package pipeline

import (
	"context"

	"github.com/matzehuels/lineage/pkg/graph"
	"github.com/matzehuels/lineage/pkg/person"
)

// DataSource supplies the flat people list.
//
// FetchPeople may be slow and may fail; callers treat a failure as a
// collaborator error, never as an empty result. If refresh is true, any
// source-side cache is bypassed.
type DataSource interface {
	Name() string
	FetchPeople(ctx context.Context, refresh bool) ([]person.Person, error)
}

// Data is an indexed snapshot ready for rendering. It is immutable once
// built and may be shared between goroutines.
type Data struct {
	Snapshot graph.Snapshot
	Repo     *person.Repository
	Hash     string
}

// NewData indexes snap and computes its content hash.
func NewData(snap graph.Snapshot) *Data {
	return &Data{
		Snapshot: snap,
		Repo:     snap.Repository(),
		Hash:     snap.Hash(),
	}
}

// Empty reports whether the snapshot holds no people.
func (d *Data) Empty() bool {
	return d == nil || d.Repo.Len() == 0
}
