package person

import (
	"errors"
	"slices"
)

var (
	// ErrInvalidID is returned by [Validate] when a record has an empty ID.
	ErrInvalidID = errors.New("person ID must not be empty")

	// ErrDuplicateID is returned by [Validate] when two records share an ID.
	// [Index] itself keeps the first record and ignores later duplicates.
	ErrDuplicateID = errors.New("duplicate person ID")
)

// Repository is an indexed, read-only view over a flat person collection.
//
// Lookups by ID are O(1). The children index is built once by [Index] so
// that [Repository.ChildrenOf] is O(1) amortized as well. The zero value is
// an empty repository.
type Repository struct {
	people   []*Person
	byID     map[string]*Person
	children map[string][]*Person // parentID -> children in insertion order
}

// Index builds a Repository from people in O(n).
//
// Records with an empty ID are skipped. When several records share an ID,
// the first one wins. The input slice is copied, so later mutation of it
// does not affect the repository.
func Index(people []Person) *Repository {
	r := &Repository{
		people:   make([]*Person, 0, len(people)),
		byID:     make(map[string]*Person, len(people)),
		children: make(map[string][]*Person),
	}
	for i := range people {
		p := people[i]
		if p.ID == "" {
			continue
		}
		if _, exists := r.byID[p.ID]; exists {
			continue
		}
		p.Aliases = slices.Clone(p.Aliases)
		r.people = append(r.people, &p)
		r.byID[p.ID] = &p
	}
	for _, p := range r.people {
		if p.FatherID != "" {
			r.children[p.FatherID] = append(r.children[p.FatherID], p)
		}
		// Malformed data with both parents equal still lists the child once.
		if p.MotherID != "" && p.MotherID != p.FatherID {
			r.children[p.MotherID] = append(r.children[p.MotherID], p)
		}
	}
	return r
}

// Validate checks people for empty and duplicate identifiers.
// It does not check parent references; dangling parents are tolerated.
func Validate(people []Person) error {
	seen := make(map[string]struct{}, len(people))
	for _, p := range people {
		if p.ID == "" {
			return ErrInvalidID
		}
		if _, ok := seen[p.ID]; ok {
			return ErrDuplicateID
		}
		seen[p.ID] = struct{}{}
	}
	return nil
}

// ByID returns the person with the given ID and true, or nil and false.
func (r *Repository) ByID(id string) (*Person, bool) {
	if r == nil || id == "" {
		return nil, false
	}
	p, ok := r.byID[id]
	return p, ok
}

// Has reports whether a person with the given ID exists.
func (r *Repository) Has(id string) bool {
	_, ok := r.ByID(id)
	return ok
}

// ChildrenOf returns every person whose father or mother is id, in the
// order they appeared in the indexed collection. The returned slice must not
// be modified.
func (r *Repository) ChildrenOf(id string) []*Person {
	if r == nil {
		return nil
	}
	return r.children[id]
}

// Father returns the resolved father of the person with the given ID.
// A dangling father reference is reported as absent.
func (r *Repository) Father(id string) (*Person, bool) {
	p, ok := r.ByID(id)
	if !ok {
		return nil, false
	}
	return r.ByID(p.FatherID)
}

// Mother returns the resolved mother of the person with the given ID.
// A dangling mother reference is reported as absent.
func (r *Repository) Mother(id string) (*Person, bool) {
	p, ok := r.ByID(id)
	if !ok {
		return nil, false
	}
	return r.ByID(p.MotherID)
}

// People returns all records in insertion order. The returned slice is a
// copy; the records it points at are shared and must not be modified.
func (r *Repository) People() []*Person {
	if r == nil {
		return nil
	}
	return slices.Clone(r.people)
}

// Len returns the number of indexed people.
func (r *Repository) Len() int {
	if r == nil {
		return 0
	}
	return len(r.people)
}

// Reference is a parent link that does not resolve to an indexed person.
type Reference struct {
	PersonID string // Record holding the link
	Relation string // "father" or "mother"
	TargetID string // Unresolvable target
}

// Dangling lists parent references that point at unknown people.
// These are data-quality findings, not errors.
func (r *Repository) Dangling() []Reference {
	if r == nil {
		return nil
	}
	var refs []Reference
	for _, p := range r.people {
		if p.FatherID != "" && !r.Has(p.FatherID) {
			refs = append(refs, Reference{PersonID: p.ID, Relation: "father", TargetID: p.FatherID})
		}
		if p.MotherID != "" && !r.Has(p.MotherID) {
			refs = append(refs, Reference{PersonID: p.ID, Relation: "mother", TargetID: p.MotherID})
		}
	}
	return refs
}
