package person

import (
	"slices"
	"strings"
)

// Search returns people whose name, aliases, ID or description contain
// query, case-insensitively. Name matches rank before alias matches, which
// rank before ID and description matches. Within a rank, repository order is
// kept. An empty query returns every person. A limit <= 0 means no limit.
func (r *Repository) Search(query string, limit int) []*Person {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		all := r.People()
		if limit > 0 && len(all) > limit {
			all = all[:limit]
		}
		return all
	}

	type hit struct {
		p    *Person
		rank int
	}
	var hits []hit
	for _, p := range r.People() {
		if rank, ok := matchRank(p, q); ok {
			hits = append(hits, hit{p, rank})
		}
	}
	slices.SortStableFunc(hits, func(a, b hit) int { return a.rank - b.rank })

	out := make([]*Person, 0, len(hits))
	for _, h := range hits {
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, h.p)
	}
	return out
}

func matchRank(p *Person, q string) (int, bool) {
	if strings.Contains(strings.ToLower(p.Name), q) {
		return 0, true
	}
	for _, a := range p.Aliases {
		if strings.Contains(strings.ToLower(a), q) {
			return 1, true
		}
	}
	if strings.ToLower(p.ID) == q {
		return 2, true
	}
	if strings.Contains(strings.ToLower(p.Description), q) {
		return 3, true
	}
	return 0, false
}
