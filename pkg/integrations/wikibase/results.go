package wikibase

import (
	"slices"
	"strings"

	"github.com/matzehuels/lineage/pkg/person"
)

type sparqlResponse struct {
	Head struct {
		Vars []string `json:"vars"`
	} `json:"head"`
	Results struct {
		Bindings []binding `json:"bindings"`
	} `json:"results"`
}

// binding is one result row keyed by variable name.
type binding map[string]struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

func (b binding) value(name string) string {
	return strings.TrimSpace(b[name].Value)
}

// entity returns the last path segment of a URI-valued variable.
func (b binding) entity(name string) string {
	return lastSegment(b.value(name))
}

func lastSegment(uri string) string {
	uri = strings.TrimRight(uri, "/")
	if i := strings.LastIndexByte(uri, '/'); i >= 0 {
		return uri[i+1:]
	}
	return uri
}

// groupPeople folds result rows into one record per entity, preserving the
// order in which entities first appear.
func groupPeople(rows []binding, itemBase string) []person.Person {
	people := []person.Person{}
	index := make(map[string]int)

	for _, row := range rows {
		id := row.entity("person")
		if id == "" {
			continue
		}
		i, seen := index[id]
		if !seen {
			name := row.value("personLabel")
			if name == "" || name == id {
				name = "Person " + id
			}
			people = append(people, person.Person{
				ID:          id,
				Name:        name,
				FatherID:    row.entity("father"),
				MotherID:    row.entity("mother"),
				BirthDate:   row.value("birthDate"),
				DeathDate:   row.value("deathDate"),
				BirthOrder:  row.value("birthOrder"),
				Residence:   row.value("residenceLabel"),
				Occupation:  row.value("occupationLabel"),
				Description: row.value("personDescription"),
				ImageValue:  row.value("image"),
				WallPhoto:   row.value("wallPhoto"),
				ItemURL:     itemBase + id,
			})
			i = len(people) - 1
			index[id] = i
		}
		if alias := row.value("alias"); alias != "" && !slices.Contains(people[i].Aliases, alias) {
			people[i].Aliases = append(people[i].Aliases, alias)
		}
	}
	return people
}
