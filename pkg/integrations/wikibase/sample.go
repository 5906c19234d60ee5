package wikibase

import "github.com/matzehuels/lineage/pkg/person"

// SampleData returns a small fixed snapshot for offline use.
func SampleData() []person.Person {
	return []person.Person{
		{
			ID:          "Q1",
			Name:        "John Smith",
			BirthDate:   "+1950-05-15T00:00:00Z",
			DeathDate:   "+2020-03-10T00:00:00Z",
			Occupation:  "Engineer",
			Residence:   "London, England",
			Description: "Family patriarch",
			ItemURL:     defaultItemBase + "Q1",
			Aliases:     []string{"Johnny Smith"},
			BirthOrder:  "1",
		},
		{
			ID:          "Q2",
			Name:        "Jane Smith",
			BirthDate:   "+1955-08-20T00:00:00Z",
			Occupation:  "Teacher",
			Residence:   "London, England",
			Description: "Family matriarch",
			ItemURL:     defaultItemBase + "Q2",
			BirthOrder:  "2",
		},
	}
}
