package wikibase

import (
	"fmt"
	"strings"
)

// peopleQuery builds the SELECT for every instance of the person class.
// Each OPTIONAL block is emitted only when its property is configured.
func peopleQuery(cfg Config) string {
	p := cfg.Properties
	lang := cfg.Language

	var b strings.Builder
	writePrefixes(&b, cfg)
	b.WriteString("SELECT DISTINCT ?person ?personLabel ?personDescription\n")
	b.WriteString("       ?father ?mother ?birthDate ?deathDate ?birthOrder\n")
	b.WriteString("       ?residenceLabel ?occupationLabel ?image ?wallPhoto ?alias\n")
	b.WriteString("WHERE {\n")
	fmt.Fprintf(&b, "  ?person mwdt:%s mwd:%s .\n", p.InstanceOf, p.Person)

	optional(&b, p.Father, "?father")
	optional(&b, p.Mother, "?mother")
	optional(&b, p.BirthDate, "?birthDate")
	optional(&b, p.DeathDate, "?deathDate")
	optional(&b, p.BirthOrder, "?birthOrder")
	optional(&b, p.Image, "?image")
	optional(&b, p.WallPhoto, "?wallPhoto")
	labelled(&b, p.Residence, "residence", lang)
	labelled(&b, p.Occupation, "occupation", lang)

	fmt.Fprintf(&b, "  OPTIONAL { ?person schema:description ?personDescription . FILTER(LANG(?personDescription) = %q) }\n", lang)
	fmt.Fprintf(&b, "  OPTIONAL { ?person skos:altLabel ?alias . FILTER(LANG(?alias) = %q) }\n", lang)
	fmt.Fprintf(&b, "  SERVICE wikibase:label { bd:serviceParam wikibase:language %q. }\n", lang)
	b.WriteString("}\n")
	b.WriteString("ORDER BY ?personLabel\n")
	fmt.Fprintf(&b, "LIMIT %d\n", cfg.Limit)
	return b.String()
}

// pingQuery selects a single person.
func pingQuery(cfg Config) string {
	var b strings.Builder
	writePrefixes(&b, cfg)
	b.WriteString("SELECT ?person ?personLabel WHERE {\n")
	fmt.Fprintf(&b, "  ?person mwdt:%s mwd:%s .\n", cfg.Properties.InstanceOf, cfg.Properties.Person)
	fmt.Fprintf(&b, "  SERVICE wikibase:label { bd:serviceParam wikibase:language %q. }\n", cfg.Language)
	b.WriteString("} LIMIT 1\n")
	return b.String()
}

func writePrefixes(b *strings.Builder, cfg Config) {
	fmt.Fprintf(b, "PREFIX mwd: <%s>\n", cfg.EntityBase)
	fmt.Fprintf(b, "PREFIX mwdt: <%s>\n", cfg.PropBase)
	b.WriteString("PREFIX rdfs: <http://www.w3.org/2000/01/rdf-schema#>\n")
	b.WriteString("PREFIX schema: <http://schema.org/>\n")
	b.WriteString("PREFIX skos: <http://www.w3.org/2004/02/skos/core#>\n")
	b.WriteString("PREFIX wikibase: <http://wikiba.se/ontology#>\n")
	b.WriteString("PREFIX bd: <http://www.bigdata.com/rdf#>\n\n")
}

func optional(b *strings.Builder, prop, variable string) {
	if prop == "" {
		return
	}
	fmt.Fprintf(b, "  OPTIONAL { ?person mwdt:%s %s }\n", prop, variable)
}

// labelled emits an OPTIONAL that resolves an item-valued property to its
// label in lang, bound as ?<name>Label.
func labelled(b *strings.Builder, prop, name, lang string) {
	if prop == "" {
		return
	}
	fmt.Fprintf(b, "  OPTIONAL { ?person mwdt:%s ?%s . ?%s rdfs:label ?%sLabel . FILTER(LANG(?%sLabel) = %q) }\n",
		prop, name, name, name, name, lang)
}
