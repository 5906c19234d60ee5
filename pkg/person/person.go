package person

// Person is a genealogical record produced by a data source.
//
// FatherID and MotherID are optional; an empty string means the parent is
// unknown. Dates use the partial ISO-8601 form served by Wikibase
// ("+1950-05-15T00:00:00Z", "1890", "-0044-03-15").
type Person struct {
	ID          string   `json:"id" bson:"id"`
	Name        string   `json:"name" bson:"name"`
	FatherID    string   `json:"father_id,omitempty" bson:"father_id,omitempty"`
	MotherID    string   `json:"mother_id,omitempty" bson:"mother_id,omitempty"`
	BirthDate   string   `json:"birth_date,omitempty" bson:"birth_date,omitempty"`
	DeathDate   string   `json:"death_date,omitempty" bson:"death_date,omitempty"`
	BirthOrder  string   `json:"birth_order,omitempty" bson:"birth_order,omitempty"`
	Occupation  string   `json:"occupation,omitempty" bson:"occupation,omitempty"`
	Residence   string   `json:"residence,omitempty" bson:"residence,omitempty"`
	Aliases     []string `json:"aliases,omitempty" bson:"aliases,omitempty"`
	Description string   `json:"description,omitempty" bson:"description,omitempty"`
	ImageValue  string   `json:"image,omitempty" bson:"image,omitempty"`           // Commons file name or URL
	WallPhoto   string   `json:"wall_photo,omitempty" bson:"wall_photo,omitempty"` // Secondary image value
	ItemURL     string   `json:"item_url,omitempty" bson:"item_url,omitempty"`     // Link to the source item page
}

// DisplayName returns the name if set, otherwise the ID.
func (p *Person) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return p.ID
}

// HasParent reports whether id is recorded as this person's father or mother.
func (p *Person) HasParent(id string) bool {
	return id != "" && (p.FatherID == id || p.MotherID == id)
}

// BirthYear returns the four-digit birth year, or "" if unknown.
func (p *Person) BirthYear() string { return ExtractYear(p.BirthDate) }

// DeathYear returns the four-digit death year, or "" if unknown.
func (p *Person) DeathYear() string { return ExtractYear(p.DeathDate) }
