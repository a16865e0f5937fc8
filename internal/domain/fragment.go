package domain

import (
	"errors"
	"fmt"
)

// ErrMissingName is returned when a fragment entry has no name
var ErrMissingName = errors.New("person has no name")

// PersonEntry is the flat, handle-based form of a person used for import and export
type PersonEntry struct {
	ID       PersonID   `json:"id" yaml:"id"`
	Name     string     `json:"name" yaml:"name"`
	Gender   string     `json:"gender" yaml:"gender"`
	Born     string     `json:"born" yaml:"born"`
	Died     string     `json:"died,omitempty" yaml:"died,omitempty"`
	Mother   PersonID   `json:"mother,omitempty" yaml:"mother,omitempty"`
	Father   PersonID   `json:"father,omitempty" yaml:"father,omitempty"`
	Partner  PersonID   `json:"partner,omitempty" yaml:"partner,omitempty"`
	Parents  []PersonID `json:"parents,omitempty" yaml:"parents,omitempty"`
	Children []PersonID `json:"children,omitempty" yaml:"children,omitempty"`
	Siblings []PersonID `json:"siblings,omitempty" yaml:"siblings,omitempty"`
}

// Fragment is a population for import/export operations
type Fragment struct {
	People    []PersonEntry `json:"people" yaml:"people"`
	Relations []Relation    `json:"relations,omitempty" yaml:"relations,omitempty"`
}

// NewFragment creates an empty fragment
func NewFragment() *Fragment {
	return &Fragment{
		People: make([]PersonEntry, 0),
	}
}

// AddPerson adds an entry to the fragment
func (f *Fragment) AddPerson(entry PersonEntry) {
	f.People = append(f.People, entry)
}

// Build converts entries to records. Entries without an ID receive one
// from the allocator; references between entries must use explicit IDs.
// Explicit IDs are reserved before any record is built so that an automatic
// ID never takes the ID of a later entry.
func (f *Fragment) Build() ([]*Person, error) {
	for _, entry := range f.People {
		if entry.ID != NoPerson {
			reserveID(entry.ID)
		}
	}

	people := make([]*Person, 0, len(f.People))
	for i, entry := range f.People {
		p, err := entry.Person()
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		people = append(people, p)
	}
	return people, nil
}

// Person converts the entry to a record
func (e PersonEntry) Person() (*Person, error) {
	if e.Name == "" {
		return nil, ErrMissingName
	}
	gender, err := ParseGender(e.Gender)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", e.Name, err)
	}
	birth, err := ParseDate(e.Born)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid birth date: %w", e.Name, err)
	}

	opts := []PersonOption{
		WithID(e.ID),
		WithParents(e.Mother, e.Father),
		WithParents(e.Parents...),
		WithChildren(e.Children...),
		WithPartnerID(e.Partner),
	}
	if e.Died != "" {
		death, err := ParseDate(e.Died)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid death date: %w", e.Name, err)
		}
		opts = append(opts, WithDeath(death))
	}

	p := NewPerson(e.Name, birth, gender, opts...)
	for _, id := range e.Siblings {
		p.AddSibling(id)
	}
	return p, nil
}

// Snapshot captures the population, including inferred relationships
func Snapshot(g *FamilyGraph) *Fragment {
	f := NewFragment()
	for _, p := range g.people {
		entry := PersonEntry{
			ID:       p.ID,
			Name:     p.Name,
			Gender:   string(p.Gender),
			Born:     p.Birth.Format(DateLayout),
			Partner:  p.Partner,
			Parents:  p.Parents.IDs(),
			Children: p.Children.IDs(),
			Siblings: p.Siblings.IDs(),
		}
		if p.Death != nil {
			entry.Died = p.Death.Format(DateLayout)
		}
		if m := p.Mother(g); m != nil {
			entry.Mother = m.ID
		}
		if fa := p.Father(g); fa != nil {
			entry.Father = fa.ID
		}
		f.AddPerson(entry)
	}
	f.Relations = g.Relations()
	return f
}
