package domain

import (
	"sync/atomic"
	"time"
)

// PersonID is a handle to a person record owned by a FamilyGraph
type PersonID int

// NoPerson is the null handle
const NoPerson PersonID = 0

// lastID backs automatic ID assignment for NewPerson
var lastID atomic.Int64

func nextID() PersonID {
	return PersonID(lastID.Add(1))
}

// reserveID advances the allocator so that automatic IDs never reuse id
func reserveID(id PersonID) {
	for {
		cur := lastID.Load()
		if int64(id) <= cur || lastID.CompareAndSwap(cur, int64(id)) {
			return
		}
	}
}

// Lookup resolves handles to records
type Lookup interface {
	Person(id PersonID) (*Person, bool)
}

// Person is a single individual with handles to related records.
// Build records with NewPerson; a literal without an ID is rejected by
// FamilyGraph.Add.
type Person struct {
	ID     PersonID
	Name   string
	Birth  time.Time
	Death  *time.Time
	Gender Gender

	Parents  Relatives
	Children Relatives
	Siblings Relatives
	Partner  PersonID
}

// PersonOption configures a Person at construction
type PersonOption func(*Person)

// WithID assigns an explicit identifier
func WithID(id PersonID) PersonOption {
	return func(p *Person) {
		p.ID = id
	}
}

// WithDeath sets the day of death
func WithDeath(death time.Time) PersonOption {
	return func(p *Person) {
		p.SetDeath(death)
	}
}

// WithMother declares mother as a parent
func WithMother(mother *Person) PersonOption {
	return func(p *Person) {
		if mother != nil {
			p.AddMother(mother.ID)
		}
	}
}

// WithFather declares father as a parent
func WithFather(father *Person) PersonOption {
	return func(p *Person) {
		if father != nil {
			p.AddFather(father.ID)
		}
	}
}

// WithParents declares parents by handle
func WithParents(ids ...PersonID) PersonOption {
	return func(p *Person) {
		for _, id := range ids {
			p.Parents.Add(id)
		}
	}
}

// WithChildren declares children by handle
func WithChildren(ids ...PersonID) PersonOption {
	return func(p *Person) {
		for _, id := range ids {
			p.AddChild(id)
		}
	}
}

// WithPartner declares partner
func WithPartner(partner *Person) PersonOption {
	return func(p *Person) {
		if partner != nil {
			p.Partner = partner.ID
		}
	}
}

// WithPartnerID declares a partner by handle
func WithPartnerID(id PersonID) PersonOption {
	return func(p *Person) {
		p.Partner = id
	}
}

// NewPerson creates a person. Without WithID the record receives the next
// free identifier.
func NewPerson(name string, birth time.Time, gender Gender, opts ...PersonOption) *Person {
	p := &Person{
		Name:   name,
		Birth:  birth,
		Gender: gender,
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.ID == NoPerson {
		p.ID = nextID()
	} else {
		reserveID(p.ID)
	}
	return p
}

// AddChild adds a child handle; returns true if the set changed
func (p *Person) AddChild(id PersonID) bool {
	return p.Children.Add(id)
}

// AddMother adds a parent handle. No gender check is performed.
func (p *Person) AddMother(id PersonID) bool {
	return p.Parents.Add(id)
}

// AddFather adds a parent handle. No gender check is performed.
func (p *Person) AddFather(id PersonID) bool {
	return p.Parents.Add(id)
}

// AddSibling adds a sibling handle; returns true if the set changed
func (p *Person) AddSibling(id PersonID) bool {
	return p.Siblings.Add(id)
}

// SetName replaces the name
func (p *Person) SetName(name string) {
	p.Name = name
}

// SetBirth replaces the birth date
func (p *Person) SetBirth(birth time.Time) {
	p.Birth = birth
}

// SetGender replaces the gender
func (p *Person) SetGender(g Gender) {
	p.Gender = g
}

// SetPartner replaces the partner handle; NoPerson clears it
func (p *Person) SetPartner(id PersonID) {
	p.Partner = id
}

// HasPartner reports whether a partner is declared
func (p *Person) HasPartner() bool {
	return p.Partner != NoPerson
}

// SetDeath sets the day of death
func (p *Person) SetDeath(death time.Time) {
	p.Death = &death
}

// ClearDeath removes the day of death
func (p *Person) ClearDeath() {
	p.Death = nil
}

// Father returns the first registered parent that is male
func (p *Person) Father(l Lookup) *Person {
	return p.parentWithGender(l, GenderMale)
}

// Mother returns the first registered parent that is female
func (p *Person) Mother(l Lookup) *Person {
	return p.parentWithGender(l, GenderFemale)
}

func (p *Person) parentWithGender(l Lookup, g Gender) *Person {
	for _, id := range p.Parents.ids {
		parent, ok := l.Person(id)
		if ok && parent.Gender == g {
			return parent
		}
	}
	return nil
}

// Age returns whole years lived until death, or until today when alive
func (p *Person) Age(today time.Time) int {
	if p.Death != nil {
		return AgeOn(p.Birth, *p.Death)
	}
	return AgeOn(p.Birth, today)
}

// Equal reports whether both records describe the same individual:
// name, birth date, death date and gender must all match.
func (p *Person) Equal(other *Person) bool {
	if p == nil || other == nil {
		return p == other
	}
	if p == other {
		return true
	}
	if p.Name != other.Name || !p.Birth.Equal(other.Birth) || p.Gender != other.Gender {
		return false
	}
	if (p.Death == nil) != (other.Death == nil) {
		return false
	}
	return p.Death == nil || p.Death.Equal(*other.Death)
}

// HasSelfReference reports whether the record names itself as a relative
func (p *Person) HasSelfReference() bool {
	if p.ID == NoPerson {
		return false
	}
	return p.Partner == p.ID ||
		p.Parents.Contains(p.ID) ||
		p.Children.Contains(p.ID) ||
		p.Siblings.Contains(p.ID)
}
