package domain

import (
	"strings"
	"time"
)

// PartnerPolicy selects how one-sided partner declarations are reconciled
type PartnerPolicy string

const (
	// PartnerReciprocal fills an unset reciprocal link and reports a
	// conflict instead of overwriting an existing partner.
	PartnerReciprocal PartnerPolicy = "reciprocal"
	// PartnerRedirect points the declared partner back at the new record
	// even when it already had another partner.
	PartnerRedirect PartnerPolicy = "redirect"
)

// Valid reports whether the policy is known
func (p PartnerPolicy) Valid() bool {
	return p == PartnerReciprocal || p == PartnerRedirect
}

// FamilyGraph owns the population and keeps derived relationships consistent.
// Records reference each other by handle; the graph resolves handles
// through its index. It is not safe for concurrent use.
type FamilyGraph struct {
	people    []*Person
	index     map[PersonID]int
	policy    PartnerPolicy
	clock     func() time.Time
	conflicts []Conflict
}

// GraphOption configures a FamilyGraph
type GraphOption func(*FamilyGraph)

// WithPartnerPolicy selects the partner reconciliation policy
func WithPartnerPolicy(policy PartnerPolicy) GraphOption {
	return func(g *FamilyGraph) {
		if policy.Valid() {
			g.policy = policy
		}
	}
}

// WithClock sets the source of the current date used for ages
func WithClock(clock func() time.Time) GraphOption {
	return func(g *FamilyGraph) {
		if clock != nil {
			g.clock = clock
		}
	}
}

// NewFamilyGraph creates an empty graph
func NewFamilyGraph(opts ...GraphOption) *FamilyGraph {
	g := &FamilyGraph{
		people: make([]*Person, 0),
		index:  make(map[PersonID]int),
		policy: PartnerReciprocal,
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// NewFamilyGraphFrom creates a graph and adds people in order
func NewFamilyGraphFrom(people []*Person, opts ...GraphOption) *FamilyGraph {
	g := NewFamilyGraph(opts...)
	for _, p := range people {
		g.Add(p)
	}
	return g
}

// Policy returns the partner policy in effect
func (g *FamilyGraph) Policy() PartnerPolicy {
	return g.policy
}

// Person resolves a handle
func (g *FamilyGraph) Person(id PersonID) (*Person, bool) {
	i, ok := g.index[id]
	if !ok {
		return nil, false
	}
	return g.people[i], true
}

// Len returns the population size
func (g *FamilyGraph) Len() int {
	return len(g.people)
}

// People returns the population in insertion order
func (g *FamilyGraph) People() []*Person {
	out := make([]*Person, len(g.people))
	copy(out, g.people)
	return out
}

// Father returns the father of the record with the given handle
func (g *FamilyGraph) Father(id PersonID) *Person {
	p, ok := g.Person(id)
	if !ok {
		return nil
	}
	return p.Father(g)
}

// Mother returns the mother of the record with the given handle
func (g *FamilyGraph) Mother(id PersonID) *Person {
	p, ok := g.Person(id)
	if !ok {
		return nil
	}
	return p.Mother(g)
}

// Conflicts returns every partner conflict observed so far
func (g *FamilyGraph) Conflicts() []Conflict {
	out := make([]Conflict, len(g.conflicts))
	copy(out, g.conflicts)
	return out
}

// Contains reports whether an equal record is registered
func (g *FamilyGraph) Contains(p *Person) bool {
	for _, existing := range g.people {
		if existing.Equal(p) {
			return true
		}
	}
	return false
}

// Add registers a record and completes implicit relationships.
// Invalid input is absorbed; the returned status says what happened.
func (g *FamilyGraph) Add(p *Person) AddResult {
	if p == nil {
		return AddResult{Status: StatusNullIgnored}
	}
	if p.ID == NoPerson {
		return AddResult{Status: StatusMissingID}
	}
	if g.Contains(p) {
		return AddResult{Status: StatusDuplicateIgnored}
	}
	if p.HasSelfReference() {
		return AddResult{Status: StatusInvalidSelfReference}
	}
	if _, taken := g.index[p.ID]; taken {
		return AddResult{Status: StatusIDConflict}
	}

	g.index[p.ID] = len(g.people)
	g.people = append(g.people, p)

	pass := newInferencePass(g)
	pass.link(p)
	for _, affected := range pass.pendingBackReferences(p) {
		pass.siblings(affected)
	}
	pass.partner(p)
	pass.siblings(p)

	return AddResult{
		Status:    StatusInserted,
		Changes:   pass.changes,
		Conflicts: pass.conflicts,
	}
}

// RederiveAll re-runs inference for every record in collection order and
// returns the number of relationship changes made. Links and partners are
// swept before siblings so one call reaches the fixed point.
func (g *FamilyGraph) RederiveAll() int {
	pass := newInferencePass(g)
	for _, p := range g.people {
		pass.partner(p)
		pass.link(p)
	}
	for _, p := range g.people {
		pass.siblings(p)
	}
	return pass.changes
}

// String renders the report using the graph clock
func (g *FamilyGraph) String() string {
	return g.Report(g.clock())
}

// Report renders a human-readable dump of the population
func (g *FamilyGraph) Report(today time.Time) string {
	var sb strings.Builder
	writeReport(&sb, g, today)
	return sb.String()
}
