package domain

import (
	"crypto/sha256"
	"fmt"
)

// RelationKind is the type of a derived family relationship
type RelationKind string

const (
	RelationParent  RelationKind = "parent"
	RelationPartner RelationKind = "partner"
	RelationSibling RelationKind = "sibling"
)

// Symmetric reports whether the relation reads the same in both directions
func (k RelationKind) Symmetric() bool {
	return k == RelationPartner || k == RelationSibling
}

// Relation is an edge between two records. For parent relations FromID is
// the parent and ToID the child.
type Relation struct {
	ID     string       `json:"id" yaml:"id"`
	FromID PersonID     `json:"from_id" yaml:"from_id"`
	ToID   PersonID     `json:"to_id" yaml:"to_id"`
	Kind   RelationKind `json:"kind" yaml:"kind"`
}

// NewRelation creates a relation with a deterministic ID
func NewRelation(fromID, toID PersonID, kind RelationKind) Relation {
	rel := Relation{
		FromID: fromID,
		ToID:   toID,
		Kind:   kind,
	}
	rel.ID = rel.GenerateID()
	return rel
}

// GenerateID creates a deterministic ID from endpoints and kind.
// Endpoints of symmetric relations are normalized first.
func (r Relation) GenerateID() string {
	from, to := r.FromID, r.ToID
	if r.Kind.Symmetric() && from > to {
		from, to = to, from
	}

	key := fmt.Sprintf("%d-%d-%s", from, to, r.Kind)
	hash := sha256.Sum256([]byte(key))
	return fmt.Sprintf("%x", hash[:8])
}

// Relations derives the edge list of the population: one edge per
// parent/child pair and one per partner or sibling pair.
func (g *FamilyGraph) Relations() []Relation {
	var rels []Relation
	seen := make(map[string]bool)
	add := func(rel Relation) {
		if seen[rel.ID] {
			return
		}
		seen[rel.ID] = true
		rels = append(rels, rel)
	}

	for _, p := range g.people {
		for _, parent := range p.Parents.ids {
			add(NewRelation(parent, p.ID, RelationParent))
		}
		if p.HasPartner() {
			add(NewRelation(p.ID, p.Partner, RelationPartner))
		}
		for _, sib := range p.Siblings.ids {
			add(NewRelation(p.ID, sib, RelationSibling))
		}
	}
	return rels
}
