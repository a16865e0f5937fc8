package domain

import "fmt"

// AddStatus is the outcome of registering a record with a FamilyGraph
type AddStatus string

const (
	StatusInserted             AddStatus = "inserted"
	StatusDuplicateIgnored     AddStatus = "duplicate_ignored"
	StatusNullIgnored          AddStatus = "null_ignored"
	StatusMissingID            AddStatus = "missing_id"
	StatusInvalidSelfReference AddStatus = "invalid_self_reference"
	StatusIDConflict           AddStatus = "id_conflict"
)

// AddResult describes what Add did
type AddResult struct {
	Status AddStatus
	// Changes counts relationship insertions and partner assignments made by inference
	Changes   int
	Conflicts []Conflict
}

// Inserted reports whether the record joined the population
func (r AddResult) Inserted() bool {
	return r.Status == StatusInserted
}

// ConflictKind classifies a relationship the graph declined to apply
type ConflictKind string

const (
	// ConflictPartner means a partner claim would overwrite an existing, different partner
	ConflictPartner ConflictKind = "partner"
)

// Conflict records a claim that inference refused to apply
type Conflict struct {
	Kind ConflictKind `json:"kind"`
	// Claimant declared Target as its partner
	Claimant PersonID `json:"claimant"`
	Target   PersonID `json:"target"`
	// Existing is the partner Target already has
	Existing PersonID `json:"existing"`
}

func (c Conflict) String() string {
	return fmt.Sprintf("%s conflict: #%d claims #%d, already partnered with #%d",
		c.Kind, c.Claimant, c.Target, c.Existing)
}
