package domain

// Relatives is an insertion-ordered set of person handles.
// The zero value is an empty set ready to use.
type Relatives struct {
	ids []PersonID
}

// Add inserts id and reports whether the set changed
func (r *Relatives) Add(id PersonID) bool {
	if id == NoPerson || r.Contains(id) {
		return false
	}
	r.ids = append(r.ids, id)
	return true
}

// Contains reports whether id is in the set
func (r Relatives) Contains(id PersonID) bool {
	for _, existing := range r.ids {
		if existing == id {
			return true
		}
	}
	return false
}

// Len returns the number of handles in the set
func (r Relatives) Len() int {
	return len(r.ids)
}

// IDs returns a copy of the handles in insertion order, nil when empty
func (r Relatives) IDs() []PersonID {
	if len(r.ids) == 0 {
		return nil
	}
	out := make([]PersonID, len(r.ids))
	copy(out, r.ids)
	return out
}
