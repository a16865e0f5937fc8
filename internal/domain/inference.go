package domain

// inferencePass applies inference rules to a graph and tallies what changed
type inferencePass struct {
	g         *FamilyGraph
	changes   int
	conflicts []Conflict
}

func newInferencePass(g *FamilyGraph) *inferencePass {
	return &inferencePass{g: g}
}

func (ip *inferencePass) count(changed bool) {
	if changed {
		ip.changes++
	}
}

// link gives declared parents the child and declared children the parent
func (ip *inferencePass) link(r *Person) {
	for _, id := range r.Parents.ids {
		if parent, ok := ip.g.Person(id); ok && parent != r {
			ip.count(parent.AddChild(r.ID))
		}
	}

	for _, id := range r.Children.ids {
		child, ok := ip.g.Person(id)
		if !ok || child == r {
			continue
		}
		if r.Gender == GenderFemale {
			ip.count(child.AddMother(r.ID))
		} else {
			ip.count(child.AddFather(r.ID))
		}
	}
}

// pendingBackReferences completes links that records registered earlier
// declared towards r. It returns the records whose parent set involves r,
// since their mother or father may only now be resolvable.
func (ip *inferencePass) pendingBackReferences(r *Person) []*Person {
	var affected []*Person
	for _, q := range ip.g.people {
		if q == r {
			continue
		}
		if q.Parents.Contains(r.ID) {
			ip.count(r.AddChild(q.ID))
			affected = append(affected, q)
		}
		if q.Children.Contains(r.ID) {
			if q.Gender == GenderFemale {
				ip.count(r.AddMother(q.ID))
			} else {
				ip.count(r.AddFather(q.ID))
			}
		}
	}
	return affected
}

func (ip *inferencePass) partner(r *Person) {
	if ip.g.policy == PartnerRedirect {
		ip.redirectPartner(r)
		return
	}
	ip.reciprocalPartner(r)
}

// reciprocalPartner completes one-sided partner links without overwriting
func (ip *inferencePass) reciprocalPartner(r *Person) {
	if r.HasPartner() {
		if target, ok := ip.g.Person(r.Partner); ok && target != r {
			switch target.Partner {
			case NoPerson:
				target.SetPartner(r.ID)
				ip.changes++
			case r.ID:
			default:
				ip.conflict(Conflict{
					Kind:     ConflictPartner,
					Claimant: r.ID,
					Target:   target.ID,
					Existing: target.Partner,
				})
			}
		}
		ip.rejectClaims(r)
		return
	}

	for _, q := range ip.g.people {
		if q != r && q.Partner == r.ID {
			r.SetPartner(q.ID)
			ip.changes++
			break
		}
	}
	ip.rejectClaims(r)
}

// rejectClaims reports every record claiming r while r is partnered elsewhere
func (ip *inferencePass) rejectClaims(r *Person) {
	if !r.HasPartner() {
		return
	}
	for _, q := range ip.g.people {
		if q == r || q.Partner != r.ID || q.ID == r.Partner {
			continue
		}
		ip.conflict(Conflict{
			Kind:     ConflictPartner,
			Claimant: q.ID,
			Target:   r.ID,
			Existing: r.Partner,
		})
	}
}

// redirectPartner overwrites the declared partner's link to point at r,
// and adopts the last record claiming r when r has no partner.
func (ip *inferencePass) redirectPartner(r *Person) {
	if r.HasPartner() {
		for _, q := range ip.g.people {
			if q == r || !q.HasPartner() || q.ID != r.Partner {
				continue
			}
			if q.Partner != r.ID {
				q.SetPartner(r.ID)
				ip.changes++
			}
		}
		return
	}

	for _, q := range ip.g.people {
		if q == r || q.Partner != r.ID {
			continue
		}
		if r.Partner != q.ID {
			r.SetPartner(q.ID)
			ip.changes++
		}
	}
}

// siblings links r with every other record sharing its mother or father
func (ip *inferencePass) siblings(r *Person) {
	mother := r.Mother(ip.g)
	father := r.Father(ip.g)
	if mother == nil && father == nil {
		return
	}

	for _, o := range ip.g.people {
		if o == r || o.ID == r.ID || o.Equal(r) {
			continue
		}
		if sameParent(mother, o.Mother(ip.g)) || sameParent(father, o.Father(ip.g)) {
			ip.count(r.AddSibling(o.ID))
			ip.count(o.AddSibling(r.ID))
		}
	}
}

func sameParent(a, b *Person) bool {
	return a != nil && b != nil && a.ID == b.ID
}

func (ip *inferencePass) conflict(c Conflict) {
	ip.conflicts = append(ip.conflicts, c)
	for _, seen := range ip.g.conflicts {
		if seen == c {
			return
		}
	}
	ip.g.conflicts = append(ip.g.conflicts, c)
}
