package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const undefined = "undefined"

func writeReport(sb *strings.Builder, g *FamilyGraph, today time.Time) {
	fmt.Fprintf(sb, "In the tree: %d objects:\n\n", len(g.people))
	for _, p := range g.people {
		sb.WriteString(g.Info(p, today))
		sb.WriteString("\n\n")
	}
}

// Info renders one record's info block, resolving relatives through the graph
func (g *FamilyGraph) Info(p *Person, today time.Time) string {
	death := undefined
	if p.Death != nil {
		death = p.Death.Format(DateLayout)
	}

	lines := []string{
		"Name: " + p.Name,
		"Age: " + strconv.Itoa(p.Age(today)),
		"Partner: " + g.nameOf(p.Partner),
		"Gender: " + p.Gender.String(),
		"Birthday: " + p.Birth.Format(DateLayout),
		"Day of death: " + death,
		"Mother: " + personName(p.Mother(g)),
		"Father: " + personName(p.Father(g)),
		"Children: " + g.namesOf(p.Children),
		"Siblings: " + g.namesOf(p.Siblings),
	}
	return strings.Join(lines, "\n")
}

func personName(p *Person) string {
	if p == nil {
		return undefined
	}
	return p.Name
}

func (g *FamilyGraph) nameOf(id PersonID) string {
	if id == NoPerson {
		return undefined
	}
	if p, ok := g.Person(id); ok {
		return p.Name
	}
	return fmt.Sprintf("#%d", id)
}

func (g *FamilyGraph) namesOf(r Relatives) string {
	if r.Len() == 0 {
		return undefined
	}
	names := make([]string, 0, r.Len())
	for _, id := range r.ids {
		names = append(names, g.nameOf(id))
	}
	return strings.Join(names, ", ")
}
