package grid

import (
	"slices"

	"github.com/google/uuid"
)

// PrimaryLine is one line of the grid. Its position in the grid's line list
// (the primary index) decides whether it is a main or a subsidiary line.
type PrimaryLine struct {
	UUID    string      `json:"uuid"`
	Visible bool        `json:"visible"`
	Active  bool        `json:"active"`
	Color   string      `json:"color,omitempty"`
	Points  []GridPoint `json:"points"`

	// subsidiary marks lines generated between two main lines. Builders
	// consult it while the line list is being restructured and the
	// positional rules do not hold yet.
	subsidiary bool
}

// FullLine is the full exported form of a primary line.
type FullLine = PrimaryLine

func newLine() *PrimaryLine {
	return &PrimaryLine{UUID: uuid.NewString(), Visible: true}
}

func newSubsidiaryLine() *PrimaryLine {
	l := newLine()
	l.subsidiary = true
	return l
}

// commonSlots returns the slots of l holding common points, in order.
func (l *PrimaryLine) commonSlots() []int {
	var out []int
	for j := range l.Points {
		if l.Points[j].IsCommonPoint {
			out = append(out, j)
		}
	}
	return out
}

func (l *PrimaryLine) clone() PrimaryLine {
	c := *l
	c.Points = make([]GridPoint, len(l.Points))
	for j, p := range l.Points {
		p.Adjacency = slices.Clone(p.Adjacency)
		c.Points[j] = p
	}
	return c
}
