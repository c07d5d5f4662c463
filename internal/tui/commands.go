package tui

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gridmesh/internal/geom"
	"gridmesh/internal/grid"
)

type command struct {
	name string
	args []float64
	// format of export
	format string
}

// commandArity holds the accepted argument counts of every command.
var commandArity = map[string][2]int{
	"spacing":   {1, 1},
	"angle":     {1, 1},
	"rotate":    {1, 1},
	"primary":   {1, 1},
	"secondary": {1, 1},
	"offset":    {2, 2},
	"place":     {2, 4},
	"refine":    {1, 1},
	"remove":    {0, 0},
	"copy":      {0, 0},
	"export":    {0, 1},
}

// parseCommand parses a command line such as "spacing 12" or "offset 10 40".
// refine takes on or off.
func parseCommand(line string) (command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return command{}, fmt.Errorf("empty command")
	}
	c := command{name: strings.ToLower(fields[0])}
	arity, ok := commandArity[c.name]
	if !ok {
		return command{}, fmt.Errorf("unknown command %q", fields[0])
	}
	args := fields[1:]
	if len(args) < arity[0] || len(args) > arity[1] {
		if arity[0] == arity[1] {
			return command{}, fmt.Errorf("%s takes %d arguments, got %d", c.name, arity[0], len(args))
		}
		return command{}, fmt.Errorf("%s takes %d to %d arguments, got %d", c.name, arity[0], arity[1], len(args))
	}
	// place takes an anchor and, optionally, both line counts.
	if c.name == "place" && len(args) == 3 {
		return command{}, fmt.Errorf("place takes 2 or 4 arguments, got 3")
	}
	for _, a := range args {
		if c.name == "export" {
			if strings.ToLower(a) != "json" {
				if _, err := geom.ParseFormat(a); err != nil {
					return command{}, fmt.Errorf("export: %w", err)
				}
			}
			c.format = strings.ToLower(a)
			continue
		}
		if c.name == "refine" {
			on, err := parseOnOff(a)
			if err != nil {
				return command{}, err
			}
			c.args = append(c.args, on)
			continue
		}
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return command{}, fmt.Errorf("%s: %q is not a number", c.name, a)
		}
		c.args = append(c.args, v)
	}
	var counts []float64
	switch c.name {
	case "primary", "secondary":
		counts = c.args
	case "place":
		counts = c.args[2:]
	}
	for _, v := range counts {
		if v != math.Trunc(v) {
			return command{}, fmt.Errorf("%s: line counts must be whole numbers", c.name)
		}
	}
	return c, nil
}

func parseOnOff(s string) (float64, error) {
	switch strings.ToLower(s) {
	case "on", "true", "1", "yes":
		return 1, nil
	case "off", "false", "0", "no":
		return 0, nil
	}
	return 0, fmt.Errorf("refine: want on or off, got %q", s)
}

func (m *Model) runCommand(line string) {
	c, err := parseCommand(line)
	if err != nil {
		m.status = err.Error()
		return
	}
	a := c.args
	switch c.name {
	case "spacing":
		m.edit("spacing", func(g *grid.Grid) error { return g.SetSpacing(a[0]) })
	case "angle":
		m.edit("angle", func(g *grid.Grid) error { return g.SetAngle(a[0]) })
	case "rotate":
		m.edit("rotate", func(g *grid.Grid) error { return g.Rotate(a[0]) })
	case "primary":
		m.edit("primary", func(g *grid.Grid) error {
			g.SetPrimaryLineCount(int(a[0]))
			return nil
		})
	case "secondary":
		m.edit("secondary", func(g *grid.Grid) error {
			g.SetSecondaryLineCount(int(a[0]))
			return nil
		})
	case "offset":
		m.edit("offset", func(g *grid.Grid) error { return g.SetOffset(grid.Pt(a[0], a[1]), false) })
	case "place":
		primary, secondary := m.cfg.PrimaryLines, m.cfg.SecondaryLines
		if len(a) == 4 {
			primary, secondary = int(a[2]), int(a[3])
		}
		m.edit("place", func(g *grid.Grid) error { return g.Place(grid.Pt(a[0], a[1]), primary, secondary) })
	case "refine":
		m.setRefinement(a[0] == 1)
	case "remove":
		m.removeGrid()
	case "copy":
		m.copyToAll()
	case "export":
		m.exportGrid(c.format)
	}
}
