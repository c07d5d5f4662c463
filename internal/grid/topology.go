package grid

// IsMainLine reports whether the line at primary index i is a main line.
func (g *Grid) IsMainLine(i int) bool {
	if i < 0 || i >= len(g.lines) {
		return false
	}
	return !g.refinement || i%Subdivision == 0
}

// IsCommonPoint reports whether slot j of line i holds a common point.
// Subsidiary lines hold no common points.
func (g *Grid) IsCommonPoint(line, j int) bool {
	if !g.IsMainLine(line) {
		return false
	}
	if j < 0 || j >= len(g.lines[line].Points) {
		return false
	}
	return !g.refinement || j%Subdivision == 0
}

// TotalPrimaryLineCount counts main and subsidiary lines.
func (g *Grid) TotalPrimaryLineCount() int {
	return len(g.lines)
}

// LogicalPrimaryLineCount counts main lines.
func (g *Grid) LogicalPrimaryLineCount() int {
	n := 0
	for i := range g.lines {
		if g.IsMainLine(i) {
			n++
		}
	}
	return n
}

// TotalSecondaryLineCount counts the point slots per line.
func (g *Grid) TotalSecondaryLineCount() int {
	if len(g.lines) == 0 {
		return 0
	}
	return len(g.lines[0].Points)
}

// LogicalSecondaryLineCount counts the common points per main line.
func (g *Grid) LogicalSecondaryLineCount() int {
	if len(g.lines) == 0 {
		return 0
	}
	n := 0
	for j := range g.lines[0].Points {
		if g.IsCommonPoint(0, j) {
			n++
		}
	}
	return n
}

// NextMainLine returns the first main line after from, or NotFound.
func (g *Grid) NextMainLine(from int) int {
	for i := max(from+1, 0); i < len(g.lines); i++ {
		if g.IsMainLine(i) {
			return i
		}
	}
	return NotFound
}

// PreviousMainLine returns the last main line before from, or NotFound.
func (g *Grid) PreviousMainLine(from int) int {
	for i := min(from-1, len(g.lines)-1); i >= 0; i-- {
		if g.IsMainLine(i) {
			return i
		}
	}
	return NotFound
}

// NthCommonPoint returns the slot of the n-th (0-based) common point of the
// given line, or NotFound.
func (g *Grid) NthCommonPoint(line, n int) int {
	if line < 0 || line >= len(g.lines) || n < 0 {
		return NotFound
	}
	seen := 0
	for j := range g.lines[line].Points {
		if !g.IsCommonPoint(line, j) {
			continue
		}
		if seen == n {
			return j
		}
		seen++
	}
	return NotFound
}

// MainLines returns the primary indices of all main lines.
func (g *Grid) MainLines() []int {
	var out []int
	for i := g.NextMainLine(-1); i != NotFound; i = g.NextMainLine(i) {
		out = append(out, i)
	}
	return out
}

// structuralMains returns the indices of lines built as main lines. Unlike
// MainLines it stays correct while a builder has the line list in an
// intermediate shape.
func (g *Grid) structuralMains() []int {
	var out []int
	for i, l := range g.lines {
		if !l.subsidiary {
			out = append(out, i)
		}
	}
	return out
}
