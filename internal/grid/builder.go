package grid

import "slices"

// The builders below extend the existing pattern: new common points repeat
// the last observed step vector, refinement points interpolate between
// common points. Main lines are addressed by ordinal (0 = first main line)
// because primary indices shift while subsidiary lines are inserted.

// addMainPrimaryLine inserts a main line at primary index atIndex and fills
// it with common points. The first main line of a grid is a straight column
// starting at anchor; every other one extrapolates from the two main lines
// preceding it.
func (g *Grid) addMainPrimaryLine(atIndex int, anchor *Point) {
	prev, prevprev := NotFound, NotFound
	for _, i := range g.structuralMains() {
		if i < atIndex {
			prevprev, prev = prev, i
		}
	}

	line := newLine()
	if prev == NotFound {
		if anchor == nil {
			panic("grid: anchor required for the first primary line")
		}
		n := MinLines
		if mains := g.structuralMains(); len(mains) > 0 {
			n = max(len(g.lines[mains[0]].commonSlots()), MinLines)
		}
		for j := range n {
			line.Points = append(line.Points, commonPoint(anchor.Add(Pt(0, g.spacing*float64(j)))))
		}
	} else {
		from := g.lines[prev]
		var before []int
		if prevprev != NotFound {
			before = g.lines[prevprev].commonSlots()
		}
		for j, slot := range from.commonSlots() {
			p := from.Points[slot].Pos()
			step := Pt(g.spacing, 0)
			if j < len(before) {
				step = p.Sub(g.lines[prevprev].Points[before[j]].Pos())
			}
			line.Points = append(line.Points, commonPoint(p.Add(step)))
		}
	}
	g.lines = slices.Insert(g.lines, atIndex, line)
}

// addSecondaryLine appends one common point to every main line, repeating
// the step between that line's last two common points.
func (g *Grid) addSecondaryLine() {
	for _, i := range g.structuralMains() {
		l := g.lines[i]
		slots := l.commonSlots()
		if len(slots) == 0 {
			continue
		}
		last := l.Points[slots[len(slots)-1]].Pos()
		step := Pt(0, g.spacing)
		if len(slots) >= 2 {
			step = last.Sub(l.Points[slots[len(slots)-2]].Pos())
		}
		l.Points = append(l.Points, commonPoint(last.Add(step)))
	}
}

// addSubsidiaryLinesBetween makes sure the Subdivision-1 subsidiary lines
// exist between every pair of adjacent main lines (m, m+1) with
// fromMain <= m < toMain, and sets their points by interpolating the
// bounding main lines slot by slot. Slots before the slot of common point
// fromCommon are left as they are.
func (g *Grid) addSubsidiaryLinesBetween(fromMain, toMain, fromCommon int) {
	mains := g.structuralMains()
	toMain = min(toMain, len(mains)-1)
	// Walk the pairs backwards so insertions never shift a pair still to do.
	for m := toMain - 1; m >= max(fromMain, 0); m-- {
		a, b := mains[m], mains[m+1]
		between := g.lines[a+1 : b]
		subs := make([]*PrimaryLine, Subdivision-1)
		for k := range subs {
			if k < len(between) && between[k].subsidiary {
				subs[k] = between[k]
			} else {
				subs[k] = newSubsidiaryLine()
			}
		}
		g.lines = slices.Replace(g.lines, a+1, b, subs...)

		from, to := g.lines[a], g.lines[a+Subdivision]
		start := 0
		if fromCommon > 0 {
			start = len(from.Points)
			if slots := from.commonSlots(); fromCommon < len(slots) {
				start = slots[fromCommon]
			}
		}
		n := min(len(from.Points), len(to.Points))
		for k, sub := range subs {
			t := float64(k+1) / Subdivision
			pts := sub.Points
			if len(pts) > n {
				pts = pts[:n]
			}
			for j := range n {
				p := refinementPoint(from.Points[j].Pos().Lerp(to.Points[j].Pos(), t))
				switch {
				case j >= len(pts):
					pts = append(pts, p)
				case j >= start:
					pts[j] = p
				}
			}
			sub.Points = pts
		}
	}
}

// addRefinementPoints regenerates the refinement points of every main line
// from ordinal fromMain on, between each pair of adjacent common points
// starting at common point fromCommon. Points up to and including that
// common point are kept.
func (g *Grid) addRefinementPoints(fromMain, fromCommon int) {
	mains := g.structuralMains()
	for _, i := range mains[min(max(fromMain, 0), len(mains)):] {
		l := g.lines[i]
		slots := l.commonSlots()
		if fromCommon >= len(slots) {
			continue
		}
		out := slices.Clone(l.Points[:slots[max(fromCommon, 0)]+1])
		for k := max(fromCommon, 0) + 1; k < len(slots); k++ {
			a, b := l.Points[slots[k-1]].Pos(), l.Points[slots[k]].Pos()
			for s := 1; s < Subdivision; s++ {
				out = append(out, refinementPoint(a.Lerp(b, float64(s)/Subdivision)))
			}
			out = append(out, l.Points[slots[k]])
		}
		l.Points = out
	}
}

// regenerateRefinement rebuilds every refinement point and subsidiary line
// from the common points.
func (g *Grid) regenerateRefinement() {
	g.addRefinementPoints(0, 0)
	g.addSubsidiaryLinesBetween(0, len(g.structuralMains())-1, 0)
}

// place builds a fresh grid of the given logical size at anchor.
func (g *Grid) place(anchor Point, primary, secondary int) {
	refine := g.refinement
	g.refinement = false
	g.addMainPrimaryLine(0, &anchor)
	for g.LogicalPrimaryLineCount() < max(primary, MinLines) {
		g.addMainPrimaryLine(len(g.lines), nil)
	}
	for g.LogicalSecondaryLineCount() < max(secondary, MinLines) {
		g.addSecondaryLine()
	}
	g.refinement = refine
	if refine {
		g.regenerateRefinement()
	}
}
