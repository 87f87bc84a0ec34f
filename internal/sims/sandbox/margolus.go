package sandbox

import (
	"sandfall/internal/core"
	pkgcore "sandfall/pkg/core"
)

// Block cell indices:
//
//	a b
//	c d
const (
	blkA = 0
	blkB = 1
	blkC = 2
	blkD = 3
)

// blockPhases cycles the 2x2 block alignment across generations to remove
// directional bias.
var blockPhases = [4][2]int{{0, 0}, {1, 1}, {0, 1}, {1, 0}}

// Per-rule salts fed into the symmetry-breaking hash so different rule
// families do not share coin flips.
const (
	saltTrio    = 0x74726f69
	saltTopple  = 0x746f706c
	saltSpread  = 0x73707264
	saltDensity = 0x64656e73
	saltStack   = 0x7374636b
)

// symmetryBias resolves mirror-image rule pairs. It is a pure function of the
// block position, the generation seed and a per-rule salt, so the same input
// configuration does not always break the same way while a generation stays
// reproducible.
func symmetryBias(bx, by int, seed, salt uint64) bool {
	return pkgcore.Coin(bx, by, seed^salt)
}

// stepMargolus advances the grid one generation at the given block phase.
// Every transition is a permutation of the four block cells, so the multiset
// of materials inside a block is preserved by construction.
func (w *World) stepMargolus(phase int, seed uint64) {
	copy(w.cellsNext, w.cellsCurr)

	ox := blockPhases[phase][0]
	oy := blockPhases[phase][1]
	blocksX := (w.w - ox) / 2
	blocksY := (w.h - oy) / 2
	if blocksX <= 0 || blocksY <= 0 {
		w.cellsCurr, w.cellsNext = w.cellsNext, w.cellsCurr
		return
	}

	core.ParallelRows(blocksY, w.workers, func(by int) {
		y := oy + by*2
		for bx := 0; bx < blocksX; bx++ {
			x := ox + bx*2
			w.applyBlock(x, y, bx, by, seed)
		}
	})

	w.cellsCurr, w.cellsNext = w.cellsNext, w.cellsCurr
}

// applyBlock evaluates the rule families in priority order for the block
// whose top-left cell is (x, y) and writes the outcome to the next buffer.
// Only the first matching family is applied.
func (w *World) applyBlock(x, y, bx, by int, seed uint64) {
	i0 := y*w.w + x
	i1 := i0 + 1
	i2 := i0 + w.w
	i3 := i2 + 1

	cells := [4]Cell{w.cellsCurr[i0], w.cellsCurr[i1], w.cellsCurr[i2], w.cellsCurr[i3]}

	for _, c := range cells {
		cat := c.Type.Category()
		if cat == CategoryStatic || cat == CategoryEntity {
			return
		}
	}

	perm, ok := w.blockTransition(cells, x, y, bx, by, seed)
	if !ok {
		return
	}

	w.cellsNext[i0] = cells[perm[blkA]]
	w.cellsNext[i1] = cells[perm[blkB]]
	w.cellsNext[i2] = cells[perm[blkC]]
	w.cellsNext[i3] = cells[perm[blkD]]
}

// blockTransition returns the permutation to apply to a mutable block, or
// ok=false when no rule matches. perm[dst] = src.
func (w *World) blockTransition(cells [4]Cell, x, y, bx, by int, seed uint64) ([4]int, bool) {
	empty := func(i int) bool { return cells[i].Type == MaterialEmpty }
	movable := func(i int) bool { return cells[i].Type.Movable() }
	liquid := func(i int) bool { return cells[i].Type.Category() == CategoryLiquid }
	gas := func(i int) bool { return cells[i].Type.Category() == CategoryGas }

	identity := [4]int{blkA, blkB, blkC, blkD}
	swap := func(i, j int) [4]int {
		p := identity
		p[i], p[j] = j, i
		return p
	}

	fallL := movable(blkA) && empty(blkC)
	fallR := movable(blkB) && empty(blkD)

	// Families 1+2: straight falls. Both columns falling is the same pair of
	// swaps, so the combined permutation covers both families.
	if fallL && fallR {
		return [4]int{blkC, blkD, blkA, blkB}, true
	}
	if fallL {
		return swap(blkA, blkC), true
	}
	if fallR {
		return swap(blkB, blkD), true
	}

	// Family 3: horizontal trio of movables rotates down into the single
	// bottom gap; randomized choice of which top cell descends.
	if movable(blkA) && movable(blkB) {
		if empty(blkD) && movable(blkC) {
			if symmetryBias(bx, by, seed, saltTrio) {
				return swap(blkB, blkD), true
			}
			return swap(blkA, blkD), true
		}
		if empty(blkC) && movable(blkD) {
			if symmetryBias(bx, by, seed, saltTrio) {
				return swap(blkA, blkC), true
			}
			return swap(blkB, blkC), true
		}
	}

	// Family 4: diagonal topple into an empty diagonal slot, randomized
	// between the two symmetric arrangements when both are available.
	diagL := movable(blkA) && !empty(blkC) && empty(blkD)
	diagR := movable(blkB) && !empty(blkD) && empty(blkC)
	if diagL && diagR {
		if symmetryBias(bx, by, seed, saltTrio^saltTopple) {
			diagR = false
		} else {
			diagL = false
		}
	}
	if diagL {
		return swap(blkA, blkD), true
	}
	if diagR {
		return swap(blkB, blkC), true
	}

	// Family 5 (deterministic completions of near-full blocks) is subsumed by
	// the fall and diagonal families above: every three-occupied block with a
	// forced resolution already matched one of them.

	// Family 6: probabilistic toppling of a vertical stack into an adjacent
	// empty-or-liquid column. Lower friction topples more readily. A failed
	// roll falls through to the remaining families.
	stackL := movable(blkA) && movable(blkC)
	stackR := movable(blkB) && movable(blkD)
	openR := (empty(blkB) || liquid(blkB)) && (empty(blkD) || liquid(blkD)) && (empty(blkB) || empty(blkD))
	openL := (empty(blkA) || liquid(blkA)) && (empty(blkC) || liquid(blkC)) && (empty(blkA) || empty(blkC))
	tryStack := func(top, bot, otherTop, otherBot int) ([4]int, bool) {
		avg := (w.table.Lookup(cells[top].Type).Friction + w.table.Lookup(cells[bot].Type).Friction) / 2
		hold := avg * w.cfg.Params.FrictionAmplifier
		if hold > 1 {
			hold = 1
		} else if hold < 0 {
			hold = 0
		}
		p := 1 - hold
		if pkgcore.Unit(bx, by, seed^saltStack) >= p {
			return identity, false
		}
		if empty(otherBot) {
			return swap(top, otherBot), true
		}
		if empty(otherTop) {
			return swap(top, otherTop), true
		}
		return swap(top, otherBot), true
	}
	if stackL && openR && stackR && openL {
		// Both columns are stacks over open mirrors; randomize which topples.
		if symmetryBias(bx, by, seed, saltTopple) {
			stackR = false
		} else {
			stackL = false
		}
	}
	if stackL && openR {
		if p, ok := tryStack(blkA, blkC, blkB, blkD); ok {
			return p, true
		}
	} else if stackR && openL {
		if p, ok := tryStack(blkB, blkD, blkA, blkC); ok {
			return p, true
		}
	}

	// Family 7: liquid lateral spread. A liquid with an empty horizontal
	// neighbor swaps sideways when both cells rest on support.
	spreadRow := func(l, r, yRow int) ([4]int, bool) {
		supL := w.cellAt(x+(l&1), yRow+1).Type != MaterialEmpty
		supR := w.cellAt(x+(r&1), yRow+1).Type != MaterialEmpty
		if !supL || !supR {
			return identity, false
		}
		lq := liquid(l) && empty(r)
		rq := liquid(r) && empty(l)
		if lq || rq {
			if pkgcore.Unit(bx, by, seed^saltSpread) < w.cfg.Params.LateralSpreadBoost {
				return swap(l, r), true
			}
		}
		return identity, false
	}
	if p, ok := spreadRow(blkC, blkD, y+1); ok {
		return p, true
	}
	if p, ok := spreadRow(blkA, blkB, y); ok {
		return p, true
	}

	// Family 8: buoyancy. Unlike-category vertical pairs swap when the upper
	// cell is effectively denser than the lower one.
	inverted := func(top, bot int) bool {
		if empty(top) || empty(bot) {
			return false
		}
		if cells[top].Type.Category() == cells[bot].Type.Category() {
			return false
		}
		up := w.table.EffectiveDensity(cells[top].Type, cells[top].Temp)
		down := w.table.EffectiveDensity(cells[bot].Type, cells[bot].Temp)
		return up > down
	}
	invL := inverted(blkA, blkC)
	invR := inverted(blkB, blkD)
	if invL && invR {
		return [4]int{blkC, blkD, blkA, blkB}, true
	}
	if invL {
		return swap(blkA, blkC), true
	}
	if invR {
		return swap(blkB, blkD), true
	}

	// Family 9: gases rise into empty cells above them.
	riseL := gas(blkC) && empty(blkA)
	riseR := gas(blkD) && empty(blkB)
	if riseL && riseR {
		return [4]int{blkC, blkD, blkA, blkB}, true
	}
	if riseL {
		return swap(blkA, blkC), true
	}
	if riseR {
		return swap(blkB, blkD), true
	}

	return identity, false
}

// cellAt reads the current generation with a solid boundary: out-of-bounds
// coordinates resolve to a bedrock cell at equilibrium temperature.
func (w *World) cellAt(x, y int) Cell {
	if x < 0 || x >= w.w || y < 0 || y >= w.h {
		return Cell{Type: MaterialBedrock, Temp: uint16(w.cfg.Params.EquilibriumTemp)}
	}
	return w.cellsCurr[y*w.w+x]
}
