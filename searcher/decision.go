package searcher

import (
	"math"
	"othello/game"
	"sync"
)

// decision is a tree node shared by the search goroutines. Its statistics are
// kept from the point of view of player, the color whose move led to it, so a
// parent simply maximizes over its children.
type decision struct {
	sync.Mutex
	parent   *decision
	player   game.Color
	moves    []game.Move
	children []*decision
	rewards  float64
	visits   float64
}

func newDecision(parent *decision, player game.Color, moves []game.Move) *decision {
	return &decision{
		parent:   parent,
		player:   player,
		moves:    moves,
		children: make([]*decision, 0, len(moves)),
	}
}

// selectOrExpand descends one level. selected is false when the node is
// terminal or a child was just added, which ends the descent.
func (d *decision) selectOrExpand(state game.GameState) (*decision, game.GameState, bool) {
	d.Lock()
	defer d.Unlock()

	if len(d.moves) == 0 { // Terminal node
		return d, state, false
	}

	if len(d.moves) > len(d.children) { // Expandable node
		move := d.moves[len(d.children)]
		next := mustPlay(state, move)
		child := newDecision(d, state.ToMove, treeMoves(next))
		d.children = append(d.children, child)
		child.applyLoss()
		return child, next, false
	}

	// Fully expanded node
	ith := d.pickChild()
	child := d.children[ith]
	child.applyLoss()
	return child, mustPlay(state, d.moves[ith]), true
}

func (d *decision) pickChild() int {
	// Children carry virtual losses, so their visits are never 0
	total := 0.0
	for _, child := range d.children {
		total += child.visitCount()
	}
	normalizer := C_SQUARED * math.Log(total)

	maxIndex := 0
	maxScore := math.Inf(-1)
	for i, child := range d.children {
		if score := child.score(normalizer); score > maxScore {
			maxScore = score
			maxIndex = i
		}
	}
	return maxIndex
}

// applyLoss counts an in-flight visit as a loss, steering other goroutines
// away until backup settles it.
func (d *decision) applyLoss() {
	d.Lock()
	defer d.Unlock()

	d.rewards += LOSS
	d.visits++
}

func (d *decision) reverseLoss() {
	d.rewards -= LOSS
	d.visits--
}

func (d *decision) score(normalizer float64) float64 {
	d.Lock()
	defer d.Unlock()

	return ucb1(d.rewards, d.visits, normalizer)
}

func (d *decision) visitCount() float64 {
	d.Lock()
	defer d.Unlock()

	return d.visits
}

func (d *decision) backup(reward rewarder) *decision {
	d.Lock()
	defer d.Unlock()

	if d.parent != nil { // Non-root node
		d.reverseLoss()
	}

	d.rewards += reward(d.player)
	d.visits++

	return d.parent
}

// bestMove returns the most visited move, the earliest one on ties.
func (d *decision) bestMove() game.Move {
	d.Lock()
	defer d.Unlock()

	if len(d.children) == 0 {
		panic("node has no children")
	}

	bestIndex := 0
	maxVisits := d.children[0].visitCount()
	for i, child := range d.children[1:] {
		if v := child.visitCount(); v > maxVisits {
			maxVisits = v
			bestIndex = i + 1
		}
	}
	return d.moves[bestIndex]
}
