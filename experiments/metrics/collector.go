package metrics

import (
	"othello/game"
	"sync/atomic"
	"time"
)

type SearchMetric struct {
	Policy         string
	Depth          int // Configured depth, 0 for one-ply policies
	CompletedDepth int // Deepest fully searched depth
	Nodes          int
	Duration       time.Duration
}

type MoveMetric struct {
	Step   int
	Player game.Color
	Move   game.Move
	SearchMetric
}

type GameMetric struct {
	StartingPlayer game.Color
	Winner         string // "black", "white" or "draw"
	Black          int    // Final disc counts
	White          int
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
	TotalMoves     int
	Passes         int
}

type Collector interface {
	Start(policy string, depth int)
	AddNode()
	SetCompletedDepth(depth int)
	Complete() SearchMetric
}

type collector struct {
	policy         string
	depth          int
	startTime      time.Time
	nodes          atomic.Int64
	completedDepth atomic.Int32
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(policy string, depth int) {
	m.startTime = time.Now()
	m.policy = policy
	m.depth = depth
	m.nodes.Store(0)
	m.completedDepth.Store(0)
}

func (m *collector) AddNode() {
	m.nodes.Add(1)
}

func (m *collector) SetCompletedDepth(depth int) {
	m.completedDepth.Store(int32(depth))
}

func (m *collector) Complete() SearchMetric {
	return SearchMetric{
		Policy:         m.policy,
		Depth:          m.depth,
		CompletedDepth: int(m.completedDepth.Load()),
		Nodes:          int(m.nodes.Load()),
		Duration:       time.Since(m.startTime),
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(policy string, depth int) {}
func (m *dummyCollector) AddNode()                       {}
func (m *dummyCollector) SetCompletedDepth(depth int)    {}
func (m *dummyCollector) Complete() SearchMetric         { return SearchMetric{} }
