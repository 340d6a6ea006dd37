package pose

import (
	"math"
	"sync"

	"github.com/coder/hnsw"
)

// Match is the reference pose closest to a measured angle set.
type Match struct {
	ID       ID      `json:"id"`
	Name     string  `json:"name"`
	Distance float64 `json:"distance"` // Euclidean distance over the eight angles, in degrees
}

// Index finds the reference pose nearest to a complete joint angle set.
// It is safe for concurrent use.
type Index struct {
	graph *hnsw.Graph[ID]
	mu    sync.RWMutex
}

// NewIndex builds an index over the reference table.
func NewIndex() *Index {
	g := hnsw.NewGraph[ID]()
	g.Distance = hnsw.EuclideanDistance

	for _, ref := range All() {
		vec, _ := angleVector(JointAngleSet(ref.Target))
		g.Add(hnsw.MakeNode(ref.ID, vec))
	}

	return &Index{graph: g}
}

// Nearest returns the closest reference pose. The second result is false when the
// angle set does not contain all eight joints.
func (x *Index) Nearest(angles JointAngleSet) (Match, bool) {
	vec, ok := angleVector(angles)
	if !ok {
		return Match{}, false
	}

	x.mu.RLock()
	neighbors := x.graph.Search(vec, 1)
	x.mu.RUnlock()

	if len(neighbors) == 0 {
		return Match{}, false
	}

	n := neighbors[0]
	return Match{
		ID:       n.Key,
		Name:     n.Key.String(),
		Distance: euclidean(vec, n.Value),
	}, true
}

// angleVector flattens an angle set in reference table order.
func angleVector(angles JointAngleSet) ([]float32, bool) {
	vec := make([]float32, len(Joints))
	for i, joint := range Joints {
		a, ok := angles[joint]
		if !ok {
			return nil, false
		}
		vec[i] = float32(a)
	}
	return vec, true
}

func euclidean(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}
