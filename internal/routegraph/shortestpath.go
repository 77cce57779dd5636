package routegraph

import (
	"container/heap"
	"math"
)

// ShortestPathIndex is a precomputed all-pairs minimum-weight table over a
// read-only Graph, built once at construction. V is expected to be in the
// hundreds to low thousands (stop counts of realistic bus networks), so one
// binary-heap Dijkstra run per source, O(E*log V) each and filling a dense
// O(V) row, is acceptable — O(V*E*log V) overall.
type ShortestPathIndex struct {
	graph *Graph
	// dist[s][v] is the minimum weight from s to v, or +Inf if unreachable.
	dist [][]float64
	// viaEdge[s][v] is the id of the last edge on the shortest s->v walk,
	// or -1 when v == s or v is unreachable.
	viaEdge [][]EdgeID
}

const noEdge EdgeID = -1

// BuildShortestPathIndex runs single-source Dijkstra from every vertex of
// graph and stores the resulting distance and predecessor tables.
func BuildShortestPathIndex(graph *Graph) *ShortestPathIndex {
	n := graph.VertexCount()
	idx := &ShortestPathIndex{
		graph:   graph,
		dist:    make([][]float64, n),
		viaEdge: make([][]EdgeID, n),
	}

	for s := 0; s < n; s++ {
		idx.dist[s], idx.viaEdge[s] = dijkstraFrom(graph, VertexID(s))
	}

	return idx
}

func dijkstraFrom(graph *Graph, source VertexID) ([]float64, []EdgeID) {
	n := graph.VertexCount()

	dist := make([]float64, n)
	via := make([]EdgeID, n)
	for v := 0; v < n; v++ {
		dist[v] = math.Inf(1)
		via[v] = noEdge
	}
	dist[source] = 0

	pq := &vertexHeap{{vertex: source, priority: 0}}
	heap.Init(pq)

	for pq.Len() > 0 {
		cur := heap.Pop(pq).(vertexEntry)
		if cur.priority > dist[cur.vertex] {
			continue // stale entry, a better path was already relaxed
		}

		for _, edgeID := range graph.Outgoing(cur.vertex) {
			edge := graph.Edge(edgeID)
			candidate := dist[cur.vertex] + edge.Weight
			if candidate < dist[edge.To] {
				dist[edge.To] = candidate
				via[edge.To] = edgeID
				heap.Push(pq, vertexEntry{vertex: edge.To, priority: candidate})
			}
		}
	}

	return dist, via
}

// Route returns the total weight and ordered edge ids of the minimum-weight
// walk from u to v, and true on success. from == to always succeeds with a
// zero-weight, empty walk. Returns false when no path exists.
func (idx *ShortestPathIndex) Route(u, v VertexID) (float64, []EdgeID, bool) {
	if u == v {
		return 0, nil, true
	}
	if math.IsInf(idx.dist[u][v], 1) {
		return 0, nil, false
	}

	var edges []EdgeID
	cur := v
	for cur != u {
		edgeID := idx.viaEdge[u][cur]
		edges = append(edges, edgeID)
		cur = idx.graph.Edge(edgeID).From
	}
	// edges were collected walking backward from v to u; reverse in place.
	for i, j := 0, len(edges)-1; i < j; i, j = i+1, j-1 {
		edges[i], edges[j] = edges[j], edges[i]
	}

	return idx.dist[u][v], edges, true
}

// vertexEntry is one item of the Dijkstra frontier.
type vertexEntry struct {
	vertex   VertexID
	priority float64
}

// vertexHeap implements heap.Interface, mirroring the shape of the
// teacher's internal/routing/astar.go PriorityQueue.
type vertexHeap []vertexEntry

func (h vertexHeap) Len() int            { return len(h) }
func (h vertexHeap) Less(i, j int) bool  { return h[i].priority < h[j].priority }
func (h vertexHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *vertexHeap) Push(x interface{}) { *h = append(*h, x.(vertexEntry)) }
func (h *vertexHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
