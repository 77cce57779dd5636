// Package routegraph is a directed weighted multigraph keyed by integer
// vertex and edge ids assigned in insertion order, plus a precomputed
// all-pairs shortest-path index over it.
//
// Grounded on the original transport_router.h/.cpp's graph::
// DirectedWeightedGraph (dense vertex ids, edges appended in insertion
// order, per-vertex outgoing-edge enumeration) and on the teacher's
// (passbi_core) internal/routing/astar.go, whose container/heap
// PriorityQueue supplies the relaxation idiom reused by ShortestPathIndex.
package routegraph

// VertexID is a dense integer vertex identifier in [0, VertexCount).
type VertexID int

// EdgeID is an integer edge identifier assigned in insertion order.
type EdgeID int

// Edge is a directed, weighted connection between two vertices.
type Edge struct {
	From, To VertexID
	Weight   float64
}

// Graph is a directed weighted multigraph: several edges may connect the
// same ordered vertex pair.
type Graph struct {
	vertexCount int
	edges       []Edge
	outgoing    [][]EdgeID
}

// New returns an empty graph over vertexCount vertices.
func New(vertexCount int) *Graph {
	return &Graph{
		vertexCount: vertexCount,
		outgoing:    make([][]EdgeID, vertexCount),
	}
}

// VertexCount returns the number of vertices the graph was built with.
func (g *Graph) VertexCount() int { return g.vertexCount }

// AddEdge appends a new directed edge and returns its id.
func (g *Graph) AddEdge(from, to VertexID, weight float64) EdgeID {
	id := EdgeID(len(g.edges))
	g.edges = append(g.edges, Edge{From: from, To: to, Weight: weight})
	g.outgoing[from] = append(g.outgoing[from], id)
	return id
}

// Edge returns the endpoints and weight of edge id.
func (g *Graph) Edge(id EdgeID) Edge { return g.edges[id] }

// Outgoing returns the ids of edges leaving v, in insertion order.
func (g *Graph) Outgoing(v VertexID) []EdgeID { return g.outgoing[v] }
