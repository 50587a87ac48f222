// Package graph builds and queries per-candidate capability graphs: typed
// nodes and weighted directed edges rooted at a single Candidate node.
package graph

import "fmt"

// NodeType classifies graph nodes.
type NodeType string

// Node types.
const (
	NodeCandidate   NodeType = "Candidate"
	NodeProject     NodeType = "Project"
	NodeSkill       NodeType = "Skill"
	NodeTool        NodeType = "Tool"
	NodeExperience  NodeType = "Experience"
	NodeEducation   NodeType = "Education"
	NodePublication NodeType = "Publication"
	NodeAward       NodeType = "Award"
	NodeCompetency  NodeType = "Competency"
)

// Relation classifies graph edges.
type Relation string

// Edge relations.
const (
	RelHasProject     Relation = "HAS_PROJECT"
	RelDemonstrates   Relation = "DEMONSTRATES"
	RelUsesTool       Relation = "USES_TOOL"
	RelHasExperience  Relation = "HAS_EXPERIENCE"
	RelHasEducation   Relation = "HAS_EDUCATION"
	RelHasPublication Relation = "HAS_PUBLICATION"
	RelHasAward       Relation = "HAS_AWARD"
	RelRequires       Relation = "REQUIRES"
	RelOptional       Relation = "OPTIONAL"
	RelMapsTo         Relation = "MAPS_TO"
)

// Node is a typed graph node. Embedding is nil when the embedding backend
// was unavailable or the node type carries no descriptive text; such nodes
// stay in the graph but are excluded from similarity search.
type Node struct {
	ID            string
	Type          NodeType
	Attributes    map[string]any
	EmbeddingText string
	Embedding     []float32
}

// Edge is a directed, weighted edge. Weight is always within [0, 1].
type Edge struct {
	Source   string
	Target   string
	Relation Relation
	Weight   float64
}

// Key identifies an edge independently of any one graph build, so durable
// feedback multipliers can be re-applied to the next freshly built graph.
type Key struct {
	Source   string
	Target   string
	Relation Relation
}

// Key returns the edge's durable identity.
func (e *Edge) Key() Key {
	return Key{Source: e.Source, Target: e.Target, Relation: e.Relation}
}

// Adjustments maps edge keys to cumulative feedback multipliers.
type Adjustments map[Key]float64

// Graph owns the node and edge collections for exactly one candidate. It is
// rebuilt fresh from the candidate's current profile on each request and
// discarded afterwards; only feedback-adjusted multipliers persist.
type Graph struct {
	nodes map[string]*Node
	order []string
	edges []*Edge
	out   map[string][]*Edge
	in    map[string][]*Edge
	root  string
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[string]*Node),
		out:   make(map[string][]*Edge),
		in:    make(map[string][]*Edge),
	}
}

// AddNode inserts a node if its ID is not already present. The first
// Candidate node added becomes the root.
func (g *Graph) AddNode(n *Node) {
	if _, exists := g.nodes[n.ID]; exists {
		return
	}
	g.nodes[n.ID] = n
	g.order = append(g.order, n.ID)
	if n.Type == NodeCandidate && g.root == "" {
		g.root = n.ID
	}
}

// AddEdge inserts a directed edge, clamping its weight to [0, 1].
func (g *Graph) AddEdge(source, target string, relation Relation, weight float64) *Edge {
	e := &Edge{
		Source:   source,
		Target:   target,
		Relation: relation,
		Weight:   Clamp(weight),
	}
	g.edges = append(g.edges, e)
	g.out[source] = append(g.out[source], e)
	g.in[target] = append(g.in[target], e)
	return e
}

// Node returns the node with the given ID, or nil.
func (g *Graph) Node(id string) *Node {
	return g.nodes[id]
}

// Root returns the Candidate root node ID.
func (g *Graph) Root() string {
	return g.root
}

// Nodes returns all nodes in insertion order. Deterministic iteration keeps
// repeated scoring runs bit-identical.
func (g *Graph) Nodes() []*Node {
	nodes := make([]*Node, 0, len(g.order))
	for _, id := range g.order {
		nodes = append(nodes, g.nodes[id])
	}
	return nodes
}

// Edges returns all edges in insertion order.
func (g *Graph) Edges() []*Edge {
	return g.edges
}

// OutEdges returns the edges leaving a node.
func (g *Graph) OutEdges(id string) []*Edge {
	return g.out[id]
}

// InEdges returns the edges entering a node.
func (g *Graph) InEdges(id string) []*Edge {
	return g.in[id]
}

// EdgesToRoot returns every edge lying on some path from the Candidate root
// to the given node, walking incoming edges in reverse. This is the evidence
// path feedback adaptation mutates.
func (g *Graph) EdgesToRoot(id string) []*Edge {
	if g.root == "" || g.nodes[id] == nil {
		return nil
	}

	var path []*Edge
	seen := make(map[*Edge]bool)
	visited := map[string]bool{id: true}
	queue := []string{id}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if current == g.root {
			continue
		}
		for _, e := range g.in[current] {
			if !seen[e] {
				seen[e] = true
				path = append(path, e)
			}
			if !visited[e.Source] {
				visited[e.Source] = true
				queue = append(queue, e.Source)
			}
		}
	}
	return path
}

// NodeData is the JSON-serializable view of a node.
type NodeData struct {
	ID         string         `json:"id"`
	Type       NodeType       `json:"type"`
	Name       string         `json:"name,omitempty"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

// EdgeData is the JSON-serializable view of an edge.
type EdgeData struct {
	Source   string   `json:"source"`
	Target   string   `json:"target"`
	Relation Relation `json:"relation"`
	Weight   float64  `json:"weight"`
}

// GraphData is a JSON-serializable snapshot of the full graph.
type GraphData struct {
	Nodes []NodeData `json:"nodes"`
	Edges []EdgeData `json:"edges"`
}

// ExportData returns a JSON-serializable snapshot of nodes and edges.
func (g *Graph) ExportData() *GraphData {
	data := &GraphData{
		Nodes: make([]NodeData, 0, len(g.order)),
		Edges: make([]EdgeData, 0, len(g.edges)),
	}
	for _, n := range g.Nodes() {
		name, _ := n.Attributes["name"].(string)
		data.Nodes = append(data.Nodes, NodeData{
			ID:         n.ID,
			Type:       n.Type,
			Name:       name,
			Attributes: n.Attributes,
		})
	}
	for _, e := range g.edges {
		data.Edges = append(data.Edges, EdgeData{
			Source:   e.Source,
			Target:   e.Target,
			Relation: e.Relation,
			Weight:   e.Weight,
		})
	}
	return data
}

// Clamp bounds a weight to [0, 1]. Out-of-range weights are always clamped,
// never rejected.
func Clamp(w float64) float64 {
	if w < 0 {
		return 0
	}
	if w > 1 {
		return 1
	}
	return w
}

// NodeID builds the canonical node ID for an entity.
func NodeID(nodeType NodeType, entityID string) string {
	switch nodeType {
	case NodeCandidate:
		return fmt.Sprintf("candidate_%s", entityID)
	case NodeProject:
		return fmt.Sprintf("project_%s", entityID)
	case NodeSkill:
		return fmt.Sprintf("skill_%s", entityID)
	case NodeTool:
		return fmt.Sprintf("tool_%s", entityID)
	case NodeExperience:
		return fmt.Sprintf("experience_%s", entityID)
	case NodeEducation:
		return fmt.Sprintf("education_%s", entityID)
	case NodePublication:
		return fmt.Sprintf("publication_%s", entityID)
	case NodeAward:
		return fmt.Sprintf("award_%s", entityID)
	default:
		return fmt.Sprintf("node_%s", entityID)
	}
}
