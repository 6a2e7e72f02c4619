package index

import "math"

// EdgeThreshold is the minimum (strict) similarity for a graph edge.
const EdgeThreshold = 0.4

// Node is one page in the knowledge graph.
type Node struct {
	ID    string   `json:"id"`
	Label string   `json:"label"`
	Size  float64  `json:"size"`
	Tags  []string `json:"tags"`
}

// Edge links two pages whose similarity exceeds EdgeThreshold.
type Edge struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	Weight float64 `json:"weight"`
	Type   string  `json:"type"`
}

// Graph is derived from current page state on every request and never
// cached.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// NodeInput carries the page metadata a graph node is built from.
type NodeInput struct {
	ID            string
	Title         string
	ContentLength int
	Tags          []string
}

// BuildGraph assembles the knowledge graph: one node per page with size
// proportional to content length, and one edge per unordered pair above
// the threshold. Every page becomes a node regardless of edge count.
func BuildGraph(pages []NodeInput, pairs []Pair) Graph {
	g := Graph{Nodes: make([]Node, 0, len(pages)), Edges: []Edge{}}

	for _, p := range pages {
		tags := p.Tags
		if tags == nil {
			tags = []string{}
		}
		g.Nodes = append(g.Nodes, Node{
			ID:    p.ID,
			Label: p.Title,
			Size:  float64(p.ContentLength) / 100,
			Tags:  tags,
		})
	}

	for _, pr := range pairs {
		if pr.Score > EdgeThreshold {
			g.Edges = append(g.Edges, Edge{
				Source: pr.Source,
				Target: pr.Target,
				Weight: math.Round(pr.Score*100) / 100,
				Type:   "semantic",
			})
		}
	}
	return g
}
