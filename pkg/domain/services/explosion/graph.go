package explosion

import "github.com/altinkaya-opensource/odoo-addons/pkg/domain/entities"

// traversalGraph records template -> child template edges met during one
// explosion. It must not outlive the call that built it.
type traversalGraph struct {
	edges   map[entities.ProductTemplateID][]entities.ProductTemplateID
	seen    map[edge]struct{}
	visited map[entities.ProductTemplateID]bool
}

type edge struct {
	from, to entities.ProductTemplateID
}

func newTraversalGraph() *traversalGraph {
	return &traversalGraph{
		edges:   make(map[entities.ProductTemplateID][]entities.ProductTemplateID),
		seen:    make(map[edge]struct{}),
		visited: make(map[entities.ProductTemplateID]bool),
	}
}

func (g *traversalGraph) visit(id entities.ProductTemplateID) {
	g.visited[id] = true
}

func (g *traversalGraph) isVisited(id entities.ProductTemplateID) bool {
	return g.visited[id]
}

func (g *traversalGraph) addEdge(from, to entities.ProductTemplateID) {
	e := edge{from: from, to: to}
	if _, ok := g.seen[e]; ok {
		return
	}
	g.seen[e] = struct{}{}
	g.edges[from] = append(g.edges[from], to)
}

// findCycle runs a depth-first search from start and returns the first
// cycle reachable from it, closed on its first element, or nil.
func (g *traversalGraph) findCycle(start entities.ProductTemplateID) []entities.ProductTemplateID {
	visited := make(map[entities.ProductTemplateID]bool)
	onStack := make(map[entities.ProductTemplateID]bool)
	var path []entities.ProductTemplateID
	return g.dfs(start, visited, onStack, path)
}

func (g *traversalGraph) dfs(
	current entities.ProductTemplateID,
	visited map[entities.ProductTemplateID]bool,
	onStack map[entities.ProductTemplateID]bool,
	path []entities.ProductTemplateID,
) []entities.ProductTemplateID {
	visited[current] = true
	onStack[current] = true
	path = append(path, current)

	for _, child := range g.edges[current] {
		if !visited[child] {
			if cycle := g.dfs(child, visited, onStack, path); cycle != nil {
				return cycle
			}
			continue
		}
		if onStack[child] {
			for i, id := range path {
				if id == child {
					cycle := make([]entities.ProductTemplateID, 0, len(path)-i+1)
					cycle = append(cycle, path[i:]...)
					return append(cycle, child)
				}
			}
		}
	}

	onStack[current] = false
	return nil
}
