// Package workflow modela el grafo de transiciones de estado de un reporte.
// El grafo se construye desde datos (tabla de transiciones), no desde código.
package workflow

import (
	"sort"

	"github.com/jhoicas/sigra-api/internal/domain/entity"
)

// Graph lista de adyacencia de estados permitidos.
type Graph struct {
	edges map[int]map[int]struct{}
}

// NewGraph construye el grafo a partir de las aristas persistidas.
func NewGraph(transitions []entity.StateTransition) *Graph {
	g := &Graph{edges: make(map[int]map[int]struct{}, len(transitions))}
	for _, t := range transitions {
		to, ok := g.edges[t.FromState]
		if !ok {
			to = make(map[int]struct{})
			g.edges[t.FromState] = to
		}
		to[t.ToState] = struct{}{}
	}
	return g
}

// Allows informa si existe la arista from -> to.
func (g *Graph) Allows(from, to int) bool {
	next, ok := g.edges[from]
	if !ok {
		return false
	}
	_, ok = next[to]
	return ok
}

// Next devuelve los estados alcanzables desde from, ordenados.
func (g *Graph) Next(from int) []int {
	next := g.edges[from]
	out := make([]int, 0, len(next))
	for s := range next {
		out = append(out, s)
	}
	sort.Ints(out)
	return out
}
