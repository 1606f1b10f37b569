package workflow_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/sigra-api/internal/domain/entity"
	"github.com/jhoicas/sigra-api/internal/domain/workflow"
)

func defaultEdges() []entity.StateTransition {
	return []entity.StateTransition{
		{FromState: 1, ToState: 2},
		{FromState: 2, ToState: 3},
		{FromState: 2, ToState: 1},
		{FromState: 3, ToState: 4},
		{FromState: 3, ToState: 2},
		{FromState: 4, ToState: 1},
	}
}

func TestGraph_Allows(t *testing.T) {
	g := workflow.NewGraph(defaultEdges())

	assert.True(t, g.Allows(1, 2))
	assert.True(t, g.Allows(4, 1), "un reporte cerrado se puede reabrir")
	assert.False(t, g.Allows(1, 4), "no se puede cerrar sin pasar por revisión")
	assert.False(t, g.Allows(1, 1), "sin arista reflexiva no hay transición")
	assert.False(t, g.Allows(99, 1), "estado desconocido")
}

func TestGraph_Next(t *testing.T) {
	g := workflow.NewGraph(defaultEdges())

	assert.Equal(t, []int{1, 3}, g.Next(2))
	assert.Equal(t, []int{}, g.Next(99))
}

func TestGraph_Vacio(t *testing.T) {
	g := workflow.NewGraph(nil)
	assert.False(t, g.Allows(1, 2))
}
