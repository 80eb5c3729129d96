package sweep

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/swarmsim/internal/swarm"
)

func smallParams() swarm.Params {
	p := swarm.DefaultParams()
	p.N = 10
	return p
}

func TestLinspace(t *testing.T) {
	assert.Equal(t, []float64{-1, -0.5, 0, 0.5, 1}, Linspace(-1, 1, 5))
	assert.Equal(t, []float64{3}, Linspace(3, 7, 1))
}

func TestSet(t *testing.T) {
	p := swarm.DefaultParams()
	require.NoError(t, Set(&p, "k", 1.5))
	require.NoError(t, Set(&p, "j", 0.25))
	assert.Equal(t, 1.5, p.K)
	assert.Equal(t, 0.25, p.J)

	assert.Error(t, Set(&p, "n", 3))
}

func TestPointsOrder(t *testing.T) {
	g := NewGridSearch(smallParams(), []Axis{
		{Name: "j", Values: []float64{0, 1}},
		{Name: "k", Values: []float64{-1, 0, 1}},
	}, 1, nil)

	pts := g.Points()
	require.Len(t, pts, 6)
	assert.Equal(t, map[string]float64{"j": 0, "k": -1}, pts[0])
	assert.Equal(t, map[string]float64{"j": 0, "k": 1}, pts[2])
	assert.Equal(t, map[string]float64{"j": 1, "k": -1}, pts[3])
}

func TestRun(t *testing.T) {
	g := NewGridSearch(smallParams(), []Axis{{Name: "k", Values: []float64{-1, 1}}}, 2, nil)

	pts, err := g.Run(context.Background(), 7, 5)
	require.NoError(t, err)
	require.Len(t, pts, 2)

	assert.Equal(t, -1.0, pts[0].Params["k"])
	assert.Equal(t, 1.0, pts[1].Params["k"])
	for _, pt := range pts {
		assert.Contains(t, pt.Metrics, "s_plus")
		assert.Contains(t, pt.Metrics, "phase_coherence")
	}

	again, err := g.Run(context.Background(), 7, 5)
	require.NoError(t, err)
	assert.Equal(t, pts, again)
}

func TestRunRejectsInvalidGrid(t *testing.T) {
	g := NewGridSearch(smallParams(), []Axis{{Name: "epsilon", Values: []float64{-1}}}, 1, nil)
	_, err := g.Run(context.Background(), 1, 1)
	assert.ErrorIs(t, err, swarm.ErrInvalidParams)

	g = NewGridSearch(smallParams(), []Axis{{Name: "bogus", Values: []float64{1}}}, 1, nil)
	_, err = g.Run(context.Background(), 1, 1)
	assert.Error(t, err)
}

func TestBest(t *testing.T) {
	pts := []Point{
		{Params: map[string]float64{"k": -1}, Metrics: map[string]float64{"s_plus": 0.2}},
		{Params: map[string]float64{"k": 0}, Metrics: map[string]float64{"s_plus": 0.9}},
		{Params: map[string]float64{"k": 1}, Metrics: map[string]float64{"s_plus": 0.5}},
	}

	best, ok := Best(pts, "s_plus", true)
	require.True(t, ok)
	assert.Equal(t, 0.0, best.Params["k"])

	worst, ok := Best(pts, "s_plus", false)
	require.True(t, ok)
	assert.Equal(t, -1.0, worst.Params["k"])

	_, ok = Best(pts, "missing", true)
	assert.False(t, ok)
}

func TestSeries(t *testing.T) {
	pts := []Point{
		{Params: map[string]float64{"j": 0, "k": 1}, Metrics: map[string]float64{"r": 0.4}},
		{Params: map[string]float64{"j": 1, "k": 1}, Metrics: map[string]float64{"r": 0.6}},
		{Params: map[string]float64{"j": 0, "k": -1}, Metrics: map[string]float64{"r": 0.1}},
	}

	xs, ys := Series(pts, "k", "r")
	assert.Equal(t, []float64{-1, 1}, xs)
	assert.InDeltaSlice(t, []float64{0.1, 0.5}, ys, 1e-12)
}
