package trace

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/swarmsim/internal/swarm"
)

func TestFromSnapshot(t *testing.T) {
	p := swarm.DefaultParams()
	p.N = 5
	e, err := swarm.New(12345, p)
	require.NoError(t, err)

	s := e.State()
	f := FromSnapshot(s)

	require.Equal(t, 5, f.Len())
	assert.Equal(t, s.Positions, f.Positions())
	assert.Equal(t, s.Phases, f.AgentsPhase)
	assert.Equal(t, [2]float64{s.HeroPosition.X, s.HeroPosition.Y}, f.Hero())
}

func TestReadFormat(t *testing.T) {
	in := `[
	  {"agents_pos": [[1.5, 2.5], [3, 4]], "agents_phase": [0.1, 0.2], "extra": true},
	  {"agents_pos": [[1.6, 2.6], [3.1, 4.1]], "agents_phase": [0.3, 0.4]}
	]`
	frames, err := Read(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, frames, 2)
	assert.Equal(t, [2]float64{1.5, 2.5}, frames[0].Hero())
	assert.Equal(t, []float64{0.3, 0.4}, frames[1].AgentsPhase)
}

func TestReadRejectsInconsistentFrames(t *testing.T) {
	tests := []struct {
		name string
		in   string
		err  error
	}{
		{
			"phase count",
			`[{"agents_pos": [[1, 2]], "agents_phase": [0.1, 0.2]}]`,
			ErrMalformedFrame,
		},
		{
			"agent count",
			`[{"agents_pos": [[1, 2]], "agents_phase": [0.1]},
			  {"agents_pos": [[1, 2], [3, 4]], "agents_phase": [0.1, 0.2]}]`,
			ErrAgentCount,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.in))
			assert.ErrorIs(t, err, tt.err)
		})
	}

	_, err := Read(strings.NewReader(`{"not": "an array"}`))
	assert.Error(t, err)
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.json")
	frames := []Frame{
		{AgentsPos: [][2]float64{{1, 2}, {3, 4}}, AgentsPhase: []float64{0.5, 1.5}},
		{AgentsPos: [][2]float64{{1.1, 2.1}, {3.1, 4.1}}, AgentsPhase: []float64{0.6, 1.6}},
	}

	require.NoError(t, Save(path, frames))
	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, frames, got)
}
