package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/swarmsim/internal/schedule"
	"github.com/san-kum/swarmsim/internal/sim"
	"github.com/san-kum/swarmsim/internal/swarm"
)

func testResult(t *testing.T) (*sim.Result, swarm.Params) {
	t.Helper()
	p := swarm.DefaultParams()
	p.N = 4
	eng, err := swarm.New(42, p)
	require.NoError(t, err)

	sched := schedule.Schedule{{Action: swarm.NoOp, Frames: 1}, {Action: swarm.HoldBoth, Frames: 2}}
	result, err := sim.New(eng, nil).Run(context.Background(), sim.Config{Steps: 3, Schedule: sched})
	require.NoError(t, err)
	result.Metrics = map[string]float64{"phase_coherence": 0.75}
	return result, p
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.Init())

	result, p := testResult(t)
	runID, err := st.Save(RunMetadata{Name: "test", Seed: 42, Dt: p.Dt(), Params: p}, result)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(runID, "test_"), runID)

	meta, err := st.Load(runID)
	require.NoError(t, err)
	assert.Equal(t, runID, meta.ID)
	assert.Equal(t, "test", meta.Name)
	assert.Equal(t, int64(42), meta.Seed)
	assert.Equal(t, 3, meta.Steps)
	assert.Equal(t, p, meta.Params)
	assert.Equal(t, 0.75, meta.Metrics["phase_coherence"])

	frames, err := st.LoadTrace(runID)
	require.NoError(t, err)
	assert.Equal(t, result.Frames, frames)

	rows, err := st.LoadFrames(runID)
	require.NoError(t, err)
	require.Len(t, rows, 4*4)
	assert.Equal(t, FrameRow{
		Frame: 2, Action: int(swarm.HoldBoth), Agent: 3,
		X: frames[2].AgentsPos[3][0], Y: frames[2].AgentsPos[3][1], Phase: frames[2].AgentsPhase[3],
	}, rows[2*4+3])

	actions, err := st.LoadActions(runID)
	require.NoError(t, err)
	assert.Equal(t, result.Actions, actions)
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.Init())

	runs, err := st.List()
	require.NoError(t, err)
	assert.Empty(t, runs)

	result, p := testResult(t)
	first, err := st.Save(RunMetadata{Name: "a", Params: p}, result)
	require.NoError(t, err)
	second, err := st.Save(RunMetadata{Name: "a", Params: p}, result)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	runs, err = st.List()
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.ElementsMatch(t, []string{first, second}, []string{runs[0].ID, runs[1].ID})
	assert.False(t, runs[1].Timestamp.Before(runs[0].Timestamp))
}

func TestStoreListMissingDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "absent"))
	runs, err := st.List()
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)
	require.NoError(t, st.Init())

	result, p := testResult(t)
	runID, err := st.Save(RunMetadata{Params: p}, result)
	require.NoError(t, err)

	for _, name := range []string{"metadata.json", "trace.json", "frames.csv"} {
		_, err := os.Stat(filepath.Join(tmpDir, runID, name))
		assert.NoError(t, err, name)
	}

	data, err := os.ReadFile(filepath.Join(tmpDir, runID, "frames.csv"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "frame,action,agent,x,y,phase\n"))
}
