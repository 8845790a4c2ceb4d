package storage

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/episim/internal/ode"
	"github.com/san-kum/episim/internal/sim"
)

func sampleTrajectory(t *testing.T) *sim.Trajectory {
	t.Helper()

	tr, err := sim.NewTrajectory(
		[]float64{0, 1, 2},
		[]ode.State{{990, 10, 0}, {970, 22, 8}, {940, 38, 22}},
	)
	require.NoError(t, err)
	return tr
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.Init())

	tr := sampleTrajectory(t)
	meta := RunMetadata{
		Beta:    0.3,
		Gamma:   0.1,
		Days:    2,
		Step:    1,
		RelTol:  1e-6,
		Summary: map[string]float64{"peak_day": 2, "peak_infected": 38},
	}

	runID, err := st.Save(meta, tr)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(runID, "sir_"))

	loaded, err := st.Load(runID)
	require.NoError(t, err)
	assert.Equal(t, runID, loaded.ID)
	assert.Equal(t, 0.3, loaded.Beta)
	assert.Equal(t, 38.0, loaded.Summary["peak_infected"])

	got, err := st.LoadTrajectory(runID)
	require.NoError(t, err)
	require.Equal(t, tr.Len(), got.Len())
	for i := 0; i < tr.Len(); i++ {
		assert.Equal(t, tr.Time(i), got.Time(i))
		assert.Equal(t, tr.State(i), got.State(i))
	}
}

func TestStore_List(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.Init())

	runs, err := st.List()
	require.NoError(t, err)
	assert.Empty(t, runs)

	_, err = st.Save(RunMetadata{Beta: 0.3, Gamma: 0.1}, sampleTrajectory(t))
	require.NoError(t, err)

	runs, err = st.List()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, 0.3, runs[0].Beta)
}

func TestStore_ListMissingDir(t *testing.T) {
	st := New(t.TempDir() + "/never-created")

	runs, err := st.List()
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestStore_LoadUnknownRun(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.Init())

	_, err := st.Load("sir_0")
	assert.Error(t, err)

	_, err = st.LoadTrajectory("sir_0")
	assert.Error(t, err)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleTrajectory(t)))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "time,susceptible,infected,recovered", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "0.000000,990.000000,10.000000,0.000000"))
}

func TestExportJSON(t *testing.T) {
	var buf bytes.Buffer
	meta := &RunMetadata{Beta: 0.3, Gamma: 0.1, Summary: map[string]float64{"r0": 3}}

	require.NoError(t, ExportJSON(&buf, meta, sampleTrajectory(t)))

	var data ExportData
	require.NoError(t, json.Unmarshal(buf.Bytes(), &data))
	assert.Equal(t, 0.3, data.Beta)
	assert.Equal(t, 3, data.Checkpoints)
	assert.Equal(t, []float64{10, 22, 38}, data.Infected)
	assert.Equal(t, 3.0, data.Summary["r0"])
}
