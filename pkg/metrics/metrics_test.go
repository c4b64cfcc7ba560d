package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	require.NotNil(t, r)
	assert.NotNil(t, r.RunsTotal)
	assert.NotNil(t, r.RunDuration)
	assert.NotNil(t, r.GetPrometheusRegistry())
}

func TestObserveLevelAndRun(t *testing.T) {
	r := NewRegistry()

	r.ObserveLevel(5, 2)
	r.ObserveLevel(1, 1)
	r.ObserveRun(StatusSuccess, 20*time.Millisecond, 2, 3, 0.42)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.LevelsTotal))
	assert.Equal(t, 3.0, testutil.ToFloat64(r.PassesTotal))
	assert.Equal(t, 6.0, testutil.ToFloat64(r.MovesTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.RunsTotal.WithLabelValues(StatusSuccess)))
	assert.Equal(t, 0.42, testutil.ToFloat64(r.LastModularity))
	assert.Equal(t, 3.0, testutil.ToFloat64(r.LastCommunities))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.LastLevels))

	r.ObserveRun(StatusError, time.Millisecond, 0, 0, 0)
	assert.Equal(t, 1.0, testutil.ToFloat64(r.RunsTotal.WithLabelValues(StatusError)))
	assert.Equal(t, 0.42, testutil.ToFloat64(r.LastModularity), "failed runs leave gauges alone")
}

func TestNilRegistry(t *testing.T) {
	var r *Registry
	r.ObserveLevel(1, 1)
	r.ObserveRun(StatusSuccess, time.Second, 1, 1, 0.5)
	assert.NoError(t, r.WriteTextfile(filepath.Join(t.TempDir(), "never.prom")))
}

func TestWriteTextfile(t *testing.T) {
	r := NewRegistry()
	r.ObserveRun(StatusSuccess, time.Millisecond, 1, 2, 0.3)

	path := filepath.Join(t.TempDir(), "louvain.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "louvain_runs_total")
	assert.Contains(t, string(data), "louvain_last_communities 2")
}
