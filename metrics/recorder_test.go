package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRecorder(reg).(*recorder)

	r.ObserveEpisode(17, 136)
	r.ObserveUpdate(3.2, 2.9, 0.05, 0.67, true)
	r.ObserveUpdate(3.1, 2.8, 0.01, 1.0, false)
	r.ObserveEvaluation(1.0, 2000, true)

	require.Equal(t, 17.0, testutil.ToFloat64(r.episodeLength))
	require.Equal(t, 136.0, testutil.ToFloat64(r.bufferSize))
	require.Equal(t, 2.0, testutil.ToFloat64(r.updates), "Should count every update")
	require.Equal(t, 1.0, testutil.ToFloat64(r.earlyStops), "Should only count guarded updates")
	require.Equal(t, 3.1, testutil.ToFloat64(r.loss), "Gauges should hold the last value")
	require.Equal(t, 2000.0, testutil.ToFloat64(r.baselinePlayouts))
	require.Equal(t, 1.0, testutil.ToFloat64(r.escalations))

	count, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	require.Equal(t, 12, count, "Every metric should be registered")
}

func TestDummyRecorder(t *testing.T) {
	r := NewDummyRecorder()
	require.NotPanics(t, func() {
		r.ObserveEpisode(1, 1)
		r.ObserveUpdate(1, 1, 1, 1, true)
		r.ObserveEvaluation(1, 1, true)
	})
}
