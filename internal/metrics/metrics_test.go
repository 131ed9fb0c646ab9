package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveFragmentsIncrementsCounter(t *testing.T) {
	m := New(DefaultConfig())
	m.ObserveFragments(3)
	m.ObserveFragments(2)
	assert.Equal(t, float64(5), testutil.ToFloat64(m.fragmentsEmitted))
}

func TestObserveJumpCounters(t *testing.T) {
	m := New(DefaultConfig())
	m.ObserveJumpLinked()
	m.ObserveJumpLinked()
	m.ObserveJumpUnresolved()
	assert.Equal(t, float64(2), testutil.ToFloat64(m.jumpsLinked))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.jumpsUnresolved))
}

func TestObserveCacheResultLabelsByOutcome(t *testing.T) {
	m := New(DefaultConfig())
	m.ObserveCacheResult("hit", "sess-1")
	m.ObserveCacheResult("hit", "sess-1")
	m.ObserveCacheResult("miss", "sess-1")
	assert.Equal(t, float64(2), testutil.ToFloat64(m.cacheHits.WithLabelValues("hit", "sess-1")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.cacheHits.WithLabelValues("miss", "sess-1")))
}

func TestObserveDurationRecordsIntoHistogram(t *testing.T) {
	m := New(DefaultConfig())
	m.ObserveDuration("expand", 5*time.Millisecond, "sess-1")
	m.ObserveDuration("expand", 7*time.Millisecond, "sess-1")

	count, err := testutil.GatherAndCount(m.registry, "huffc_compile_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
