package monitoring

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.IncAnalysis("fresh")
	m.IncAnalysis("fresh")
	m.IncAnalysis("cache_hit")
	m.IncDeepScan("exhausted")
	m.AddCompetitors(3)
	m.AddCompetitors(2)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.AnalysesTotal.WithLabelValues("fresh")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AnalysesTotal.WithLabelValues("cache_hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DeepScansTotal.WithLabelValues("exhausted")))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.CompetitorsAnalyzed))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncAnalysis("fresh")
		m.IncDeepScan("success")
		m.AddCompetitors(1)
	})
}
