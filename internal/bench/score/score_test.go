package score

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vecmark/vecmark/internal/bench/runner"
)

const delta = 1e-9

// Three records with a deliberate three-way trade-off: B wins recall,
// C wins latency and throughput, B builds fastest, A balances best.
func tradeoffRecords() []runner.Record {
	return []runner.Record{
		{IndexType: "IVF_FLAT", AvgRecall: 0.9, AvgLatency: 10, QPS: 1000, BuildTime: 5},
		{IndexType: "HNSW", AvgRecall: 0.95, AvgLatency: 20, QPS: 500, BuildTime: 2},
		{IndexType: "IVF_SQ8", AvgRecall: 0.5, AvgLatency: 5, QPS: 2000, BuildTime: 10},
	}
}

func TestAnalyze_Normalization(t *testing.T) {
	a := Analyze(tradeoffRecords())
	require.Len(t, a.Scored, 3)

	wantNorms := []struct {
		recall, latency, qps, build float64
	}{
		{0.9 / 0.95, 0.5, 0.5, 0.5},
		{1.0, 0.0, 0.25, 0.8},
		{0.5 / 0.95, 0.75, 1.0, 0.0},
	}
	for i, want := range wantNorms {
		got := a.Scored[i]
		assert.InDelta(t, want.recall, got.NormRecall, delta, "record %d recall", i)
		assert.InDelta(t, want.latency, got.NormLatency, delta, "record %d latency", i)
		assert.InDelta(t, want.qps, got.NormQPS, delta, "record %d qps", i)
		assert.InDelta(t, want.build, got.NormBuild, delta, "record %d build", i)
	}
}

func TestAnalyze_Composite(t *testing.T) {
	a := Analyze(tradeoffRecords())
	require.Len(t, a.Scored, 3)

	assert.InDelta(t, 0.4*(0.9/0.95)+0.3*0.5+0.2*0.5+0.1*0.5, a.Scored[0].Composite, delta)
	assert.InDelta(t, 0.4*1.0+0.3*0.0+0.2*0.25+0.1*0.8, a.Scored[1].Composite, delta)
	assert.InDelta(t, 0.4*(0.5/0.95)+0.3*0.75+0.2*1.0+0.1*0.0, a.Scored[2].Composite, delta)
}

func TestAnalyze_BestSelections(t *testing.T) {
	a := Analyze(tradeoffRecords())

	require.NotNil(t, a.BestRecall)
	assert.Equal(t, "HNSW", a.BestRecall.IndexType)
	assert.Equal(t, "IVF_SQ8", a.BestLatency.IndexType)
	assert.Equal(t, "IVF_SQ8", a.BestQPS.IndexType)
	assert.Equal(t, "HNSW", a.FastestBuild.IndexType)
	assert.Equal(t, "IVF_FLAT", a.BestOverall.IndexType)
}

func TestAnalyze_ByComposite(t *testing.T) {
	ranked := Analyze(tradeoffRecords()).ByComposite()
	require.Len(t, ranked, 3)

	assert.Equal(t, "IVF_FLAT", ranked[0].IndexType)
	assert.Equal(t, "IVF_SQ8", ranked[1].IndexType)
	assert.Equal(t, "HNSW", ranked[2].IndexType)
}

func TestAnalyze_OrderInvariant(t *testing.T) {
	records := tradeoffRecords()
	reversed := []runner.Record{records[2], records[1], records[0]}

	scoreOf := func(a *Analysis, indexType string) float64 {
		for _, s := range a.Scored {
			if s.IndexType == indexType {
				return s.Composite
			}
		}
		t.Fatalf("no scored record for %s", indexType)
		return 0
	}

	forward := Analyze(records)
	backward := Analyze(reversed)
	for _, name := range []string{"IVF_FLAT", "HNSW", "IVF_SQ8"} {
		assert.InDelta(t, scoreOf(forward, name), scoreOf(backward, name), delta, name)
	}
}

func TestAnalyze_MaximaScoreOne(t *testing.T) {
	a := Analyze(tradeoffRecords())

	assert.InDelta(t, 1.0, a.BestRecall.NormRecall, delta)
	assert.InDelta(t, 1.0, a.BestLatency.NormLatency, delta)
	assert.InDelta(t, 1.0, a.BestQPS.NormQPS, delta)
	assert.InDelta(t, 1.0, a.FastestBuild.NormBuild, delta)
}

func TestAnalyze_NormsStayInUnitRange(t *testing.T) {
	a := Analyze(tradeoffRecords())

	for _, s := range a.Scored {
		for name, v := range map[string]float64{
			"norm_recall":  s.NormRecall,
			"norm_latency": s.NormLatency,
			"norm_qps":     s.NormQPS,
			"norm_build":   s.NormBuild,
		} {
			assert.GreaterOrEqual(t, v, 0.0, "%s of %s", name, s.IndexType)
			assert.LessOrEqual(t, v, 1.0, "%s of %s", name, s.IndexType)
		}
	}
}

func TestAnalyze_EqualRecordsShareAxisNorms(t *testing.T) {
	records := []runner.Record{
		{IndexType: "FLAT", AvgRecall: 0.8, AvgLatency: 4, QPS: 250, BuildTime: 3},
		{IndexType: "HNSW", AvgRecall: 0.8, AvgLatency: 4, QPS: 250, BuildTime: 3},
	}
	a := Analyze(records)

	for _, s := range a.Scored {
		// Direct ratios hit 1 on a shared non-zero value, inverted
		// ratios hit 0.
		assert.InDelta(t, 1.0, s.NormRecall, delta)
		assert.InDelta(t, 0.0, s.NormLatency, delta)
		assert.InDelta(t, 1.0, s.NormQPS, delta)
		assert.InDelta(t, 0.0, s.NormBuild, delta)
	}

	// Ties resolve to the first record in input order.
	assert.Equal(t, "FLAT", a.BestRecall.IndexType)
	assert.Equal(t, "FLAT", a.BestLatency.IndexType)
	assert.Equal(t, "FLAT", a.BestOverall.IndexType)
}

func TestAnalyze_ZeroMaxima(t *testing.T) {
	records := []runner.Record{
		{IndexType: "FLAT"},
		{IndexType: "HNSW"},
	}
	a := Analyze(records)

	for _, s := range a.Scored {
		assert.Zero(t, s.NormRecall)
		assert.Zero(t, s.NormLatency)
		assert.Zero(t, s.NormQPS)
		assert.Zero(t, s.NormBuild)
		assert.Zero(t, s.Composite)
	}
}

func TestAnalyze_Empty(t *testing.T) {
	a := Analyze(nil)

	assert.Empty(t, a.Scored)
	assert.Nil(t, a.BestRecall)
	assert.Nil(t, a.BestLatency)
	assert.Nil(t, a.BestQPS)
	assert.Nil(t, a.FastestBuild)
	assert.Nil(t, a.BestOverall)
	assert.Nil(t, a.Recommendations())
	assert.Empty(t, a.ByComposite())
}

func TestRecommendations(t *testing.T) {
	recs := Analyze(tradeoffRecords()).Recommendations()
	require.Len(t, recs, 5)

	assert.Contains(t, recs[0], "HNSW")
	assert.Contains(t, recs[1], "IVF_SQ8")
	assert.Contains(t, recs[2], "IVF_SQ8")
	assert.Contains(t, recs[3], "HNSW")
	assert.Contains(t, recs[4], "IVF_FLAT")
}
