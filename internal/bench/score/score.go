package score

import (
	"fmt"
	"sort"

	"github.com/vecmark/vecmark/internal/bench/runner"
)

// Composite weights. Recall dominates, build time matters least.
const (
	WeightRecall  = 0.4
	WeightLatency = 0.3
	WeightQPS     = 0.2
	WeightBuild   = 0.1
)

// ScoredRecord is a benchmark record with sub-scores normalized against
// the best value of each axis within the same result set. Latency and
// build time are inverted so that 1 is always best.
type ScoredRecord struct {
	runner.Record

	NormRecall  float64 `json:"norm_recall"`
	NormLatency float64 `json:"norm_latency"`
	NormQPS     float64 `json:"norm_qps"`
	NormBuild   float64 `json:"norm_build"`
	Composite   float64 `json:"composite_score"`
}

// Analysis ranks one result set along four axes plus the composite.
// The best pointers are nil when the input was empty.
type Analysis struct {
	Scored []ScoredRecord

	BestRecall   *ScoredRecord
	BestLatency  *ScoredRecord
	BestQPS      *ScoredRecord
	FastestBuild *ScoredRecord
	BestOverall  *ScoredRecord
}

// Analyze normalizes every record against the maxima of the given set
// and computes the weighted composite. It is a pure function of its
// input; scores depend on the whole set, never on prior runs.
func Analyze(records []runner.Record) *Analysis {
	a := &Analysis{}
	if len(records) == 0 {
		return a
	}

	var maxRecall, maxLatency, maxQPS, maxBuild float64
	for _, r := range records {
		maxRecall = max(maxRecall, r.AvgRecall)
		maxLatency = max(maxLatency, r.AvgLatency)
		maxQPS = max(maxQPS, r.QPS)
		maxBuild = max(maxBuild, r.BuildTime)
	}

	a.Scored = make([]ScoredRecord, len(records))
	for i, r := range records {
		s := ScoredRecord{Record: r}
		s.NormRecall = ratio(r.AvgRecall, maxRecall)
		s.NormLatency = invRatio(r.AvgLatency, maxLatency)
		s.NormQPS = ratio(r.QPS, maxQPS)
		s.NormBuild = invRatio(r.BuildTime, maxBuild)
		s.Composite = WeightRecall*s.NormRecall +
			WeightLatency*s.NormLatency +
			WeightQPS*s.NormQPS +
			WeightBuild*s.NormBuild
		a.Scored[i] = s
	}

	// Strict comparisons keep the earliest record on ties.
	for i := range a.Scored {
		s := &a.Scored[i]
		if a.BestRecall == nil || s.AvgRecall > a.BestRecall.AvgRecall {
			a.BestRecall = s
		}
		if a.BestLatency == nil || s.AvgLatency < a.BestLatency.AvgLatency {
			a.BestLatency = s
		}
		if a.BestQPS == nil || s.QPS > a.BestQPS.QPS {
			a.BestQPS = s
		}
		if a.FastestBuild == nil || s.BuildTime < a.FastestBuild.BuildTime {
			a.FastestBuild = s
		}
		if a.BestOverall == nil || s.Composite > a.BestOverall.Composite {
			a.BestOverall = s
		}
	}

	return a
}

// ByComposite returns the scored records ordered best-first. The sort
// is stable, so equal composites keep their input order.
func (a *Analysis) ByComposite() []ScoredRecord {
	out := append([]ScoredRecord(nil), a.Scored...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Composite > out[j].Composite })
	return out
}

// Recommendations summarizes the per-axis winners as display lines.
func (a *Analysis) Recommendations() []string {
	if len(a.Scored) == 0 {
		return nil
	}
	return []string{
		fmt.Sprintf("highest recall: %s (%.4f)", a.BestRecall.IndexType, a.BestRecall.AvgRecall),
		fmt.Sprintf("lowest latency: %s (%.2f ms)", a.BestLatency.IndexType, a.BestLatency.AvgLatency),
		fmt.Sprintf("highest throughput: %s (%.1f qps)", a.BestQPS.IndexType, a.BestQPS.QPS),
		fmt.Sprintf("fastest build: %s (%.2f s)", a.FastestBuild.IndexType, a.FastestBuild.BuildTime),
		fmt.Sprintf("best overall: %s (composite %.4f)", a.BestOverall.IndexType, a.BestOverall.Composite),
	}
}

func ratio(v, maxV float64) float64 {
	if maxV == 0 {
		return 0
	}
	return v / maxV
}

func invRatio(v, maxV float64) float64 {
	if maxV == 0 {
		return 0
	}
	return 1 - v/maxV
}
