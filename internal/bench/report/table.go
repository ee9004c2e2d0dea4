package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/vecmark/vecmark/internal/bench/score"
)

func WriteTable(a *score.Analysis, w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "\n=== Milvus Index Benchmark ===\n\n")

	if len(a.Scored) == 0 {
		fmt.Fprintln(tw, "no benchmark data")
		tw.Flush()
		return
	}

	writeRawTable(tw, a)
	writeScoreTable(tw, a)
	writeRecommendations(tw, a)

	tw.Flush()
}

func writeRawTable(tw *tabwriter.Writer, a *score.Analysis) {
	fmt.Fprintf(tw, "Raw Results\n\n")

	header := []string{"Index", "Build(s)", "Latency(ms)", "Lat Std", "Recall", "Rec Std", "QPS", "Params"}
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	fmt.Fprintln(tw, separator(len(header)))

	for _, s := range a.Scored {
		row := []string{
			s.IndexType,
			fmt.Sprintf("%.2f", s.BuildTime),
			fmt.Sprintf("%.2f", s.AvgLatency),
			fmt.Sprintf("%.2f", s.StdLatency),
			fmt.Sprintf("%.4f", s.AvgRecall),
			fmt.Sprintf("%.4f", s.StdRecall),
			fmt.Sprintf("%.1f", s.QPS),
			formatParams(s.SearchParams),
		}
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}

	fmt.Fprintln(tw)
}

func writeScoreTable(tw *tabwriter.Writer, a *score.Analysis) {
	fmt.Fprintf(tw, "Normalized Scores (best first)\n\n")

	header := []string{"Rank", "Index", "Recall", "Latency", "QPS", "Build", "Composite"}
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	fmt.Fprintln(tw, separator(len(header)))

	for i, s := range a.ByComposite() {
		row := []string{
			fmt.Sprintf("%d", i+1),
			s.IndexType,
			fmt.Sprintf("%.4f", s.NormRecall),
			fmt.Sprintf("%.4f", s.NormLatency),
			fmt.Sprintf("%.4f", s.NormQPS),
			fmt.Sprintf("%.4f", s.NormBuild),
			fmt.Sprintf("%.4f", s.Composite),
		}
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}

	fmt.Fprintln(tw)
}

func writeRecommendations(tw *tabwriter.Writer, a *score.Analysis) {
	fmt.Fprintf(tw, "Recommendations\n\n")
	for _, line := range a.Recommendations() {
		fmt.Fprintf(tw, "  %s\n", line)
	}
	fmt.Fprintln(tw)
}

func separator(cols int) string {
	sep := make([]string, cols)
	for i := range sep {
		sep[i] = "---"
	}
	return strings.Join(sep, "\t")
}
