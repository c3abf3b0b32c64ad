package main

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/spiraldrift/spiraldrift/internal/drift"
	"github.com/spiraldrift/spiraldrift/internal/scorer"
)

var (
	benchN    int
	benchText string
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Measure scoring and drift detection latency for one text unit",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		compiled, err := loadCompiled()
		if err != nil {
			return err
		}
		sc := scorer.New(compiled, scorer.WithMode(scorer.Mode(cfg.Scoring.Mode)))
		det := drift.New(compiled)

		// Warmup
		for i := 0; i < 5; i++ {
			sc.Score(benchText)
			det.DetectText(0, benchText)
		}

		if benchN <= 0 {
			benchN = 1
		}

		durations := make([]time.Duration, 0, benchN)
		for i := 0; i < benchN; i++ {
			start := time.Now()
			sc.Score(benchText)
			det.DetectText(0, benchText)
			durations = append(durations, time.Since(start))
		}

		sort.Slice(durations, func(i, j int) bool { return durations[i] < durations[j] })

		var total time.Duration
		for _, d := range durations {
			total += d
		}

		avg := float64(total.Microseconds()) / 1000.0 / float64(len(durations))
		p50 := float64(durations[len(durations)/2].Microseconds()) / 1000.0
		p95 := float64(durations[int(float64(len(durations))*0.95)].Microseconds()) / 1000.0

		fmt.Fprintf(cmd.OutOrStdout(), "bench: n=%d avg_ms=%.3f p50_ms=%.3f p95_ms=%.3f categories=%d\n",
			len(durations), avg, p50, p95, len(compiled.Order))
		return nil
	},
}

func init() {
	benchCmd.Flags().IntVar(&benchN, "n", 200, "number of iterations")
	benchCmd.Flags().StringVar(&benchText, "text", "frueher dachte ich nur an erfolg, inzwischen sehe ich das anders!", "text to evaluate")
	rootCmd.AddCommand(benchCmd)
}
