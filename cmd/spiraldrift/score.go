package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spiraldrift/spiraldrift/internal/drift"
	"github.com/spiraldrift/spiraldrift/internal/scorer"
)

var scoreJSON bool

var scoreCmd = &cobra.Command{
	Use:   "score <text>...",
	Short: "Score a single text unit against the marker taxonomy",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text := strings.Join(args, " ")

		compiled, err := loadCompiled()
		if err != nil {
			return err
		}

		res := scorer.New(compiled, scorer.WithMode(scorer.Mode(cfg.Scoring.Mode))).Score(text)
		events := drift.New(compiled).DetectText(0, text)

		out := cmd.OutOrStdout()
		if scoreJSON {
			payload := struct {
				Result scorer.Result `json:"result"`
				Drift  []drift.Event `json:"drift,omitempty"`
			}{res, events}
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(payload)
		}

		for _, cat := range compiled.Order {
			if score := res.Scores[cat]; score != 0 {
				fmt.Fprintf(out, "%-8s %+.2f\n", cat, score)
			}
		}
		for _, m := range res.Matches {
			fmt.Fprintf(out, "  %s/%s %s %q at %d\n", m.Category, m.Polarity, m.Kind, m.Marker, m.Offset)
		}
		for _, ev := range events {
			fmt.Fprintf(out, "  drift %s %q\n", ev.Kind, ev.Pattern)
		}
		fmt.Fprintf(out, "Intensitaet: %d/5\n", res.Intensity)
		return nil
	},
}

func init() {
	scoreCmd.Flags().BoolVar(&scoreJSON, "json", false, "emit the result as JSON")
	rootCmd.AddCommand(scoreCmd)
}
