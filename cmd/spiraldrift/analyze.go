package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spiraldrift/spiraldrift/internal/report"
	"github.com/spiraldrift/spiraldrift/internal/scorer"
	"github.com/spiraldrift/spiraldrift/internal/session"
	"github.com/spiraldrift/spiraldrift/internal/transcript"
)

var (
	analyzeJSON string
	analyzeCSV  string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <transcript.txt>",
	Short: "Analyze a chat transcript and print the session report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := analyzeFile(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeJSON, "json", "", "write the profile and per-message results to this JSON file")
	analyzeCmd.Flags().StringVar(&analyzeCSV, "csv", "", "write the per-message score matrix to this CSV file")
	rootCmd.AddCommand(analyzeCmd)
}

// analyzeFile runs the full pipeline over one transcript file and returns
// the rendered report. Exports requested via flags are written as a side
// effect.
func analyzeFile(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read transcript: %w", err)
	}

	msgs, format := transcript.Parse(string(data))
	if len(msgs) == 0 {
		return "", fmt.Errorf("transcript %s contains no messages", path)
	}
	logger.Debug("transcript parsed",
		zap.String("path", path),
		zap.String("format", string(format)),
		zap.Int("messages", len(msgs)),
	)

	compiled, err := loadCompiled()
	if err != nil {
		return "", err
	}

	analyzer := session.NewAnalyzer(compiled,
		session.WithWorkers(cfg.Session.Workers),
		session.WithLogger(logger),
		session.WithScoringMode(scorer.Mode(cfg.Scoring.Mode)),
	)
	profile, results, err := analyzer.Run(ctx, transcript.Texts(msgs))
	if err != nil {
		return "", err
	}

	in := report.Input{
		Source:   path,
		Format:   format,
		Order:    compiled.Order,
		Messages: msgs,
		Results:  results,
		Profile:  profile,
	}

	if analyzeJSON != "" {
		if err := writeExport(analyzeJSON, in, report.WriteJSON); err != nil {
			return "", err
		}
	}
	if analyzeCSV != "" {
		if err := writeExport(analyzeCSV, in, report.WriteCSV); err != nil {
			return "", err
		}
	}

	return report.Render(in, report.Options{
		MaxEventsPerKind: cfg.Report.MaxEventsPerKind,
		ExcerptLength:    cfg.Report.ExcerptLength,
		RedactExcerpts:   cfg.Report.Redact,
	}), nil
}

func writeExport(path string, in report.Input, write func(w io.Writer, in report.Input) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export: %w", err)
	}
	if err := write(f, in); err != nil {
		f.Close()
		return fmt.Errorf("write export %s: %w", path, err)
	}
	return f.Close()
}
