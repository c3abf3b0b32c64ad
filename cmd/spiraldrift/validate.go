package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/spiraldrift/spiraldrift/internal/compile"
	"github.com/spiraldrift/spiraldrift/internal/marker"
)

var validateCmd = &cobra.Command{
	Use:   "validate [markers.yaml]",
	Short: "Check a marker taxonomy for structural and pattern errors",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			set *marker.MarkerSet
			err error
		)
		if len(args) == 1 {
			set, err = marker.LoadFile(args[0])
		} else {
			set, err = loadMarkerSet()
		}
		if err != nil {
			return err
		}

		if _, err := compile.Compile(set); err != nil {
			out := cmd.OutOrStdout()
			for _, e := range multierr.Errors(err) {
				var perr *compile.PatternError
				if errors.As(e, &perr) {
					fmt.Fprintf(out, "invalid pattern %q: %v\n", perr.Pattern, perr.Err)
					continue
				}
				fmt.Fprintln(out, e)
			}
			return fmt.Errorf("%d invalid patterns", len(multierr.Errors(err)))
		}

		tokens, patterns := 0, 0
		for _, cat := range set.Order {
			cc := set.Categories[cat]
			for _, pol := range []marker.Polarity{marker.Positive, marker.Negative} {
				block := cc.Block(pol)
				tokens += len(block.Tokens)
				patterns += len(block.Patterns)
			}
		}
		driftPatterns := 0
		for _, g := range set.Groups {
			driftPatterns += len(g.Patterns)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "ok: %d categories, %d tokens, %d patterns, %d drift patterns\n",
			len(set.Order), tokens, patterns, driftPatterns)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
