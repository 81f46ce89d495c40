package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Veraticus/scorecard/internal/common"
	"github.com/Veraticus/scorecard/internal/validation"
	"github.com/spf13/cobra"
)

// errViolations marks a --strict run that found problems.
var errViolations = errors.New("document has rule violations")

func validateCmd(a *app) *cobra.Command {
	var (
		strict bool
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Check weights and scores in every tab",
		Long: `Report rows that have a weight without a score or a score without a
weight, and tabs whose weights do not add up to 100%.

Problems are advisory. With --strict the command exits non-zero when any
are found.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openDocument(cmd.Context(), args[0], false)
			if err != nil {
				return err
			}
			defer s.Close()

			result := s.engine.Validate(s.registry.Document())

			if asJSON {
				violations := result.Violations
				if violations == nil {
					violations = []validation.Violation{}
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(violations); err != nil {
					return err
				}
			} else {
				printViolations(cmd, result, false)
			}

			if strict && !result.Valid() {
				return common.NewUserError(fmt.Sprintf("%d problem(s) found", len(result.Violations)), errViolations)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "exit with an error when problems are found")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print violations as JSON")

	return cmd
}
