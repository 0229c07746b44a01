package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/event-simulator/internal/application"
	"github.com/example/event-simulator/internal/scheduler"
	"github.com/example/event-simulator/internal/snapshotfile"
)

const (
	formatJSON = "json"
	formatText = "text"
)

type simulateOptions struct {
	eventID string
	file    string
	locale  string
	format  string
}

func newSimulateCommand(app *cli) *cobra.Command {
	opts := &simulateOptions{}

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Simulate a stored event or a snapshot file",
		Example: `  simulator simulate --event devconf-2024 --locale ja
  simulator simulate --file snapshot.yaml --format text`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.format != formatJSON && opts.format != formatText {
				return fmt.Errorf("invalid format %q: must be one of [%s %s]", opts.format, formatJSON, formatText)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.simulate(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.eventID, "event", "", "id of a stored event")
	cmd.Flags().StringVar(&opts.file, "file", "", "snapshot file (.json, .yaml or .yml)")
	cmd.Flags().StringVar(&opts.locale, "locale", "", "BCP 47 tag for issue texts (defaults to SIMULATOR_DEFAULT_LOCALE)")
	cmd.Flags().StringVar(&opts.format, "format", formatJSON, "output format (json|text)")
	cmd.MarkFlagsMutuallyExclusive("event", "file")
	cmd.MarkFlagsOneRequired("event", "file")
	return cmd
}

func (c *cli) simulate(cmd *cobra.Command, opts *simulateOptions) error {
	ctx := cmd.Context()

	var (
		result scheduler.SimulationResult
		err    error
	)
	if opts.file != "" {
		raw, loadErr := snapshotfile.Load(opts.file)
		if loadErr != nil {
			return loadErr
		}
		result, err = c.simulationService(nil).SimulateSnapshot(ctx, application.SimulateSnapshotParams{
			Snapshot: raw,
			Locale:   opts.locale,
		})
	} else {
		store, openErr := c.openStore(ctx)
		if openErr != nil {
			return openErr
		}
		defer c.closeStore(store)

		result, err = c.simulationService(newStoreSnapshotSource(store)).Simulate(ctx, application.SimulateParams{
			EventID: opts.eventID,
			Locale:  opts.locale,
		})
	}
	if err != nil {
		if errors.Is(err, application.ErrNotFound) {
			return fmt.Errorf("event %q not found", opts.eventID)
		}
		return err
	}

	if opts.format == formatText {
		return writeText(cmd.OutOrStdout(), result)
	}
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// writeText renders a result for terminals: a summary line, then one block
// per issue in result order.
func writeText(w io.Writer, result scheduler.SimulationResult) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%d issues: %d critical, %d warnings, %d info\n",
		result.TotalIssues, result.Critical, result.Warnings, result.Info)
	for _, issue := range result.Issues {
		fmt.Fprintf(&b, "\n[%s] %s (%s)\n", strings.ToUpper(string(issue.Severity)), issue.Title, issue.Category)
		fmt.Fprintf(&b, "  %s\n", issue.Description)
		if ids := issue.AffectedEntities.ScheduleIDs; len(ids) > 0 {
			fmt.Fprintf(&b, "  schedules: %s\n", strings.Join(ids, ", "))
		}
		if issue.SuggestedFix != nil {
			fmt.Fprintf(&b, "  fix: %s\n", issue.SuggestedFix.Label)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}
