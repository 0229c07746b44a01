package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/event-simulator/internal/snapshotfile"
)

func newImportCommand(app *cli) *cobra.Command {
	var file, name string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import a snapshot file as a stored event",
		Long: `Import a snapshot file as a stored event.

Rooms, speakers and participants are inferred from the schedule and
attendance records. Importing an event id that already exists replaces
its content.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := snapshotfile.Load(file)
			if err != nil {
				return err
			}
			imp, err := snapshotfile.ToImport(raw, name)
			if err != nil {
				return err
			}

			store, err := app.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer app.closeStore(store)

			if err := store.ImportEvent(cmd.Context(), imp); err != nil {
				return err
			}
			app.logger.Info("event imported", "event_id", imp.Event.ID, "sessions", len(imp.Sessions))
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "imported event %s: %d sessions, %d participants, %d vendor slots\n",
				imp.Event.ID, len(imp.Sessions), len(imp.Participants), len(imp.VendorSchedules))
			return err
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "snapshot file (.json, .yaml or .yml)")
	cmd.Flags().StringVar(&name, "name", "", "display name of the event")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
