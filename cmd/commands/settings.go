package commands

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"github.com/spf13/cobra"
)

// newSettingsCmd creates the "settings" command group.
func newSettingsCmd(state *cliState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Inspect and change runtime settings",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all settings",
		Run: func(cmd *cobra.Command, args []string) {
			settings, err := state.DB.ListSettings(context.Background())
			if err != nil {
				log.Fatalf("Failed to list settings: %v", err)
			}

			for _, setting := range settings {
				log.Printf("%s = %s", setting.Key, setting.Value)
			}
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "get <key>",
		Short: "Print one setting value",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			setting, err := state.DB.GetSetting(context.Background(), args[0])
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					log.Fatalf("Setting %s is not set (defaults apply)", args[0])
				}

				log.Fatalf("Failed to read setting: %v", err)
			}

			log.Printf("%s = %s", setting.Key, setting.Value)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a setting value",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			err := state.DB.SetSetting(context.Background(), args[0], args[1])
			if err != nil {
				log.Fatalf("Failed to set setting: %v", err)
			}

			log.Printf("Set %s = %s", args[0], args[1])
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "unset <key>",
		Short: "Delete a setting, reverting to its default",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			err := state.DB.DeleteSetting(context.Background(), args[0])
			if err != nil {
				log.Fatalf("Failed to delete setting: %v", err)
			}

			log.Printf("Unset %s", args[0])
		},
	})

	return cmd
}
