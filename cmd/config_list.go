package cmd

import (
	"fmt"

	"github.com/brogergvhs/mcreader/internal/config"
	"github.com/brogergvhs/mcreader/internal/ui"

	"github.com/spf13/cobra"
)

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available configs",
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := config.ListConfigs()
		if err != nil {
			return fmt.Errorf("cannot read configs directory: %w", err)
		}
		if len(list) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No configs yet. Run `mcreader config init`.")
			return nil
		}

		rows := make([][]string, len(list))
		for i, c := range list {
			active := ""
			if c.Active {
				active = "yes"
			}
			rows[i] = []string{c.Label, c.Path, active}
		}

		return ui.PrintTable(cmd.OutOrStdout(), []string{"Label", "Path", "Active"}, rows)
	},
}

func init() {
	configCmd.AddCommand(configListCmd)
}
