package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/brogergvhs/mcreader/internal/config"

	"github.com/spf13/cobra"
)

var flagInitYes bool

var configInitCmd = &cobra.Command{
	Use:   "init [label]",
	Short: "Create a config profile with default values and activate it",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		label := "Default"
		if len(args) == 1 {
			label = args[0]
		}

		out := cmd.OutOrStdout()

		if !flagInitYes {
			fmt.Fprintln(out, "Default configuration:")
			config.DefaultConfig().Print(out)
			fmt.Fprintln(out)

			reader := bufio.NewReader(cmd.InOrStdin())
			fmt.Fprintf(out, "Create config %q in %s? [y/N]: ", label, config.ConfigsDir())
			resp, _ := reader.ReadString('\n')
			resp = strings.TrimSpace(strings.ToLower(resp))

			if resp != "y" && resp != "yes" {
				fmt.Fprintln(out, "Aborted.")
				return nil
			}
		}

		path, err := config.InitConfig(label)
		if errors.Is(err, os.ErrExist) {
			fmt.Fprintln(out, "Configuration already exists at:")
			fmt.Fprintln(out, "  ", path)
			fmt.Fprintf(out, "It is now active (label: %s).\n", label)
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to write config file: %w", err)
		}

		fmt.Fprintln(out, "Config created at:", path)
		fmt.Fprintf(out, "This config is now active (label: %s).\n", label)

		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVarP(&flagInitYes, "yes", "y", false, "do not ask for confirmation")
	configCmd.AddCommand(configInitCmd)
}
