package cmd

import (
	"fmt"

	"github.com/brogergvhs/mcreader/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration and manage profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, used, err := config.LoadMerged(config.Options{
			IgnoreConfig:  flagIgnoreConfig,
			Debug:         flagDebug,
			BaseURL:       flagBaseURL,
			UserAgent:     flagUserAgent,
			Cookie:        flagCookie,
			CookieFile:    flagCookieFile,
			SelectorsFile: flagSelectors,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Loaded config from:\n  %s\n\n", used)
		cfg.Print(out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
