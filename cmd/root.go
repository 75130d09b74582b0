package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	flagIgnoreConfig bool
	flagDebug        bool

	// headers/auth
	flagBaseURL    string
	flagCookie     string
	flagCookieFile string
	flagUserAgent  string
	flagSelectors  string
)

var rootCmd = &cobra.Command{
	Use:           "mcreader",
	Short:         "Browse and read mgeko.cc from the terminal",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&flagIgnoreConfig, "ignore-config", false, "ignore config and use only CLI flags")

	rootCmd.PersistentFlags().StringVar(&flagBaseURL, "base-url", "", "site base URL (mirror)")
	rootCmd.PersistentFlags().StringVar(&flagCookie, "cookie", "", "cookie string, e.g. \"cf_clearance=...; other=123\"")
	rootCmd.PersistentFlags().StringVar(&flagCookieFile, "cookie-file", "", "path to a text file with cookies (one header line)")
	rootCmd.PersistentFlags().StringVar(&flagUserAgent, "user-agent", "", "override User-Agent")
	rootCmd.PersistentFlags().StringVar(&flagSelectors, "selectors", "", "YAML file overriding markup selectors")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
