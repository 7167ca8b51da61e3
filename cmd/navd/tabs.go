package main

import (
	"github.com/spf13/cobra"

	"navd/internal/service"
)

var (
	tabsModule string
	tabsPath   string
)

var tabsCmd = &cobra.Command{
	Use:   "tabs",
	Short: "Print the tab strip of a module as JSON",
	Long: `Prints the tabs of --module for the page at --path. Without --module the
module owning --path is used, and an unknown module falls back to the first one.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := newSource(cfg)
		if err != nil {
			return err
		}
		module, tabs, err := service.NewNavigator(src, nil, logger).Tabs(cmd.Context(), tabsModule, tabsPath)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), map[string]any{"module": module, "tabs": tabs})
	},
}

func init() {
	tabsCmd.Flags().String("file", "", "payload file (JSON or YAML)")
	tabsCmd.Flags().String("url", "", "backend sidebar endpoint")
	tabsCmd.Flags().StringVar(&tabsModule, "module", "", "module id")
	tabsCmd.Flags().StringVar(&tabsPath, "path", "", "current page path")
	rootCmd.AddCommand(tabsCmd)
}
