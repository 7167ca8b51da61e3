package main

import (
	"github.com/spf13/cobra"

	"navd/internal/service"
)

var groupCmd = &cobra.Command{
	Use:   "group",
	Short: "Print the grouped sidebar tree as JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := newSource(cfg)
		if err != nil {
			return err
		}
		groups, err := service.NewNavigator(src, nil, logger).Sidebar(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), map[string]any{"modules": groups})
	},
}

func init() {
	groupCmd.Flags().String("file", "", "payload file (JSON or YAML)")
	groupCmd.Flags().String("url", "", "backend sidebar endpoint")
	rootCmd.AddCommand(groupCmd)
}
