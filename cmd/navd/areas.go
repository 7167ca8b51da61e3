package main

import (
	"github.com/spf13/cobra"

	"navd/internal/service"
)

var areasCmd = &cobra.Command{
	Use:   "areas",
	Short: "Print area select options as JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := newSource(cfg)
		if err != nil {
			return err
		}
		options, err := service.NewNavigator(src, nil, logger).AreaOptions(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), map[string]any{"options": options})
	},
}

func init() {
	areasCmd.Flags().String("file", "", "payload file (JSON or YAML)")
	areasCmd.Flags().String("url", "", "backend sidebar endpoint")
	rootCmd.AddCommand(areasCmd)
}
