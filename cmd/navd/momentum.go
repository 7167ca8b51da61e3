package main

import (
	"github.com/spf13/cobra"

	"navd/internal/momentum"
	"navd/internal/service"
)

var momentumUser string

var momentumCmd = &cobra.Command{
	Use:   "momentum",
	Short: "Inspect or update the inbox triage streak",
	Long: `Reads and updates momentum in the configured store. The memory driver
forgets everything on exit, so use --store file or --store sqlite here.`,
}

// withNavigator opens the store and runs fn with a momentum-enabled navigator.
func withNavigator(fn func(*service.Navigator) error) error {
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	tracker, err := newTracker(cfg, store, logger)
	if err != nil {
		return err
	}
	return fn(service.NewNavigator(nil, tracker, logger))
}

var momentumRecordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record one note assignment",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withNavigator(func(n *service.Navigator) error {
			state, err := n.RecordAssignment(cmd.Context(), momentumUser)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), state)
		})
	},
}

var momentumShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current streak",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withNavigator(func(n *service.Navigator) error {
			state, err := n.Momentum(cmd.Context(), momentumUser)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), state)
		})
	},
}

var momentumResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear the streak",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withNavigator(func(n *service.Navigator) error {
			if err := n.ResetMomentum(cmd.Context(), momentumUser); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), momentum.State{})
		})
	},
}

func init() {
	momentumCmd.PersistentFlags().StringVar(&momentumUser, "user", "", "user id (default anonymous)")
	momentumCmd.PersistentFlags().String("store", "", "store driver: memory, file or sqlite")
	momentumCmd.PersistentFlags().String("data", "", "store directory")
	momentumCmd.AddCommand(momentumRecordCmd, momentumShowCmd, momentumResetCmd)
	rootCmd.AddCommand(momentumCmd)
}
