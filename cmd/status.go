package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/callsched/internal/notify"
)

func newStatusCmd() *cobra.Command {
	var userName string

	c := &cobra.Command{
		Use:   "status <call-id>",
		Short: "Fetch a call and print the notification it would produce",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			a, err := newApp(cfg)
			if err != nil {
				return err
			}

			rec, err := a.calls.CallStatus(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !rec.Status.Terminal() {
				fmt.Fprintf(cmd.OutOrStdout(), "call %s is %s (%ds so far)\n", rec.ID, rec.Status, rec.DurationSeconds)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), notify.Compose(rec, userName))
			return nil
		},
	}
	c.Flags().StringVar(&userName, "user", "Customer", "name shown in the notification header")
	return c
}
