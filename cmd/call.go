package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/callsched/internal/calls"
)

func newCallCmd() *cobra.Command {
	var (
		phone    string
		message  string
		userName string
		email    string
		timezone string
		wait     bool
	)

	c := &cobra.Command{
		Use:   "call",
		Short: "Place one call from a free-text request",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(message) == "" {
				return fmt.Errorf("--message is required")
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			a, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = a.log.Sync() }()

			res, err := a.calls.PlaceCall(cmd.Context(), calls.Input{
				PhoneNumber: phone,
				Request:     message,
				UserName:    userName,
				UserEmail:   email,
				TimeZone:    timezone,
			})
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(res); err != nil {
				return err
			}

			if wait {
				fmt.Fprintf(cmd.ErrOrStderr(), "waiting for call %s to finish...\n", res.CallID)
				a.monitor.Wait()
			}
			return nil
		},
	}

	c.Flags().StringVar(&phone, "phone", "", "number to call when the message has none")
	c.Flags().StringVar(&message, "message", "", "what to schedule, e.g. \"table for 2 at Luigi's tonight at 7:30 PM\"")
	c.Flags().StringVar(&userName, "user", "", "name the booking is for (default Customer)")
	c.Flags().StringVar(&email, "email", "", "requester email passed to the assistant")
	c.Flags().StringVar(&timezone, "timezone", "", "requester time zone (default from config)")
	c.Flags().BoolVar(&wait, "wait", false, "keep running until the call is finished and the notification sent")
	return c
}
