package cmd

import (
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/callsched/internal/reservation"
)

func newParseCmd() *cobra.Command {
	var userName string

	c := &cobra.Command{
		Use:   "parse <text>",
		Short: "Show the fields extracted from a request without placing a call",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := reservation.Parse(strings.Join(args, " "), userName)
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(req)
		},
	}
	c.Flags().StringVar(&userName, "user", "", "name the booking is for")
	return c
}
