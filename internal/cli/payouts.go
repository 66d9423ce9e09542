package cli

import (
	"net/url"

	"github.com/spf13/cobra"

	"github.com/mcoot/stakeledger/internal/api/response"
)

func newPayoutsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "payouts <players>",
		Short: "Show the recommended payout schedule for a field size",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.PayoutStructure

			if err := client.Get(cmd.Context(), "/api/v1/payouts?players="+url.QueryEscape(args[0]), &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}
