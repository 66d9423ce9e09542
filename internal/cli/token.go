package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/mcoot/stakeledger/internal/api/request"
	"github.com/mcoot/stakeledger/internal/api/response"
)

func newTokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Custody balance commands",
	}

	cmd.AddCommand(newTokenBalanceCmd())
	cmd.AddCommand(newTokenFaucetCmd())

	return cmd
}

func newTokenBalanceCmd() *cobra.Command {
	var owner string

	cmd := &cobra.Command{
		Use:   "balance <kind>",
		Short: "Show a custody balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := fmt.Sprintf("/api/v1/tokens/%s/balance", url.PathEscape(args[0]))
			if owner != "" {
				path += "?owner=" + url.QueryEscape(owner)
			}

			var result response.Balance
			if err := client.Get(cmd.Context(), path, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&owner, "owner", "", "Owner address (defaults to the current identity)")

	return cmd
}

func newTokenFaucetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "faucet <kind> <amount>",
		Short: "Mint development tokens into your custody account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount(args[1])
			if err != nil {
				return err
			}

			var result response.Balance
			req := request.FaucetRequest{TokenKind: args[0], Amount: amount}
			if err := client.Post(cmd.Context(), "/api/v1/tokens/faucet", req, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}
