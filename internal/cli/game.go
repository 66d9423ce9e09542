package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mcoot/stakeledger/internal/api/request"
	"github.com/mcoot/stakeledger/internal/api/response"
)

func newGameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "game",
		Short: "Cash game commands",
	}

	cmd.AddCommand(newGameCreateCmd())
	cmd.AddCommand(newGameGetCmd())
	cmd.AddCommand(newGameAmountCmd("join", "Take a seat with a deposit", "join"))
	cmd.AddCommand(newGameAmountCmd("add-chips", "Top up your seat", "add-chips"))
	cmd.AddCommand(newGameStatusCmd())
	cmd.AddCommand(newGameSettleCmd())
	cmd.AddCommand(newGameEjectCmd())
	cmd.AddCommand(newGameRefundCmd())
	cmd.AddCommand(newGameCloseCmd())

	return cmd
}

func gamePath(id, suffix string) string {
	if suffix == "" {
		return fmt.Sprintf("/api/v1/games/%s", id)
	}
	return fmt.Sprintf("/api/v1/games/%s/%s", id, suffix)
}

func newGameCreateCmd() *cobra.Command {
	var req request.CreateGameRequest

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a cash game with you as owner",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Game

			if err := client.Post(cmd.Context(), "/api/v1/games", req, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.TokenKind, "token", "", "Token kind (required)")
	cmd.Flags().Uint16Var(&req.MaxPlayers, "max-players", 9, "Seat limit")
	cmd.Flags().Uint64Var(&req.MinDeposit, "min-deposit", 0, "Minimum buy-in")
	cmd.Flags().Uint64Var(&req.MaxDeposit, "max-deposit", 0, "Maximum buy-in (required)")
	_ = cmd.MarkFlagRequired("token")
	_ = cmd.MarkFlagRequired("max-deposit")

	return cmd
}

func newGameGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a cash game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Game

			if err := client.Get(cmd.Context(), gamePath(args[0], ""), &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newGameAmountCmd(use, short, suffix string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id> <amount>",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount(args[1])
			if err != nil {
				return err
			}

			var result response.Game
			if err := client.Post(cmd.Context(), gamePath(args[0], suffix), request.AmountRequest{Amount: amount}, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newGameStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "status <id> <active|inactive>",
		Short:     "Switch whether top-ups are held until the next settle",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"active", "inactive"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Game

			if err := client.Post(cmd.Context(), gamePath(args[0], "status"), request.SetStatusRequest{Status: args[1]}, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newGameSettleCmd() *cobra.Command {
	var adjustments, withdrawals []string

	cmd := &cobra.Command{
		Use:   "settle <id>",
		Short: "Apply balance changes and cash out players",
		Long: `Apply balance changes reported by the game server and cash out the
listed withdrawal accounts.

Adjustments take the form player:+amount or player:-amount.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := request.SettleRequest{Withdrawals: withdrawals}
			for _, a := range adjustments {
				adj, err := parseAdjustment(a)
				if err != nil {
					return err
				}
				req.Adjustments = append(req.Adjustments, adj)
			}

			var result response.SettleResponse
			if err := client.Post(cmd.Context(), gamePath(args[0], "settle"), req, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&adjustments, "adjust", nil, "Balance change, e.g. alice:+50 (repeatable)")
	cmd.Flags().StringArrayVar(&withdrawals, "withdraw", nil, "Withdrawal account to cash out (repeatable)")

	return cmd
}

func newGameEjectCmd() *cobra.Command {
	var accounts []string
	var amounts []uint64

	cmd := &cobra.Command{
		Use:   "eject <id>",
		Short: "Pay stated amounts to accounts and unseat their players",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.SettleResponse
			req := request.EjectRequest{Accounts: accounts, Amounts: amounts}
			if err := client.Post(cmd.Context(), gamePath(args[0], "eject"), req, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&accounts, "account", nil, "Withdrawal account (repeatable)")
	cmd.Flags().Uint64SliceVar(&amounts, "amount", nil, "Amount for the account at the same position (repeatable)")

	return cmd
}

func newGameRefundCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refund <id> <player> <amount>",
		Short: "Pay a player out of the vault without touching the seat",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount(args[2])
			if err != nil {
				return err
			}

			var result response.AmountResponse
			req := request.RefundRequest{Player: args[1], Amount: amount}
			if err := client.Post(cmd.Context(), gamePath(args[0], "refund"), req, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newGameCloseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "close <id>",
		Short: "Close an empty game and collect the rake",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.AmountResponse

			if err := client.Delete(cmd.Context(), gamePath(args[0], ""), &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}
