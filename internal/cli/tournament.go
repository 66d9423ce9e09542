package cli

import (
	"context"
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/mcoot/stakeledger/internal/api/request"
	"github.com/mcoot/stakeledger/internal/api/response"
	"github.com/mcoot/stakeledger/internal/model"
)

func newTournamentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tournament",
		Aliases: []string{"tourney"},
		Short:   "Tournament commands",
	}

	cmd.AddCommand(newTournamentCreateCmd())
	cmd.AddCommand(newTournamentGetCmd())
	cmd.AddCommand(newTournamentReceiptCmd())
	cmd.AddCommand(newTournamentPayoutsCmd())
	cmd.AddCommand(newTournamentActionCmd("flip", "Open or close registration", "registration/flip"))
	cmd.AddCommand(newTournamentActionCmd("start", "Start the tournament", "start"))
	cmd.AddCommand(newTournamentRegisterCmd())
	cmd.AddCommand(newTournamentUnregisterCmd())
	cmd.AddCommand(newTournamentPlayerCmd("refund", "Refund a player's entries as owner", "refund"))
	cmd.AddCommand(newTournamentBustCmd())
	cmd.AddCommand(newTournamentNFTCmd())
	cmd.AddCommand(newTournamentCloseCmd())

	return cmd
}

func tournamentPath(id, suffix string) string {
	if suffix == "" {
		return fmt.Sprintf("/api/v1/tournaments/%s", id)
	}
	return fmt.Sprintf("/api/v1/tournaments/%s/%s", id, suffix)
}

func printTournament(ctx context.Context, path string, body any) error {
	var result response.Tournament
	if err := client.Post(ctx, path, body, &result); err != nil {
		return err
	}
	NewOutput(cfg.Output).Print(result)
	return nil
}

func newTournamentCreateCmd() *cobra.Command {
	var req request.CreateTournamentRequest
	var payouts string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a tournament with you as owner",
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if req.Payouts, err = parsePayouts(payouts); err != nil {
				return err
			}
			return printTournament(cmd.Context(), "/api/v1/tournaments", req)
		},
	}

	cmd.Flags().StringVar(&req.TokenKind, "token", "", "Token kind (required)")
	cmd.Flags().StringVar(&req.Transactor, "transactor", "", "Address allowed to report eliminations (defaults to you)")
	cmd.Flags().Uint16Var(&req.MaxPlayers, "max-players", 0, "Field limit (required)")
	cmd.Flags().Uint64Var(&req.EntryCost, "entry-cost", 0, "Entry cost paid into the prize pool")
	cmd.Flags().Uint64Var(&req.EntryFee, "entry-fee", 0, "Entry fee retained by the owner")
	cmd.Flags().Uint64Var(&req.Guarantee, "guarantee", 0, "Guaranteed prize pool funded by you")
	cmd.Flags().StringVar(&payouts, "payouts", "", "Payout shares in thousandths, e.g. 500,300,200")
	cmd.Flags().BoolVar(&req.RegistrationOpen, "open", true, "Open registration immediately")
	_ = cmd.MarkFlagRequired("token")
	_ = cmd.MarkFlagRequired("max-players")

	return cmd
}

func newTournamentGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a tournament",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Tournament

			if err := client.Get(cmd.Context(), tournamentPath(args[0], ""), &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newTournamentReceiptCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "receipt <id> <player>",
		Short: "Show a player's registration",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Receipt

			if err := client.Get(cmd.Context(), tournamentPath(args[0], "receipts/"+url.PathEscape(args[1])), &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newTournamentPayoutsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-payouts <id> <shares>",
		Short: "Replace the payout schedule, e.g. 500,300,200",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			payouts, err := parsePayouts(args[1])
			if err != nil {
				return err
			}

			var result response.Tournament
			if err := client.Put(cmd.Context(), tournamentPath(args[0], "payouts"), request.UpdatePayoutsRequest{Payouts: payouts}, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newTournamentActionCmd(use, short, suffix string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printTournament(cmd.Context(), tournamentPath(args[0], suffix), nil)
		},
	}
}

func newTournamentRegisterCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "register <id>",
		Short: "Register, or rebuy after busting out",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Receipt

			if err := client.Post(cmd.Context(), tournamentPath(args[0], "register"), nil, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newTournamentUnregisterCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unregister <id>",
		Short: "Withdraw before the start and get your entries back",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.AmountResponse

			if err := client.Post(cmd.Context(), tournamentPath(args[0], "unregister"), nil, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newTournamentPlayerCmd(use, short, suffix string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id> <player>",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.AmountResponse

			if err := client.Post(cmd.Context(), tournamentPath(args[0], suffix), request.PlayerRequest{Player: args[1]}, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newTournamentBustCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bust <id> <player>",
		Short: "Record an elimination and pay the finishing place",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.BustResponse

			if err := client.Post(cmd.Context(), tournamentPath(args[0], "payout"), request.PlayerRequest{Player: args[1]}, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newTournamentNFTCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nft",
		Short: "NFT prize escrow commands",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <id> <place> <mint>",
		Short: "Escrow one unit of an NFT as the prize for a place",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			place, err := parsePlace(args[1])
			if err != nil {
				return err
			}
			return printTournament(cmd.Context(), tournamentPath(args[0], "nft-prizes"), request.NFTPrizeRequest{Place: place, Mint: args[2]})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <id> <place> <mint>",
		Short: "Return an escrowed NFT to you",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := tournamentPath(args[0], "nft-prizes/"+url.PathEscape(args[1])) + "?mint=" + url.QueryEscape(args[2])

			var result response.Tournament
			if err := client.Delete(cmd.Context(), path, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "get <id> <place>",
		Short: "Show the NFTs escrowed for a place",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result model.NFTPrize

			if err := client.Get(cmd.Context(), tournamentPath(args[0], "nft-prizes/"+url.PathEscape(args[1])), &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	})

	return cmd
}

func newTournamentCloseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "close <id>",
		Short: "Close a finished tournament and collect what is left",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.AmountResponse

			if err := client.Delete(cmd.Context(), tournamentPath(args[0], ""), &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}
