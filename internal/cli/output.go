package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mcoot/stakeledger/internal/api/response"
	"github.com/mcoot/stakeledger/internal/model"
	"github.com/mcoot/stakeledger/internal/services/cashgame"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to stdout
func NewOutput(format string) *Output {
	return &Output{format: format, w: os.Stdout}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == OutputJSON {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError writes err to stderr, keeping the server's error code when
// there is one
func (o *Output) PrintError(err error) {
	var apiErr *APIError
	if o.format == OutputJSON {
		body := APIError{Message: err.Error()}
		if errors.As(err, &apiErr) {
			body = *apiErr
		}
		data, _ := json.Marshal(errorEnvelope{Error: &body})
		fmt.Fprintln(os.Stderr, string(data))
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %s\n", err)
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == OutputJSON {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Fprintln(o.w, string(data))
	} else {
		fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case response.Identity:
		o.printIdentity(v)
	case response.AuthResponse:
		o.printIdentity(v.Identity)
		fmt.Fprintf(o.w, "Token: %s\n", v.SessionToken)
		fmt.Fprintf(o.w, "Expires: %s\n", v.ExpiresAt.Format("2006-01-02 15:04:05 MST"))
	case response.Balance:
		fmt.Fprintf(o.w, "%s %d (account %s)\n", v.TokenKind, v.Amount, v.Account)
	case response.Game:
		o.printGame(v)
	case response.SettleResponse:
		o.printGame(v.Game)
		o.printPayouts(v.Payouts)
	case response.Tournament:
		o.printTournament(v)
	case response.Receipt:
		fmt.Fprintf(o.w, "Registered: %s in %s (rebuys: %d)\n", v.Player, v.Tournament, v.Rebuys)
	case response.BustResponse:
		fmt.Fprintf(o.w, "%s finished place %d, paid %d (rebuys: %d)\n", v.Player, v.Place, v.Amount, v.Receipt.Rebuys)
		for _, mint := range v.NFTs {
			fmt.Fprintf(o.w, "  + NFT %s\n", mint)
		}
	case model.NFTPrize:
		fmt.Fprintf(o.w, "Place %d: %s\n", v.Place, joinKinds(v.Mints))
	case response.AmountResponse:
		fmt.Fprintf(o.w, "Amount: %d\n", v.Amount)
	case response.PayoutStructure:
		fmt.Fprintf(o.w, "Recommended payouts for %d players:\n", v.Players)
		for i, p := range v.Payouts {
			fmt.Fprintf(o.w, "  %2d: %5.1f%%\n", i+1, float64(p)/10)
		}
	case HealthResult:
		fmt.Fprintf(o.w, "Status: %s\n", v.Status)
		if v.Server != "" {
			fmt.Fprintf(o.w, "Server: %s (%s)\n", v.Server, v.Latency)
		}
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// HealthResult is the health endpoint body plus client-side timing
type HealthResult struct {
	Status  string `json:"status"`
	Server  string `json:"server,omitempty"`
	Latency string `json:"latency,omitempty"`
}

func (o *Output) printIdentity(i response.Identity) {
	guestStr := "no"
	if i.IsGuest {
		guestStr = "yes"
	}
	fmt.Fprintf(o.w, "Identity: %s (%s)\n", i.DisplayName, i.Address)
	fmt.Fprintf(o.w, "Guest: %s\n", guestStr)
}

func (o *Output) printGame(g response.Game) {
	fmt.Fprintf(o.w, "Game: %s\n", g.ID)
	fmt.Fprintf(o.w, "Owner: %s\n", g.Owner)
	fmt.Fprintf(o.w, "Status: %s\n", g.Status)
	fmt.Fprintf(o.w, "Deposits: %d-%d %s\n", g.MinDeposit, g.MaxDeposit, g.TokenKind)
	fmt.Fprintf(o.w, "Vault: %s (%d)\n", g.VaultAccount, g.VaultBalance)
	fmt.Fprintf(o.w, "Seats (%d/%d):\n", len(g.Seats), g.MaxPlayers)
	for _, s := range g.Seats {
		fmt.Fprintf(o.w, "  - %s balance=%d add_on=%d\n", s.Player, s.Balance, s.AddOn)
	}
}

func (o *Output) printPayouts(payouts []cashgame.Payout) {
	if len(payouts) == 0 {
		return
	}
	fmt.Fprintln(o.w, "Payouts:")
	for _, p := range payouts {
		fmt.Fprintf(o.w, "  - %s <- %d\n", p.Account, p.Amount)
	}
}

func (o *Output) printTournament(t response.Tournament) {
	fmt.Fprintf(o.w, "Tournament: %s\n", t.ID)
	fmt.Fprintf(o.w, "Owner: %s (transactor %s)\n", t.Owner, t.Transactor)
	fmt.Fprintf(o.w, "Entry: %d + %d fee %s\n", t.EntryCost, t.EntryFee, t.TokenKind)
	if t.Guarantee > 0 {
		fmt.Fprintf(o.w, "Guarantee: %d\n", t.Guarantee)
	}
	fmt.Fprintf(o.w, "Vault: %s (%d)\n", t.VaultAccount, t.VaultBalance)
	fmt.Fprintf(o.w, "Players: %d remaining, %d entries (min %d, max %d)\n",
		t.Players, t.PlayersWithRebuys, t.MinPlayers, t.MaxPlayers)
	fmt.Fprintf(o.w, "Registration open: %t\n", t.RegistrationOpen)
	fmt.Fprintf(o.w, "Started: %t\n", t.HasStarted)
	if len(t.Payouts) > 0 {
		shares := make([]string, len(t.Payouts))
		for i, p := range t.Payouts {
			shares[i] = fmt.Sprintf("%d", p)
		}
		fmt.Fprintf(o.w, "Payouts: %s\n", strings.Join(shares, "/"))
	}
	if len(t.NFTPayouts) > 0 {
		places := make([]string, len(t.NFTPayouts))
		for i, p := range t.NFTPayouts {
			places[i] = fmt.Sprintf("%d", p)
		}
		fmt.Fprintf(o.w, "NFT places: %s\n", strings.Join(places, ", "))
	}
}

func joinKinds(kinds []model.TokenKind) string {
	s := make([]string, len(kinds))
	for i, k := range kinds {
		s[i] = string(k)
	}
	return strings.Join(s, ", ")
}
