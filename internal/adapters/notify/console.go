package notify

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/alejandrodnm/genbet/internal/domain"
	"github.com/alejandrodnm/genbet/internal/format"
)

// Console imprime mercados, apuestas y balances como tablas en stdout.
type Console struct {
	out io.Writer
}

// NewConsole crea una consola que escribe a stdout.
func NewConsole() *Console {
	return &Console{out: os.Stdout}
}

// NewConsoleWriter crea una consola para tests.
func NewConsoleWriter(w io.Writer) *Console {
	return &Console{out: w}
}

// PrintMarkets imprime la tabla de mercados con odds y cuenta atrás.
func (c *Console) PrintMarkets(markets []domain.Market) {
	if len(markets) == 0 {
		fmt.Fprintln(c.out, "no markets found")
		return
	}

	now := time.Now().UTC()

	table := tablewriter.NewWriter(c.out)
	table.Header("ID", "Matchup", "League", "Kickoff", "1", "X", "2", "Pool", "Status")

	for _, m := range markets {
		kickoff := "-"
		if t, ok := m.KickoffTime(); ok {
			kickoff = format.TimeUntil(t, now)
		}

		status := string(m.Status)
		if m.Status == domain.StatusResolved || m.Status == domain.StatusDisputed {
			status = fmt.Sprintf("%s (%s)", m.Status, m.Winner.Label(m.Team1, m.Team2))
		}

		table.Append(
			fmt.Sprintf("%d", m.ID),
			format.Truncate(m.Matchup(), 32),
			format.Truncate(m.League, 18),
			kickoff,
			format.Odds(m.OddsTeam1),
			format.Odds(m.OddsDraw),
			format.Odds(m.OddsTeam2),
			format.Amount(m.TotalPool),
			status,
		)
	}

	table.Render()
	fmt.Fprintln(c.out, "  1/X/2 = odds team1/draw/team2 | Pool = total apostado")
}

// PrintFixtures imprime el catálogo de partidos próximos.
func (c *Console) PrintFixtures(fixtures []domain.Fixture) {
	if len(fixtures) == 0 {
		fmt.Fprintln(c.out, "no fixtures found")
		return
	}

	now := time.Now().UTC()

	table := tablewriter.NewWriter(c.out)
	table.Header("ID", "Matchup", "League", "Sport", "Starts")

	for _, f := range fixtures {
		table.Append(
			f.ID,
			format.Truncate(f.Matchup(), 32),
			format.Truncate(f.League, 18),
			f.Sport,
			format.TimeUntil(f.StartTime(), now),
		)
	}

	table.Render()
}

// PrintBets imprime las apuestas de un mercado o de un usuario.
// markets resuelve ids a nombres de equipo; puede ser nil.
func (c *Console) PrintBets(bets []domain.Bet, markets map[int64]domain.Market) {
	if len(bets) == 0 {
		fmt.Fprintln(c.out, "no bets found")
		return
	}

	table := tablewriter.NewWriter(c.out)
	table.Header("Market", "User", "Pick", "Amount", "Payout", "Placed", "Claimed")

	for _, b := range bets {
		m, known := markets[b.MarketID]

		marketLabel := fmt.Sprintf("#%d", b.MarketID)
		pick := fmt.Sprintf("outcome %d", b.Outcome)
		if known {
			marketLabel = fmt.Sprintf("#%d %s", b.MarketID, format.Truncate(m.Matchup(), 26))
			pick = b.Outcome.Label(m.Team1, m.Team2)
		}

		claimed := "no"
		if b.Claimed {
			claimed = "yes"
		}

		table.Append(
			marketLabel,
			format.ShortenAddress(b.User),
			pick,
			format.Amount(b.Amount),
			format.Amount(b.PotentialPayout),
			time.Unix(b.Timestamp, 0).UTC().Format("01-02 15:04"),
			claimed,
		)
	}

	table.Render()
}

// PrintBalance imprime el balance del usuario conectado.
func (c *Console) PrintBalance(address string, balance int64, known bool) {
	if !known {
		fmt.Fprintf(c.out, "balance for %s: unknown (refresh failed)\n", format.ShortenAddress(address))
		return
	}
	fmt.Fprintf(c.out, "balance for %s: %s points\n", format.ShortenAddress(address), format.Amount(balance))
}

// PrintDispute imprime los detalles de la disputa de un mercado.
func (c *Console) PrintDispute(d domain.Dispute, m domain.Market) {
	if !d.Exists() {
		fmt.Fprintf(c.out, "market #%d has no dispute\n", m.ID)
		return
	}

	fmt.Fprintf(c.out, "dispute on market #%d (%s)\n", d.MarketID, m.Matchup())
	fmt.Fprintf(c.out, "  disputer:       %s\n", format.ShortenAddress(d.Disputer))
	fmt.Fprintf(c.out, "  claimed winner: %s\n", d.ClaimedWinner.Label(m.Team1, m.Team2))
	fmt.Fprintf(c.out, "  stake:          %s\n", format.Amount(d.Stake))
	fmt.Fprintf(c.out, "  status:         %s\n", d.Status)
}

// PrintHistory imprime el histórico local de transacciones.
func (c *Console) PrintHistory(recs []domain.TxRecord) {
	if len(recs) == 0 {
		fmt.Fprintln(c.out, "no transactions recorded")
		return
	}

	table := tablewriter.NewWriter(c.out)
	table.Header("Submitted", "Function", "Status", "Hash")

	for _, r := range recs {
		hash := "-"
		if r.Hash != "" {
			hash = format.ShortenAddress(r.Hash)
		}
		table.Append(
			r.SubmittedAt.UTC().Format("2006-01-02 15:04"),
			r.Function,
			r.Status,
			hash,
		)
	}

	table.Render()
}

// PrintReceipt imprime la confirmación de una transacción finalizada.
func (c *Console) PrintReceipt(function string, rcpt domain.Receipt) {
	fmt.Fprintf(c.out, "%s %s: %s\n", function, rcpt.Status, rcpt.Hash)
}
