package notify_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/alejandrodnm/genbet/internal/adapters/notify"
	"github.com/alejandrodnm/genbet/internal/domain"
)

func makeMarket(id int64, team1, team2 string, status domain.Status) domain.Market {
	return domain.Market{
		ID:        id,
		Team1:     team1,
		Team2:     team2,
		League:    "La Liga",
		MatchDate: time.Now().Add(24 * time.Hour).UTC().Format(time.RFC3339),
		OddsTeam1: "1.85",
		OddsDraw:  "3.40",
		OddsTeam2: "4.20",
		Status:    status,
		Winner:    domain.OutcomeUnset,
		TotalPool: 125_000,
	}
}

func TestConsole_PrintMarkets(t *testing.T) {
	var buf bytes.Buffer
	c := notify.NewConsoleWriter(&buf)

	c.PrintMarkets([]domain.Market{
		makeMarket(0, "Real Madrid", "Barcelona", domain.StatusOpen),
	})

	out := buf.String()
	assert.Contains(t, out, "Real Madrid vs Barcelona")
	assert.Contains(t, out, "1.85")
	assert.Contains(t, out, "125,000")
	assert.Contains(t, out, "open")
}

func TestConsole_PrintMarkets_ResolvedShowsWinner(t *testing.T) {
	var buf bytes.Buffer
	c := notify.NewConsoleWriter(&buf)

	m := makeMarket(3, "Sevilla", "Valencia", domain.StatusResolved)
	m.Winner = domain.OutcomeTeam2
	c.PrintMarkets([]domain.Market{m})

	assert.Contains(t, buf.String(), "resolved (Valencia)")
}

func TestConsole_PrintMarkets_Empty(t *testing.T) {
	var buf bytes.Buffer
	c := notify.NewConsoleWriter(&buf)

	c.PrintMarkets(nil)
	assert.Contains(t, buf.String(), "no markets found")
}

func TestConsole_PrintBets_ResolvesMarketNames(t *testing.T) {
	var buf bytes.Buffer
	c := notify.NewConsoleWriter(&buf)

	m := makeMarket(2, "Betis", "Girona", domain.StatusOpen)
	bets := []domain.Bet{{
		User:            "0x1B2450Cfef068e70B150D7f777437cEc1F35f1D7",
		MarketID:        2,
		Outcome:         domain.OutcomeTeam1,
		Amount:          5_000,
		PotentialPayout: 9_250,
		Timestamp:       time.Now().Unix(),
	}}

	c.PrintBets(bets, map[int64]domain.Market{2: m})

	out := buf.String()
	assert.Contains(t, out, "Betis vs Girona")
	assert.Contains(t, out, "Betis", "el pick debe mostrar el nombre del equipo")
	assert.Contains(t, out, "5,000")
	assert.Contains(t, out, "0x1B2450Cf...f1D7")
}

func TestConsole_PrintBalance(t *testing.T) {
	var buf bytes.Buffer
	c := notify.NewConsoleWriter(&buf)

	c.PrintBalance("0x1B2450Cfef068e70B150D7f777437cEc1F35f1D7", 10_000, true)
	assert.Contains(t, buf.String(), "10,000 points")

	buf.Reset()
	c.PrintBalance("0x1B2450Cfef068e70B150D7f777437cEc1F35f1D7", 0, false)
	assert.Contains(t, buf.String(), "unknown")
}

func TestConsole_PrintDispute(t *testing.T) {
	var buf bytes.Buffer
	c := notify.NewConsoleWriter(&buf)

	m := makeMarket(5, "Ajax", "PSV", domain.StatusDisputed)
	d := domain.Dispute{
		Disputer:      "0xaabbccddeeff00112233445566778899aabbccdd",
		MarketID:      5,
		Stake:         2_000,
		ClaimedWinner: domain.OutcomeDraw,
		Status:        domain.DisputePending,
	}

	c.PrintDispute(d, m)

	out := buf.String()
	assert.Contains(t, out, "dispute on market #5")
	assert.Contains(t, out, "Draw")
	assert.Contains(t, out, "2,000")
	assert.Contains(t, out, "pending")
}

func TestConsole_PrintDispute_None(t *testing.T) {
	var buf bytes.Buffer
	c := notify.NewConsoleWriter(&buf)

	c.PrintDispute(domain.Dispute{}, makeMarket(7, "A", "B", domain.StatusResolved))
	assert.Contains(t, buf.String(), "has no dispute")
}

func TestConsole_PrintHistory(t *testing.T) {
	var buf bytes.Buffer
	c := notify.NewConsoleWriter(&buf)

	c.PrintHistory([]domain.TxRecord{{
		LocalID:     "local-1",
		Hash:        "0x6e07cdb1f2aa4fb2a1f23eaa4fb26e07cdb1f2aa4fb2a1f2",
		Function:    "place_bet",
		Status:      domain.TxStatusFinalized,
		SubmittedAt: time.Now().UTC(),
	}})

	out := buf.String()
	assert.Contains(t, out, "place_bet")
	assert.Contains(t, out, "FINALIZED")
}
