package trading_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/genbet/internal/cache"
	"github.com/alejandrodnm/genbet/internal/domain"
	"github.com/alejandrodnm/genbet/internal/ports"
	"github.com/alejandrodnm/genbet/internal/trading"
)

// --- mocks ---

type mockWriter struct {
	calls []string
	err   error
}

func (m *mockWriter) record(fn string) (domain.Receipt, error) {
	m.calls = append(m.calls, fn)
	if m.err != nil {
		return domain.Receipt{}, m.err
	}
	return domain.Receipt{Hash: "0xfeed", Status: domain.TxStatusFinalized}, nil
}

func (m *mockWriter) CreateMarket(_ context.Context, _ ports.CreateMarketParams) (domain.Receipt, error) {
	return m.record("create_market")
}
func (m *mockWriter) PlaceBet(_ context.Context, _ int64, _ domain.Outcome, _ int64) (domain.Receipt, error) {
	return m.record("place_bet")
}
func (m *mockWriter) ResolveMarket(_ context.Context, _ int64) (domain.Receipt, error) {
	return m.record("resolve_market")
}
func (m *mockWriter) DisputeMarket(_ context.Context, _ int64, _ domain.Outcome, _ int64) (domain.Receipt, error) {
	return m.record("dispute_market")
}
func (m *mockWriter) ClaimWinnings(_ context.Context, _ int64) (domain.Receipt, error) {
	return m.record("claim_winnings")
}

type stubMarketReader struct {
	markets map[int64]domain.Market
}

func (s *stubMarketReader) GetMarketCount(_ context.Context) (int, error) {
	return len(s.markets), nil
}

func (s *stubMarketReader) GetMarket(_ context.Context, id int64) (domain.Market, error) {
	return s.markets[id], nil
}

type stubBalanceReader struct{ balance int64 }

func (s *stubBalanceReader) GetUserBalance(_ context.Context, _ string) (int64, error) {
	return s.balance, nil
}

type mockJournal struct {
	txs []domain.TxRecord
}

func (m *mockJournal) RecordMarkets(_ context.Context, _ []domain.Market) error { return nil }
func (m *mockJournal) RecordTx(_ context.Context, tx domain.TxRecord) error {
	m.txs = append(m.txs, tx)
	return nil
}
func (m *mockJournal) History(_ context.Context, _, _ time.Time) ([]domain.TxRecord, error) {
	return nil, nil
}
func (m *mockJournal) Close() error { return nil }

// --- helpers ---

type fixture struct {
	writer  *mockWriter
	journal *mockJournal
	balance *cache.BalanceTracker
	svc     *trading.Service
}

func newFixture(t *testing.T, markets map[int64]domain.Market, balance int64) *fixture {
	t.Helper()

	mc := cache.NewMarketCache(&stubMarketReader{markets: markets}, cache.MarketCacheConfig{
		// delay largo para que el refresh post-escritura nunca dispare en tests
		MutationDelay: time.Minute,
	})
	t.Cleanup(mc.Close)
	require.NoError(t, mc.Refresh(context.Background(), true))

	bt := cache.NewBalanceTracker(&stubBalanceReader{balance: balance}, "0xabc")
	require.NoError(t, bt.Refresh(context.Background()))

	writer := &mockWriter{}
	journal := &mockJournal{}
	return &fixture{
		writer:  writer,
		journal: journal,
		balance: bt,
		svc:     trading.New(writer, mc, bt, journal),
	}
}

func openMarket(id int64) domain.Market {
	return domain.Market{
		ID:        id,
		Team1:     "Arsenal",
		Team2:     "Chelsea",
		League:    "Premier League",
		OddsTeam1: "1.85",
		OddsDraw:  "3.40",
		OddsTeam2: "4.20",
		Status:    domain.StatusOpen,
		Winner:    domain.OutcomeUnset,
	}
}

func resolvedMarket(id int64) domain.Market {
	m := openMarket(id)
	m.Status = domain.StatusResolved
	m.Winner = domain.OutcomeTeam1
	return m
}

// --- tests ---

func TestService_PlaceBet_Success(t *testing.T) {
	f := newFixture(t, map[int64]domain.Market{0: openMarket(0)}, 10_000)

	rcpt, err := f.svc.PlaceBet(context.Background(), 0, domain.OutcomeTeam1, 1_000)

	require.NoError(t, err)
	assert.True(t, rcpt.Finalized())
	assert.Equal(t, []string{"place_bet"}, f.writer.calls)

	require.Len(t, f.journal.txs, 1, "la transacción debe quedar anotada")
	assert.Equal(t, "place_bet", f.journal.txs[0].Function)
}

func TestService_PlaceBet_MarketNotOpen(t *testing.T) {
	f := newFixture(t, map[int64]domain.Market{0: resolvedMarket(0)}, 10_000)

	_, err := f.svc.PlaceBet(context.Background(), 0, domain.OutcomeTeam1, 1_000)

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Empty(t, f.writer.calls, "una acción inválida nunca llega al gateway")
}

func TestService_PlaceBet_UnknownMarket(t *testing.T) {
	f := newFixture(t, map[int64]domain.Market{0: openMarket(0)}, 10_000)

	_, err := f.svc.PlaceBet(context.Background(), 42, domain.OutcomeTeam1, 1_000)

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Empty(t, f.writer.calls)
}

func TestService_PlaceBet_InvalidInputs(t *testing.T) {
	f := newFixture(t, map[int64]domain.Market{0: openMarket(0)}, 10_000)
	ctx := context.Background()

	var verr *domain.ValidationError

	_, err := f.svc.PlaceBet(ctx, 0, domain.OutcomeUnset, 1_000)
	require.ErrorAs(t, err, &verr)

	_, err = f.svc.PlaceBet(ctx, 0, domain.OutcomeDraw, 0)
	require.ErrorAs(t, err, &verr)

	_, err = f.svc.PlaceBet(ctx, 0, domain.OutcomeDraw, -5)
	require.ErrorAs(t, err, &verr)

	assert.Empty(t, f.writer.calls)
}

func TestService_PlaceBet_InsufficientBalance(t *testing.T) {
	f := newFixture(t, map[int64]domain.Market{0: openMarket(0)}, 500)

	_, err := f.svc.PlaceBet(context.Background(), 0, domain.OutcomeTeam2, 1_000)

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "amount", verr.Field)
	assert.Empty(t, f.writer.calls)
}

func TestService_CreateMarket_Validation(t *testing.T) {
	f := newFixture(t, nil, 10_000)
	ctx := context.Background()

	var verr *domain.ValidationError

	_, err := f.svc.CreateMarket(ctx, ports.CreateMarketParams{Team2: "B", League: "L", MatchDate: "2026-09-01"})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "teams", verr.Field)

	_, err = f.svc.CreateMarket(ctx, ports.CreateMarketParams{Team1: "A", Team2: "B", MatchDate: "2026-09-01"})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "league", verr.Field)

	_, err = f.svc.CreateMarket(ctx, ports.CreateMarketParams{Team1: "A", Team2: "B", League: "L", MatchDate: "next tuesday"})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "match_date", verr.Field)

	assert.Empty(t, f.writer.calls)

	_, err = f.svc.CreateMarket(ctx, ports.CreateMarketParams{
		Team1: "A", Team2: "B", League: "L", MatchDate: "2026-09-01T20:00:00Z",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"create_market"}, f.writer.calls)
}

func TestService_DisputeMarket_OnlyResolved(t *testing.T) {
	f := newFixture(t, map[int64]domain.Market{
		0: openMarket(0),
		1: resolvedMarket(1),
	}, 10_000)
	ctx := context.Background()

	var verr *domain.ValidationError
	_, err := f.svc.DisputeMarket(ctx, 0, domain.OutcomeTeam2, 500)
	require.ErrorAs(t, err, &verr)
	assert.Empty(t, f.writer.calls, "solo los mercados resueltos se pueden disputar")

	_, err = f.svc.DisputeMarket(ctx, 1, domain.OutcomeTeam2, 500)
	require.NoError(t, err)
	assert.Equal(t, []string{"dispute_market"}, f.writer.calls)
}

func TestService_ClaimWinnings_RequiresResolved(t *testing.T) {
	f := newFixture(t, map[int64]domain.Market{0: openMarket(0)}, 10_000)

	_, err := f.svc.ClaimWinnings(context.Background(), 0)

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Empty(t, f.writer.calls)
}

func TestService_WriterErrorPassesThrough(t *testing.T) {
	f := newFixture(t, map[int64]domain.Market{0: openMarket(0)}, 10_000)
	f.writer.err = &domain.TransactionTimeoutError{Hash: "0xdead", Attempts: 30, Interval: 5 * time.Second}

	_, err := f.svc.PlaceBet(context.Background(), 0, domain.OutcomeTeam1, 1_000)

	var timeout *domain.TransactionTimeoutError
	require.ErrorAs(t, err, &timeout)
	assert.Empty(t, f.journal.txs, "una transacción fallida no se anota como finalizada")
}
