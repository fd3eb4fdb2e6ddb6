package storage_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/genbet/internal/adapters/storage"
	"github.com/alejandrodnm/genbet/internal/domain"
)

func newTestJournal(t *testing.T) *storage.SQLiteJournal {
	t.Helper()
	j, err := storage.NewSQLiteJournal(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })
	return j
}

func TestSQLiteJournal_RecordMarkets_Upsert(t *testing.T) {
	j := newTestJournal(t)
	ctx := context.Background()

	m := domain.Market{
		ID:     7,
		Team1:  "Ajax",
		Team2:  "PSV",
		League: "Eredivisie",
		Status: domain.StatusOpen,
		Winner: domain.OutcomeUnset,
	}
	require.NoError(t, j.RecordMarkets(ctx, []domain.Market{m}))

	// segunda pasada con el mercado ya resuelto: misma fila, estado nuevo
	m.Status = domain.StatusResolved
	m.Winner = domain.OutcomeTeam1
	require.NoError(t, j.RecordMarkets(ctx, []domain.Market{m}))
}

func TestSQLiteJournal_RecordMarkets_Empty(t *testing.T) {
	j := newTestJournal(t)
	require.NoError(t, j.RecordMarkets(context.Background(), nil))
}

func TestSQLiteJournal_RecordTx_AndHistory(t *testing.T) {
	j := newTestJournal(t)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, j.RecordTx(ctx, domain.TxRecord{
		Hash:        "0xaaa",
		Function:    "place_bet",
		Status:      domain.TxStatusFinalized,
		SubmittedAt: now.Add(-time.Minute),
	}))
	require.NoError(t, j.RecordTx(ctx, domain.TxRecord{
		Hash:        "0xbbb",
		Function:    "create_market",
		Status:      domain.TxStatusPending,
		SubmittedAt: now,
	}))

	recs, err := j.History(ctx, now.Add(-time.Hour), now.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, recs, 2)

	// más recientes primero
	assert.Equal(t, "create_market", recs[0].Function)
	assert.Equal(t, "place_bet", recs[1].Function)
	assert.NotEmpty(t, recs[0].LocalID, "debe generar local_id si falta")
}

func TestSQLiteJournal_RecordTx_StatusUpdate(t *testing.T) {
	j := newTestJournal(t)
	ctx := context.Background()
	now := time.Now().UTC()

	rec := domain.TxRecord{
		LocalID:     "local-1",
		Hash:        "0xccc",
		Function:    "resolve_market",
		Status:      domain.TxStatusPending,
		SubmittedAt: now,
	}
	require.NoError(t, j.RecordTx(ctx, rec))

	finalized := now.Add(30 * time.Second)
	rec.Status = domain.TxStatusFinalized
	rec.FinalizedAt = &finalized
	require.NoError(t, j.RecordTx(ctx, rec))

	recs, err := j.History(ctx, now.Add(-time.Hour), now.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, recs, 1, "el mismo local_id no debe duplicar filas")
	assert.Equal(t, domain.TxStatusFinalized, recs[0].Status)
	require.NotNil(t, recs[0].FinalizedAt)
}

func TestSQLiteJournal_History_RangeFilter(t *testing.T) {
	j := newTestJournal(t)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, j.RecordTx(ctx, domain.TxRecord{
		Function:    "claim_winnings",
		Status:      domain.TxStatusFinalized,
		SubmittedAt: now.Add(-48 * time.Hour),
	}))
	require.NoError(t, j.RecordTx(ctx, domain.TxRecord{
		Function:    "place_bet",
		Status:      domain.TxStatusFinalized,
		SubmittedAt: now,
	}))

	recs, err := j.History(ctx, now.Add(-time.Hour), now.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "place_bet", recs[0].Function)
}
