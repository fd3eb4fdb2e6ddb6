package storage

// sqlite.go — journal local de mercados y transacciones.
//
// Estrategia:
//   - `markets`: UNA fila por mercado (UPSERT por id on-chain). Guarda el
//     último estado observado más first_seen/last_seen. El contrato sigue
//     siendo la fuente de verdad; esto es un registro de observaciones.
//   - `transactions`: una fila por transacción enviada, identificada por un
//     uuid local. El hash llega después del envío, el estado final después
//     del polling.
//   - Prune automático al arrancar: mercados no vistos en 30d, transacciones
//     de más de 90d.

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/alejandrodnm/genbet/internal/domain"
	"github.com/alejandrodnm/genbet/internal/ports"
	_ "modernc.org/sqlite"
)

const schema = `
-- Último estado observado de cada mercado
CREATE TABLE IF NOT EXISTS markets (
    id         INTEGER PRIMARY KEY,
    creator    TEXT,
    team1      TEXT    NOT NULL,
    team2      TEXT    NOT NULL,
    league     TEXT,
    match_date TEXT,
    status     TEXT    NOT NULL,
    winner     INTEGER NOT NULL DEFAULT -1,
    total_pool INTEGER NOT NULL DEFAULT 0,
    first_seen DATETIME NOT NULL,
    last_seen  DATETIME NOT NULL
);

-- Una fila por transacción enviada desde este cliente
CREATE TABLE IF NOT EXISTS transactions (
    local_id     TEXT PRIMARY KEY,
    hash         TEXT,
    function     TEXT    NOT NULL,
    status       TEXT    NOT NULL,
    submitted_at DATETIME NOT NULL,
    finalized_at DATETIME
);

CREATE INDEX IF NOT EXISTS idx_markets_status ON markets(status);
CREATE INDEX IF NOT EXISTS idx_markets_last   ON markets(last_seen DESC);
CREATE INDEX IF NOT EXISTS idx_tx_submitted   ON transactions(submitted_at DESC);
`

const (
	retentionMarkets = 30 * 24 * time.Hour
	retentionTxs     = 90 * 24 * time.Hour
)

// SQLiteJournal implementa ports.Journal usando SQLite (pure Go, sin CGo).
type SQLiteJournal struct {
	db *sql.DB
}

var _ ports.Journal = (*SQLiteJournal)(nil)

// NewSQLiteJournal abre (o crea) la base de datos en la ruta dada.
// Aplica el schema y limpia datos antiguos.
func NewSQLiteJournal(path string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.NewSQLiteJournal: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite es single-writer
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteJournal: apply schema: %w", err)
	}

	j := &SQLiteJournal{db: db}
	j.pruneOld(context.Background())
	return j, nil
}

// RecordMarkets hace upsert del estado observado de cada mercado.
// first_seen se conserva entre pasadas; last_seen siempre avanza.
func (j *SQLiteJournal) RecordMarkets(ctx context.Context, markets []domain.Market) error {
	if len(markets) == 0 {
		return nil
	}

	now := time.Now().UTC()

	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage.RecordMarkets: begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO markets
			(id, creator, team1, team2, league, match_date, status, winner,
			 total_pool, first_seen, last_seen)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			creator    = excluded.creator,
			team1      = excluded.team1,
			team2      = excluded.team2,
			league     = excluded.league,
			match_date = excluded.match_date,
			status     = excluded.status,
			winner     = excluded.winner,
			total_pool = excluded.total_pool,
			last_seen  = excluded.last_seen
	`)
	if err != nil {
		return fmt.Errorf("storage.RecordMarkets: prepare: %w", err)
	}
	defer stmt.Close()

	for _, m := range markets {
		if _, err := stmt.ExecContext(ctx,
			m.ID,
			m.Creator,
			m.Team1,
			m.Team2,
			m.League,
			m.MatchDate,
			string(m.Status),
			int64(m.Winner),
			m.TotalPool,
			now, // first_seen: ignorado en ON CONFLICT (no se sobreescribe)
			now, // last_seen
		); err != nil {
			return fmt.Errorf("storage.RecordMarkets: upsert market %d: %w", m.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage.RecordMarkets: commit: %w", err)
	}
	return nil
}

// RecordTx anota una transacción enviada. Upsert por local_id: la misma
// transacción se reanota cuando cambia de estado.
func (j *SQLiteJournal) RecordTx(ctx context.Context, rec domain.TxRecord) error {
	if rec.LocalID == "" {
		rec.LocalID = uuid.NewString()
	}
	if rec.SubmittedAt.IsZero() {
		rec.SubmittedAt = time.Now().UTC()
	}

	var finalized *time.Time
	if rec.FinalizedAt != nil {
		t := rec.FinalizedAt.UTC()
		finalized = &t
	}

	if _, err := j.db.ExecContext(ctx, `
		INSERT INTO transactions (local_id, hash, function, status, submitted_at, finalized_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(local_id) DO UPDATE SET
			hash         = excluded.hash,
			status       = excluded.status,
			finalized_at = excluded.finalized_at
	`,
		rec.LocalID,
		rec.Hash,
		rec.Function,
		rec.Status,
		rec.SubmittedAt.UTC(),
		finalized,
	); err != nil {
		return fmt.Errorf("storage.RecordTx: upsert %s: %w", rec.LocalID, err)
	}
	return nil
}

// History devuelve las transacciones enviadas en el rango dado, más
// recientes primero.
func (j *SQLiteJournal) History(ctx context.Context, from, to time.Time) ([]domain.TxRecord, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT local_id, hash, function, status, submitted_at, finalized_at
		FROM transactions
		WHERE submitted_at BETWEEN ? AND ?
		ORDER BY submitted_at DESC
	`, from.UTC(), to.UTC())
	if err != nil {
		return nil, fmt.Errorf("storage.History: query: %w", err)
	}
	defer rows.Close()

	var recs []domain.TxRecord
	for rows.Next() {
		var rec domain.TxRecord
		var hash sql.NullString
		var submitted string
		var finalized sql.NullString

		if err := rows.Scan(
			&rec.LocalID,
			&hash,
			&rec.Function,
			&rec.Status,
			&submitted,
			&finalized,
		); err != nil {
			return nil, fmt.Errorf("storage.History: scan row: %w", err)
		}

		rec.Hash = hash.String
		rec.SubmittedAt, _ = time.Parse(time.RFC3339, submitted)
		if finalized.Valid {
			if t, err := time.Parse(time.RFC3339, finalized.String); err == nil {
				rec.FinalizedAt = &t
			}
		}
		recs = append(recs, rec)
	}

	return recs, rows.Err()
}

// Close cierra la conexión a la base de datos.
func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}

// pruneOld elimina datos antiguos para mantener la DB ligera.
func (j *SQLiteJournal) pruneOld(ctx context.Context) {
	cutoffMarkets := time.Now().UTC().Add(-retentionMarkets)
	cutoffTxs := time.Now().UTC().Add(-retentionTxs)
	j.db.ExecContext(ctx, `DELETE FROM markets WHERE last_seen < ?`, cutoffMarkets)
	j.db.ExecContext(ctx, `DELETE FROM transactions WHERE submitted_at < ?`, cutoffTxs)
}
