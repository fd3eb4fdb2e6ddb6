package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/genbet/internal/domain"
)

func TestDecodeMarket_Defaults(t *testing.T) {
	// registro mínimo: los campos ausentes toman los defaults del contrato
	m, err := decodeMarket(map[string]any{"id": int64(2)})

	require.NoError(t, err)
	assert.Equal(t, int64(2), m.ID)
	assert.Equal(t, "0.00", m.OddsTeam1)
	assert.Equal(t, "0.00", m.OddsDraw)
	assert.Equal(t, "0.00", m.OddsTeam2)
	assert.Equal(t, domain.OutcomeUnset, m.Winner)
	assert.True(t, m.IsEmpty())
}

func TestDecodeMarket_NumericShapes(t *testing.T) {
	// los enteros fuera de rango seguro llegan como string decimal
	m, err := decodeMarket(map[string]any{
		"id":         float64(4), // algunos nodos serializan ids como float
		"team1":      "A",
		"team2":      "B",
		"total_pool": "9007199254740993",
		"winner":     int64(1),
	})

	require.NoError(t, err)
	assert.Equal(t, int64(4), m.ID)
	assert.Equal(t, int64(9007199254740993), m.TotalPool)
	assert.Equal(t, domain.OutcomeTeam1, m.Winner)
}

func TestDecodeMarket_BadShape(t *testing.T) {
	_, err := decodeMarket([]any{"not", "a", "record"})
	assert.Error(t, err)
}

func TestDecodeBets(t *testing.T) {
	bets, err := decodeBets([]any{
		map[string]any{
			"user":             "0xme",
			"market_id":        int64(3),
			"outcome":          int64(2),
			"amount":           int64(500),
			"potential_payout": int64(2100),
			"claimed":          true,
		},
	})

	require.NoError(t, err)
	require.Len(t, bets, 1)
	assert.Equal(t, domain.OutcomeTeam2, bets[0].Outcome)
	assert.Equal(t, int64(2100), bets[0].PotentialPayout)
	assert.True(t, bets[0].Claimed)
}

func TestDecodeBets_NilAndBadItem(t *testing.T) {
	bets, err := decodeBets(nil)
	require.NoError(t, err)
	assert.Nil(t, bets)

	_, err = decodeBets([]any{"not a record"})
	assert.Error(t, err)
}

func TestDecodeDispute(t *testing.T) {
	d, err := decodeDispute(map[string]any{
		"disputer":       "0xother",
		"market_id":      int64(5),
		"stake":          int64(1000),
		"claimed_winner": int64(0),
		"status":         "pending",
	})

	require.NoError(t, err)
	assert.True(t, d.Exists())
	assert.Equal(t, domain.OutcomeDraw, d.ClaimedWinner)
	assert.Equal(t, domain.DisputePending, d.Status)
}
