package gateway

// decode.go — frontera de deserialización tipada: una función por tipo de
// registro del contrato. Ninguna estructura sin tipar pasa de aquí.

import (
	"fmt"
	"strconv"

	"github.com/alejandrodnm/genbet/internal/domain"
)

// decodeMarket convierte un registro normalizado del nodo a domain.Market.
// Los campos ausentes toman los defaults del registro vacío del contrato.
func decodeMarket(v any) (domain.Market, error) {
	rec, ok := v.(map[string]any)
	if !ok {
		return domain.Market{}, fmt.Errorf("market: unexpected shape %T", v)
	}
	return domain.Market{
		ID:            fieldInt64(rec, "id", 0),
		Creator:       fieldString(rec, "creator", ""),
		Team1:         fieldString(rec, "team1", ""),
		Team2:         fieldString(rec, "team2", ""),
		League:        fieldString(rec, "league", ""),
		MatchDate:     fieldString(rec, "match_date", ""),
		ResolutionURL: fieldString(rec, "resolution_url", ""),
		OddsTeam1:     fieldString(rec, "odds_team1", "0.00"),
		OddsDraw:      fieldString(rec, "odds_draw", "0.00"),
		OddsTeam2:     fieldString(rec, "odds_team2", "0.00"),
		Status:        domain.Status(fieldString(rec, "status", "")),
		Winner:        domain.Outcome(fieldInt64(rec, "winner", -1)),
		TotalPool:     fieldInt64(rec, "total_pool", 0),
		CreatedAt:     fieldInt64(rec, "created_at", 0),
	}, nil
}

// decodeBets convierte la lista de apuestas de get_market_bets/get_user_bets.
func decodeBets(v any) ([]domain.Bet, error) {
	if v == nil {
		return nil, nil
	}
	items, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("bets: unexpected shape %T", v)
	}

	bets := make([]domain.Bet, 0, len(items))
	for i, item := range items {
		bet, err := decodeBet(item)
		if err != nil {
			return nil, fmt.Errorf("bets[%d]: %w", i, err)
		}
		bets = append(bets, bet)
	}
	return bets, nil
}

// decodeBet convierte un registro normalizado del nodo a domain.Bet.
func decodeBet(v any) (domain.Bet, error) {
	rec, ok := v.(map[string]any)
	if !ok {
		return domain.Bet{}, fmt.Errorf("bet: unexpected shape %T", v)
	}
	return domain.Bet{
		User:            fieldString(rec, "user", ""),
		MarketID:        fieldInt64(rec, "market_id", 0),
		Outcome:         domain.Outcome(fieldInt64(rec, "outcome", -1)),
		Amount:          fieldInt64(rec, "amount", 0),
		PotentialPayout: fieldInt64(rec, "potential_payout", 0),
		Timestamp:       fieldInt64(rec, "timestamp", 0),
		Claimed:         fieldBool(rec, "claimed"),
	}, nil
}

// decodeDispute convierte un registro normalizado del nodo a domain.Dispute.
func decodeDispute(v any) (domain.Dispute, error) {
	rec, ok := v.(map[string]any)
	if !ok {
		return domain.Dispute{}, fmt.Errorf("dispute: unexpected shape %T", v)
	}
	return domain.Dispute{
		Disputer:      fieldString(rec, "disputer", ""),
		MarketID:      fieldInt64(rec, "market_id", 0),
		Stake:         fieldInt64(rec, "stake", 0),
		ClaimedWinner: domain.Outcome(fieldInt64(rec, "claimed_winner", -1)),
		Status:        domain.DisputeStatus(fieldString(rec, "status", "")),
		CreatedAt:     fieldInt64(rec, "created_at", 0),
	}, nil
}

// --- helpers de campos ---

// fieldInt64 lee un campo numérico. Acepta string decimal como fallback:
// los enteros fuera de rango seguro llegan normalizados a string.
func fieldInt64(rec map[string]any, key string, def int64) int64 {
	switch v := rec[key].(type) {
	case int64:
		return v
	case float64:
		return int64(v)
	case string:
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return def
}

func fieldString(rec map[string]any, key, def string) string {
	if s, ok := rec[key].(string); ok && s != "" {
		return s
	}
	return def
}

func fieldBool(rec map[string]any, key string) bool {
	b, _ := rec[key].(bool)
	return b
}

// asInt64 convierte un valor escalar normalizado a int64.
func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case float64:
		return int64(n), true
	case string:
		if parsed, err := strconv.ParseInt(n, 10, 64); err == nil {
			return parsed, true
		}
	}
	return 0, false
}
