// Package trading orquesta las acciones del usuario contra el contrato:
// valida con el estado cacheado, delega la escritura al gateway y encadena
// los efectos post-transacción (balance, refresh de mercados, journal).
package trading

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/alejandrodnm/genbet/internal/cache"
	"github.com/alejandrodnm/genbet/internal/domain"
	"github.com/alejandrodnm/genbet/internal/ports"
)

// Service coordina validación, escritura y efectos posteriores.
//
// La validación usa el estado cacheado como primera línea: una acción
// claramente inválida no gasta una transacción. El contrato sigue siendo
// el validador autoritativo; pasar la validación local no garantiza que
// la transacción se acepte.
type Service struct {
	writer  ports.MarketWriter
	markets *cache.MarketCache
	balance *cache.BalanceTracker
	journal ports.Journal
}

// New crea el servicio. journal puede ser nil (sin histórico local).
func New(writer ports.MarketWriter, markets *cache.MarketCache, balance *cache.BalanceTracker, journal ports.Journal) *Service {
	return &Service{
		writer:  writer,
		markets: markets,
		balance: balance,
		journal: journal,
	}
}

// CreateMarket valida los parámetros y crea el mercado.
func (s *Service) CreateMarket(ctx context.Context, p ports.CreateMarketParams) (domain.Receipt, error) {
	if p.Team1 == "" || p.Team2 == "" {
		return domain.Receipt{}, &domain.ValidationError{Field: "teams", Reason: "both team names are required"}
	}
	if p.League == "" {
		return domain.Receipt{}, &domain.ValidationError{Field: "league", Reason: "league is required"}
	}
	if !parseableDate(p.MatchDate) {
		return domain.Receipt{}, &domain.ValidationError{Field: "match_date", Reason: "not an ISO-8601 date"}
	}

	rcpt, err := s.writer.CreateMarket(ctx, p)
	if err != nil {
		return domain.Receipt{}, err
	}
	s.afterWrite(ctx, "create_market", rcpt)
	return rcpt, nil
}

// PlaceBet valida la apuesta contra el estado cacheado y la envía.
func (s *Service) PlaceBet(ctx context.Context, marketID int64, outcome domain.Outcome, amount int64) (domain.Receipt, error) {
	if !outcome.Valid() {
		return domain.Receipt{}, &domain.ValidationError{Field: "outcome", Reason: "must be draw, team1 or team2"}
	}
	if amount <= 0 {
		return domain.Receipt{}, &domain.ValidationError{Field: "amount", Reason: "must be positive"}
	}
	if err := s.checkFunds(amount); err != nil {
		return domain.Receipt{}, err
	}

	m, ok := s.markets.ByID(marketID)
	if !ok {
		return domain.Receipt{}, &domain.ValidationError{Field: "market", Reason: fmt.Sprintf("market %d not found", marketID)}
	}
	if !m.IsOpen() {
		return domain.Receipt{}, &domain.ValidationError{
			Field:  "market",
			Reason: fmt.Sprintf("market %d is %s, not open for betting", marketID, m.Status),
		}
	}

	rcpt, err := s.writer.PlaceBet(ctx, marketID, outcome, amount)
	if err != nil {
		return domain.Receipt{}, err
	}
	s.afterWrite(ctx, "place_bet", rcpt)
	return rcpt, nil
}

// ResolveMarket pide la resolución de un mercado cuyo partido ya terminó.
func (s *Service) ResolveMarket(ctx context.Context, marketID int64) (domain.Receipt, error) {
	if m, ok := s.markets.ByID(marketID); ok && m.Status == domain.StatusResolved {
		return domain.Receipt{}, &domain.ValidationError{Field: "market", Reason: fmt.Sprintf("market %d already resolved", marketID)}
	}

	rcpt, err := s.writer.ResolveMarket(ctx, marketID)
	if err != nil {
		return domain.Receipt{}, err
	}
	s.afterWrite(ctx, "resolve_market", rcpt)
	return rcpt, nil
}

// DisputeMarket desafía el resultado de un mercado resuelto.
func (s *Service) DisputeMarket(ctx context.Context, marketID int64, claimedWinner domain.Outcome, stake int64) (domain.Receipt, error) {
	if !claimedWinner.Valid() {
		return domain.Receipt{}, &domain.ValidationError{Field: "claimed_winner", Reason: "must be draw, team1 or team2"}
	}
	if stake <= 0 {
		return domain.Receipt{}, &domain.ValidationError{Field: "stake", Reason: "must be positive"}
	}
	if err := s.checkFunds(stake); err != nil {
		return domain.Receipt{}, err
	}

	m, ok := s.markets.ByID(marketID)
	if !ok {
		return domain.Receipt{}, &domain.ValidationError{Field: "market", Reason: fmt.Sprintf("market %d not found", marketID)}
	}
	if m.Status != domain.StatusResolved {
		return domain.Receipt{}, &domain.ValidationError{
			Field:  "market",
			Reason: fmt.Sprintf("market %d is %s, only resolved markets can be disputed", marketID, m.Status),
		}
	}

	rcpt, err := s.writer.DisputeMarket(ctx, marketID, claimedWinner, stake)
	if err != nil {
		return domain.Receipt{}, err
	}
	s.afterWrite(ctx, "dispute_market", rcpt)
	return rcpt, nil
}

// ClaimWinnings reclama las ganancias del caller en un mercado resuelto.
func (s *Service) ClaimWinnings(ctx context.Context, marketID int64) (domain.Receipt, error) {
	if m, ok := s.markets.ByID(marketID); ok && m.Status != domain.StatusResolved {
		return domain.Receipt{}, &domain.ValidationError{
			Field:  "market",
			Reason: fmt.Sprintf("market %d is %s, nothing to claim yet", marketID, m.Status),
		}
	}

	rcpt, err := s.writer.ClaimWinnings(ctx, marketID)
	if err != nil {
		return domain.Receipt{}, err
	}
	s.afterWrite(ctx, "claim_winnings", rcpt)
	return rcpt, nil
}

// checkFunds compara contra el balance espejado. Sin balance conocido la
// validación pasa: el contrato es quien decide de verdad.
func (s *Service) checkFunds(amount int64) error {
	if s.balance == nil {
		return nil
	}
	balance, known := s.balance.Balance()
	if known && amount > balance {
		return &domain.ValidationError{
			Field:  "amount",
			Reason: fmt.Sprintf("insufficient balance: have %d, need %d", balance, amount),
		}
	}
	return nil
}

// afterWrite encadena los efectos de una transacción finalizada: balance
// al momento, mercados con debounce, y anotación en el journal. Ningún
// fallo aquí deshace la transacción ya confirmada.
func (s *Service) afterWrite(ctx context.Context, function string, rcpt domain.Receipt) {
	if s.balance != nil {
		if err := s.balance.Refresh(ctx); err != nil {
			slog.Warn("balance refresh after write failed", "function", function, "err", err)
		}
	}
	if s.markets != nil {
		s.markets.RefreshAfterMutation(0)
	}
	if s.journal != nil {
		now := time.Now().UTC()
		if err := s.journal.RecordTx(ctx, domain.TxRecord{
			Hash:        rcpt.Hash,
			Function:    function,
			Status:      rcpt.Status,
			SubmittedAt: now,
			FinalizedAt: &now,
		}); err != nil {
			slog.Warn("journal record failed", "function", function, "err", err)
		}
	}
}

func parseableDate(s string) bool {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}
