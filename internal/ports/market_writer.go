package ports

import (
	"context"

	"github.com/alejandrodnm/genbet/internal/domain"
)

// CreateMarketParams son los argumentos de create_market.
type CreateMarketParams struct {
	Team1         string
	Team2         string
	League        string
	MatchDate     string // ISO-8601
	ResolutionURL string
	GenerateOdds  bool // true → el contrato genera odds con su LLM
	FixtureID     string
}

// MarketWriter envía transacciones de escritura al contrato y espera su
// finalización. Cada operación bloquea hasta el receipt o el error tipado
// correspondiente (timeout/rechazo). La invalidación de caches es
// responsabilidad del caller, no del writer.
type MarketWriter interface {
	CreateMarket(ctx context.Context, p CreateMarketParams) (domain.Receipt, error)
	PlaceBet(ctx context.Context, marketID int64, outcome domain.Outcome, amount int64) (domain.Receipt, error)
	ResolveMarket(ctx context.Context, marketID int64) (domain.Receipt, error)
	DisputeMarket(ctx context.Context, marketID int64, claimedWinner domain.Outcome, stake int64) (domain.Receipt, error)
	ClaimWinnings(ctx context.Context, marketID int64) (domain.Receipt, error)
}
