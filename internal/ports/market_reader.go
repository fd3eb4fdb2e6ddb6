package ports

import (
	"context"

	"github.com/alejandrodnm/genbet/internal/domain"
)

// MarketReader lee mercados del contrato, ya decodificados a domain.Market.
type MarketReader interface {
	// GetMarketCount devuelve el número total de mercados creados.
	GetMarketCount(ctx context.Context) (int, error)

	// GetMarket devuelve el mercado en el índice dado. Los slots sin usar
	// vuelven como registros con nombres de equipo vacíos.
	GetMarket(ctx context.Context, id int64) (domain.Market, error)
}

// BetReader lee apuestas del contrato.
type BetReader interface {
	GetMarketBets(ctx context.Context, marketID int64) ([]domain.Bet, error)
	GetUserBets(ctx context.Context, address string) ([]domain.Bet, error)
}

// DisputeReader lee la disputa de un mercado, si existe.
type DisputeReader interface {
	GetDispute(ctx context.Context, marketID int64) (domain.Dispute, error)
}

// BalanceReader lee el balance play-money de una cuenta. El balance es
// propiedad del contrato; el cliente solo lo refleja.
type BalanceReader interface {
	GetUserBalance(ctx context.Context, address string) (int64, error)
}
