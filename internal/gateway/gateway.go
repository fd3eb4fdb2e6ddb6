package gateway

// gateway.go — única frontera entre la aplicación y el contrato.
//
// Read/Write hablan con el nodo a través de ports.RPCClient; los wrappers
// tipados mapean 1:1 los métodos del contrato y decodifican cada registro
// con exactamente una función por tipo (decode.go). El gateway no sabe nada
// de caches: invalidar tras una escritura es responsabilidad del caller.

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/alejandrodnm/genbet/internal/domain"
	"github.com/alejandrodnm/genbet/internal/ports"
)

const (
	defaultReceiptInterval = 5 * time.Second
	defaultReceiptRetries  = 30
)

// Config controla el contrato objetivo y el polling de finalización.
type Config struct {
	ContractAddress string
	ReceiptInterval time.Duration
	ReceiptRetries  int
}

// Gateway implementa los puertos de lectura y escritura del contrato.
type Gateway struct {
	rpc      ports.RPCClient
	contract string
	receipt  ports.ReceiptOptions
}

var (
	_ ports.MarketReader  = (*Gateway)(nil)
	_ ports.BetReader     = (*Gateway)(nil)
	_ ports.DisputeReader = (*Gateway)(nil)
	_ ports.BalanceReader = (*Gateway)(nil)
	_ ports.MarketWriter  = (*Gateway)(nil)
)

// New crea un Gateway contra el contrato configurado.
func New(rpc ports.RPCClient, cfg Config) *Gateway {
	if cfg.ReceiptInterval <= 0 {
		cfg.ReceiptInterval = defaultReceiptInterval
	}
	if cfg.ReceiptRetries <= 0 {
		cfg.ReceiptRetries = defaultReceiptRetries
	}
	return &Gateway{
		rpc:      rpc,
		contract: cfg.ContractAddress,
		receipt: ports.ReceiptOptions{
			Status:   domain.TxStatusFinalized,
			Interval: cfg.ReceiptInterval,
			Retries:  cfg.ReceiptRetries,
		},
	}
}

// Read ejecuta un método view y devuelve el valor normalizado.
func (g *Gateway) Read(ctx context.Context, function string, args []any) (any, error) {
	if g.rpc.Account() == "" {
		return nil, &domain.GatewayError{Function: function, Err: domain.ErrNoSession}
	}

	v, err := g.rpc.Call(ctx, g.contract, function, args)
	if err != nil {
		return nil, g.wrap(function, err)
	}
	return v, nil
}

// Write envía una transacción y espera su finalización con polling acotado.
// No refresca ninguna cache, ni siquiera en caso de timeout.
func (g *Gateway) Write(ctx context.Context, function string, args []any, value int64) (domain.Receipt, error) {
	if g.rpc.Account() == "" {
		return domain.Receipt{}, &domain.GatewayError{Function: function, Err: domain.ErrNoSession}
	}

	hash, err := g.rpc.SendTransaction(ctx, g.contract, function, args, value)
	if err != nil {
		var rejected *domain.TransactionRejectedError
		if errors.As(err, &rejected) {
			return domain.Receipt{}, rejected
		}
		return domain.Receipt{}, g.wrap(function, err)
	}

	slog.Info("transaction submitted, waiting for finalization",
		"function", function,
		"hash", hash,
		"interval", g.receipt.Interval,
		"retries", g.receipt.Retries,
	)

	rcpt, err := g.rpc.WaitForReceipt(ctx, hash, g.receipt)
	if err != nil {
		var timeout *domain.TransactionTimeoutError
		var rejected *domain.TransactionRejectedError
		if errors.As(err, &timeout) || errors.As(err, &rejected) {
			return domain.Receipt{}, err
		}
		return domain.Receipt{}, g.wrap(function, err)
	}

	slog.Info("transaction finalized", "function", function, "hash", rcpt.Hash)
	return rcpt, nil
}

// wrap clasifica un error del RPC como GatewayError, marcando los
// transitorios (5xx del nodo) como reintentables.
func (g *Gateway) wrap(function string, err error) error {
	var te interface{ Transient() bool }
	return &domain.GatewayError{
		Function:  function,
		Transient: errors.As(err, &te) && te.Transient(),
		Err:       err,
	}
}

// --- wrappers tipados de lectura ---

// GetMarketCount devuelve el número total de mercados creados.
func (g *Gateway) GetMarketCount(ctx context.Context) (int, error) {
	v, err := g.Read(ctx, "get_market_count", nil)
	if err != nil {
		return 0, err
	}
	n, ok := asInt64(v)
	if !ok {
		return 0, g.wrap("get_market_count", fmt.Errorf("unexpected result shape %T", v))
	}
	return int(n), nil
}

// GetMarket devuelve el mercado en el índice dado. Los slots sin usar
// vuelven como registros con nombres de equipo vacíos.
func (g *Gateway) GetMarket(ctx context.Context, id int64) (domain.Market, error) {
	v, err := g.Read(ctx, "get_market", []any{id})
	if err != nil {
		return domain.Market{}, err
	}
	m, err := decodeMarket(v)
	if err != nil {
		return domain.Market{}, g.wrap("get_market", err)
	}
	return m, nil
}

// GetUserBalance devuelve el balance play-money de la dirección dada.
func (g *Gateway) GetUserBalance(ctx context.Context, address string) (int64, error) {
	v, err := g.Read(ctx, "get_user_balance", []any{address})
	if err != nil {
		return 0, err
	}
	n, ok := asInt64(v)
	if !ok {
		return 0, g.wrap("get_user_balance", fmt.Errorf("unexpected result shape %T", v))
	}
	return n, nil
}

// GetMarketBets devuelve todas las apuestas de un mercado.
func (g *Gateway) GetMarketBets(ctx context.Context, marketID int64) ([]domain.Bet, error) {
	v, err := g.Read(ctx, "get_market_bets", []any{marketID})
	if err != nil {
		return nil, err
	}
	bets, err := decodeBets(v)
	if err != nil {
		return nil, g.wrap("get_market_bets", err)
	}
	return bets, nil
}

// GetUserBets devuelve todas las apuestas de una dirección.
func (g *Gateway) GetUserBets(ctx context.Context, address string) ([]domain.Bet, error) {
	v, err := g.Read(ctx, "get_user_bets", []any{address})
	if err != nil {
		return nil, err
	}
	bets, err := decodeBets(v)
	if err != nil {
		return nil, g.wrap("get_user_bets", err)
	}
	return bets, nil
}

// GetDispute devuelve la disputa de un mercado. Si no existe, el registro
// vuelve con status vacío (Dispute.Exists() == false).
func (g *Gateway) GetDispute(ctx context.Context, marketID int64) (domain.Dispute, error) {
	v, err := g.Read(ctx, "get_dispute", []any{marketID})
	if err != nil {
		return domain.Dispute{}, err
	}
	d, err := decodeDispute(v)
	if err != nil {
		return domain.Dispute{}, g.wrap("get_dispute", err)
	}
	return d, nil
}

// --- wrappers tipados de escritura ---

// CreateMarket crea un mercado nuevo. Con GenerateOdds el contrato genera
// las odds con su LLM; si no, usa las odds por defecto.
func (g *Gateway) CreateMarket(ctx context.Context, p ports.CreateMarketParams) (domain.Receipt, error) {
	return g.Write(ctx, "create_market", []any{
		p.Team1, p.Team2, p.League, p.MatchDate, p.ResolutionURL, p.GenerateOdds, p.FixtureID,
	}, 0)
}

// PlaceBet apuesta amount al outcome dado en el mercado.
func (g *Gateway) PlaceBet(ctx context.Context, marketID int64, outcome domain.Outcome, amount int64) (domain.Receipt, error) {
	return g.Write(ctx, "place_bet", []any{marketID, int64(outcome), amount}, 0)
}

// ResolveMarket pide al contrato resolver el mercado desde su resolution URL.
func (g *Gateway) ResolveMarket(ctx context.Context, marketID int64) (domain.Receipt, error) {
	return g.Write(ctx, "resolve_market", []any{marketID}, 0)
}

// DisputeMarket desafía el resultado declarado de un mercado resuelto.
func (g *Gateway) DisputeMarket(ctx context.Context, marketID int64, claimedWinner domain.Outcome, stake int64) (domain.Receipt, error) {
	return g.Write(ctx, "dispute_market", []any{marketID, int64(claimedWinner), stake}, 0)
}

// ClaimWinnings reclama las ganancias no cobradas del caller en el mercado.
func (g *Gateway) ClaimWinnings(ctx context.Context, marketID int64) (domain.Receipt, error) {
	return g.Write(ctx, "claim_winnings", []any{marketID}, 0)
}
