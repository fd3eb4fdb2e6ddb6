package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alejandrodnm/genbet/internal/domain"
	"github.com/alejandrodnm/genbet/internal/ports"
)

// run despacha el subcomando. Los comandos de lectura refrescan la cache
// primero; los de escritura delegan la validación al servicio de trading.
func (a *app) run(ctx context.Context, args []string) error {
	cmd, rest := args[0], args[1:]

	switch cmd {
	case "markets":
		return a.cmdMarkets(ctx, rest)
	case "fixtures":
		return a.cmdFixtures(ctx, rest)
	case "balance":
		return a.cmdBalance(ctx)
	case "bets":
		return a.cmdBets(ctx, rest)
	case "mybets":
		return a.cmdMyBets(ctx)
	case "dispute-info":
		return a.cmdDisputeInfo(ctx, rest)
	case "create":
		return a.cmdCreate(ctx, rest)
	case "bet":
		return a.cmdBet(ctx, rest)
	case "resolve":
		return a.cmdResolve(ctx, rest)
	case "dispute":
		return a.cmdDispute(ctx, rest)
	case "claim":
		return a.cmdClaim(ctx, rest)
	case "history":
		return a.cmdHistory(ctx, rest)
	default:
		usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// refreshMarkets llena la cache y anota lo observado en el journal.
func (a *app) refreshMarkets(ctx context.Context) error {
	if err := a.markets.Refresh(ctx, false); err != nil {
		return err
	}
	if snap := a.markets.Snapshot(); len(snap) > 0 {
		if err := a.journal.RecordMarkets(ctx, snap); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) cmdMarkets(ctx context.Context, args []string) error {
	if err := a.refreshMarkets(ctx); err != nil {
		return err
	}

	markets := a.markets.Snapshot()
	if len(args) > 0 {
		markets = a.markets.ByStatus(domain.Status(args[0]))
	}
	a.console.PrintMarkets(markets)
	return nil
}

func (a *app) cmdFixtures(ctx context.Context, args []string) error {
	if a.cfg.Fixtures.URL == "" {
		return fmt.Errorf("no fixtures URL configured (set fixtures.url or GENBET_FIXTURES_URL)")
	}
	if err := a.fixt.Load(ctx); err != nil {
		return err
	}

	fixtures := a.fixt.Upcoming(time.Now().UTC())
	if len(args) > 0 {
		fixtures = a.fixt.BySport(args[0])
	}
	a.console.PrintFixtures(fixtures)
	return nil
}

func (a *app) cmdBalance(ctx context.Context) error {
	if a.balance == nil {
		return domain.ErrNoSession
	}
	if err := a.balance.Refresh(ctx); err != nil {
		return err
	}
	balance, known := a.balance.Balance()
	a.console.PrintBalance(a.account, balance, known)
	return nil
}

func (a *app) cmdBets(ctx context.Context, args []string) error {
	id, err := parseMarketID(args)
	if err != nil {
		return err
	}

	bets, err := a.gw.GetMarketBets(ctx, id)
	if err != nil {
		return err
	}
	a.console.PrintBets(bets, a.marketIndex(ctx))
	return nil
}

func (a *app) cmdMyBets(ctx context.Context) error {
	if a.account == "" {
		return domain.ErrNoSession
	}

	bets, err := a.gw.GetUserBets(ctx, a.account)
	if err != nil {
		return err
	}
	a.console.PrintBets(bets, a.marketIndex(ctx))
	return nil
}

func (a *app) cmdDisputeInfo(ctx context.Context, args []string) error {
	id, err := parseMarketID(args)
	if err != nil {
		return err
	}

	dispute, err := a.gw.GetDispute(ctx, id)
	if err != nil {
		return err
	}
	market, err := a.gw.GetMarket(ctx, id)
	if err != nil {
		return err
	}
	a.console.PrintDispute(dispute, market)
	return nil
}

func (a *app) cmdCreate(ctx context.Context, args []string) error {
	if len(args) < 4 {
		return fmt.Errorf("usage: create <team1> <team2> <league> <date> [resolution-url]")
	}

	params := ports.CreateMarketParams{
		Team1:        args[0],
		Team2:        args[1],
		League:       args[2],
		MatchDate:    args[3],
		GenerateOdds: true,
	}
	if len(args) > 4 {
		params.ResolutionURL = args[4]
	}

	if err := a.refreshMarkets(ctx); err != nil {
		return err
	}
	rcpt, err := a.svc.CreateMarket(ctx, params)
	if err != nil {
		return err
	}
	a.console.PrintReceipt("create_market", rcpt)
	return nil
}

func (a *app) cmdBet(ctx context.Context, args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("usage: bet <market-id> <1|X|2> <amount>")
	}
	id, err := parseMarketID(args[:1])
	if err != nil {
		return err
	}
	outcome, err := parseOutcome(args[1])
	if err != nil {
		return err
	}
	amount, err := strconv.ParseInt(args[2], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid amount %q", args[2])
	}

	if err := a.refreshMarkets(ctx); err != nil {
		return err
	}
	rcpt, err := a.svc.PlaceBet(ctx, id, outcome, amount)
	if err != nil {
		return err
	}
	a.console.PrintReceipt("place_bet", rcpt)
	return nil
}

func (a *app) cmdResolve(ctx context.Context, args []string) error {
	id, err := parseMarketID(args)
	if err != nil {
		return err
	}

	if err := a.refreshMarkets(ctx); err != nil {
		return err
	}
	rcpt, err := a.svc.ResolveMarket(ctx, id)
	if err != nil {
		return err
	}
	a.console.PrintReceipt("resolve_market", rcpt)
	return nil
}

func (a *app) cmdDispute(ctx context.Context, args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("usage: dispute <market-id> <1|X|2> <stake>")
	}
	id, err := parseMarketID(args[:1])
	if err != nil {
		return err
	}
	winner, err := parseOutcome(args[1])
	if err != nil {
		return err
	}
	stake, err := strconv.ParseInt(args[2], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid stake %q", args[2])
	}

	if err := a.refreshMarkets(ctx); err != nil {
		return err
	}
	rcpt, err := a.svc.DisputeMarket(ctx, id, winner, stake)
	if err != nil {
		return err
	}
	a.console.PrintReceipt("dispute_market", rcpt)
	return nil
}

func (a *app) cmdClaim(ctx context.Context, args []string) error {
	id, err := parseMarketID(args)
	if err != nil {
		return err
	}

	if err := a.refreshMarkets(ctx); err != nil {
		return err
	}
	rcpt, err := a.svc.ClaimWinnings(ctx, id)
	if err != nil {
		return err
	}
	a.console.PrintReceipt("claim_winnings", rcpt)
	return nil
}

func (a *app) cmdHistory(ctx context.Context, args []string) error {
	days := 7
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid days %q", args[0])
		}
		days = n
	}

	now := time.Now().UTC()
	recs, err := a.journal.History(ctx, now.AddDate(0, 0, -days), now)
	if err != nil {
		return err
	}
	a.console.PrintHistory(recs)
	return nil
}

// marketIndex devuelve los mercados cacheados por id, para resolver nombres
// en las tablas de apuestas. Best-effort: sin cache, las tablas muestran ids.
func (a *app) marketIndex(ctx context.Context) map[int64]domain.Market {
	if err := a.refreshMarkets(ctx); err != nil {
		return nil
	}
	idx := make(map[int64]domain.Market)
	for _, m := range a.markets.Snapshot() {
		idx[m.ID] = m
	}
	return idx
}

func parseMarketID(args []string) (int64, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("expected exactly one market id")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id < 0 {
		return 0, fmt.Errorf("invalid market id %q", args[0])
	}
	return id, nil
}

// parseOutcome acepta la notación 1X2 clásica y alias legibles.
func parseOutcome(s string) (domain.Outcome, error) {
	switch strings.ToLower(s) {
	case "1", "team1", "home":
		return domain.OutcomeTeam1, nil
	case "x", "draw", "0":
		return domain.OutcomeDraw, nil
	case "2", "team2", "away":
		return domain.OutcomeTeam2, nil
	default:
		return domain.OutcomeUnset, fmt.Errorf("invalid outcome %q (use 1, X or 2)", s)
	}
}
