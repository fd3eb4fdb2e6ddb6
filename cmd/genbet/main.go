package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alejandrodnm/genbet/config"
	"github.com/alejandrodnm/genbet/internal/adapters/fixtures"
	"github.com/alejandrodnm/genbet/internal/adapters/genlayer"
	"github.com/alejandrodnm/genbet/internal/adapters/notify"
	"github.com/alejandrodnm/genbet/internal/adapters/storage"
	"github.com/alejandrodnm/genbet/internal/cache"
	"github.com/alejandrodnm/genbet/internal/gateway"
	"github.com/alejandrodnm/genbet/internal/trading"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	verbose := flag.Bool("verbose", false, "set log level to debug")
	logFormat := flag.String("format", "", "log format: text|json (overrides config)")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err, "path", *configPath)
		os.Exit(1)
	}

	if *verbose {
		cfg.Log.Level = "debug"
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}
	setupLogger(cfg.Log)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	app, err := newApp(cfg)
	if err != nil {
		slog.Error("failed to initialize", "err", err)
		os.Exit(1)
	}
	defer app.close()

	if err := app.run(ctx, flag.Args()); err != nil {
		slog.Error("command failed", "command", flag.Arg(0), "err", err)
		os.Exit(1)
	}
}

// app agrupa las piezas cableadas que usan los comandos.
type app struct {
	cfg     *config.Config
	gw      *gateway.Gateway
	markets *cache.MarketCache
	balance *cache.BalanceTracker
	fixt    *cache.FixtureCache
	svc     *trading.Service
	journal *storage.SQLiteJournal
	console *notify.Console
	account string
}

func newApp(cfg *config.Config) (*app, error) {
	var session *genlayer.Session
	if cfg.Chain.PrivateKey != "" {
		s, err := genlayer.NewSession(cfg.Chain.PrivateKey)
		if err != nil {
			return nil, fmt.Errorf("invalid GENBET_PRIVATE_KEY: %w", err)
		}
		session = s
	}

	client := genlayer.NewClient(cfg.Chain.RPCURL, cfg.Chain.ChainID, session)
	gw := gateway.New(client, gateway.Config{
		ContractAddress: cfg.Chain.ContractAddress,
		ReceiptInterval: cfg.ReceiptInterval(),
		ReceiptRetries:  cfg.Chain.ReceiptRetries,
	})

	journal, err := storage.NewSQLiteJournal(cfg.Storage.DSN)
	if err != nil {
		return nil, err
	}

	markets := cache.NewMarketCache(gw, cache.MarketCacheConfig{
		StaleAfter:    cfg.StaleAfter(),
		FetchWorkers:  cfg.Cache.FetchWorkers,
		MutationDelay: cfg.MutationDelay(),
	})

	a := &app{
		cfg:     cfg,
		gw:      gw,
		markets: markets,
		fixt:    cache.NewFixtureCache(fixtures.NewHTTPSource(cfg.Fixtures.URL)),
		journal: journal,
		console: notify.NewConsole(),
		account: client.Account(),
	}
	if a.account != "" {
		a.balance = cache.NewBalanceTracker(gw, a.account)
	}
	a.svc = trading.New(gw, markets, a.balance, journal)
	return a, nil
}

func (a *app) close() {
	a.markets.Close()
	if err := a.journal.Close(); err != nil {
		slog.Warn("journal close failed", "err", err)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `usage: genbet [flags] <command> [args]

market commands:
  markets [status]            list markets (open|locked|resolved|disputed)
  bets <market-id>            list bets on a market
  dispute-info <market-id>    show dispute details for a market

account commands:
  balance                     show your play-money balance
  mybets                      list your bets across all markets
  history [days]              show locally recorded transactions (default 7)

fixture commands:
  fixtures [sport]            list upcoming fixtures

trading commands:
  create <team1> <team2> <league> <date> [resolution-url]
  bet <market-id> <1|X|2> <amount>
  resolve <market-id>
  dispute <market-id> <1|X|2> <stake>
  claim <market-id>

flags:
`)
	flag.PrintDefaults()
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}
