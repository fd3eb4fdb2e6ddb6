package cache

// markets.go — colección en memoria de mercados válidos.
//
// Estrategia:
//   - Como mucho un refresh en vuelo: guard CAS; las llamadas concurrentes
//     son no-ops, nunca un segundo escaneo solapado.
//   - force salta solo la ventana de frescura, nunca el guard en vuelo.
//   - Fan-out acotado por índice; los fallos por índice se loguean y se
//     saltan, nunca abortan la pasada completa.
//   - La colección nueva se intercambia atómicamente al terminar la pasada:
//     los lectores nunca ven un estado parcial.

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/alejandrodnm/genbet/internal/domain"
	"github.com/alejandrodnm/genbet/internal/ports"
)

const (
	// DefaultMutationDelay es la espera antes del refresh forzado tras una
	// escritura, para tolerar el lag de consistencia eventual del contrato.
	DefaultMutationDelay = 2 * time.Second

	defaultStaleAfter     = 15 * time.Second
	defaultFetchWorkers   = 8
	mutationRefreshBudget = 2 * time.Minute
)

// MarketCacheConfig controla frescura y concurrencia del refresh.
type MarketCacheConfig struct {
	StaleAfter    time.Duration // ventana en la que un refresh no forzado es no-op
	FetchWorkers  int           // fan-out máximo de fetches por índice
	MutationDelay time.Duration // debounce del refresh post-escritura
}

// MarketCache mantiene la lista autoritativa en memoria de mercados válidos.
// Las copias son proyecciones descartables del contrato, nunca se mutan
// in situ: cada pasada reemplaza el slice entero por referencia.
type MarketCache struct {
	gw  ports.MarketReader
	cfg MarketCacheConfig

	fetching atomic.Bool // guard: como mucho un refresh en vuelo

	mu        sync.RWMutex
	markets   []domain.Market
	lastErr   error
	lastFetch time.Time

	timerMu sync.Mutex
	timer   *time.Timer // refresh post-escritura pendiente (cancel-and-replace)
}

// NewMarketCache crea la cache vacía sobre el reader dado.
func NewMarketCache(gw ports.MarketReader, cfg MarketCacheConfig) *MarketCache {
	if cfg.StaleAfter <= 0 {
		cfg.StaleAfter = defaultStaleAfter
	}
	if cfg.FetchWorkers <= 0 {
		cfg.FetchWorkers = defaultFetchWorkers
	}
	if cfg.MutationDelay <= 0 {
		cfg.MutationDelay = DefaultMutationDelay
	}
	return &MarketCache{gw: gw, cfg: cfg}
}

// Refresh ejecuta una pasada completa de enumeración de mercados.
//
// Si hay un refresh en vuelo, la llamada es un no-op (con o sin force).
// Sin force, un refresh dentro de la ventana de frescura también es no-op.
// El fallo del count se registra como estado de error y se devuelve; los
// fallos por índice solo excluyen ese índice.
func (c *MarketCache) Refresh(ctx context.Context, force bool) error {
	if !force && !c.stale() {
		slog.Debug("market refresh skipped, cache still fresh")
		return nil
	}

	if !c.fetching.CompareAndSwap(false, true) {
		slog.Debug("market refresh already in flight, skipping")
		return nil
	}
	defer c.fetching.Store(false)

	start := time.Now()

	count, err := c.gw.GetMarketCount(ctx)
	if err != nil {
		c.mu.Lock()
		c.lastErr = err
		c.mu.Unlock()
		return fmt.Errorf("cache.Refresh: market count: %w", err)
	}

	// count == 0 → colección vacía, sin fetches por índice
	if count == 0 {
		c.swap(nil, start)
		return nil
	}

	results := make([]domain.Market, count)
	fetched := make([]bool, count)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.cfg.FetchWorkers)
	for i := 0; i < count; i++ {
		g.Go(func() error {
			m, err := c.gw.GetMarket(gctx, int64(i))
			if err != nil {
				// un índice malo nunca aborta la lista completa
				slog.Warn("market fetch failed, skipping index", "index", i, "err", err)
				return nil
			}
			results[i] = m
			fetched[i] = true
			return nil
		})
	}
	g.Wait()

	// Incluir solo mercados con ambos nombres de equipo: el contrato
	// devuelve nombres vacíos para slots sin usar.
	valid := make([]domain.Market, 0, count)
	for i, m := range results {
		if fetched[i] && !m.IsEmpty() {
			valid = append(valid, m)
		}
	}

	c.swap(valid, start)
	slog.Info("markets refreshed",
		"total", count,
		"valid", len(valid),
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return nil
}

// RefreshAfterMutation programa un refresh forzado tras el delay
// configurado. Una llamada nueva cancela y reemplaza el timer pendiente
// (debounce, no cola).
func (c *MarketCache) RefreshAfterMutation(delay time.Duration) {
	if delay <= 0 {
		delay = c.cfg.MutationDelay
	}

	c.timerMu.Lock()
	defer c.timerMu.Unlock()

	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(delay, func() {
		ctx, cancel := context.WithTimeout(context.Background(), mutationRefreshBudget)
		defer cancel()
		if err := c.Refresh(ctx, true); err != nil {
			slog.Warn("post-mutation refresh failed", "err", err)
		}
	})
	slog.Debug("post-mutation refresh scheduled", "delay", delay)
}

// Close cancela cualquier refresh programado pendiente.
func (c *MarketCache) Close() {
	c.timerMu.Lock()
	defer c.timerMu.Unlock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// stale devuelve true si la cache está fuera de la ventana de frescura.
func (c *MarketCache) stale() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return time.Since(c.lastFetch) >= c.cfg.StaleAfter
}

// swap publica la colección nueva de forma atómica.
func (c *MarketCache) swap(markets []domain.Market, fetchedAt time.Time) {
	c.mu.Lock()
	c.markets = markets
	c.lastErr = nil
	c.lastFetch = fetchedAt
	c.mu.Unlock()
}

// --- vistas derivadas: puras, sin fetching adicional ---

// Snapshot devuelve una copia de la colección actual.
func (c *MarketCache) Snapshot() []domain.Market {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.Market, len(c.markets))
	copy(out, c.markets)
	return out
}

// ByStatus devuelve los mercados con el estado dado.
func (c *MarketCache) ByStatus(status domain.Status) []domain.Market {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []domain.Market
	for _, m := range c.markets {
		if m.Status == status {
			out = append(out, m)
		}
	}
	return out
}

// ByID busca un mercado por id en la colección actual.
func (c *MarketCache) ByID(id int64) (domain.Market, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, m := range c.markets {
		if m.ID == id {
			return m, true
		}
	}
	return domain.Market{}, false
}

// Open devuelve los mercados abiertos a apuestas.
func (c *MarketCache) Open() []domain.Market { return c.ByStatus(domain.StatusOpen) }

// Resolved devuelve los mercados resueltos.
func (c *MarketCache) Resolved() []domain.Market { return c.ByStatus(domain.StatusResolved) }

// Disputed devuelve los mercados en disputa.
func (c *MarketCache) Disputed() []domain.Market { return c.ByStatus(domain.StatusDisputed) }

// Err devuelve el error registrado del último refresh fallido, o nil.
func (c *MarketCache) Err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastErr
}

// LastRefresh devuelve cuándo terminó la última pasada exitosa.
func (c *MarketCache) LastRefresh() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastFetch
}
