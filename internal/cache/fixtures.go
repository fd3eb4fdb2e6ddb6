package cache

// fixtures.go — catálogo en memoria de partidos próximos, cargado una vez
// por sesión desde la fuente externa de fixtures.

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/alejandrodnm/genbet/internal/domain"
	"github.com/alejandrodnm/genbet/internal/ports"
)

// FixtureCache carga el catálogo de fixtures una sola vez y sirve vistas
// derivadas. Los fixtures son datos de referencia, no estado on-chain:
// no hay invalidación ni refresh periódico.
type FixtureCache struct {
	src ports.FixtureSource

	mu       sync.RWMutex
	fixtures []domain.Fixture
	loaded   bool
}

// NewFixtureCache crea la cache vacía sobre la fuente dada.
func NewFixtureCache(src ports.FixtureSource) *FixtureCache {
	return &FixtureCache{src: src}
}

// Load carga el catálogo completo, ordenado por fecha de inicio ascendente.
// Las llamadas posteriores a una carga exitosa son no-ops.
func (c *FixtureCache) Load(ctx context.Context) error {
	c.mu.RLock()
	done := c.loaded
	c.mu.RUnlock()
	if done {
		return nil
	}

	fixtures, err := c.src.FetchFixtures(ctx)
	if err != nil {
		return fmt.Errorf("cache.FixtureCache: load: %w", err)
	}

	sort.Slice(fixtures, func(i, j int) bool {
		return fixtures[i].StartTime().Before(fixtures[j].StartTime())
	})

	c.mu.Lock()
	c.fixtures = fixtures
	c.loaded = true
	c.mu.Unlock()

	slog.Info("fixtures loaded", "count", len(fixtures))
	return nil
}

// All devuelve el catálogo completo ordenado por fecha.
func (c *FixtureCache) All() []domain.Fixture {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.Fixture, len(c.fixtures))
	copy(out, c.fixtures)
	return out
}

// BySport filtra por deporte.
func (c *FixtureCache) BySport(sport string) []domain.Fixture {
	return c.filter(func(f domain.Fixture) bool { return f.Sport == sport })
}

// ByLeague filtra por liga.
func (c *FixtureCache) ByLeague(league string) []domain.Fixture {
	return c.filter(func(f domain.Fixture) bool { return f.League == league })
}

// ByID busca un fixture por id.
func (c *FixtureCache) ByID(id string) (domain.Fixture, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, f := range c.fixtures {
		if f.ID == id {
			return f, true
		}
	}
	return domain.Fixture{}, false
}

// Upcoming devuelve los fixtures que aún no han empezado.
func (c *FixtureCache) Upcoming(now time.Time) []domain.Fixture {
	return c.filter(func(f domain.Fixture) bool { return f.StartTime().After(now) })
}

// Past devuelve los fixtures ya empezados o terminados.
func (c *FixtureCache) Past(now time.Time) []domain.Fixture {
	return c.filter(func(f domain.Fixture) bool { return !f.StartTime().After(now) })
}

func (c *FixtureCache) filter(keep func(domain.Fixture) bool) []domain.Fixture {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []domain.Fixture
	for _, f := range c.fixtures {
		if keep(f) {
			out = append(out, f)
		}
	}
	return out
}
