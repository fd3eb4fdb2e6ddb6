package cache

// balance.go — espejo local del balance on-chain del usuario conectado.

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/alejandrodnm/genbet/internal/domain"
	"github.com/alejandrodnm/genbet/internal/ports"
)

const defaultRetryDelay = time.Second

// BalanceTracker mantiene el último balance conocido de una dirección.
// El valor es informativo: la validación autoritativa de fondos la hace
// el contrato al procesar cada transacción.
type BalanceTracker struct {
	gw         ports.BalanceReader
	address    string
	retryDelay time.Duration

	mu      sync.RWMutex
	balance int64
	known   bool
	lastErr error
}

// NewBalanceTracker crea el tracker para la dirección dada.
func NewBalanceTracker(gw ports.BalanceReader, address string) *BalanceTracker {
	return &BalanceTracker{gw: gw, address: address, retryDelay: defaultRetryDelay}
}

// Refresh consulta el balance actual. Ante un fallo transitorio reintenta
// exactamente una vez tras una espera fija; si también falla, conserva el
// último valor conocido y registra el error.
func (t *BalanceTracker) Refresh(ctx context.Context) error {
	balance, err := t.gw.GetUserBalance(ctx, t.address)
	if err != nil && domain.IsTransient(err) {
		slog.Debug("balance fetch failed, retrying once", "err", err)
		select {
		case <-time.After(t.retryDelay):
		case <-ctx.Done():
			return ctx.Err()
		}
		balance, err = t.gw.GetUserBalance(ctx, t.address)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if err != nil {
		t.lastErr = err
		return fmt.Errorf("cache.BalanceTracker: refresh %s: %w", t.address, err)
	}
	t.balance = balance
	t.known = true
	t.lastErr = nil
	return nil
}

// Balance devuelve el último balance conocido y si alguna vez se ha
// consultado con éxito.
func (t *BalanceTracker) Balance() (int64, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.balance, t.known
}

// Err devuelve el error del último refresh fallido, o nil.
func (t *BalanceTracker) Err() error {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.lastErr
}
