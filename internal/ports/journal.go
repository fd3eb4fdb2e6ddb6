package ports

import (
	"context"
	"time"

	"github.com/alejandrodnm/genbet/internal/domain"
)

// Journal persiste observaciones locales: mercados vistos y transacciones
// enviadas. Es puramente observacional — nunca fuente de verdad del estado
// del contrato.
type Journal interface {
	// RecordMarkets hace upsert de los mercados observados en un refresh.
	RecordMarkets(ctx context.Context, markets []domain.Market) error

	// RecordTx anota una transacción enviada. Si LocalID está vacío se
	// genera uno nuevo.
	RecordTx(ctx context.Context, tx domain.TxRecord) error

	// History devuelve las transacciones anotadas en el rango dado,
	// más recientes primero.
	History(ctx context.Context, from, to time.Time) ([]domain.TxRecord, error)

	// Close cierra la conexión a la base de datos limpiamente.
	Close() error
}
