package ports

import (
	"context"
	"time"

	"github.com/alejandrodnm/genbet/internal/domain"
)

// ReceiptOptions controla el polling de finalización de una transacción.
type ReceiptOptions struct {
	Status   string // estado objetivo, normalmente FINALIZED
	Interval time.Duration
	Retries  int
}

// RPCClient es la frontera con el nodo GenLayer. El formato de wire es
// propio del nodo y opaco para el resto del sistema: Call devuelve valores
// ya normalizados (maps/slices/int64/string planos).
type RPCClient interface {
	// Account devuelve la dirección de la cuenta conectada, o "" si el
	// cliente no tiene sesión.
	Account() string

	// Call ejecuta un método view del contrato y devuelve el valor normalizado.
	Call(ctx context.Context, address, function string, args []any) (any, error)

	// SendTransaction firma y envía una transacción de escritura.
	// Devuelve el hash; no espera finalización.
	SendTransaction(ctx context.Context, address, function string, args []any, value int64) (string, error)

	// WaitForReceipt hace polling acotado hasta que la transacción alcanza
	// el estado pedido. Devuelve *domain.TransactionTimeoutError al agotar
	// los reintentos y *domain.TransactionRejectedError si el nodo la rechaza.
	WaitForReceipt(ctx context.Context, hash string, opts ReceiptOptions) (domain.Receipt, error)
}
