package domain

import "time"

// Estados de transacción que reporta el nodo GenLayer.
const (
	TxStatusFinalized = "FINALIZED"
	TxStatusAccepted  = "ACCEPTED"
	TxStatusPending   = "PENDING"
	TxStatusRejected  = "REJECTED"
)

// Receipt es el comprobante devuelto por el nodo para una transacción.
type Receipt struct {
	Hash   string
	Status string
}

// Finalized devuelve true si la transacción quedó confirmada de forma durable.
func (r Receipt) Finalized() bool {
	return r.Status == TxStatusFinalized
}

// TxRecord es la anotación local de una transacción enviada. Vive en el
// journal SQLite, nunca en el contrato.
type TxRecord struct {
	LocalID     string // uuid generado por el cliente
	Hash        string
	Function    string
	Status      string
	SubmittedAt time.Time
	FinalizedAt *time.Time
}
