package domain

// DisputeStatus es el estado de una disputa en el contrato.
type DisputeStatus string

const (
	DisputePending  DisputeStatus = "pending"
	DisputeUpheld   DisputeStatus = "upheld"
	DisputeRejected DisputeStatus = "rejected"
)

// Dispute es el desafío con stake de un usuario al resultado declarado
// de un mercado resuelto. Como mucho una por mercado.
type Dispute struct {
	Disputer      string
	MarketID      int64
	Stake         int64
	ClaimedWinner Outcome
	Status        DisputeStatus
	CreatedAt     int64
}

// Exists devuelve true si el registro corresponde a una disputa real.
// El contrato devuelve un registro con status vacío cuando no hay disputa.
func (d Dispute) Exists() bool {
	return d.Status != ""
}
