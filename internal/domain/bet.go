package domain

// Bet es una apuesta registrada en el contrato.
type Bet struct {
	User            string
	MarketID        int64
	Outcome         Outcome
	Amount          int64
	PotentialPayout int64
	Timestamp       int64
	Claimed         bool
}

// Won devuelve true si la apuesta acertó el winner del mercado dado.
func (b Bet) Won(m Market) bool {
	return m.Status == StatusResolved && b.Outcome == m.Winner
}
