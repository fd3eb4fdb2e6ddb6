package domain

import (
	"strconv"
	"time"
)

// Status es el estado del ciclo de vida de un mercado en el contrato.
type Status string

const (
	StatusOpen     Status = "open"
	StatusLocked   Status = "locked"
	StatusResolved Status = "resolved"
	StatusDisputed Status = "disputed"
)

// Outcome identifica uno de los tres resultados posibles de un partido.
// Los valores coinciden con la codificación del contrato.
type Outcome int8

const (
	OutcomeUnset Outcome = -1 // mercado sin resolver
	OutcomeDraw  Outcome = 0
	OutcomeTeam1 Outcome = 1
	OutcomeTeam2 Outcome = 2
)

// Valid devuelve true si el outcome es apostable (draw/team1/team2).
func (o Outcome) Valid() bool {
	return o >= OutcomeDraw && o <= OutcomeTeam2
}

// Label devuelve la etiqueta legible del outcome usando los nombres de equipo.
func (o Outcome) Label(team1, team2 string) string {
	switch o {
	case OutcomeDraw:
		return "Draw"
	case OutcomeTeam1:
		if team1 != "" {
			return team1
		}
		return "Team 1"
	case OutcomeTeam2:
		if team2 != "" {
			return team2
		}
		return "Team 2"
	default:
		return "Unresolved"
	}
}

// Market representa un mercado de apuestas sobre un partido, tal como lo
// devuelve el contrato. Las copias en cache son proyecciones descartables;
// el contrato es la única fuente de verdad.
//
// Invariante: mientras Status es "open", Winner es OutcomeUnset; una vez
// "resolved" o "disputed", Winner es uno de los tres outcomes válidos.
type Market struct {
	ID            int64
	Creator       string
	Team1         string
	Team2         string
	League        string
	MatchDate     string // ISO-8601, tal como lo guarda el contrato
	ResolutionURL string
	OddsTeam1     string // odds decimales como strings ("2.50")
	OddsDraw      string
	OddsTeam2     string
	Status        Status
	Winner        Outcome
	TotalPool     int64 // pool total apostado, en unidades menores
	CreatedAt     int64
}

// IsEmpty devuelve true si el mercado es un slot sin usar del contrato.
// El contrato devuelve un registro con nombres vacíos para índices no creados.
func (m Market) IsEmpty() bool {
	return m.Team1 == "" || m.Team2 == ""
}

// IsOpen devuelve true si el mercado acepta apuestas.
func (m Market) IsOpen() bool {
	return m.Status == StatusOpen
}

// OddsFor devuelve las odds decimales del outcome dado, o 0 si no parsean.
func (m Market) OddsFor(o Outcome) float64 {
	var raw string
	switch o {
	case OutcomeDraw:
		raw = m.OddsDraw
	case OutcomeTeam1:
		raw = m.OddsTeam1
	case OutcomeTeam2:
		raw = m.OddsTeam2
	default:
		return 0
	}
	odds, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return odds
}

// PotentialPayout calcula el payout bruto de una apuesta de amount al
// outcome dado: floor(amount × odds), igual que hace el contrato.
func (m Market) PotentialPayout(o Outcome, amount int64) int64 {
	odds := m.OddsFor(o)
	if odds <= 0 || amount <= 0 {
		return 0
	}
	return int64(float64(amount) * odds)
}

// KickoffTime parsea MatchDate. ok=false si la fecha no es ISO-8601.
func (m Market) KickoffTime() (t time.Time, ok bool) {
	for _, layout := range []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02",
	} {
		if t, err := time.Parse(layout, m.MatchDate); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// Matchup devuelve "Team1 vs Team2" para presentación.
func (m Market) Matchup() string {
	return m.Team1 + " vs " + m.Team2
}
