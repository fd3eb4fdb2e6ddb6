package domain

import "time"

// Fixture es un partido programado, cargado desde la fuente estática.
// Inmutable una vez cargado; no vive en el contrato.
type Fixture struct {
	ID            string
	Team1         string
	Team2         string
	League        string
	Date          string // ISO-8601
	Sport         string
	ResolutionURL string
}

// StartTime parsea Date. Devuelve el zero time si la fecha no es ISO-8601,
// lo que ordena los fixtures mal formados al principio.
func (f Fixture) StartTime() time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, f.Date); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

// Matchup devuelve "Team1 vs Team2" para presentación.
func (f Fixture) Matchup() string {
	return f.Team1 + " vs " + f.Team2
}
