// Package fixtures carga el catálogo estático de partidos desde un
// documento JSON servido por HTTP.
package fixtures

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/alejandrodnm/genbet/internal/domain"
	"github.com/alejandrodnm/genbet/internal/ports"
)

// HTTPSource implementa ports.FixtureSource sobre un documento JSON plano.
type HTTPSource struct {
	http *http.Client
	url  string
}

var _ ports.FixtureSource = (*HTTPSource)(nil)

// NewHTTPSource crea la fuente apuntando a la URL del documento.
func NewHTTPSource(url string) *HTTPSource {
	return &HTTPSource{
		http: &http.Client{Timeout: 10 * time.Second},
		url:  url,
	}
}

// fixtureRecord es la forma del documento en el feed.
type fixtureRecord struct {
	ID            string `json:"id"`
	Team1         string `json:"team1"`
	Team2         string `json:"team2"`
	League        string `json:"league"`
	Date          string `json:"date"`
	Sport         string `json:"sport"`
	ResolutionURL string `json:"resolution_url"`
}

// FetchFixtures descarga y decodifica el documento completo. Cualquier
// fallo de red o de formato vuelve como *domain.FixtureLoadError.
func (s *HTTPSource) FetchFixtures(ctx context.Context) ([]domain.Fixture, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, &domain.FixtureLoadError{URL: s.url, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, &domain.FixtureLoadError{URL: s.url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, &domain.FixtureLoadError{
			URL: s.url,
			Err: fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	var records []fixtureRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, &domain.FixtureLoadError{URL: s.url, Err: fmt.Errorf("decode: %w", err)}
	}

	fixtures := make([]domain.Fixture, 0, len(records))
	for _, r := range records {
		fixtures = append(fixtures, domain.Fixture{
			ID:            r.ID,
			Team1:         r.Team1,
			Team2:         r.Team2,
			League:        r.League,
			Date:          r.Date,
			Sport:         r.Sport,
			ResolutionURL: r.ResolutionURL,
		})
	}
	return fixtures, nil
}
