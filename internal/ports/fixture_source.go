package ports

import (
	"context"

	"github.com/alejandrodnm/genbet/internal/domain"
)

// FixtureSource carga el documento estático de fixtures.
type FixtureSource interface {
	// FetchFixtures devuelve todos los fixtures del documento, sin ordenar.
	// Devuelve *domain.FixtureLoadError si la fuente no está disponible.
	FetchFixtures(ctx context.Context) ([]domain.Fixture, error)
}
