package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrNoSession indica que no hay cuenta conectada: el cliente RPC no fue
// inicializado con una sesión y no puede firmar ni leer.
var ErrNoSession = errors.New("client not initialized: no connected account")

// GatewayError es el fallo genérico de una llamada al contrato.
// Transient marca errores de infraestructura (5xx del nodo) que merecen
// un reintento; el resto se reporta tal cual.
type GatewayError struct {
	Function  string
	Transient bool
	Err       error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("gateway: %s: %v", e.Function, e.Err)
}

func (e *GatewayError) Unwrap() error { return e.Err }

// TransactionTimeoutError indica que se agotaron los reintentos de polling
// esperando la finalización de una transacción ya enviada. La transacción
// puede seguir pendiente en el nodo.
type TransactionTimeoutError struct {
	Hash     string
	Attempts int
	Interval time.Duration
}

func (e *TransactionTimeoutError) Error() string {
	return fmt.Sprintf("transaction %s not finalized after %d attempts (%s interval)",
		e.Hash, e.Attempts, e.Interval)
}

// TransactionRejectedError indica que el firmante o el nodo rechazó la
// transacción. Se reporta de forma distinta al timeout: aquí no hay nada
// pendiente que pueda llegar a confirmarse.
type TransactionRejectedError struct {
	Hash   string
	Reason string
}

func (e *TransactionRejectedError) Error() string {
	if e.Hash == "" {
		return "transaction rejected: " + e.Reason
	}
	return fmt.Sprintf("transaction %s rejected: %s", e.Hash, e.Reason)
}

// FixtureLoadError indica que la fuente estática de fixtures no se pudo
// cargar. Nunca se reintenta automáticamente.
type FixtureLoadError struct {
	URL string
	Err error
}

func (e *FixtureLoadError) Error() string {
	return fmt.Sprintf("fixtures: load %s: %v", e.URL, e.Err)
}

func (e *FixtureLoadError) Unwrap() error { return e.Err }

// ValidationError es un fallo de validación del lado cliente. Las acciones
// que no pasan la validación nunca llegan al gateway.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Reason)
}

// IsTransient devuelve true si err es un GatewayError reintentable.
func IsTransient(err error) bool {
	var gerr *GatewayError
	return errors.As(err, &gerr) && gerr.Transient
}
