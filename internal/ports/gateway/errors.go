package gateway

import (
	"errors"
	"fmt"
)

// Cada llamada saliente termina en exactamente una de estas clasificaciones:
// éxito (err == nil), RemoteError (el servicio respondió no-2xx),
// TimeoutError (venció el deadline) o UnreachableError (fallo de red).
// No hay retry ni circuit breaker: el caller decide qué hacer con cada clase.

// RemoteError: el servicio remoto respondió, pero con status no-2xx.
type RemoteError struct {
	StatusCode int
	Body       string
}

func (e *RemoteError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("remote error: status=%d", e.StatusCode)
	}
	return fmt.Sprintf("remote error: status=%d body=%s", e.StatusCode, e.Body)
}

// TimeoutError: la llamada superó su timeout. El efecto remoto puede haberse
// aplicado igual; repetir la llamada sin idempotency key duplica efectos.
type TimeoutError struct {
	Cause error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("remote timeout: %v", e.Cause)
}

func (e *TimeoutError) Unwrap() error { return e.Cause }

// UnreachableError: no se pudo completar la llamada (DNS, conexión rechazada, etc).
type UnreachableError struct {
	Cause error
}

func (e *UnreachableError) Error() string {
	return fmt.Sprintf("remote unreachable: %v", e.Cause)
}

func (e *UnreachableError) Unwrap() error { return e.Cause }

func IsTimeout(err error) bool {
	var te *TimeoutError
	return errors.As(err, &te)
}

func IsUnreachable(err error) bool {
	var ue *UnreachableError
	return errors.As(err, &ue)
}

// AsRemoteError extrae la respuesta no-2xx si la hay.
func AsRemoteError(err error) (*RemoteError, bool) {
	var re *RemoteError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}

// Outcome etiqueta el resultado para logs y métricas.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case IsTimeout(err):
		return "timeout"
	case IsUnreachable(err):
		return "unreachable"
	default:
		if _, ok := AsRemoteError(err); ok {
			return "remote_error"
		}
		return "error"
	}
}
