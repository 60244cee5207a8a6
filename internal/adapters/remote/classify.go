// Package remote contiene los adapters HTTP hacia los otros servicios de la
// red (shelter y vetclinic) y la clasificación común de sus fallas.
package remote

import (
	"context"
	"errors"
	"net"

	"pet-adoption-network/internal/observability"
	"pet-adoption-network/internal/platform/httpclient"
	"pet-adoption-network/internal/ports/gateway"
)

// Classify traduce el error crudo del httpclient a la clasificación del
// gateway: RemoteError (respondió no-2xx), TimeoutError (venció el deadline)
// o UnreachableError (cualquier otra falla de transporte). nil pasa intacto.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	var httpErr *httpclient.HTTPError
	if errors.As(err, &httpErr) {
		return &gateway.RemoteError{
			StatusCode: httpErr.StatusCode,
			Body:       httpErr.Body,
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &gateway.TimeoutError{Cause: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &gateway.TimeoutError{Cause: err}
	}

	return &gateway.UnreachableError{Cause: err}
}

// ClassifyFor clasifica y cuenta la llamada en métricas, bajo el nombre del
// servicio destino. Los clients pasan por acá en cada llamada.
func ClassifyFor(target string, err error) error {
	out := Classify(err)
	observability.RecordGatewayCall(target, gateway.Outcome(out))
	return out
}
