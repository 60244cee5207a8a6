// Package vetclinic implementa el gateway hacia el servicio de turnos.
package vetclinic

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"pet-adoption-network/internal/adapters/remote"
	"pet-adoption-network/internal/platform/httpclient"
	"pet-adoption-network/internal/ports/gateway"
)

const target = "vetclinic"

type Client struct {
	http *httpclient.Client
}

func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	hc, err := httpclient.New(baseURL, timeout)
	if err != nil {
		return nil, err
	}
	return &Client{http: hc}, nil
}

// NewClientWithTransport permite inyectar transporte en tests.
func NewClientWithTransport(baseURL string, timeout time.Duration, tr http.RoundTripper) *Client {
	return &Client{http: httpclient.NewWithTransport(baseURL, timeout, tr)}
}

var _ gateway.SchedulingGateway = (*Client)(nil)

func (c *Client) CreateAppointment(ctx context.Context, req gateway.AppointmentRequest) (gateway.AppointmentConfirmation, error) {
	var out gateway.AppointmentConfirmation
	err := remote.ClassifyFor(target, c.http.DoJSON(ctx, http.MethodPost, "/appointments", req, &out))
	if err != nil {
		return gateway.AppointmentConfirmation{}, err
	}
	return out, nil
}

func (c *Client) CancelAppointment(ctx context.Context, appointmentID string) error {
	path := "/appointments/" + url.PathEscape(appointmentID) + "/cancel"
	return remote.ClassifyFor(target, c.http.DoJSON(ctx, http.MethodPost, path, nil, nil))
}
