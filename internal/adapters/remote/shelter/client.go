// Package shelter implementa el gateway hacia el servicio de inventario.
package shelter

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"pet-adoption-network/internal/adapters/remote"
	"pet-adoption-network/internal/platform/httpclient"
	"pet-adoption-network/internal/ports/gateway"
)

const target = "shelter"

type Client struct {
	http *httpclient.Client
}

// NewClient apunta al shelter. timeout <= 0 usa el default del httpclient.
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

var _ gateway.InventoryGateway = (*Client)(nil)

func (c *Client) ListAvailable(ctx context.Context) ([]gateway.AnimalProjection, error) {
	var out []gateway.AnimalProjection
	err := remote.ClassifyFor(target, c.http.DoJSON(ctx, http.MethodGet, "/animals?status=available", nil, &out))
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetAnimal(ctx context.Context, animalID string) (gateway.AnimalProjection, error) {
	var out gateway.AnimalProjection
	err := remote.ClassifyFor(target, c.http.DoJSON(ctx, http.MethodGet, "/animals/"+url.PathEscape(animalID), nil, &out))
	if err != nil {
		return gateway.AnimalProjection{}, err
	}
	return out, nil
}

func (c *Client) NotifyDecision(ctx context.Context, n gateway.DecisionNotice) (gateway.DecisionAck, error) {
	var out gateway.DecisionAck
	err := remote.ClassifyFor(target, c.http.DoJSON(ctx, http.MethodPost, "/adoption-decisions", n, &out))
	if err != nil {
		return gateway.DecisionAck{}, err
	}
	return out, nil
}

func (c *Client) NotifyApplicationReceived(ctx context.Context, n gateway.ApplicationNotice) error {
	return remote.ClassifyFor(target, c.http.DoJSON(ctx, http.MethodPost, "/adoption-applications/received", n, nil))
}
