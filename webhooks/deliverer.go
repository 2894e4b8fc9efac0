package webhooks

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goliatone/go-ecm-events/core"
)

const defaultResponseBodyLimit = 4000

// Deliverer performs one HTTP delivery attempt against the endpoint of a
// pending or previously failed delivery.
type Deliverer struct {
	Deliveries core.DeliveryStore
	Endpoints  core.EndpointStore
	Client     *http.Client
	Config     core.DeliveryConfig
	Logger     core.Logger
	Now        func() time.Time
}

func NewDeliverer(deliveries core.DeliveryStore, endpoints core.EndpointStore, cfg core.DeliveryConfig) *Deliverer {
	return &Deliverer{
		Deliveries: deliveries,
		Endpoints:  endpoints,
		Client:     &http.Client{},
		Config:     cfg,
		Now: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Deliver POSTs the frozen payload of the delivery to its endpoint and
// records the outcome. The attempt counter and last-attempt timestamp are
// written for every attempt, including transport failures, before the
// result decides the status. A delivery already in a terminal state, either
// success or failed with the attempt budget spent, is returned unchanged so
// duplicate task executions stay harmless.
func (d *Deliverer) Deliver(ctx context.Context, deliveryID string) (core.WebhookDelivery, error) {
	if d == nil || d.Deliveries == nil || d.Endpoints == nil {
		return core.WebhookDelivery{}, fmt.Errorf("webhooks: deliverer requires delivery and endpoint stores")
	}
	deliveryID = strings.TrimSpace(deliveryID)
	if deliveryID == "" {
		return core.WebhookDelivery{}, fmt.Errorf("webhooks: delivery id is required")
	}

	delivery, err := d.Deliveries.Get(ctx, deliveryID)
	if err != nil {
		return core.WebhookDelivery{}, err
	}
	if delivery.Status == core.DeliveryStatusSuccess {
		return delivery, nil
	}
	if delivery.Status == core.DeliveryStatusFailed && delivery.Attempts >= d.maxAttempts() {
		return delivery, nil
	}

	endpoint, err := d.Endpoints.Get(ctx, delivery.EndpointID)
	if err != nil {
		return core.WebhookDelivery{}, err
	}

	outcome := d.attempt(ctx, endpoint, delivery.Payload)
	outcome.At = d.now()

	updated, err := d.Deliveries.RecordAttempt(ctx, delivery.ID, outcome)
	if err != nil {
		return core.WebhookDelivery{}, err
	}
	return updated, nil
}

func (d *Deliverer) attempt(ctx context.Context, endpoint core.WebhookEndpoint, body []byte) core.AttemptOutcome {
	timeout := d.Config.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodPost, endpoint.URL, bytes.NewReader(body))
	if err != nil {
		return core.AttemptOutcome{
			Status:       core.DeliveryStatusFailed,
			ResponseBody: d.truncate(err.Error()),
		}
	}
	req.Header.Set("Content-Type", "application/json")
	if secret := strings.TrimSpace(endpoint.Secret); secret != "" {
		req.Header.Set(d.signatureHeader(), SignBody(secret, body))
	}

	resp, err := d.client().Do(req)
	if err != nil {
		return core.AttemptOutcome{
			Status:       core.DeliveryStatusFailed,
			ResponseBody: d.truncate(err.Error()),
		}
	}
	defer resp.Body.Close()

	responseBody, _ := io.ReadAll(io.LimitReader(resp.Body, int64(d.bodyLimit())))
	statusCode := resp.StatusCode
	status := core.DeliveryStatusFailed
	if statusCode >= http.StatusOK && statusCode < http.StatusMultipleChoices {
		status = core.DeliveryStatusSuccess
	}
	return core.AttemptOutcome{
		Status:             status,
		ResponseStatusCode: &statusCode,
		ResponseBody:       string(responseBody),
	}
}

func (d *Deliverer) client() *http.Client {
	if d != nil && d.Client != nil {
		return d.Client
	}
	return http.DefaultClient
}

func (d *Deliverer) signatureHeader() string {
	if d != nil {
		if header := strings.TrimSpace(d.Config.SignatureHeader); header != "" {
			return header
		}
	}
	return "X-Webhook-Signature"
}

func (d *Deliverer) maxAttempts() int {
	if d != nil && d.Config.MaxAttempts > 0 {
		return d.Config.MaxAttempts
	}
	return 5
}

func (d *Deliverer) bodyLimit() int {
	if d != nil && d.Config.ResponseBodyLimit > 0 {
		return d.Config.ResponseBodyLimit
	}
	return defaultResponseBodyLimit
}

func (d *Deliverer) truncate(value string) string {
	limit := d.bodyLimit()
	if len(value) <= limit {
		return value
	}
	return value[:limit]
}

func (d *Deliverer) now() time.Time {
	if d != nil && d.Now != nil {
		return d.Now().UTC()
	}
	return time.Now().UTC()
}
