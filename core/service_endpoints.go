package core

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// RegisterEndpoint creates an active webhook endpoint. An empty event type
// list means the endpoint receives every event.
func (s *Service) RegisterEndpoint(ctx context.Context, in RegisterEndpointInput) (endpoint WebhookEndpoint, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{
		"url":        in.URL,
		"created_by": in.CreatedBy,
	}
	defer func() {
		if endpoint.ID != "" {
			fields["endpoint_id"] = endpoint.ID
		}
		s.observeOperation(ctx, startedAt, "register_endpoint", err, fields)
	}()

	if s == nil || s.endpointStore == nil {
		err = s.mapError(fmt.Errorf("core: endpoint store is required"))
		return WebhookEndpoint{}, err
	}
	in.Name = strings.TrimSpace(in.Name)
	in.URL = strings.TrimSpace(in.URL)
	in.CreatedBy = strings.TrimSpace(in.CreatedBy)
	if in.Name == "" {
		err = s.mapError(fmt.Errorf("core: endpoint name is required"))
		return WebhookEndpoint{}, err
	}
	if err = validateEndpointURL(in.URL); err != nil {
		err = s.mapError(err)
		return WebhookEndpoint{}, err
	}
	if in.CreatedBy == "" {
		err = s.mapError(fmt.Errorf("core: endpoint creator is required"))
		return WebhookEndpoint{}, err
	}
	in.EventTypes = normalizeEventTypes(in.EventTypes)

	endpoint, err = s.endpointStore.Create(ctx, in)
	if err != nil {
		err = s.mapError(err)
		return WebhookEndpoint{}, err
	}
	return endpoint, nil
}

func (s *Service) GetEndpoint(ctx context.Context, id string) (WebhookEndpoint, error) {
	if s == nil || s.endpointStore == nil {
		return WebhookEndpoint{}, s.mapError(fmt.Errorf("core: endpoint store is required"))
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return WebhookEndpoint{}, s.mapError(fmt.Errorf("core: endpoint id is required"))
	}
	endpoint, err := s.endpointStore.Get(ctx, id)
	if err != nil {
		return WebhookEndpoint{}, s.mapError(err)
	}
	return endpoint, nil
}

// UpdateEndpoint applies the set fields of the patch. Nil pointers leave the
// current value untouched; a non-nil empty event type slice clears the list
// and turns the endpoint into a match-all receiver.
func (s *Service) UpdateEndpoint(ctx context.Context, id string, in UpdateEndpointInput) (endpoint WebhookEndpoint, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"endpoint_id": id}
	defer func() {
		s.observeOperation(ctx, startedAt, "update_endpoint", err, fields)
	}()

	if s == nil || s.endpointStore == nil {
		err = s.mapError(fmt.Errorf("core: endpoint store is required"))
		return WebhookEndpoint{}, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		err = s.mapError(fmt.Errorf("core: endpoint id is required"))
		return WebhookEndpoint{}, err
	}
	if in.URL != nil {
		trimmed := strings.TrimSpace(*in.URL)
		if err = validateEndpointURL(trimmed); err != nil {
			err = s.mapError(err)
			return WebhookEndpoint{}, err
		}
		in.URL = &trimmed
	}
	if in.Name != nil {
		trimmed := strings.TrimSpace(*in.Name)
		if trimmed == "" {
			err = s.mapError(fmt.Errorf("core: endpoint name must not be empty"))
			return WebhookEndpoint{}, err
		}
		in.Name = &trimmed
	}
	if in.EventTypes != nil {
		in.EventTypes = normalizeEventTypes(in.EventTypes)
	}

	endpoint, err = s.endpointStore.Update(ctx, id, in)
	if err != nil {
		err = s.mapError(err)
		return WebhookEndpoint{}, err
	}
	return endpoint, nil
}

// DeactivateEndpoint soft-deletes the endpoint. Existing deliveries keep
// their audit rows; no new deliveries are created for it.
func (s *Service) DeactivateEndpoint(ctx context.Context, id string) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"endpoint_id": id}
	defer func() {
		s.observeOperation(ctx, startedAt, "deactivate_endpoint", err, fields)
	}()

	if s == nil || s.endpointStore == nil {
		err = s.mapError(fmt.Errorf("core: endpoint store is required"))
		return err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		err = s.mapError(fmt.Errorf("core: endpoint id is required"))
		return err
	}
	if err = s.endpointStore.Deactivate(ctx, id); err != nil {
		err = s.mapError(err)
		return err
	}
	return nil
}

func (s *Service) ListEndpoints(ctx context.Context, filter EndpointFilter) ([]WebhookEndpoint, error) {
	if s == nil || s.endpointStore == nil {
		return nil, s.mapError(fmt.Errorf("core: endpoint store is required"))
	}
	endpoints, err := s.endpointStore.List(ctx, filter)
	if err != nil {
		return nil, s.mapError(err)
	}
	return endpoints, nil
}

func validateEndpointURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("core: endpoint url is required")
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("core: endpoint url is invalid: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("core: endpoint url must use http or https")
	}
	if parsed.Host == "" {
		return fmt.Errorf("core: endpoint url requires a host")
	}
	return nil
}
