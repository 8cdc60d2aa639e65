package openmotics

import (
	"context"
	"encoding/json"
	"fmt"
)

// LightsService handles all actions on the lights of the selected cloud
// installation.
type LightsService struct {
	client *CloudClient
}

// List returns all lights.
func (s *LightsService) List(ctx context.Context) ([]Light, error) {
	path, err := s.client.installationPath("lights")
	if err != nil {
		return nil, err
	}
	data, _, err := s.client.get(ctx, path, nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Data []Light `json:"data"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("openmotics: failed to parse light list: %w (body: %s)", err, truncatePreview(data))
	}
	return resp.Data, nil
}

// Get returns a single light by ID.
func (s *LightsService) Get(ctx context.Context, lightID int) (*Light, error) {
	path, err := s.client.installationPath(fmt.Sprintf("lights/%d", lightID))
	if err != nil {
		return nil, err
	}
	data, _, err := s.client.get(ctx, path, nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Data Light `json:"data"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("openmotics: failed to parse light: %w (body: %s)", err, truncatePreview(data))
	}
	return &resp.Data, nil
}

// Toggle flips a light's state.
func (s *LightsService) Toggle(ctx context.Context, lightID int) error {
	path, err := s.client.installationPath(fmt.Sprintf("lights/%d/toggle", lightID))
	if err != nil {
		return err
	}
	_, _, err = s.client.post(ctx, path, nil)
	return err
}

// TurnOn switches a light on. An optional value (0-100, clamped) sets the
// brightness of dimmable lights.
func (s *LightsService) TurnOn(ctx context.Context, lightID int, value ...int) error {
	path, err := s.client.installationPath(fmt.Sprintf("lights/%d/turn_on", lightID))
	if err != nil {
		return err
	}
	var body any
	if len(value) > 0 {
		body = map[string]int{"value": clampPercent(value[0])}
	}
	_, _, err = s.client.post(ctx, path, body)
	return err
}

// TurnOff switches a light off.
func (s *LightsService) TurnOff(ctx context.Context, lightID int) error {
	path, err := s.client.installationPath(fmt.Sprintf("lights/%d/turn_off", lightID))
	if err != nil {
		return err
	}
	_, _, err = s.client.post(ctx, path, nil)
	return err
}
