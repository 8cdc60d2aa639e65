package openmotics

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
)

// DefaultOutputFilter is applied by List when no filter is given; the
// cloud portal itself only shows outputs configured for control.
const DefaultOutputFilter = `{"usage":"CONTROL"}`

// OutputsService handles all actions on the outputs of the selected cloud
// installation.
type OutputsService struct {
	client *CloudClient
}

// List returns all outputs. An empty filter selects controllable outputs
// (DefaultOutputFilter); pass a JSON filter expression to override.
func (s *OutputsService) List(ctx context.Context, filter string) ([]Output, error) {
	path, err := s.client.installationPath("outputs")
	if err != nil {
		return nil, err
	}
	if filter == "" {
		filter = DefaultOutputFilter
	}
	params := url.Values{}
	params.Set("filter", filter)

	data, _, err := s.client.get(ctx, path, params)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Data []Output `json:"data"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("openmotics: failed to parse output list: %w (body: %s)", err, truncatePreview(data))
	}
	return resp.Data, nil
}

// Get returns a single output by ID.
func (s *OutputsService) Get(ctx context.Context, outputID int) (*Output, error) {
	path, err := s.client.installationPath(fmt.Sprintf("outputs/%d", outputID))
	if err != nil {
		return nil, err
	}
	data, _, err := s.client.get(ctx, path, nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Data Output `json:"data"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("openmotics: failed to parse output: %w (body: %s)", err, truncatePreview(data))
	}
	return &resp.Data, nil
}

// Toggle flips an output's state.
func (s *OutputsService) Toggle(ctx context.Context, outputID int) error {
	path, err := s.client.installationPath(fmt.Sprintf("outputs/%d/toggle", outputID))
	if err != nil {
		return err
	}
	_, _, err = s.client.post(ctx, path, nil)
	return err
}

// TurnOn switches an output on. An optional value (0-100, clamped) sets
// the dimmer level.
func (s *OutputsService) TurnOn(ctx context.Context, outputID int, value ...int) error {
	path, err := s.client.installationPath(fmt.Sprintf("outputs/%d/turn_on", outputID))
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

// TurnOff switches an output off.
func (s *OutputsService) TurnOff(ctx context.Context, outputID int) error {
	path, err := s.client.installationPath(fmt.Sprintf("outputs/%d/turn_off", outputID))
	if err != nil {
		return err
	}
	_, _, err = s.client.post(ctx, path, nil)
	return err
}

// TurnOffAll switches every output of the installation off.
func (s *OutputsService) TurnOffAll(ctx context.Context) error {
	path, err := s.client.installationPath("outputs/turn_off")
	if err != nil {
		return err
	}
	_, _, err = s.client.post(ctx, path, nil)
	return err
}
