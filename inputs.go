package openmotics

import (
	"context"
	"encoding/json"
	"fmt"
)

// InputsService handles all actions on the inputs of the selected cloud
// installation.
type InputsService struct {
	client *CloudClient
}

// List returns all inputs.
func (s *InputsService) List(ctx context.Context) ([]Input, error) {
	path, err := s.client.installationPath("inputs")
	if err != nil {
		return nil, err
	}
	data, _, err := s.client.get(ctx, path, nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Data []Input `json:"data"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("openmotics: failed to parse input list: %w (body: %s)", err, truncatePreview(data))
	}
	return resp.Data, nil
}

// Get returns a single input by ID.
func (s *InputsService) Get(ctx context.Context, inputID int) (*Input, error) {
	path, err := s.client.installationPath(fmt.Sprintf("inputs/%d", inputID))
	if err != nil {
		return nil, err
	}
	data, _, err := s.client.get(ctx, path, nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Data Input `json:"data"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("openmotics: failed to parse input: %w (body: %s)", err, truncatePreview(data))
	}
	return &resp.Data, nil
}
