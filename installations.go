package openmotics

import (
	"context"
	"encoding/json"
	"fmt"
)

// InstallationsService lists the installations the account has access to.
type InstallationsService struct {
	client *CloudClient
}

// List returns all installations of the authenticated account.
func (s *InstallationsService) List(ctx context.Context) ([]Installation, error) {
	data, _, err := s.client.get(ctx, "/base/installations", nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Data []Installation `json:"data"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("openmotics: failed to parse installation list: %w (body: %s)", err, truncatePreview(data))
	}
	return resp.Data, nil
}

// Get returns a single installation by ID.
func (s *InstallationsService) Get(ctx context.Context, installationID int) (*Installation, error) {
	data, _, err := s.client.get(ctx, fmt.Sprintf("/base/installations/%d", installationID), nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Data Installation `json:"data"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("openmotics: failed to parse installation: %w (body: %s)", err, truncatePreview(data))
	}
	return &resp.Data, nil
}
