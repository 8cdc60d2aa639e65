package openmotics

import (
	"context"
	"encoding/json"
	"fmt"
)

// VentilationsService handles the ventilation units of the selected cloud
// installation.
type VentilationsService struct {
	client *CloudClient
}

// List returns all ventilation units.
func (s *VentilationsService) List(ctx context.Context) ([]VentilationUnit, error) {
	path, err := s.client.installationPath("ventilations/units")
	if err != nil {
		return nil, err
	}
	data, _, err := s.client.get(ctx, path, nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Data []VentilationUnit `json:"data"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("openmotics: failed to parse ventilation unit list: %w (body: %s)", err, truncatePreview(data))
	}
	return resp.Data, nil
}

// Get returns a single ventilation unit by ID.
func (s *VentilationsService) Get(ctx context.Context, unitID int) (*VentilationUnit, error) {
	path, err := s.client.installationPath(fmt.Sprintf("ventilations/units/%d", unitID))
	if err != nil {
		return nil, err
	}
	data, _, err := s.client.get(ctx, path, nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Data VentilationUnit `json:"data"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("openmotics: failed to parse ventilation unit: %w (body: %s)", err, truncatePreview(data))
	}
	return &resp.Data, nil
}

// SetMode sets a ventilation unit's mode ("AUTO" or "MANUAL"); in manual
// mode a level (1-3) selects the fan speed.
func (s *VentilationsService) SetMode(ctx context.Context, unitID int, mode string, level ...int) error {
	path, err := s.client.installationPath(fmt.Sprintf("ventilations/units/%d/mode", unitID))
	if err != nil {
		return err
	}
	body := map[string]any{"mode": mode}
	if len(level) > 0 {
		body["level"] = level[0]
	}
	_, _, err = s.client.post(ctx, path, body)
	return err
}
