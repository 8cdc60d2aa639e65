package openmotics

import (
	"context"
	"encoding/json"
	"fmt"
)

// SensorsService handles all actions on the sensors of the selected cloud
// installation.
type SensorsService struct {
	client *CloudClient
}

// List returns all sensors.
func (s *SensorsService) List(ctx context.Context) ([]Sensor, error) {
	path, err := s.client.installationPath("sensors")
	if err != nil {
		return nil, err
	}
	data, _, err := s.client.get(ctx, path, nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Data []Sensor `json:"data"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("openmotics: failed to parse sensor list: %w (body: %s)", err, truncatePreview(data))
	}
	return resp.Data, nil
}

// Get returns a single sensor by ID.
func (s *SensorsService) Get(ctx context.Context, sensorID int) (*Sensor, error) {
	path, err := s.client.installationPath(fmt.Sprintf("sensors/%d", sensorID))
	if err != nil {
		return nil, err
	}
	data, _, err := s.client.get(ctx, path, nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Data Sensor `json:"data"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("openmotics: failed to parse sensor: %w (body: %s)", err, truncatePreview(data))
	}
	return &resp.Data, nil
}
