package openmotics

import (
	"context"
	"encoding/json"
	"fmt"
)

// ShuttersService handles all actions on the shutters of the selected
// cloud installation.
type ShuttersService struct {
	client *CloudClient
}

// List returns all shutters.
func (s *ShuttersService) List(ctx context.Context) ([]Shutter, error) {
	path, err := s.client.installationPath("shutters")
	if err != nil {
		return nil, err
	}
	data, _, err := s.client.get(ctx, path, nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Data []Shutter `json:"data"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("openmotics: failed to parse shutter list: %w (body: %s)", err, truncatePreview(data))
	}
	return resp.Data, nil
}

// Get returns a single shutter by ID.
func (s *ShuttersService) Get(ctx context.Context, shutterID int) (*Shutter, error) {
	path, err := s.client.installationPath(fmt.Sprintf("shutters/%d", shutterID))
	if err != nil {
		return nil, err
	}
	data, _, err := s.client.get(ctx, path, nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Data Shutter `json:"data"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("openmotics: failed to parse shutter: %w (body: %s)", err, truncatePreview(data))
	}
	return &resp.Data, nil
}

// Up raises a shutter.
func (s *ShuttersService) Up(ctx context.Context, shutterID int) error {
	return s.action(ctx, shutterID, "up")
}

// Down lowers a shutter.
func (s *ShuttersService) Down(ctx context.Context, shutterID int) error {
	return s.action(ctx, shutterID, "down")
}

// Stop halts a moving shutter.
func (s *ShuttersService) Stop(ctx context.Context, shutterID int) error {
	return s.action(ctx, shutterID, "stop")
}

// ChangePosition moves a shutter to a position (0-100, clamped).
func (s *ShuttersService) ChangePosition(ctx context.Context, shutterID, position int) error {
	path, err := s.client.installationPath(fmt.Sprintf("shutters/%d/change_position", shutterID))
	if err != nil {
		return err
	}
	_, _, err = s.client.post(ctx, path, map[string]int{"position": clampPercent(position)})
	return err
}

func (s *ShuttersService) action(ctx context.Context, shutterID int, action string) error {
	path, err := s.client.installationPath(fmt.Sprintf("shutters/%d/%s", shutterID, action))
	if err != nil {
		return err
	}
	_, _, err = s.client.post(ctx, path, nil)
	return err
}
