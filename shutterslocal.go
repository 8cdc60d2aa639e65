package openmotics

import (
	"context"
	"fmt"
)

// LocalShuttersService controls the shutters of a local gateway.
type LocalShuttersService struct {
	gw *LocalGateway
}

// List returns all configured shutters with their current status.
func (s *LocalShuttersService) List(ctx context.Context) ([]Shutter, error) {
	configs, err := s.gw.actionRecords(ctx, "get_shutter_configurations", "config")
	if err != nil {
		return nil, err
	}
	env, err := s.gw.ExecAction(ctx, "get_shutter_status", nil)
	if err != nil {
		return nil, err
	}
	states, _ := env["detail"].(map[string]any)

	shutters := make([]Shutter, 0, len(configs))
	for _, cfg := range configs {
		merged := copyMap(cfg)
		if st, ok := states[fmt.Sprintf("%d", recordID(cfg))].(map[string]any); ok {
			mergeStatus(merged, st)
		}
		var sh Shutter
		if err := sh.fromMap(merged); err != nil {
			return nil, err
		}
		shutters = append(shutters, sh)
	}
	return shutters, nil
}

// Get returns a single shutter by ID.
func (s *LocalShuttersService) Get(ctx context.Context, shutterID int) (*Shutter, error) {
	shutters, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range shutters {
		if shutters[i].ID == shutterID {
			return &shutters[i], nil
		}
	}
	return nil, fmt.Errorf("openmotics: shutter %d not found", shutterID)
}

// Up raises a shutter.
func (s *LocalShuttersService) Up(ctx context.Context, shutterID int) error {
	_, err := s.gw.ExecAction(ctx, "do_shutter_up", map[string]any{"id": shutterID})
	return err
}

// Down lowers a shutter.
func (s *LocalShuttersService) Down(ctx context.Context, shutterID int) error {
	_, err := s.gw.ExecAction(ctx, "do_shutter_down", map[string]any{"id": shutterID})
	return err
}

// Stop halts a moving shutter.
func (s *LocalShuttersService) Stop(ctx context.Context, shutterID int) error {
	_, err := s.gw.ExecAction(ctx, "do_shutter_stop", map[string]any{"id": shutterID})
	return err
}
