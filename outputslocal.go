package openmotics

import (
	"context"
	"fmt"
)

// LocalOutputsService handles all actions on the outputs of a local
// gateway. The gateway exposes outputs through RPC-style actions:
// configurations and live status arrive from separate calls and are
// merged into one record client-side.
type LocalOutputsService struct {
	gw *LocalGateway
}

// List returns all outputs with their configuration and live status
// merged.
func (s *LocalOutputsService) List(ctx context.Context) ([]Output, error) {
	configs, err := s.gw.actionRecords(ctx, "get_output_configurations", "config")
	if err != nil {
		return nil, err
	}
	statuses, err := s.gw.actionRecords(ctx, "get_output_status", "status")
	if err != nil {
		return nil, err
	}
	statusByID := indexByID(statuses)

	outputs := make([]Output, 0, len(configs))
	for _, cfg := range configs {
		merged := copyMap(cfg)
		if st, ok := statusByID[recordID(cfg)]; ok {
			mergeStatus(merged, st)
		}
		var o Output
		if err := o.fromMap(merged); err != nil {
			return nil, err
		}
		outputs = append(outputs, o)
	}
	return outputs, nil
}

// Get returns a single output by ID.
func (s *LocalOutputsService) Get(ctx context.Context, outputID int) (*Output, error) {
	outputs, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range outputs {
		if outputs[i].ID == outputID {
			return &outputs[i], nil
		}
	}
	return nil, fmt.Errorf("openmotics: output %d not found", outputID)
}

// TurnOn switches an output on. An optional value (0-100, clamped) sets
// the dimmer level.
func (s *LocalOutputsService) TurnOn(ctx context.Context, outputID int, value ...int) error {
	body := map[string]any{
		"id":    outputID,
		"is_on": true,
	}
	if len(value) > 0 {
		body["dimmer"] = clampPercent(value[0])
	}
	_, err := s.gw.ExecAction(ctx, "set_output", body)
	return err
}

// TurnOff switches an output off.
func (s *LocalOutputsService) TurnOff(ctx context.Context, outputID int) error {
	_, err := s.gw.ExecAction(ctx, "set_output", map[string]any{
		"id":    outputID,
		"is_on": false,
	})
	return err
}

// Toggle flips an output's state. The gateway has no toggle action, so
// the current state is read first.
func (s *LocalOutputsService) Toggle(ctx context.Context, outputID int) error {
	o, err := s.Get(ctx, outputID)
	if err != nil {
		return err
	}
	if o.Status != nil && o.Status.On {
		return s.TurnOff(ctx, outputID)
	}
	return s.TurnOn(ctx, outputID)
}
