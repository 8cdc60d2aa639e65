package openmotics

import (
	"context"
	"fmt"
)

// lightOutputType is the output type the gateway assigns to outputs
// driving lights.
const lightOutputType = 255

// LocalLightsService exposes the outputs configured as lights on a local
// gateway. The gateway has no dedicated lights API; lights are outputs
// whose type is 255.
type LocalLightsService struct {
	gw *LocalGateway
}

// List returns all outputs configured as lights.
func (s *LocalLightsService) List(ctx context.Context) ([]Light, error) {
	configs, err := s.gw.actionRecords(ctx, "get_output_configurations", "config")
	if err != nil {
		return nil, err
	}
	statuses, err := s.gw.actionRecords(ctx, "get_output_status", "status")
	if err != nil {
		return nil, err
	}
	statusByID := indexByID(statuses)

	var lights []Light
	for _, cfg := range configs {
		if n, ok := asFloat(cfg["type"]); !ok || int(n) != lightOutputType {
			continue
		}
		merged := copyMap(cfg)
		if st, ok := statusByID[recordID(cfg)]; ok {
			mergeStatus(merged, st)
		}
		var l Light
		if err := l.fromMap(merged); err != nil {
			return nil, err
		}
		lights = append(lights, l)
	}
	return lights, nil
}

// Get returns a single light by ID.
func (s *LocalLightsService) Get(ctx context.Context, lightID int) (*Light, error) {
	lights, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range lights {
		if lights[i].ID == lightID {
			return &lights[i], nil
		}
	}
	return nil, fmt.Errorf("openmotics: light %d not found", lightID)
}

// TurnOn switches a light on. An optional value (0-100, clamped) sets the
// brightness of dimmable lights.
func (s *LocalLightsService) TurnOn(ctx context.Context, lightID int, value ...int) error {
	return s.gw.Outputs.TurnOn(ctx, lightID, value...)
}

// TurnOff switches a light off.
func (s *LocalLightsService) TurnOff(ctx context.Context, lightID int) error {
	return s.gw.Outputs.TurnOff(ctx, lightID)
}

// Toggle flips a light's state.
func (s *LocalLightsService) Toggle(ctx context.Context, lightID int) error {
	return s.gw.Outputs.Toggle(ctx, lightID)
}
