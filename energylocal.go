package openmotics

import (
	"context"
	"fmt"
	"strconv"
)

// LocalEnergySensorsService reads real-time power data from a local gateway.
// The gateway keys get_realtime_power by power-module ID, each entry holding
// [voltage, frequency, current, power] per input.
type LocalEnergySensorsService struct {
	gw *LocalGateway
}

// List returns every metered input across all power modules.
func (s *LocalEnergySensorsService) List(ctx context.Context) ([]EnergySensor, error) {
	env, err := s.gw.ExecAction(ctx, "get_power_modules", nil)
	if err != nil {
		return nil, err
	}
	modules, ok := env["modules"].([]any)
	if !ok {
		return nil, fmt.Errorf("openmotics: %q response has no %q list", "get_power_modules", "modules")
	}

	realtime, err := s.gw.ExecAction(ctx, "get_realtime_power", nil)
	if err != nil {
		return nil, err
	}

	var sensors []EnergySensor
	for _, raw := range modules {
		mod, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		moduleID := recordID(mod)
		readings, _ := realtime[strconv.Itoa(moduleID)].([]any)
		for input, reading := range readings {
			merged := map[string]any{
				"id":     moduleID*8 + input,
				"name":   inputName(mod, input),
				"status": reading,
			}
			var es EnergySensor
			if err := es.fromMap(merged); err != nil {
				return nil, err
			}
			sensors = append(sensors, es)
		}
	}
	return sensors, nil
}

// Get returns a single metered input by its derived ID.
func (s *LocalEnergySensorsService) Get(ctx context.Context, sensorID int) (*EnergySensor, error) {
	sensors, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range sensors {
		if sensors[i].ID == sensorID {
			return &sensors[i], nil
		}
	}
	return nil, fmt.Errorf("openmotics: energy sensor %d not found", sensorID)
}

// inputName reads the configured name for a power module input, falling back
// to an empty string when unset.
func inputName(mod map[string]any, input int) string {
	name, _ := mod["input"+strconv.Itoa(input)].(string)
	return name
}
