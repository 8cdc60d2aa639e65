package openmotics

import (
	"context"
	"fmt"
)

// LocalSensorsService handles the sensors of a local gateway. The gateway
// reports each physical quantity as a flat array indexed by sensor ID;
// List stitches the three arrays into per-sensor status objects.
type LocalSensorsService struct {
	gw *LocalGateway
}

// List returns all sensors with their current readings.
func (s *LocalSensorsService) List(ctx context.Context) ([]Sensor, error) {
	configs, err := s.gw.actionRecords(ctx, "get_sensor_configurations", "config")
	if err != nil {
		return nil, err
	}

	temperatures, err := s.statusValues(ctx, "get_sensor_temperature_status")
	if err != nil {
		return nil, err
	}
	humidities, err := s.statusValues(ctx, "get_sensor_humidity_status")
	if err != nil {
		return nil, err
	}
	brightnesses, err := s.statusValues(ctx, "get_sensor_brightness_status")
	if err != nil {
		return nil, err
	}

	sensors := make([]Sensor, 0, len(configs))
	for _, cfg := range configs {
		merged := copyMap(cfg)
		id := recordID(cfg)
		merged["status"] = map[string]any{
			"temperature": valueAt(temperatures, id),
			"humidity":    valueAt(humidities, id),
			"brightness":  valueAt(brightnesses, id),
		}
		var sn Sensor
		if err := sn.fromMap(merged); err != nil {
			return nil, err
		}
		sensors = append(sensors, sn)
	}
	return sensors, nil
}

// Get returns a single sensor by ID.
func (s *LocalSensorsService) Get(ctx context.Context, sensorID int) (*Sensor, error) {
	sensors, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range sensors {
		if sensors[i].ID == sensorID {
			return &sensors[i], nil
		}
	}
	return nil, fmt.Errorf("openmotics: sensor %d not found", sensorID)
}

// statusValues fetches one of the gateway's per-quantity status arrays.
func (s *LocalSensorsService) statusValues(ctx context.Context, action string) ([]any, error) {
	env, err := s.gw.ExecAction(ctx, action, nil)
	if err != nil {
		return nil, err
	}
	values, ok := env["status"].([]any)
	if !ok {
		return nil, fmt.Errorf("openmotics: %q response has no %q list", action, "status")
	}
	return values, nil
}

// valueAt reads a sensor's slot from a status array; out-of-range or null
// slots read as 0.
func valueAt(values []any, id int) float64 {
	if id < 0 || id >= len(values) {
		return 0
	}
	if n, ok := asFloat(values[id]); ok {
		return n
	}
	return 0
}
