package openmotics

import (
	"context"
	"fmt"
)

// LocalThermostatsService controls the thermostat units of a local gateway.
type LocalThermostatsService struct {
	gw *LocalGateway
}

// ListUnits returns all configured thermostat units with their current status.
func (s *LocalThermostatsService) ListUnits(ctx context.Context) ([]ThermostatUnit, error) {
	configs, err := s.gw.actionRecords(ctx, "get_thermostat_configurations", "config")
	if err != nil {
		return nil, err
	}
	statuses, err := s.gw.actionRecords(ctx, "get_thermostat_status", "status")
	if err != nil {
		return nil, err
	}
	statusByID := indexByID(statuses)

	units := make([]ThermostatUnit, 0, len(configs))
	for _, cfg := range configs {
		merged := copyMap(cfg)
		if st, ok := statusByID[recordID(cfg)]; ok {
			mergeStatus(merged, st)
		}
		var tu ThermostatUnit
		if err := tu.fromMap(merged); err != nil {
			return nil, err
		}
		units = append(units, tu)
	}
	return units, nil
}

// GetUnit returns a single thermostat unit by ID.
func (s *LocalThermostatsService) GetUnit(ctx context.Context, unitID int) (*ThermostatUnit, error) {
	units, err := s.ListUnits(ctx)
	if err != nil {
		return nil, err
	}
	for i := range units {
		if units[i].ID == unitID {
			return &units[i], nil
		}
	}
	return nil, fmt.Errorf("openmotics: thermostat unit %d not found", unitID)
}

// SetUnitTemperature changes a unit's setpoint.
func (s *LocalThermostatsService) SetUnitTemperature(ctx context.Context, unitID int, temperature float64) error {
	_, err := s.gw.ExecAction(ctx, "set_current_setpoint", map[string]any{
		"thermostat":  unitID,
		"temperature": temperature,
	})
	return err
}

// Preset setpoint slots of the classic gateway firmware.
var localPresetSetpoints = map[string]int{
	"AWAY":     3,
	"VACATION": 4,
	"PARTY":    5,
}

// SetUnitPreset activates a preset ("AWAY", "VACATION" or "PARTY") on a
// thermostat unit. The gateway encodes presets as fixed setpoint slots.
func (s *LocalThermostatsService) SetUnitPreset(ctx context.Context, unitID int, preset string) error {
	slot, ok := localPresetSetpoints[preset]
	if !ok {
		return fmt.Errorf("openmotics: unknown thermostat preset %q", preset)
	}
	_, err := s.gw.ExecAction(ctx, "set_per_thermostat_mode", map[string]any{
		"thermostat": unitID,
		"automatic":  false,
		"setpoint":   slot,
	})
	return err
}

// SetMode switches the thermostats between heating and cooling and toggles
// automatic scheduling gateway-wide.
func (s *LocalThermostatsService) SetMode(ctx context.Context, automatic bool, cooling bool) error {
	_, err := s.gw.ExecAction(ctx, "set_thermostat_mode", map[string]any{
		"thermostat_on": true,
		"automatic":     automatic,
		"cooling_mode":  cooling,
		"cooling_on":    cooling,
	})
	return err
}
