package openmotics

import (
	"context"
	"encoding/json"
	"fmt"
)

// ThermostatsService handles thermostat groups and units of the selected
// cloud installation.
type ThermostatsService struct {
	client *CloudClient
}

// ListGroups returns all thermostat groups.
func (s *ThermostatsService) ListGroups(ctx context.Context) ([]ThermostatGroup, error) {
	path, err := s.client.installationPath("thermostats/groups")
	if err != nil {
		return nil, err
	}
	data, _, err := s.client.get(ctx, path, nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Data []ThermostatGroup `json:"data"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("openmotics: failed to parse thermostat group list: %w (body: %s)", err, truncatePreview(data))
	}
	return resp.Data, nil
}

// GetGroup returns a single thermostat group by ID.
func (s *ThermostatsService) GetGroup(ctx context.Context, groupID int) (*ThermostatGroup, error) {
	path, err := s.client.installationPath(fmt.Sprintf("thermostats/groups/%d", groupID))
	if err != nil {
		return nil, err
	}
	data, _, err := s.client.get(ctx, path, nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Data ThermostatGroup `json:"data"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("openmotics: failed to parse thermostat group: %w (body: %s)", err, truncatePreview(data))
	}
	return &resp.Data, nil
}

// ListUnits returns all thermostat units.
func (s *ThermostatsService) ListUnits(ctx context.Context) ([]ThermostatUnit, error) {
	path, err := s.client.installationPath("thermostats/units")
	if err != nil {
		return nil, err
	}
	data, _, err := s.client.get(ctx, path, nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Data []ThermostatUnit `json:"data"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("openmotics: failed to parse thermostat unit list: %w (body: %s)", err, truncatePreview(data))
	}
	return resp.Data, nil
}

// GetUnit returns a single thermostat unit by ID.
func (s *ThermostatsService) GetUnit(ctx context.Context, unitID int) (*ThermostatUnit, error) {
	path, err := s.client.installationPath(fmt.Sprintf("thermostats/units/%d", unitID))
	if err != nil {
		return nil, err
	}
	data, _, err := s.client.get(ctx, path, nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Data ThermostatUnit `json:"data"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("openmotics: failed to parse thermostat unit: %w (body: %s)", err, truncatePreview(data))
	}
	return &resp.Data, nil
}

// SetUnitState switches a thermostat unit on or off.
func (s *ThermostatsService) SetUnitState(ctx context.Context, unitID int, on bool) error {
	path, err := s.client.installationPath(fmt.Sprintf("thermostats/units/%d/state", unitID))
	if err != nil {
		return err
	}
	state := "off"
	if on {
		state = "on"
	}
	_, _, err = s.client.post(ctx, path, map[string]string{"state": state})
	return err
}

// SetUnitTemperature sets a thermostat unit's setpoint.
func (s *ThermostatsService) SetUnitTemperature(ctx context.Context, unitID int, temperature float64) error {
	path, err := s.client.installationPath(fmt.Sprintf("thermostats/units/%d/setpoint", unitID))
	if err != nil {
		return err
	}
	_, _, err = s.client.post(ctx, path, map[string]float64{"temperature": temperature})
	return err
}

// SetUnitPreset activates a preset ("AWAY", "PARTY", "VACATION", ...) on a
// thermostat unit.
func (s *ThermostatsService) SetUnitPreset(ctx context.Context, unitID int, preset string) error {
	path, err := s.client.installationPath(fmt.Sprintf("thermostats/units/%d/preset", unitID))
	if err != nil {
		return err
	}
	_, _, err = s.client.post(ctx, path, map[string]string{"preset": preset})
	return err
}

// SetGroupMode sets the mode ("HEATING" or "COOLING") of a thermostat
// group.
func (s *ThermostatsService) SetGroupMode(ctx context.Context, groupID int, mode string) error {
	path, err := s.client.installationPath(fmt.Sprintf("thermostats/groups/%d/mode", groupID))
	if err != nil {
		return err
	}
	_, _, err = s.client.post(ctx, path, map[string]string{"mode": mode})
	return err
}
