package openmotics

import (
	"encoding/json"
	"fmt"
)

// The API returns most records as a single flattened JSON object; the
// client fans each record out into nested Location/Status/... sub-objects
// by re-reading the same flat map. decodeRecordMap applies the per-record
// fixups below and then hands the map to mapstructure.

type recordFixup func(map[string]any)

func unmarshalRecord(data []byte, v any, fixups ...recordFixup) error {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	return decodeRecordMap(m, v, fixups...)
}

func decodeRecordMap(m map[string]any, v any, fixups ...recordFixup) error {
	normalizeBase(m)
	for _, f := range fixups {
		f(m)
	}
	return decodeRecord(m, v)
}

// normalizeBase backfills local_id from id. Cloud records carry both;
// gateway records only carry id.
func normalizeBase(m map[string]any) {
	if _, ok := m["local_id"]; !ok {
		if id, ok := m["id"]; ok {
			m["local_id"] = id
		}
	}
}

// expandLocation synthesizes the nested location from the flat record when
// the API did not send one, and normalizes what is there: room falls back
// into room_id, and floor coordinates missing x or y decode as nil.
func expandLocation(m map[string]any) {
	loc, ok := m["location"].(map[string]any)
	if !ok {
		loc = copyMap(m)
		delete(loc, "location")
		m["location"] = loc
	}
	if _, ok := loc["room_id"]; !ok {
		if r, ok := loc["room"]; ok {
			loc["room_id"] = r
		}
	}
	if fc, ok := loc["floor_coordinates"].(map[string]any); ok {
		_, hasX := fc["x"]
		_, hasY := fc["y"]
		if !hasX || !hasY {
			delete(loc, "floor_coordinates")
		}
	} else {
		delete(loc, "floor_coordinates")
	}
}

// expandOnOffStatus normalizes the on/off status of outputs, lights and
// inputs. The gateway reports status as the bare integer 1/0 with dimmer
// and locked alongside; the cloud nests a proper object.
func expandOnOffStatus(m map[string]any) {
	st, ok := m["status"].(map[string]any)
	if ok {
		if n, isNum := asFloat(st["status"]); isNum {
			st["on"] = n == 1
		}
	} else if n, isNum := asFloat(m["status"]); isNum {
		st = map[string]any{"on": n == 1}
		if v, ok := m["locked"]; ok {
			st["locked"] = v
		}
		if v, ok := m["manual_override"]; ok {
			st["manual_override"] = v
		}
		m["status"] = st
	} else {
		return
	}
	if _, ok := st["value"]; !ok {
		if v, ok := st["dimmer"]; ok {
			st["value"] = v
		} else if v, ok := m["dimmer"]; ok {
			st["value"] = v
		}
	}
}

// expandLightCapabilities derives capabilities from the gateway module
// type when the record does not name any: every light can ON_OFF, dimmer
// modules ("D") also RANGE.
func expandLightCapabilities(m map[string]any) {
	if _, ok := m["capabilities"]; ok {
		return
	}
	caps := []any{"ON_OFF"}
	if m["module_type"] == "D" {
		caps = append(caps, "RANGE")
	}
	m["capabilities"] = caps
}

// expandEnergyStatus converts the gateway's list-shaped energy status
// [voltage, frequency, current, power] into the nested object.
func expandEnergyStatus(m map[string]any) {
	list, ok := m["status"].([]any)
	if !ok {
		return
	}
	st := map[string]any{}
	for i, key := range []string{"voltage", "frequency", "current", "power"} {
		if i < len(list) {
			st[key] = list[i]
		} else {
			st[key] = 0
		}
	}
	m["status"] = st
}

// expandShutter maps the API's "type" onto shutter_type and fans the flat
// record out into attributes, metadata and status when they were not sent
// nested.
func expandShutter(m map[string]any) {
	if _, ok := m["shutter_type"]; !ok {
		if t, ok := m["type"]; ok {
			m["shutter_type"] = t
		}
	}
	for _, key := range []string{"attributes", "metadata", "status"} {
		if _, ok := m[key].(map[string]any); !ok {
			m[key] = copyMap(m)
		}
	}
}

// expandThermostatSchedule fans the flat record out into the schedule
// sub-object when none was sent.
func expandThermostatSchedule(m map[string]any) {
	if _, ok := m["schedule"].(map[string]any); !ok {
		m["schedule"] = copyMap(m)
	}
}

// expandThermostatUnitStatus fans the flat record out into the status
// sub-object when none was sent nested, and maps the API's
// setpoint_temperature onto current_setpoint.
func expandThermostatUnitStatus(m map[string]any) {
	st, ok := m["status"].(map[string]any)
	if !ok {
		st = copyMap(m)
		m["status"] = st
	}
	if _, ok := st["current_setpoint"]; !ok {
		if v, ok := st["setpoint_temperature"]; ok {
			st["current_setpoint"] = v
		}
	}
}

// FloorCoordinates is the position of an entity on a floor plan.
type FloorCoordinates struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Location places an entity within an installation.
type Location struct {
	InstallationID   int               `json:"installation_id"`
	GatewayID        int               `json:"gateway_id"`
	FloorID          int               `json:"floor_id"`
	RoomID           int               `json:"room_id"`
	FloorCoordinates *FloorCoordinates `json:"floor_coordinates"`
}

// OutputStatus is the live state of an output, light or input.
type OutputStatus struct {
	On             bool `json:"on"`
	Locked         bool `json:"locked"`
	ManualOverride bool `json:"manual_override"`
	Value          int  `json:"value"`
}

// Output is a controllable output (relay) of an installation.
type Output struct {
	ID              int           `json:"id"`
	LocalID         int           `json:"local_id"`
	Name            string        `json:"name"`
	Room            int           `json:"room"`
	ModuleType      string        `json:"module_type"`
	OutputType      string        `json:"output_type"`
	Location        *Location     `json:"location"`
	Status          *OutputStatus `json:"status"`
	Capabilities    []string      `json:"capabilities"`
	LastStateChange float64       `json:"last_state_change"`
	Version         string        `json:"version"`
}

func (o *Output) UnmarshalJSON(data []byte) error {
	return unmarshalRecord(data, o, expandOnOffStatus, expandLocation)
}

func (o *Output) fromMap(m map[string]any) error {
	return decodeRecordMap(m, o, expandOnOffStatus, expandLocation)
}

func (o Output) String() string { return fmt.Sprintf("%d_%s", o.ID, o.Name) }

// Light is a light output.
type Light struct {
	ID              int            `json:"id"`
	LocalID         int            `json:"local_id"`
	Name            string         `json:"name"`
	ModuleType      string         `json:"module_type"`
	Location        *Location      `json:"location"`
	Capabilities    []string       `json:"capabilities"`
	Metadata        map[string]any `json:"metadata"`
	Status          *OutputStatus  `json:"status"`
	LastStateChange float64        `json:"last_state_change"`
	Version         string         `json:"version"`
}

func (l *Light) UnmarshalJSON(data []byte) error {
	return unmarshalRecord(data, l, expandOnOffStatus, expandLightCapabilities, expandLocation)
}

func (l *Light) fromMap(m map[string]any) error {
	return decodeRecordMap(m, l, expandOnOffStatus, expandLightCapabilities, expandLocation)
}

func (l Light) String() string { return fmt.Sprintf("%d_%s", l.ID, l.Name) }

// Input is a physical input (wall switch, contact) of an installation.
type Input struct {
	ID              int           `json:"id"`
	LocalID         int           `json:"local_id"`
	Name            string        `json:"name"`
	Room            int           `json:"room"`
	Location        *Location     `json:"location"`
	Status          *OutputStatus `json:"status"`
	LastStateChange float64       `json:"last_state_change"`
	Version         string        `json:"version"`
}

func (i *Input) UnmarshalJSON(data []byte) error {
	return unmarshalRecord(data, i, expandOnOffStatus, expandLocation)
}

func (i *Input) fromMap(m map[string]any) error {
	return decodeRecordMap(m, i, expandOnOffStatus, expandLocation)
}

func (i Input) String() string { return fmt.Sprintf("%d_%s", i.ID, i.Name) }

// SensorStatus is the current readings of a sensor.
type SensorStatus struct {
	Humidity    float64 `json:"humidity"`
	Temperature float64 `json:"temperature"`
	Brightness  int     `json:"brightness"`
}

// Sensor measures temperature, humidity or brightness.
type Sensor struct {
	ID               int           `json:"id"`
	LocalID          int           `json:"local_id"`
	Name             string        `json:"name"`
	PhysicalQuantity string        `json:"physical_quantity"`
	Location         *Location     `json:"location"`
	Status           *SensorStatus `json:"status"`
	LastStateChange  float64       `json:"last_state_change"`
	Version          string        `json:"version"`
}

func (s *Sensor) UnmarshalJSON(data []byte) error {
	return unmarshalRecord(data, s, expandLocation)
}

func (s *Sensor) fromMap(m map[string]any) error {
	return decodeRecordMap(m, s, expandLocation)
}

func (s Sensor) String() string { return fmt.Sprintf("%d_%s", s.ID, s.Name) }

// EnergyStatus is the realtime reading of an energy sensor.
type EnergyStatus struct {
	Voltage   float64 `json:"voltage"`
	Frequency float64 `json:"frequency"`
	Current   float64 `json:"current"`
	Power     float64 `json:"power"`
}

// EnergySensor is a power-metering input of an energy module.
type EnergySensor struct {
	ID       int           `json:"id"`
	LocalID  int           `json:"local_id"`
	Name     string        `json:"name"`
	Inverted bool          `json:"inverted"`
	Status   *EnergyStatus `json:"status"`
}

func (e *EnergySensor) UnmarshalJSON(data []byte) error {
	return unmarshalRecord(data, e, expandEnergyStatus)
}

func (e *EnergySensor) fromMap(m map[string]any) error {
	return decodeRecordMap(m, e, expandEnergyStatus)
}

func (e EnergySensor) String() string { return fmt.Sprintf("%d_%s", e.ID, e.Name) }

// ShutterStatus is the live state of a shutter.
type ShutterStatus struct {
	Locked         bool    `json:"locked"`
	ManualOverride bool    `json:"manual_override"`
	State          string  `json:"state"`
	Position       int     `json:"position"`
	LastChange     float64 `json:"last_change"`
	PresetPosition int     `json:"preset_position"`
}

// ShutterAttributes describe the physical mounting of a shutter.
type ShutterAttributes struct {
	Azimuth      string `json:"azimuth"`
	CompassPoint string `json:"compass_point"`
	SurfaceArea  string `json:"surface_area"`
}

// ShutterMetadata describes the shutter's protocol binding.
type ShutterMetadata struct {
	Protocol         string `json:"protocol"`
	ControllableName string `json:"controllable_name"`
}

// Shutter is a motorized cover (roller shutter, blind).
type Shutter struct {
	ID           int                `json:"id"`
	LocalID      int                `json:"local_id"`
	Name         string             `json:"name"`
	ShutterType  string             `json:"shutter_type"`
	Location     *Location          `json:"location"`
	Capabilities []string           `json:"capabilities"`
	Attributes   *ShutterAttributes `json:"attributes"`
	Metadata     *ShutterMetadata   `json:"metadata"`
	Status       *ShutterStatus     `json:"status"`
	Version      string             `json:"version"`
}

func (s *Shutter) UnmarshalJSON(data []byte) error {
	return unmarshalRecord(data, s, expandShutter, expandLocation)
}

func (s *Shutter) fromMap(m map[string]any) error {
	return decodeRecordMap(m, s, expandShutter, expandLocation)
}

func (s Shutter) String() string { return fmt.Sprintf("%d_%s", s.ID, s.Name) }

// GroupAction is a predefined list of actions executed together.
type GroupAction struct {
	ID       int       `json:"id"`
	LocalID  int       `json:"local_id"`
	Name     string    `json:"name"`
	Actions  []any     `json:"actions"`
	Location *Location `json:"location"`
	Version  string    `json:"version"`
}

func (g *GroupAction) UnmarshalJSON(data []byte) error {
	return unmarshalRecord(data, g, expandLocation)
}

func (g *GroupAction) fromMap(m map[string]any) error {
	return decodeRecordMap(m, g, expandLocation)
}

func (g GroupAction) String() string { return fmt.Sprintf("%d_%s", g.ID, g.Name) }

// ThermostatGroupStatus is the shared state of a thermostat group.
type ThermostatGroupStatus struct {
	Mode  string `json:"mode"`
	State bool   `json:"state"`
}

// ThermostatSchedule is a heating/cooling schedule.
type ThermostatSchedule struct {
	Start string         `json:"start"`
	Data  map[string]any `json:"data"`
}

// ThermostatGroup bundles thermostat units sharing a mode.
type ThermostatGroup struct {
	ID            int                    `json:"id"`
	LocalID       int                    `json:"local_id"`
	Name          string                 `json:"name"`
	Capabilities  []string               `json:"capabilities"`
	ThermostatIDs map[string]any         `json:"thermostat_ids"`
	Schedule      *ThermostatSchedule    `json:"schedule"`
	Status        *ThermostatGroupStatus `json:"status"`
	Version       string                 `json:"version"`
}

func (t *ThermostatGroup) UnmarshalJSON(data []byte) error {
	return unmarshalRecord(data, t, expandThermostatSchedule)
}

func (t *ThermostatGroup) fromMap(m map[string]any) error {
	return decodeRecordMap(m, t, expandThermostatSchedule)
}

func (t ThermostatGroup) String() string { return fmt.Sprintf("%d_%s", t.ID, t.Name) }

// ThermostatLocation places a thermostat unit within its group.
type ThermostatLocation struct {
	ThermostatGroupID int `json:"thermostat_group_id"`
	InstallationID    int `json:"installation_id"`
	RoomID            int `json:"room_id"`
}

// ThermostatUnitStatus is the live state of a thermostat unit.
type ThermostatUnitStatus struct {
	ActualTemperature float64 `json:"actual_temperature"`
	CurrentSetpoint   float64 `json:"current_setpoint"`
	Output0           string  `json:"output_0"`
	Output1           string  `json:"output_1"`
	Preset            string  `json:"preset"`
}

// ThermostatUnit is a single thermostat.
type ThermostatUnit struct {
	ID       int                   `json:"id"`
	LocalID  int                   `json:"local_id"`
	Name     string                `json:"name"`
	Location *ThermostatLocation   `json:"location"`
	Status   *ThermostatUnitStatus `json:"status"`
	Version  string                `json:"version"`
}

func (t *ThermostatUnit) UnmarshalJSON(data []byte) error {
	return unmarshalRecord(data, t, expandThermostatUnitStatus, expandLocation)
}

func (t *ThermostatUnit) fromMap(m map[string]any) error {
	return decodeRecordMap(m, t, expandThermostatUnitStatus, expandLocation)
}

func (t ThermostatUnit) String() string { return fmt.Sprintf("%d_%s", t.ID, t.Name) }

// VentilationStatus is the live state of a ventilation unit.
type VentilationStatus struct {
	State string  `json:"state"`
	Mode  string  `json:"mode"`
	Level int     `json:"level"`
	Timer float64 `json:"timer"`
}

// VentilationUnit is a mechanical ventilation unit.
type VentilationUnit struct {
	ID      int                `json:"id"`
	LocalID int                `json:"local_id"`
	Name    string             `json:"name"`
	Status  *VentilationStatus `json:"status"`
}

func (v *VentilationUnit) UnmarshalJSON(data []byte) error {
	return unmarshalRecord(data, v)
}

func (v VentilationUnit) String() string { return fmt.Sprintf("%d_%s", v.ID, v.Name) }

// Allowed wraps a single permission flag.
type Allowed struct {
	Allowed bool `json:"allowed"`
}

// InstallationACL lists the caller's permissions on an installation.
type InstallationACL struct {
	Configure *Allowed `json:"configure"`
	View      *Allowed `json:"view"`
	Control   *Allowed `json:"control"`
}

// InstallationNetwork is the gateway's network information.
type InstallationNetwork struct {
	LocalIPAddress string `json:"local_ip_address"`
}

// Installation is a cloud-side tenant/site: one registered gateway and its
// configuration. Unlike the flattened entity records, installations arrive
// as a genuinely nested payload.
type Installation struct {
	ID              int                  `json:"id"`
	Name            string               `json:"name"`
	Description     string               `json:"description"`
	GatewayModel    string               `json:"gateway_model"`
	ACL             *InstallationACL     `json:"_acl"`
	UserRole        map[string]any       `json:"user_role"`
	RegistrationKey string               `json:"registration_key"`
	Platform        string               `json:"platform"`
	BuildingRoles   []any                `json:"building_roles"`
	Network         *InstallationNetwork `json:"network"`
	Flags           map[string]any       `json:"flags"`
	Features        []any                `json:"features"`
	Version         string               `json:"version"`
}

func (i Installation) String() string { return fmt.Sprintf("%d_%s", i.ID, i.Name) }
