package openmotics

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
)

func TestLocalThermostatsService(t *testing.T) {
	var setpoints, modes []map[string]any
	mux := http.NewServeMux()
	handleLogin(mux, "tok")
	mux.HandleFunc("/get_thermostat_configurations", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"success": true, "config": []any{
			map[string]any{"id": 0, "name": "Ground floor"},
			map[string]any{"id": 1, "name": "Upstairs"},
		}})
	})
	mux.HandleFunc("/get_thermostat_status", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"success": true, "status": []any{
			map[string]any{"id": 0, "actual_temperature": 20.5, "setpoint_temperature": 21.0, "preset": "AUTO"},
			map[string]any{"id": 1, "actual_temperature": 18.0, "setpoint_temperature": 19.5, "preset": "AWAY"},
		}})
	})
	mux.HandleFunc("/set_current_setpoint", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		setpoints = append(setpoints, body)
		json.NewEncoder(w).Encode(map[string]any{"success": true})
	})
	mux.HandleFunc("/set_thermostat_mode", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		modes = append(modes, body)
		json.NewEncoder(w).Encode(map[string]any{"success": true})
	})
	gw := newTestGateway(t, mux)
	ctx := context.Background()

	t.Run("ListUnits merges status", func(t *testing.T) {
		units, err := gw.Thermostats.ListUnits(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(units) != 2 {
			t.Fatalf("got %d units, want 2", len(units))
		}
		u := units[0]
		if u.Name != "Ground floor" {
			t.Errorf("units[0].Name = %q, want Ground floor", u.Name)
		}
		if u.Status == nil {
			t.Fatal("units[0] has no status")
		}
		if u.Status.ActualTemperature != 20.5 || u.Status.CurrentSetpoint != 21.0 {
			t.Errorf("units[0].Status = %+v, want 20.5/21.0", u.Status)
		}
		if units[1].Status == nil || units[1].Status.Preset != "AWAY" {
			t.Errorf("units[1].Status = %+v, want preset AWAY", units[1].Status)
		}
	})

	t.Run("GetUnit", func(t *testing.T) {
		u, err := gw.Thermostats.GetUnit(ctx, 1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if u.Name != "Upstairs" {
			t.Errorf("Name = %q, want Upstairs", u.Name)
		}
		if _, err := gw.Thermostats.GetUnit(ctx, 7); err == nil {
			t.Error("expected error for unknown unit")
		}
	})

	t.Run("SetUnitTemperature", func(t *testing.T) {
		if err := gw.Thermostats.SetUnitTemperature(ctx, 0, 22.5); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(setpoints) != 1 {
			t.Fatalf("got %d set_current_setpoint calls, want 1", len(setpoints))
		}
		b := setpoints[0]
		if b["thermostat"] != float64(0) || b["temperature"] != 22.5 {
			t.Errorf("set_current_setpoint body = %v, want thermostat=0 temperature=22.5", b)
		}
	})

	t.Run("SetUnitPreset", func(t *testing.T) {
		var presets []map[string]any
		mux.HandleFunc("/set_per_thermostat_mode", func(w http.ResponseWriter, r *http.Request) {
			var body map[string]any
			json.NewDecoder(r.Body).Decode(&body)
			presets = append(presets, body)
			json.NewEncoder(w).Encode(map[string]any{"success": true})
		})

		if err := gw.Thermostats.SetUnitPreset(ctx, 0, "AWAY"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(presets) != 1 || presets[0]["setpoint"] != float64(3) || presets[0]["thermostat"] != float64(0) {
			t.Errorf("set_per_thermostat_mode bodies = %v, want setpoint=3 thermostat=0", presets)
		}

		if err := gw.Thermostats.SetUnitPreset(ctx, 0, "BOGUS"); err == nil {
			t.Error("expected error for unknown preset")
		}
	})

	t.Run("SetMode", func(t *testing.T) {
		if err := gw.Thermostats.SetMode(ctx, true, false); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(modes) != 1 {
			t.Fatalf("got %d set_thermostat_mode calls, want 1", len(modes))
		}
		b := modes[0]
		if b["automatic"] != true || b["cooling_mode"] != false || b["thermostat_on"] != true {
			t.Errorf("set_thermostat_mode body = %v", b)
		}
	})
}
