package openmotics

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutput_UnmarshalJSON(t *testing.T) {
	t.Run("flat gateway record fans out", func(t *testing.T) {
		data := []byte(`{"id":5,"name":"Kitchen","room":2,"status":1,"dimmer":80}`)

		var o Output
		require.NoError(t, json.Unmarshal(data, &o))

		assert.Equal(t, 5, o.ID)
		assert.Equal(t, 5, o.LocalID)
		assert.Equal(t, "Kitchen", o.Name)
		require.NotNil(t, o.Status)
		assert.True(t, o.Status.On)
		assert.Equal(t, 80, o.Status.Value)
		require.NotNil(t, o.Location)
		assert.Equal(t, 2, o.Location.RoomID)
		assert.Nil(t, o.Location.FloorCoordinates)
	})

	t.Run("nested cloud record passes through", func(t *testing.T) {
		data := []byte(`{
			"id": 17, "local_id": 3, "name": "Porch", "output_type": "OUTLET",
			"location": {"installation_id": 21, "room_id": 4, "floor_coordinates": {"x": 10, "y": 12}},
			"status": {"on": false, "locked": true, "value": 0}
		}`)

		var o Output
		require.NoError(t, json.Unmarshal(data, &o))

		assert.Equal(t, 17, o.ID)
		assert.Equal(t, 3, o.LocalID)
		require.NotNil(t, o.Status)
		assert.False(t, o.Status.On)
		assert.True(t, o.Status.Locked)
		require.NotNil(t, o.Location)
		assert.Equal(t, 21, o.Location.InstallationID)
		require.NotNil(t, o.Location.FloorCoordinates)
		assert.Equal(t, 10, o.Location.FloorCoordinates.X)
	})

	t.Run("incomplete floor coordinates decode as nil", func(t *testing.T) {
		data := []byte(`{"id":1,"name":"A","location":{"room_id":2,"floor_coordinates":{"x":5}}}`)

		var o Output
		require.NoError(t, json.Unmarshal(data, &o))
		require.NotNil(t, o.Location)
		assert.Nil(t, o.Location.FloorCoordinates)
	})

	t.Run("nested numeric status normalizes", func(t *testing.T) {
		data := []byte(`{"id":2,"name":"B","status":{"status":0,"dimmer":40}}`)

		var o Output
		require.NoError(t, json.Unmarshal(data, &o))
		require.NotNil(t, o.Status)
		assert.False(t, o.Status.On)
		assert.Equal(t, 40, o.Status.Value)
	})

	t.Run("String", func(t *testing.T) {
		o := Output{ID: 5, Name: "Kitchen"}
		assert.Equal(t, "5_Kitchen", o.String())
	})
}

func TestLight_UnmarshalJSON(t *testing.T) {
	t.Run("dimmer module gets RANGE capability", func(t *testing.T) {
		data := []byte(`{"id":3,"name":"Spots","module_type":"D","status":1}`)

		var l Light
		require.NoError(t, json.Unmarshal(data, &l))
		assert.Equal(t, []string{"ON_OFF", "RANGE"}, l.Capabilities)
		require.NotNil(t, l.Status)
		assert.True(t, l.Status.On)
	})

	t.Run("plain module gets ON_OFF only", func(t *testing.T) {
		data := []byte(`{"id":4,"name":"Hall","module_type":"O","status":0}`)

		var l Light
		require.NoError(t, json.Unmarshal(data, &l))
		assert.Equal(t, []string{"ON_OFF"}, l.Capabilities)
	})

	t.Run("explicit capabilities are kept", func(t *testing.T) {
		data := []byte(`{"id":5,"name":"RGB","capabilities":["ON_OFF","RANGE","COLOR"]}`)

		var l Light
		require.NoError(t, json.Unmarshal(data, &l))
		assert.Equal(t, []string{"ON_OFF", "RANGE", "COLOR"}, l.Capabilities)
	})
}

func TestInput_UnmarshalJSON(t *testing.T) {
	data := []byte(`{"id":5,"name":"Kitchen","room":2,"status":1}`)

	var in Input
	require.NoError(t, json.Unmarshal(data, &in))

	assert.Equal(t, 5, in.ID)
	assert.Equal(t, 5, in.LocalID)
	require.NotNil(t, in.Status)
	assert.True(t, in.Status.On)
	require.NotNil(t, in.Location)
	assert.Equal(t, 2, in.Location.RoomID)
}

func TestSensor_UnmarshalJSON(t *testing.T) {
	data := []byte(`{
		"id": 8, "name": "Living", "physical_quantity": "temperature",
		"status": {"temperature": 21.5, "humidity": 48.2, "brightness": 73}
	}`)

	var s Sensor
	require.NoError(t, json.Unmarshal(data, &s))

	assert.Equal(t, "temperature", s.PhysicalQuantity)
	require.NotNil(t, s.Status)
	assert.InDelta(t, 21.5, s.Status.Temperature, 0.001)
	assert.Equal(t, 73, s.Status.Brightness)
}

func TestEnergySensor_UnmarshalJSON(t *testing.T) {
	t.Run("list-shaped status", func(t *testing.T) {
		data := []byte(`{"id":2,"name":"Mains","status":[231.2,49.9,3.2,740.5]}`)

		var e EnergySensor
		require.NoError(t, json.Unmarshal(data, &e))

		require.NotNil(t, e.Status)
		assert.InDelta(t, 231.2, e.Status.Voltage, 0.001)
		assert.InDelta(t, 49.9, e.Status.Frequency, 0.001)
		assert.InDelta(t, 3.2, e.Status.Current, 0.001)
		assert.InDelta(t, 740.5, e.Status.Power, 0.001)
	})

	t.Run("short list pads with zeros", func(t *testing.T) {
		data := []byte(`{"id":2,"name":"Mains","status":[231.2]}`)

		var e EnergySensor
		require.NoError(t, json.Unmarshal(data, &e))
		require.NotNil(t, e.Status)
		assert.InDelta(t, 231.2, e.Status.Voltage, 0.001)
		assert.Zero(t, e.Status.Power)
	})
}

func TestShutter_UnmarshalJSON(t *testing.T) {
	data := []byte(`{
		"id": 6, "name": "Bedroom", "type": "venetian",
		"azimuth": "180", "compass_point": "S",
		"protocol": "somfy", "controllable_name": "io:RollerShutter",
		"status": {"state": "UP", "position": 0}
	}`)

	var s Shutter
	require.NoError(t, json.Unmarshal(data, &s))

	assert.Equal(t, "venetian", s.ShutterType)
	require.NotNil(t, s.Attributes)
	assert.Equal(t, "180", s.Attributes.Azimuth)
	assert.Equal(t, "S", s.Attributes.CompassPoint)
	require.NotNil(t, s.Metadata)
	assert.Equal(t, "somfy", s.Metadata.Protocol)
	require.NotNil(t, s.Status)
	assert.Equal(t, "UP", s.Status.State)
}

func TestThermostatUnit_UnmarshalJSON(t *testing.T) {
	t.Run("setpoint_temperature maps to current_setpoint", func(t *testing.T) {
		data := []byte(`{
			"id": 1, "name": "Ground floor",
			"status": {"actual_temperature": 20.5, "setpoint_temperature": 21.0, "preset": "AUTO"}
		}`)

		var u ThermostatUnit
		require.NoError(t, json.Unmarshal(data, &u))

		require.NotNil(t, u.Status)
		assert.InDelta(t, 21.0, u.Status.CurrentSetpoint, 0.001)
		assert.InDelta(t, 20.5, u.Status.ActualTemperature, 0.001)
		assert.Equal(t, "AUTO", u.Status.Preset)
	})

	t.Run("flat record fans out", func(t *testing.T) {
		data := []byte(`{"id":2,"name":"Upstairs","actual_temperature":19.0,"setpoint_temperature":20.0}`)

		var u ThermostatUnit
		require.NoError(t, json.Unmarshal(data, &u))
		require.NotNil(t, u.Status)
		assert.InDelta(t, 20.0, u.Status.CurrentSetpoint, 0.001)
	})
}

func TestThermostatGroup_UnmarshalJSON(t *testing.T) {
	data := []byte(`{
		"id": 0, "name": "default", "capabilities": ["HEATING", "COOLING"],
		"status": {"mode": "HEATING", "state": true},
		"schedule": {"start": "2026-01-01", "data": {"0": 16.0}}
	}`)

	var g ThermostatGroup
	require.NoError(t, json.Unmarshal(data, &g))

	assert.Equal(t, []string{"HEATING", "COOLING"}, g.Capabilities)
	require.NotNil(t, g.Status)
	assert.Equal(t, "HEATING", g.Status.Mode)
	assert.True(t, g.Status.State)
	require.NotNil(t, g.Schedule)
	assert.Equal(t, "2026-01-01", g.Schedule.Start)
}

func TestVentilationUnit_UnmarshalJSON(t *testing.T) {
	data := []byte(`{"id":9,"name":"HRU","status":{"mode":"automatic","level":2,"timer":0}}`)

	var v VentilationUnit
	require.NoError(t, json.Unmarshal(data, &v))

	require.NotNil(t, v.Status)
	assert.Equal(t, "automatic", v.Status.Mode)
	assert.Equal(t, 2, v.Status.Level)
}

func TestInstallation_UnmarshalJSON(t *testing.T) {
	data := []byte(`{
		"id": 21, "name": "Home", "gateway_model": "openmotics", "platform": "CLASSIC",
		"_acl": {"configure": {"allowed": true}, "view": {"allowed": true}, "control": {"allowed": false}},
		"network": {"local_ip_address": "192.168.1.50"}
	}`)

	var ins Installation
	require.NoError(t, json.Unmarshal(data, &ins))

	assert.Equal(t, 21, ins.ID)
	require.NotNil(t, ins.ACL)
	require.NotNil(t, ins.ACL.Control)
	assert.False(t, ins.ACL.Control.Allowed)
	require.NotNil(t, ins.Network)
	assert.Equal(t, "192.168.1.50", ins.Network.LocalIPAddress)
	assert.Equal(t, "21_Home", ins.String())
}
