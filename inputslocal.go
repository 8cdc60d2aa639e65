package openmotics

import (
	"context"
	"fmt"
)

// LocalInputsService handles the inputs of a local gateway.
type LocalInputsService struct {
	gw *LocalGateway
}

// List returns all inputs.
func (s *LocalInputsService) List(ctx context.Context) ([]Input, error) {
	configs, err := s.gw.actionRecords(ctx, "get_input_configurations", "config")
	if err != nil {
		return nil, err
	}

	inputs := make([]Input, 0, len(configs))
	for _, cfg := range configs {
		var in Input
		if err := in.fromMap(copyMap(cfg)); err != nil {
			return nil, err
		}
		inputs = append(inputs, in)
	}
	return inputs, nil
}

// Get returns a single input by ID.
func (s *LocalInputsService) Get(ctx context.Context, inputID int) (*Input, error) {
	inputs, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range inputs {
		if inputs[i].ID == inputID {
			return &inputs[i], nil
		}
	}
	return nil, fmt.Errorf("openmotics: input %d not found", inputID)
}

// LastPressed returns the IDs of the inputs pressed during the last few
// seconds, most recent first.
func (s *LocalInputsService) LastPressed(ctx context.Context) ([]int, error) {
	env, err := s.gw.ExecAction(ctx, "get_last_inputs", nil)
	if err != nil {
		return nil, err
	}
	raw, ok := env["inputs"].([]any)
	if !ok {
		return nil, fmt.Errorf("openmotics: %q response has no %q list", "get_last_inputs", "inputs")
	}
	ids := make([]int, 0, len(raw))
	for _, r := range raw {
		if n, ok := asFloat(r); ok {
			ids = append(ids, int(n))
		}
	}
	return ids, nil
}
