package openmotics

import (
	"context"
	"fmt"
)

// LocalGroupActionsService lists and triggers group actions on a local
// gateway.
type LocalGroupActionsService struct {
	gw *LocalGateway
}

// List returns all configured group actions.
func (s *LocalGroupActionsService) List(ctx context.Context) ([]GroupAction, error) {
	configs, err := s.gw.actionRecords(ctx, "get_group_action_configurations", "config")
	if err != nil {
		return nil, err
	}
	actions := make([]GroupAction, 0, len(configs))
	for _, cfg := range configs {
		var ga GroupAction
		if err := ga.fromMap(cfg); err != nil {
			return nil, err
		}
		actions = append(actions, ga)
	}
	return actions, nil
}

// Get returns a single group action by ID.
func (s *LocalGroupActionsService) Get(ctx context.Context, groupActionID int) (*GroupAction, error) {
	actions, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range actions {
		if actions[i].ID == groupActionID {
			return &actions[i], nil
		}
	}
	return nil, fmt.Errorf("openmotics: group action %d not found", groupActionID)
}

// Trigger executes a group action.
func (s *LocalGroupActionsService) Trigger(ctx context.Context, groupActionID int) error {
	_, err := s.gw.ExecAction(ctx, "do_group_action", map[string]any{"group_action_id": groupActionID})
	return err
}
