package openmotics

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
)

// GroupActionsService handles all actions on the group actions of the
// selected cloud installation.
type GroupActionsService struct {
	client *CloudClient
}

// List returns all group actions, optionally narrowed by a JSON filter
// expression.
func (s *GroupActionsService) List(ctx context.Context, filter string) ([]GroupAction, error) {
	path, err := s.client.installationPath("groupactions")
	if err != nil {
		return nil, err
	}
	var params url.Values
	if filter != "" {
		params = url.Values{}
		params.Set("filter", filter)
	}

	data, _, err := s.client.get(ctx, path, params)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Data []GroupAction `json:"data"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("openmotics: failed to parse group action list: %w (body: %s)", err, truncatePreview(data))
	}
	return resp.Data, nil
}

// Get returns a single group action by ID.
func (s *GroupActionsService) Get(ctx context.Context, groupActionID int) (*GroupAction, error) {
	path, err := s.client.installationPath(fmt.Sprintf("groupactions/%d", groupActionID))
	if err != nil {
		return nil, err
	}
	data, _, err := s.client.get(ctx, path, nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Data GroupAction `json:"data"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("openmotics: failed to parse group action: %w (body: %s)", err, truncatePreview(data))
	}
	return &resp.Data, nil
}

// Trigger executes a group action.
func (s *GroupActionsService) Trigger(ctx context.Context, groupActionID int) error {
	path, err := s.client.installationPath(fmt.Sprintf("groupactions/%d/trigger", groupActionID))
	if err != nil {
		return err
	}
	_, _, err = s.client.post(ctx, path, nil)
	return err
}
