package openmotics

import (
	"context"
)

// EnergySensorsService mirrors the local gateway's energy sensor accessor.
// The cloud API has no energy endpoint; List always returns an empty
// slice so code written against either backend can treat both uniformly.
type EnergySensorsService struct {
	client *CloudClient
}

// List returns the installation's energy sensors. Always empty on the
// cloud backend.
func (s *EnergySensorsService) List(_ context.Context) ([]EnergySensor, error) {
	return []EnergySensor{}, nil
}
