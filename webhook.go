package openmotics

import (
	"context"
)

// webhookPath is the cloud endpoint managing event push subscriptions.
const webhookPath = "/ws/events"

// DefaultWebhookEvents lists the event types subscribed to when none are
// specified explicitly.
var DefaultWebhookEvents = []string{
	"OUTPUT_CHANGE",
	"SHUTTER_CHANGE",
	"THERMOSTAT_CHANGE",
	"THERMOSTAT_GROUP_CHANGE",
	"INPUT_TRIGGER",
	"VENTILATION_CHANGE",
}

// webhookSubscription is the POST /ws/events request body.
type webhookSubscription struct {
	Types           []string `json:"types"`
	InstallationIDs []int    `json:"installation_ids"`
}

// SubscribeWebhook subscribes to event notifications for the given
// installations using the default event types. With no IDs given, the
// currently selected installation is used.
func (c *CloudClient) SubscribeWebhook(ctx context.Context, installationIDs ...int) error {
	return c.SubscribeWebhookEvents(ctx, DefaultWebhookEvents, installationIDs...)
}

// SubscribeWebhookEvents subscribes to the given event types for the given
// installations.
func (c *CloudClient) SubscribeWebhookEvents(ctx context.Context, eventTypes []string, installationIDs ...int) error {
	if len(installationIDs) == 0 {
		id := c.InstallationID()
		if id == 0 {
			return ErrNoInstallation
		}
		installationIDs = []int{id}
	}

	body := webhookSubscription{
		Types:           eventTypes,
		InstallationIDs: installationIDs,
	}
	_, _, err := c.post(ctx, webhookPath, body)
	return err
}

// UnsubscribeWebhook removes the event subscription.
func (c *CloudClient) UnsubscribeWebhook(ctx context.Context) error {
	_, _, err := c.del(ctx, webhookPath)
	return err
}
