package event

import (
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/ThreeDotsLabs/watermill/message"

	"ticketescrow/entities"
)

// StoreInDataLake keeps the raw payload of every notification, so read models
// can be rebuilt from it later.
func (h Handler) StoreInDataLake(msg *message.Message) error {
	var notification struct {
		Header entities.EventHeader `json:"header"`
	}
	if err := json.Unmarshal(msg.Payload, &notification); err != nil {
		return fmt.Errorf("could not unmarshal notification header: %w", err)
	}

	name := marshaler.NameFromMessage(msg)

	log.FromContext(msg.Context()).WithField("notification_name", name).Debug("Storing notification in data lake")

	return h.dataLake.Create(msg.Context(), entities.StoredNotification{
		NotificationID: notification.Header.ID,
		PublishedAt:    notification.Header.PublishedAt,
		Name:           name,
		Payload:        msg.Payload,
	})
}
