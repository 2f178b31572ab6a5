package services

import (
	"github.com/google/uuid"
	"github.com/saeid-a/CoachLogBack/internal/models"
)

// Notifier fans events out to connected clients. Delivery is best effort.
type Notifier interface {
	Notify(event models.Event, userIDs ...uuid.UUID)
}

type noopNotifier struct{}

func (noopNotifier) Notify(models.Event, ...uuid.UUID) {}

func notifierOrNoop(n Notifier) Notifier {
	if n == nil {
		return noopNotifier{}
	}
	return n
}
