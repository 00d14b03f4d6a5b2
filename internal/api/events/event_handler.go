package events

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/segmentio/kafka-go"

	"github.com/samandr77/microservices/portal/internal/entity"
	"github.com/samandr77/microservices/portal/internal/schema"
)

//go:generate go run go.uber.org/mock/mockgen@latest -source=event_handler.go -destination=../../mocks/event_handler.go -package=mocks

type AccessRefresher interface {
	RefreshPharmacy(ctx context.Context, pharmacyID, userID string) error
}

type EventHandler struct {
	s AccessRefresher
}

func NewEventHandler(s AccessRefresher) *EventHandler {
	return &EventHandler{s: s}
}

// OnAccessChangedEvent is published by the backend when a pharmacy's
// governance status or a member's role changes. An empty UserID means every
// member of the pharmacy is affected.
type OnAccessChangedEvent struct {
	PharmacyID       string                  `json:"pharmacy_id" validate:"required"`
	UserID           string                  `json:"user_id"`
	GovernanceStatus entity.GovernanceStatus `json:"governance_status"`
	Role             string                  `json:"role"`
}

func (h *EventHandler) OnAccessChanged(ctx context.Context, msg kafka.Message) error {
	event, err := schema.Decode[OnAccessChangedEvent](msg.Value).Unpack()
	if err != nil {
		return fmt.Errorf("decode event: %w", err)
	}

	slog.InfoContext(ctx, "access changed",
		"pharmacy_id", event.PharmacyID,
		"user_id", event.UserID,
		"governance_status", event.GovernanceStatus,
	)

	err = h.s.RefreshPharmacy(ctx, event.PharmacyID, event.UserID)
	if err != nil {
		return fmt.Errorf("refresh pharmacy sessions: %w", err)
	}

	return nil
}
