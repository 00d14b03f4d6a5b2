package entity

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

const (
	EventConnected             = "connected"
	EventJoin                  = "join"
	EventLeave                 = "leave"
	EventError                 = "error"
	EventChatMessage           = "chat_message"
	EventTyping                = "typing"
	EventOrderStatusChanged    = "order_status_changed"
	EventDispatchStatusChanged = "dispatch_status_changed"
)

// Frame is one JSON text frame on a live connection.
type Frame struct {
	Event string          `json:"event" validate:"required"`
	Room  string          `json:"room,omitempty"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type ChatMessage struct {
	ID       string `json:"id" validate:"required"`
	ThreadID string `json:"thread_id" validate:"required"`
	SenderID string `json:"sender_id" validate:"required"`
	Body     string `json:"body"`
	SentAt   string `json:"sent_at"`
}

type Typing struct {
	ThreadID string `json:"thread_id" validate:"required"`
	UserID   string `json:"user_id" validate:"required"`
	IsTyping bool   `json:"is_typing"`
}

type OrderStatusChange struct {
	OrderID    string          `json:"order_id" validate:"required"`
	PharmacyID string          `json:"pharmacy_id" validate:"required"`
	Status     string          `json:"status" validate:"required"`
	Total      decimal.Decimal `json:"total"`
}

type DispatchStatusChange struct {
	DispatchID string `json:"dispatch_id" validate:"required"`
	OrderID    string `json:"order_id"`
	PharmacyID string `json:"pharmacy_id" validate:"required"`
	Status     string `json:"status" validate:"required"`
}
