package entity

import (
	"fmt"
	"strings"
)

type RoomKind string

const (
	RoomPharmacy RoomKind = "pharmacy"
	RoomChat     RoomKind = "chat"
	RoomDispatch RoomKind = "dispatch"
	RoomOrder    RoomKind = "order"
)

// Room is a logical real-time channel, named "<kind>:<id>" on the wire.
type Room struct {
	Kind RoomKind
	ID   string
}

func PharmacyRoom(id string) Room { return Room{Kind: RoomPharmacy, ID: id} }
func ChatRoom(id string) Room     { return Room{Kind: RoomChat, ID: id} }
func DispatchRoom(id string) Room { return Room{Kind: RoomDispatch, ID: id} }
func OrderRoom(id string) Room    { return Room{Kind: RoomOrder, ID: id} }

func (r Room) String() string {
	return string(r.Kind) + ":" + r.ID
}

func ParseRoom(s string) (Room, error) {
	kind, id, ok := strings.Cut(s, ":")
	if !ok || id == "" {
		return Room{}, fmt.Errorf("%w: %q", ErrUnknownRoom, s)
	}

	switch RoomKind(kind) {
	case RoomPharmacy, RoomChat, RoomDispatch, RoomOrder:
		return Room{Kind: RoomKind(kind), ID: id}, nil
	default:
		return Room{}, fmt.Errorf("%w: %q", ErrUnknownRoom, s)
	}
}
