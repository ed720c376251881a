// Package category is the single source of truth for the fixed display
// category enumeration. Every display screen in the building is bound to
// exactly one of these values, and both the upload and the query paths
// validate against the same set.
package category

import (
	"errors"
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"
)

const (
	Lobby       = "lobby"
	HappyHour   = "happy-hour"
	RoomService = "room-service"
	Promotions  = "promotions"
	Clients     = "clients"
)

var Known = mapset.NewSet(
	Lobby,
	HappyHour,
	RoomService,
	Promotions,
	Clients,
)

var ErrUnknown = errors.New("unknown category")

// Validate returns ErrUnknown wrapped with the offending value when the
// category is not part of the enumeration.
func Validate(cat string) error {
	if !Known.Contains(cat) {
		return fmt.Errorf("%w: %q", ErrUnknown, cat)
	}
	return nil
}

// All returns the enumeration in a stable order for display and seeding.
func All() []string {
	return []string{Lobby, HappyHour, RoomService, Promotions, Clients}
}
