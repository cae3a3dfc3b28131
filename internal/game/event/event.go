// Package event defines the tagged records combat appends to an Outbox instead of
// invoking callbacks. Callers drain the outbox after each entry-point call and hand the
// events to their listeners.
package event

// Kind tags an event record.
type Kind string

const (
	KindCharactersDied Kind = "characters_died"
	KindHealthChanged  Kind = "health_changed"
	KindSpeedChanged   Kind = "speed_changed"
	KindStatusApplied  Kind = "status_applied"
	KindStatusRemoved  Kind = "status_removed"
	KindTurnStarted    Kind = "turn_started"
	KindTurnEnded      Kind = "turn_ended"
)

// Event is implemented by every record type in this package.
type Event interface {
	Kind() Kind
}

// CharactersDied lists characters whose health reached zero in one call.
type CharactersDied struct {
	IDs []int
}

// HealthChange is one character's health mutation.
type HealthChange struct {
	ID     int
	Before int
	After  int
	// Delta is After-Before: the change actually applied after clamping.
	Delta int
}

// HealthChanged batches the health mutations of one action or tick.
type HealthChanged struct {
	Changes []HealthChange
}

// SpeedChanged reports a status moving a character's speed stat.
type SpeedChanged struct {
	ID       int
	PreSpeed int
	Delta    int
}

// StatusApplied reports one status landing on one or more characters.
type StatusApplied struct {
	IDs      []int
	StatusID string
	Message  string
}

// StatusRemoved reports a status leaving a character.
type StatusRemoved struct {
	ID       int
	StatusID string
	Message  string
}

// TurnStarted reports the acting character after start-of-turn effects resolved.
type TurnStarted struct {
	ID       int
	IsPlayer bool
}

// TurnEnded reports the character whose turn just ended and the round it ended in.
type TurnEnded struct {
	ID    int
	Round int
}

func (CharactersDied) Kind() Kind { return KindCharactersDied }
func (HealthChanged) Kind() Kind  { return KindHealthChanged }
func (SpeedChanged) Kind() Kind   { return KindSpeedChanged }
func (StatusApplied) Kind() Kind  { return KindStatusApplied }
func (StatusRemoved) Kind() Kind  { return KindStatusRemoved }
func (TurnStarted) Kind() Kind    { return KindTurnStarted }
func (TurnEnded) Kind() Kind      { return KindTurnEnded }
