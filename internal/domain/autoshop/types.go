package autoshop

type State string

const (
	StateIdle    State = "idle"
	StateActive  State = "active"
	StateExpired State = "expired"
	StateStopped State = "stopped"
)

func (s State) String() string {
	return string(s)
}

func (s State) IsValid() bool {
	switch s {
	case StateIdle, StateActive, StateExpired, StateStopped:
		return true
	default:
		return false
	}
}

type DurationUnit string

const (
	UnitSeconds DurationUnit = "seconds"
	UnitMinutes DurationUnit = "minutes"
	UnitHours   DurationUnit = "hours"
	UnitDays    DurationUnit = "days"
)

func (u DurationUnit) IsValid() bool {
	switch u {
	case UnitSeconds, UnitMinutes, UnitHours, UnitDays:
		return true
	default:
		return false
	}
}
