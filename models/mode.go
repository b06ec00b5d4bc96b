package models

// Mode represents the delivery channel for a proposed slot or a meeting
type Mode string

// Predefined Mode values
const (
	ModeOnline  Mode = "online"
	ModeOffline Mode = "offline"
)

// ValidModes returns all valid Mode values
func ValidModes() []Mode {
	return []Mode{
		ModeOnline,
		ModeOffline,
	}
}

// IsValid checks if the Mode value is one of the predefined constants
func (m Mode) IsValid() bool {
	for _, validMode := range ValidModes() {
		if m == validMode {
			return true
		}
	}
	return false
}

// String returns the string representation of the Mode
func (m Mode) String() string {
	return string(m)
}
