package session

type State int

const (
	StateInput State = iota
	StateLoading
	StateActive
	StateFinished
	StateSettings
	StateSaved
)

var stateNames = map[State]string{
	StateInput:    "input",
	StateLoading:  "loading",
	StateActive:   "active",
	StateFinished: "finished",
	StateSettings: "settings",
	StateSaved:    "saved",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}
