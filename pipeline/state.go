package pipeline

// State is the pipeline's position in one capture-to-answer attempt. A
// tagged state replaces the original's independent booleans so impossible
// combinations cannot be represented.
type State int

const (
	StateIdle State = iota
	StateCapturing
	StateCropping
	StateRecognizing
	StateRoutingAnswer
	StateFetchingAnswer
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCapturing:
		return "capturing"
	case StateCropping:
		return "cropping"
	case StateRecognizing:
		return "recognizing"
	case StateRoutingAnswer:
		return "routing-answer"
	case StateFetchingAnswer:
		return "fetching-answer"
	}
	return "unknown"
}
