package mapiter

import "github.com/kbukum/lockstep/object"

// Kind tags the outcome of a single step.
type Kind int

const (
	// Produced means the mapper returned a value.
	Produced Kind = iota
	// Ended means a source or the mapper signalled exhaustion.
	Ended
	// Failed means the mapper or a source returned an error other than
	// the exhaustion signal.
	Failed
)

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	switch k {
	case Produced:
		return "produced"
	case Ended:
		return "ended"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is the outcome of one step. Value is set only for Produced and Err
// only for Failed.
type Result struct {
	Kind  Kind
	Value object.Value
	Err   error
}

func produced(v object.Value) Result { return Result{Kind: Produced, Value: v} }

func ended() Result { return Result{Kind: Ended} }

func failed(err error) Result { return Result{Kind: Failed, Err: err} }
