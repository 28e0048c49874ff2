package organize

import "fmt"

// ActionKind discriminates the two action variants.
type ActionKind string

const (
	// ActionMove relocates a file from Source to Path.
	ActionMove ActionKind = "move"
	// ActionRemove deletes the filesystem entry at Path.
	ActionRemove ActionKind = "remove"
)

// Action is one planned filesystem mutation. Paths are slash-separated and
// relative to the engine root. For a move, Path is the destination; for a
// remove, Path is the target and Source is empty.
type Action struct {
	Kind   ActionKind
	Source string
	Path   string
}

// MoveAction builds a move from source to destination.
func MoveAction(source, destination string) Action {
	return Action{Kind: ActionMove, Source: source, Path: destination}
}

// RemoveAction builds a removal of path.
func RemoveAction(path string) Action {
	return Action{Kind: ActionRemove, Path: path}
}

func (a Action) String() string {
	switch a.Kind {
	case ActionMove:
		return fmt.Sprintf("move %s -> %s", a.Source, a.Path)
	case ActionRemove:
		return fmt.Sprintf("remove %s", a.Path)
	default:
		return fmt.Sprintf("unknown action %q", string(a.Kind))
	}
}

// Mode selects the planning algorithm.
type Mode int

const (
	// Forward organizes files into pattern-derived subfolders.
	Forward Mode = iota
	// ByType organizes files into fixed category subfolders.
	ByType
	// Reverse flattens files back into the root and removes emptied folders.
	Reverse
)

func (m Mode) String() string {
	switch m {
	case Forward:
		return "forward"
	case ByType:
		return "bytype"
	case Reverse:
		return "reverse"
	default:
		return "unknown"
	}
}

// Batch is the ordered action list produced by one planning pass. It is
// created fresh per invocation and discarded after execution; its durable
// trace is the journal entries it produces, keyed by the sequence id the
// executor assigns at execution time.
type Batch struct {
	Mode    Mode
	Actions []Action
}

// Moves returns the move actions in batch order.
func (b *Batch) Moves() []Action {
	var moves []Action
	for _, a := range b.Actions {
		if a.Kind == ActionMove {
			moves = append(moves, a)
		}
	}
	return moves
}
