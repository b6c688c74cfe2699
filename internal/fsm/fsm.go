// Package fsm defines the transcription run state machine.
package fsm

import "fmt"

type State string

type Event string

const (
	StateIdle         State = "idle"
	StateProbing      State = "probing"
	StateSingleShot   State = "single-shot"
	StateSegmenting   State = "segmenting"
	StateTranscribing State = "transcribing"
	StateStitching    State = "stitching"
	StateDone         State = "done"
	StateErrored      State = "errored"
)

const (
	EventBegin       Event = "begin"
	EventShortAsset  Event = "short-asset"
	EventProbeFailed Event = "probe-failed"
	EventLongAsset   Event = "long-asset"
	EventSegmented   Event = "segmented"
	EventChunksDone  Event = "chunks-done"
	EventTranscribed Event = "transcribed"
	EventStitched    Event = "stitched"
	EventFail        Event = "fail"
)

// Transition applies one event to the current state. EventFail is accepted
// from every state and always lands in StateErrored.
func Transition(current State, event Event) (State, error) {
	if event == EventFail {
		return StateErrored, nil
	}

	switch current {
	case StateIdle:
		switch event {
		case EventBegin:
			return StateProbing, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateProbing:
		switch event {
		case EventShortAsset, EventProbeFailed:
			return StateSingleShot, nil
		case EventLongAsset:
			return StateSegmenting, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateSegmenting:
		switch event {
		case EventSegmented:
			return StateTranscribing, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateTranscribing:
		switch event {
		case EventChunksDone:
			return StateStitching, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateSingleShot:
		switch event {
		case EventTranscribed:
			return StateDone, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateStitching:
		switch event {
		case EventStitched:
			return StateDone, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateDone, StateErrored:
		return current, invalidTransition(current, event)
	default:
		return current, fmt.Errorf("unknown state %q", current)
	}
}

func invalidTransition(state State, event Event) error {
	return fmt.Errorf("invalid transition: %s --(%s)--> ?", state, event)
}
