package sync

import "fmt"

// Stage identifies where in the sync flow a progress event was emitted.
type Stage string

// Sync stages, in flow order.
const (
	StageVerify   Stage = "verify"
	StageCollect  Stage = "collect"
	StageSession  Stage = "session"
	StageUpload   Stage = "upload"
	StageApply    Stage = "apply"
	StageIcons    Stage = "icons"
	StageFinished Stage = "finished"
)

// Event is one progress update published by the engine. The presentation
// layer subscribes to the event channel; the engine never calls into UI
// code.
type Event struct {
	Stage   Stage
	Message string
	Current int
	Total   int
}

func (e Event) String() string {
	if e.Total > 0 {
		return fmt.Sprintf("[%s] %s (%d/%d)", e.Stage, e.Message, e.Current, e.Total)
	}
	return fmt.Sprintf("[%s] %s", e.Stage, e.Message)
}

// publisher emits events without ever blocking the sync flow: a full or
// absent channel drops the event.
type publisher struct {
	ch chan<- Event
}

func (p *publisher) emit(stage Stage, format string, args ...any) {
	p.emitProgress(stage, 0, 0, format, args...)
}

func (p *publisher) emitProgress(stage Stage, current, total int, format string, args ...any) {
	if p == nil || p.ch == nil {
		return
	}
	ev := Event{Stage: stage, Message: fmt.Sprintf(format, args...), Current: current, Total: total}
	select {
	case p.ch <- ev:
	default:
	}
}
