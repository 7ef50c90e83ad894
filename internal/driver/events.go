package driver

import "time"

// Stage names a step of linting one file.
type Stage string

const (
	StageLoad  Stage = "load"
	StageParse Stage = "parse"
	StageLint  Stage = "lint"
)

// Status describes where a file is in its stage.
type Status string

const (
	// StatusQueued indicates the file is waiting for a worker.
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	// StatusCached means the result came from the disk cache.
	StatusCached Status = "cached"
	StatusError  Status = "error"
)

// Event reports progress for a file (or for the whole run when File is empty).
type Event struct {
	File        string
	Stage       Stage
	Status      Status
	Err         error
	Elapsed     time.Duration
	Diagnostics int
}

// ProgressSink consumes progress events. OnEvent is called from worker
// goroutines.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events to a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

func emit(sink ProgressSink, ev Event) {
	if sink != nil {
		sink.OnEvent(ev)
	}
}
