package driver

import "time"

// Stage describes a high-level comparison phase.
type Stage string

const (
	// StageAssemble covers include expansion, continuation merging and
	// card parsing for one deck.
	StageAssemble Stage = "assemble"
	// StageCanon is the canonicalization stage.
	StageCanon Stage = "canon"
	// StageDiff is the matching stage over both decks.
	StageDiff Stage = "diff"
)

// Status captures progress state within a stage.
type Status string

const (
	// StatusQueued indicates the task is waiting to start.
	StatusQueued Status = "queued"
	// StatusWorking indicates the task is currently working.
	StatusWorking Status = "working"
	// StatusDone indicates the task is done.
	StatusDone Status = "done"
	// StatusError indicates the task encountered an error.
	StatusError Status = "error"
)

// Event reports progress for a deck (or for the overall comparison when
// Path is empty, as in the diff stage).
type Event struct {
	Path    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}
