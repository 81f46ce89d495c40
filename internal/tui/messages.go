package tui

import (
	"github.com/Veraticus/scorecard/internal/engine"
)

// Requests from the engine, delivered through the Bridge. Each carries a
// buffered reply channel that the model answers exactly once.
type confirmRequestMsg struct {
	reply   chan<- confirmReply
	message string
}

type pathRequestMsg struct {
	reply     chan<- pathReply
	title     string
	suggested string
	filter    engine.Filter
}

type confirmReply struct {
	ok bool
}

type pathReply struct {
	path     string
	canceled bool
}

// Results of file operations started from the editor.
type savedMsg struct {
	err    error
	result engine.SaveResult
}

type loadedMsg struct {
	err    error
	result engine.LoadResult
}

type exportedMsg struct {
	err    error
	result engine.ExportResult
}
