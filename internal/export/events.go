package export

import "repo2ai/internal/types"

// EventKind identifies the type of a walk event.
type EventKind int

const (
	EventEnterDirectory EventKind = iota
	EventFile
	EventLeaveDirectory
	EventWarning
)

// DirectoryEvent describes a directory being entered or left.
type DirectoryEvent struct {
	Path         string
	RelativePath string
	Name         string
	Depth        int
	LastModified string
}

// Event is a single occurrence emitted by the walker.
type Event struct {
	Kind      EventKind
	Directory *DirectoryEvent
	File      *types.FileNode
	Message   string
}
