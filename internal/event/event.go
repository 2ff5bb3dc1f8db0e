package event

import "time"

// Type identifies the kind of event.
type Type int

const (
	ScanStarted Type = iota + 1
	ScanComplete
	FileStarted
	FileProgress
	FileCompleted
	FileFailed
	FileCanceled
	DirCreated
	RetryScheduled
	AttributesReset
	DeferredQueued
	VerifyOK
	VerifyFailed
)

var typeNames = [...]string{
	ScanStarted:     "ScanStarted",
	ScanComplete:    "ScanComplete",
	FileStarted:     "FileStarted",
	FileProgress:    "FileProgress",
	FileCompleted:   "FileCompleted",
	FileFailed:      "FileFailed",
	FileCanceled:    "FileCanceled",
	DirCreated:      "DirCreated",
	RetryScheduled:  "RetryScheduled",
	AttributesReset: "AttributesReset",
	DeferredQueued:  "DeferredQueued",
	VerifyOK:        "VerifyOK",
	VerifyFailed:    "VerifyFailed",
}

func (t Type) String() string {
	if t > 0 && int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "Unknown"
}

// Event represents a single progress event from the engine.
type Event struct {
	Type        Type
	Timestamp   time.Time
	Path        string // source path
	Destination string
	Size        int64         // file size or bytes-so-far
	Total       int64         // total files (ScanComplete)
	TotalSize   int64         // total bytes (ScanComplete, FileProgress)
	Attempt     int           // 1-based attempt number (RetryScheduled)
	Delay       time.Duration // wait before the next attempt (RetryScheduled)
	Error       error
}
