package main

import "sync/atomic"

// Metrics holds the atomic counters exposed through the STATS command.
type Metrics struct {
	TotalConnections    atomic.Uint64 // Connections ever accepted
	RejectedConnections atomic.Uint64 // Connections refused at the limiter
	TotalCommands       atomic.Uint64 // Commands dispatched
	ErrorReplies        atomic.Uint64 // Error responses sent to clients
}

// NewMetrics creates a zeroed Metrics struct.
func NewMetrics() *Metrics {
	return &Metrics{}
}
