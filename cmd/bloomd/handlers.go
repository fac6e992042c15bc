// handlers.go implements the server-level commands: PING and STATS.

package main

import (
	"fmt"
	"io"
	"strings"
)

// handlePing handles the PING command.
// Syntax: PING
//
// Standard liveness check; confirms the server is reachable and
// processing commands.
func (app *application) handlePing(w io.Writer, args []string) {
	if len(args) != 0 {
		app.wrongNumberOfArgsResponse(w, "PING")
		return
	}

	_ = app.writeSimpleStringResponse(w, "PONG")
}

// handleStats handles the STATS command.
// Syntax: STATS
//
// Returns a text report of server metrics and per-filter saturation in
// the Redis INFO format: CRLF-terminated key:value lines grouped into
// # sections. Counters are read with atomic loads; the active
// connection count is the instantaneous length of the limiter
// semaphore.
func (app *application) handleStats(w io.Writer, args []string) {
	if len(args) != 0 {
		app.wrongNumberOfArgsResponse(w, "STATS")
		return
	}

	var b strings.Builder

	b.WriteString("# Server\r\n")
	fmt.Fprintf(&b, "connections_total:%d\r\n", app.metrics.TotalConnections.Load())
	fmt.Fprintf(&b, "connections_rejected:%d\r\n", app.metrics.RejectedConnections.Load())
	fmt.Fprintf(&b, "connections_active:%d\r\n", len(app.connLimiter))
	fmt.Fprintf(&b, "commands_total:%d\r\n", app.metrics.TotalCommands.Load())
	fmt.Fprintf(&b, "error_replies:%d\r\n", app.metrics.ErrorReplies.Load())

	b.WriteString("# Filters\r\n")
	fmt.Fprintf(&b, "filters_total:%d\r\n", app.store.Len())
	for _, name := range app.store.Names() {
		info, ok := app.store.Info(name)
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "filter_%s:capacity=%d,error_rate=%g,bits=%d,rounds=%d,set_bits=%d\r\n",
			name, info.Capacity, info.ErrorRate, info.BitCount, info.HashRounds, info.SetBits)
	}

	_ = app.writeBulkStringResponse(w, b.String())
}
