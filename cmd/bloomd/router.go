package main

import (
	"io"
	"strings"
)

// CommandHandler is the signature every command implementation follows.
// Handlers write their response to w, which is a buffered writer over
// the client connection; the server flushes it after dispatch.
type CommandHandler func(w io.Writer, args []string)

// Router maps normalized command names to handlers.
type Router struct {
	handlers map[string]CommandHandler
}

// NewRouter creates an empty router.
func NewRouter() *Router {
	return &Router{handlers: make(map[string]CommandHandler)}
}

// Handle registers a handler under a case-insensitive command name.
func (r *Router) Handle(name string, handler CommandHandler) {
	r.handlers[strings.ToUpper(name)] = handler
}

// Dispatch looks up and runs the handler for a parsed command line.
func (r *Router) Dispatch(app *application, w io.Writer, parts []string) {
	if len(parts) == 0 {
		return
	}

	app.metrics.TotalCommands.Add(1)

	name := strings.ToUpper(parts[0])
	handler, ok := r.handlers[name]
	if !ok {
		app.unknownCommandResponse(w, name)
		return
	}

	handler(w, parts[1:])
}
