package main

import (
	"bufio"
	"io"
	"log/slog"
	"net"
	"strings"
	"testing"
	"time"
)

// newTestApp creates a valid application instance bound to a random
// free port, with defaults small enough to keep tests fast.
func newTestApp(t *testing.T) *application {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cfg := config{
		port:             0, // random free port
		maxConnections:   10,
		defaultCapacity:  1000,
		defaultErrorRate: 0.01,
	}

	app := &application{
		config:      cfg,
		logger:      logger,
		store:       NewFilterStore(),
		metrics:     NewMetrics(),
		readyCh:     make(chan struct{}),
		connLimiter: make(chan struct{}, cfg.maxConnections),
	}
	app.router = app.commands()

	return app
}

// startTestServer runs the app's serve loop and returns a connected
// client plus a line-oriented reader, tearing everything down with the
// test.
func startTestServer(t *testing.T, app *application) (net.Conn, *bufio.Reader) {
	t.Helper()

	go func() { _ = app.serve() }()
	<-app.readyCh
	t.Cleanup(func() { _ = app.listener.Close() })

	conn, err := net.Dial("tcp", app.listener.Addr().String())
	if err != nil {
		t.Fatalf("failed to connect to server: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	return conn, bufio.NewReader(conn)
}

// sendCommand writes one inline command and reads one response line.
func sendCommand(t *testing.T, conn net.Conn, reader *bufio.Reader, cmd string) string {
	t.Helper()

	if _, err := conn.Write([]byte(cmd + "\r\n")); err != nil {
		t.Fatalf("failed to write command %q: %v", cmd, err)
	}
	response, err := reader.ReadString('\n')
	if err != nil {
		t.Fatalf("failed to read response for %q: %v", cmd, err)
	}
	return response
}

func TestPingServer(t *testing.T) {
	app := newTestApp(t)
	conn, reader := startTestServer(t, app)

	resp := sendCommand(t, conn, reader, "PING")
	if resp != "+PONG\r\n" {
		t.Errorf("unexpected response: got %q, want %q", resp, "+PONG\r\n")
	}
}

func TestUnknownCommand(t *testing.T) {
	app := newTestApp(t)
	conn, reader := startTestServer(t, app)

	resp := sendCommand(t, conn, reader, "NOSUCHCMD foo")
	if resp != "-ERR unknown command 'NOSUCHCMD'\r\n" {
		t.Errorf("unexpected response: got %q", resp)
	}
}

func TestRESPArrayCommand(t *testing.T) {
	app := newTestApp(t)
	conn, reader := startTestServer(t, app)

	// BF.ADD sent in the array form used by real Redis clients.
	cmd := "*3\r\n$6\r\nBF.ADD\r\n$4\r\nurls\r\n$11\r\nexample.com\r\n"
	if _, err := conn.Write([]byte(cmd)); err != nil {
		t.Fatalf("failed to write RESP array: %v", err)
	}
	resp, err := reader.ReadString('\n')
	if err != nil {
		t.Fatalf("failed to read response: %v", err)
	}
	if resp != ":1\r\n" {
		t.Errorf("expected :1, got %q", resp)
	}
}

func TestPipelinedCommands(t *testing.T) {
	app := newTestApp(t)
	conn, reader := startTestServer(t, app)

	// Three commands in one write; responses must come back in order.
	batch := "BF.ADD pipe a\r\nBF.ADD pipe a\r\nBF.EXISTS pipe a\r\n"
	if _, err := conn.Write([]byte(batch)); err != nil {
		t.Fatalf("failed to write pipeline: %v", err)
	}

	want := []string{":1\r\n", ":0\r\n", ":1\r\n"}
	for i, expected := range want {
		resp, err := reader.ReadString('\n')
		if err != nil {
			t.Fatalf("failed to read pipelined response %d: %v", i, err)
		}
		if resp != expected {
			t.Errorf("pipelined response %d: got %q, want %q", i, resp, expected)
		}
	}
}

func TestConnectionLimiter(t *testing.T) {
	app := newTestApp(t)
	app.config.maxConnections = 1
	app.connLimiter = make(chan struct{}, 1)

	go func() { _ = app.serve() }()
	<-app.readyCh
	defer func() { _ = app.listener.Close() }()
	serverAddr := app.listener.Addr().String()

	hogConn, err := net.Dial("tcp", serverAddr)
	if err != nil {
		t.Fatalf("failed to make the first connection: %v", err)
	}
	defer func() { _ = hogConn.Close() }()

	// Give the server a moment to claim the limiter slot.
	time.Sleep(50 * time.Millisecond)

	secondConn, err := net.Dial("tcp", serverAddr)
	if err != nil {
		t.Fatalf("second connection dial failed unexpectedly: %v", err)
	}
	defer func() { _ = secondConn.Close() }()

	reader := bufio.NewReader(secondConn)
	resp, err := reader.ReadString('\n')
	if err != nil {
		t.Fatalf("failed to read rejection message: %v", err)
	}
	if !strings.Contains(resp, "max number of clients") {
		t.Errorf("expected rejection message, got %q", resp)
	}
	if got := app.metrics.RejectedConnections.Load(); got != 1 {
		t.Errorf("RejectedConnections = %d, want 1", got)
	}
}
