// main.go is the entry point for bloomd, a TCP daemon that serves named
// Bloom filters over a RESP-compatible protocol.
//
// Why a daemon at all? A Bloom filter is most useful when many producers
// and consumers need to share one membership view (seen URLs, used
// nonces, known-bad tokens). Centralizing the filter behind a socket
// gives every client the same answer without shipping the bit array
// around.
//
// Concurrency Model
// =================
//
// The filter implementation in internal/bloom performs no locking of its
// own: concurrent reads are safe, but any write requires exclusive
// access. The FilterStore is the single synchronization point — it wraps
// the filter map in a sync.RWMutex, taking the write lock on mutating
// commands (BF.ADD, BF.MADD, BF.RESERVE, BF.DROP) and the read lock on
// queries (BF.EXISTS, BF.MEXISTS, BF.INFO). Handlers never touch a
// filter outside the store's lock.
//
// State Lifetime
// ==============
//
// Filters live for the lifetime of the process. There is no journal and
// no snapshot: a classic Bloom filter is a derived structure, cheap to
// rebuild from its source of truth, and a persisted filter would pin the
// exact hash functions into a file format forever. Restart the daemon
// and clients repopulate it.

package main

import (
	"flag"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"
)

type config struct {
	port             int
	maxConnections   int
	shutdownTimeout  time.Duration
	idleTimeout      time.Duration
	defaultCapacity  uint64
	defaultErrorRate float64
}

type application struct {
	config      config
	logger      *slog.Logger
	listener    net.Listener
	store       *FilterStore
	router      *Router
	metrics     *Metrics
	readyCh     chan struct{}
	wg          sync.WaitGroup
	connLimiter chan struct{}
}

func main() {
	var cfg config

	flag.IntVar(&cfg.port, "port", 6479, "TCP server port")
	flag.IntVar(&cfg.maxConnections, "max-conn", 100, "Maximum concurrent connections")
	flag.DurationVar(&cfg.shutdownTimeout, "shutdown-timeout", 5*time.Second, "Graceful shutdown timeout")
	flag.DurationVar(&cfg.idleTimeout, "idle-timeout", 0, "Idle client connection timeout (0 for no timeout)")
	flag.Uint64Var(&cfg.defaultCapacity, "bf-capacity", 1000, "Default capacity for filters created implicitly by BF.ADD")
	flag.Float64Var(&cfg.defaultErrorRate, "bf-error-rate", 0.01, "Default target false positive rate (e.g., 0.01 for 1%)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	app := &application{
		config:      cfg,
		logger:      logger,
		store:       NewFilterStore(),
		metrics:     NewMetrics(),
		connLimiter: make(chan struct{}, cfg.maxConnections),
	}
	app.router = app.commands()

	if err := app.serve(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}
