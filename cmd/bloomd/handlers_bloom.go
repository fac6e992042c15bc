// handlers_bloom.go implements the Bloom filter command surface.
//
// Commands
// ========
//
//	BF.RESERVE key capacity error_rate   create a filter with explicit sizing
//	BF.ADD     key item                  add one item (implicit create)
//	BF.MADD    key item [item ...]       add a batch atomically
//	BF.EXISTS  key item                  membership query
//	BF.MEXISTS key item [item ...]       batch membership query
//	BF.INFO    key                       sizing parameters and saturation
//	BF.DROP    key                       delete the whole filter
//
// Query semantics are the Bloom filter's own: BF.EXISTS answering 0 is
// definitive, answering 1 means "probably", bounded by the error rate
// the filter was reserved with. A query against a key that was never
// reserved answers 0 — indistinguishable from an empty filter, which is
// exactly what it logically is.
//
// There is deliberately no BF.DEL for single items. Clearing bits can
// erase evidence for other elements whose positions overlap, producing
// false negatives — the one failure mode a Bloom filter promises never
// to exhibit. The only deletion granularity is BF.DROP.
//
// Concurrency
// ===========
//
// Every handler goes through FilterStore, which takes its write lock
// for BF.RESERVE/BF.ADD/BF.MADD/BF.DROP and its read lock for
// BF.EXISTS/BF.MEXISTS/BF.INFO. Batch commands hold the lock once for
// the whole batch, so a BF.MADD is atomic with respect to queries.

package main

import (
	"fmt"
	"io"
	"strconv"
)

// handleBFReserve handles the BF.RESERVE command.
// Syntax: BF.RESERVE key capacity error_rate
//
// Creates an empty filter sized for the given capacity and target false
// positive rate. Fails if the key already exists: filters are immutable
// in their sizing, so re-reserving would discard state silently.
func (app *application) handleBFReserve(w io.Writer, args []string) {
	if len(args) != 3 {
		app.wrongNumberOfArgsResponse(w, "BF.RESERVE")
		return
	}

	key := args[0]

	capacity, err := strconv.ParseUint(args[1], 10, 64)
	if err != nil {
		_ = app.writeErrorResponse(w, "ERR capacity is not a valid unsigned integer")
		return
	}

	errorRate, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		_ = app.writeErrorResponse(w, "ERR error_rate is not a valid float")
		return
	}

	if err := app.store.Reserve(key, capacity, errorRate); err != nil {
		_ = app.writeErrorResponse(w, "ERR "+err.Error())
		return
	}

	_ = app.writeSimpleStringResponse(w, "OK")
}

// handleBFAdd handles the BF.ADD command.
// Syntax: BF.ADD key item
//
// Adds the item, creating the filter with the server's default sizing
// if the key does not exist yet. Returns 1 if the item was not present
// before, 0 if it (probably) already was.
func (app *application) handleBFAdd(w io.Writer, args []string) {
	if len(args) != 2 {
		app.wrongNumberOfArgsResponse(w, "BF.ADD")
		return
	}

	added, err := app.store.Add(args[0], []byte(args[1]),
		app.config.defaultCapacity, app.config.defaultErrorRate)
	if err != nil {
		_ = app.writeErrorResponse(w, "ERR "+err.Error())
		return
	}

	result := 0
	if added {
		result = 1
	}
	_ = app.writeIntegerResponse(w, result)
}

// handleBFMAdd handles the BF.MADD command.
// Syntax: BF.MADD key item [item ...]
//
// Adds all items under a single lock acquisition and returns an integer
// array with 1 for each item that was new, 0 otherwise, in input order.
func (app *application) handleBFMAdd(w io.Writer, args []string) {
	if len(args) < 2 {
		app.wrongNumberOfArgsResponse(w, "BF.MADD")
		return
	}

	results, err := app.store.MAdd(args[0], args[1:],
		app.config.defaultCapacity, app.config.defaultErrorRate)
	if err != nil {
		_ = app.writeErrorResponse(w, "ERR "+err.Error())
		return
	}

	_ = app.writeIntegerArrayResponse(w, results)
}

// handleBFExists handles the BF.EXISTS command.
// Syntax: BF.EXISTS key item
//
// Returns 0 if the item is definitely not in the filter (or the filter
// does not exist), 1 if it is probably present.
func (app *application) handleBFExists(w io.Writer, args []string) {
	if len(args) != 2 {
		app.wrongNumberOfArgsResponse(w, "BF.EXISTS")
		return
	}

	possible, _ := app.store.Contains(args[0], []byte(args[1]))

	result := 0
	if possible {
		result = 1
	}
	_ = app.writeIntegerResponse(w, result)
}

// handleBFMExists handles the BF.MEXISTS command.
// Syntax: BF.MEXISTS key item [item ...]
//
// Batch form of BF.EXISTS; all items are checked under one read lock.
func (app *application) handleBFMExists(w io.Writer, args []string) {
	if len(args) < 2 {
		app.wrongNumberOfArgsResponse(w, "BF.MEXISTS")
		return
	}

	_ = app.writeIntegerArrayResponse(w, app.store.MContains(args[0], args[1:]))
}

// handleBFInfo handles the BF.INFO command.
// Syntax: BF.INFO key
//
// Reports the filter's configured and derived parameters plus its
// current saturation (set bit count).
func (app *application) handleBFInfo(w io.Writer, args []string) {
	if len(args) != 1 {
		app.wrongNumberOfArgsResponse(w, "BF.INFO")
		return
	}

	info, ok := app.store.Info(args[0])
	if !ok {
		_ = app.writeErrorResponse(w, "ERR no such filter")
		return
	}

	report := fmt.Sprintf(
		"capacity:%d\r\nerror_rate:%g\r\nbits:%d\r\nhash_rounds:%d\r\nset_bits:%d\r\n",
		info.Capacity, info.ErrorRate, info.BitCount, info.HashRounds, info.SetBits)
	_ = app.writeBulkStringResponse(w, report)
}

// handleBFDrop handles the BF.DROP command.
// Syntax: BF.DROP key
//
// Removes the filter entirely. Returns 1 if it existed, 0 otherwise.
func (app *application) handleBFDrop(w io.Writer, args []string) {
	if len(args) != 1 {
		app.wrongNumberOfArgsResponse(w, "BF.DROP")
		return
	}

	result := 0
	if app.store.Drop(args[0]) {
		result = 1
	}
	_ = app.writeIntegerResponse(w, result)
}
