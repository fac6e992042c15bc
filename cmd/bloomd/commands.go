package main

// commands creates the router and registers every command the daemon
// supports. This is the single source of truth for the command surface.
func (app *application) commands() *Router {
	router := NewRouter()

	// Liveness and monitoring
	router.Handle("PING", app.handlePing)
	router.Handle("STATS", app.handleStats)

	// Bloom filters
	router.Handle("BF.RESERVE", app.handleBFReserve)
	router.Handle("BF.ADD", app.handleBFAdd)
	router.Handle("BF.MADD", app.handleBFMAdd)
	router.Handle("BF.EXISTS", app.handleBFExists)
	router.Handle("BF.MEXISTS", app.handleBFMExists)
	router.Handle("BF.INFO", app.handleBFInfo)
	router.Handle("BF.DROP", app.handleBFDrop)

	return router
}
