// Package app assembles the web server: it loads the model bundle,
// wires the correction layer and services, builds the router and runs
// the HTTP server with graceful shutdown.
package app
