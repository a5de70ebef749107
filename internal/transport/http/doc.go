// Package http contains the HTTP transport layer: the estimation and
// health API handlers with RFC 7807 error responses, the embedded
// estimation form page, and the router that assembles them with the
// middleware chain.
package http
