// Package services holds the application services behind the HTTP
// handlers: price estimation against a loaded model bundle and the
// health surface reporting on it.
package services
