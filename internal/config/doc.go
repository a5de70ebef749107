// Package config provides centralized configuration for the estimmo
// binaries. Configuration is loaded from environment variables with the
// ESTIMMO prefix, optionally merged with a YAML file, validated, and
// resolved to absolute paths.
//
// Domain-level tuning (cleaning thresholds, training parameters, correction
// bounds) lives with the packages that consume it; this package only carries
// the cross-cutting concerns: server, logging, and file system layout.
package config
