// Package files locates raw DVF extracts on disk. Extracts are
// published yearly as large delimited text files; the cleaner uses this
// package to pick the most recent one when no explicit input is given.
package files
