// Package app wires the application together: logger construction, settings
// file handling, and the two run modes (one-shot simulation to stdout, or
// the long-running HTTP API server).
package app
