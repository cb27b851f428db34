// Package oututil provides buffered, line-oriented output helpers and
// atomically replaced output files.
package oututil
