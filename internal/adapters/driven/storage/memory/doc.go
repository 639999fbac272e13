// Package memory provides an in-memory driven.ProgressStore.
// Nothing survives the process; it backs dry runs and tests.
package memory
