// Package stores persists the run log: one row per run plus its per-task
// records, in a local SQLite database. The run log is the only execution
// history the tool keeps; it exists for `forge` users to inspect what a
// past run did, not for the engine to consult.
package stores
