// Package cli provides the interactive werkstatt command-line client.
//
// It wires configuration, the relational store, photo object storage, the
// in-memory cache and an interactive REPL. Typical flow: load the full data
// set into the cache, show the job list, and execute user commands against
// the current view.
//
// Key features:
//   - Job list with search, status filter and importance-first ordering
//   - Job detail: metadata, checklist, time entries, items, photos, signature
//   - Timer start/stop with a periodic elapsed-time refresher
//   - Closing with odometer precondition and full cascade deletion
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
