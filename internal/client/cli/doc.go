// Package cli provides the interactive DocVault command-line client.
//
// It wires configuration, the local preference store, the HTTP API client
// and the application state, then runs a read-eval-print loop over them.
// Workspace commands browse and manage documents, admin commands manage the
// category taxonomy, and "read" opens a document in the full-screen reader.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
