// Package cli provides the interactive taskboard command-line client.
//
// It wires configuration, local storage, the session, user and task stores
// and the derived views behind a small REPL. Typical flow: restore the
// previous session if one was persisted, then read commands until exit.
//
// Key features:
//   - Register / Login / Logout, whoami, refresh
//   - Task list with search, filters and sorting; show, add, edit, status,
//     attach, delete
//   - User administration for admins
//   - Dashboard, analytics and due-date notifications
//   - Theme preference
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
