// Package cli provides the interactive gophticket command-line client.
//
// It wires configuration, the storage backend, the payment widget and the
// wallet services, then runs a REPL. Typical flow: sign up or log in, buy a
// ticket, show its QR code, and look at the purchase history.
//
// Commands
//
//	Logged out:  help, signup, login, reset, exit
//	Logged in:   help, buy [family|individual], ticket, qr [save <file>],
//	             invalidate, history, reset, avatar <file|url>, whoami,
//	             logout, exit
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
