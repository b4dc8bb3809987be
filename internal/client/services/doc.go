// Package services implements the ticket wallet on top of a single keyed
// Storage: local accounts and the session (AuthService), the single ticket
// slot and its purchase flow (TicketService) and the purchase history
// (LedgerService).
//
// Each service serialises its own read-modify-write cycles with a mutex, so
// services may be shared across goroutines. Nothing else coordinates them.
package services
