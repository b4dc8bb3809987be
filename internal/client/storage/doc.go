// Package storage provides the key-value Storage capability that holds all
// wallet state, and its backends.
//
// # Overview
//
// Storage is deliberately tiny: Get, Set and Remove over opaque byte values.
// Higher layers (internal/client/store) own encoding and validation.
//
// Backends
//
//   - MemoryStorage    map guarded by a RWMutex; tests and throwaway runs
//   - SQLStorage       kv_storage table over SQLite (modernc.org/sqlite) or
//     PostgreSQL (pgx), schema applied with goose migrations
//   - RedisStorage     one Redis string per key under a namespace prefix
//
// Open picks a backend by driver name ("memory", "sqlite", "postgres",
// "redis").
//
// # Absent keys
//
// Get returns (nil, nil) for an absent key on every backend, mirroring the
// contract of a browser localStorage getItem returning null.
//
// Typical Usage
//
//	st, err := storage.Open(ctx, "sqlite", "ticket.db")
//	if err != nil { ... }
//	defer st.Close()
//	_ = st.Set(ctx, "users", []byte("[]"))
//	v, _ := st.Get(ctx, "users")
package storage
