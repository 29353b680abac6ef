// Package session stores server-side sessions referenced by opaque tokens.
//
// A session maps an unguessable identifier to a principal id (or to no
// principal, for guest sessions that only carry flash messages) and a
// read-once flash message queue. Sessions expire a fixed TTL after creation;
// an expired session behaves exactly like an unknown one.
//
// Two implementations are provided:
//
//   - MemoryStore: process-local, one lock per session
//   - RedisStore: shared, backed by github.com/redis/go-redis/v9
package session
