// Package flash persists notice snapshots across exactly one request
// boundary.
//
// Store implements container.SnapshotStore on top of a Backend, a minimal
// key-value contract: Take returns a blob and removes it, Put replaces it.
// The first Load of a request takes the blob, so a flash is visible to the
// next request only unless it is saved again.
//
// Backends:
//
//   - MemoryBackend: process memory, for tests and single instances.
//   - CookieBackend: an encrypted cookie via pkg/cookie, bound to one request.
//   - SessionBackend: a server-side session via pkg/session.
//   - RedisBackend: GETDEL and SET with a TTL.
//   - PostgresBackend: the ahem_flash table over pgx.
//   - SQLiteBackend: the ahem_flash table over modernc.org/sqlite.
//   - MongoBackend: one document per flash with a TTL index.
//
// Shared backends hold the flashes of every client; ScopedKey derives a
// per-client key from the configured store key. The SQL tables are created
// by embedded goose migrations (MigratePostgres, OpenSQLite).
//
//	backend := flash.NewRedisBackend(client, time.Hour)
//	store := flash.NewStore(backend, flash.ScopedKey("ahem_notifications", clientID))
//	c := container.New(store, container.WithTypes("success"))
package flash
