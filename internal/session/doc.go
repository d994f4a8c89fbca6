// Package session owns the authenticated identity of the client: the bearer
// token and the user profile it belongs to.
//
// # Architecture Overview
//
// The package is built around three pieces:
//
//   - Store: the in-memory session, its lifecycle operations and the
//     transport hooks that read and invalidate it
//   - CredentialStore: where the session survives between runs (a JSON file
//     by default, or a Redis key)
//   - validation: local checks on login, registration and profile input,
//     run before anything reaches the network
//
// # Store
//
// The session lives behind an atomic pointer so the transport interceptors
// read a consistent token/user pair without locking. Every change (login,
// register, restore, logout, invalidation) is one pointer swap, and every
// new session gets a fresh epoch.
//
// Attach installs two hooks on the transport client: a request interceptor
// that adds "Authorization: Bearer <token>" and fails fast when there is no
// session, and a response interceptor that reports 401s back to the store.
//
// # Invalidation
//
// Unauthorized responses are matched against the epoch of the credential
// they were sent with. Only the first 401 for the current epoch clears the
// session, so invalidation fires exactly once per session no matter how many
// requests fail concurrently, and a stale 401 never clears a newer login.
// The store then publishes event.SessionCleared followed by
// event.SessionUnauthorized. The project repository and the generation
// orchestrator react to the first by dropping cached state and aborting
// in-flight work.
//
// # Persistence
//
// Login and register persist the session through the CredentialStore.
// A failure to persist is logged and the in-memory session is kept.
// Restore reads it back without contacting the server; a stale token fails
// on its first use and is invalidated like any other.
//
// # Usage Example
//
//	client := transport.NewClient(transport.ClientOptions{BaseURL: url})
//	store := session.NewStore(client, session.NewFileStore(st), bus)
//	store.Attach()
//	if ok, _ := store.Restore(ctx); !ok {
//		_, err := store.Login(ctx, email, password)
//		...
//	}
package session
