// Package gameshelf holds the domain core of a video-game catalog
// application: accounts, games, comments, and wishlists, together with
// the credential, session, and authorization logic shared by every
// endpoint.
//
// Sessions:
//   - Verifier checks email/password pairs against bcrypt hashes and
//     tracks failed attempts with a cooldown window. Unknown accounts,
//     OAuth-only accounts, and wrong passwords all surface the same
//     generic error.
//   - Auther issues SessionClaims as signed HS256 tokens and refreshes
//     them by re-reading the account. Claims stay stale until a client
//     explicitly refreshes; a vanished account leaves them unchanged.
//
// Authorization:
//   - Authorize is a pure function of (claims, rule, target snapshot).
//     The check order is fixed: authentication, target identifier,
//     resource existence, then ownership or role. Every endpoint shares
//     this one implementation, so the ordering cannot drift between
//     resources. Rule constructors (OwnerOrAdmin, OwnerOnly, AdminOnly,
//     AdminNotSelf, AnyUser) cover the access patterns the application
//     uses.
//
// Storage is Bun over sqlite; repositories build on the generic
// go-repository-bun Repository with domain-specific reads and the raw
// SQL escape hatches the login tracking needs.
package gameshelf
