// Package auth provides first-party email/password identity and the session
// tokens the HTTP layer uses to resolve a user ID per request.
//
// Tokens are compact HS256 JWTs signed with an in-memory key. Everything
// downstream of this package only ever sees a resolved Identity; no other
// package touches credentials.
package auth
