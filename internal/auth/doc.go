// Package auth holds the HTTP-facing protections around sign-in: a per
// client login rate limiter and the security headers applied to every
// response. Credentials themselves are checked by the store.
package auth
