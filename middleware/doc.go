// Package middleware exposes HTTP middleware that rejects replayed bearer tokens.
//
// # Guards
//
//   - [RejectReplayed] checks against an explicit *replayguard.Guard.
//   - [RequireFresh] checks against the process-wide replayguard.Default guard.
//
// Each guard reads the Authorization header, asks a [TokenSource] to verify and convert the
// bearer value, calls Guard.IsReplayed, and injects the accepted token into the request
// context.
//
// # What this package must NOT do
//
//   - Verify signatures itself (the TokenSource does that).
//   - Reveal why a request was rejected: every failure is a bare 401.
package middleware
