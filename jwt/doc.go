// Package jwt turns signed JWTs into replayguard tokens.
//
// [Manager] verifies signature, algorithm, issuer, audience, and time claims with
// golang-jwt, then maps the registered claims onto a [replayguard.Token]:
//
//	jti → Token.ID
//	nbf (or iat) → Token.NotValidBefore
//	exp → Token.NotValidAfter
//	raw compact JWT → Token.Payload
//
// Tokens without jti or exp are rejected: the replay cache needs both an identity and a
// closing instant. Manager can also mint tokens with a random UUID jti for tests, load
// generation, and services that issue their own single-use tokens.
package jwt
