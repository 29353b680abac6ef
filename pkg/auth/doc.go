// Package auth implements the session-backed authentication gate.
//
// A Gate moves a request between the states Anonymous, Authenticating,
// Authenticated and Rejected. Only Anonymous and Authenticated are resting
// states: the machine is re-entered on every request by resolving the
// client's session token, and Authenticating/Rejected are per-request
// outcomes of a login attempt.
//
// Sessions reference principals by id only. Every resolution re-reads the
// principal, so deleting or demoting an account takes effect on the next
// request.
//
// A DeletionGate composes the Gate with signature deletion and checks the
// resolved state before touching the repository.
package auth
