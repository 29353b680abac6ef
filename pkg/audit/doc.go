// Package audit records security-relevant petition operations.
//
// Every event is written as an RFC5424 syslog line and, when an audit
// database is configured, persisted to its messages table.
//
// # Event Types
//
//   - LoginEvent: a login attempt, successful or not
//   - LogoutEvent: an explicit logout
//   - DeleteEvent: a signature deletion request
//
// # Usage
//
//	auditor := audit.New(audit.NewLogger(), store)
//	auditor.Log(ctx, audit.LoginEvent{Username: "admin", ClientIP: ip, Success: true})
package audit
