// Command petitionctl runs a petition signing site.
//
// Visitors sign the petition through a public form. Administrators log in
// with a username and password to page through the signatures and delete
// them. Administrator sessions are short-lived and kept server side; the
// browser only holds a signed, opaque session cookie.
//
// # Architecture
//
// The server is organized into several packages:
//
//   - pkg/server: HTTP server, routing and error pages
//   - pkg/server/endpoints: request handlers
//   - pkg/server/middleware: request id, deadline and session resolution
//   - pkg/auth: the login state machine and the deletion gate
//   - pkg/session: in-memory and Redis session stores
//   - pkg/credential: bcrypt credential verification
//   - pkg/listing: paginated signature listing
//   - pkg/audit: RFC5424 audit events
//   - pkg/config: configuration management
//
// # Quick Start
//
//	# Run database migrations
//	petitionctl db migrate
//
//	# Create an administrator
//	petitionctl admin create admin --password-stdin < password.txt
//
//	# Start the server
//	petitionctl server
//
// # Environment Variables
//
//   - DATABASE_URL: PostgreSQL connection string
//   - SESSION_SECRET: key signing the session cookie (at least 16 characters)
//   - PORT: Server port (default: 3000)
//   - PETITION_SESSION_STORE: memory or redis
//   - REDIS_URL: Redis connection string for the redis session store
//   - PETITION_LOG_LEVEL: debug enables SQL logging
//
// Run "petitionctl configuration show" for the full list.
package main
