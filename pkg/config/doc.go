// Package config provides configuration management for the petition server.
//
// # Configuration Sources
//
// Each attribute is resolved from the first source that sets it:
//
//   - Environment variables
//   - A .env file (PETITION_DOTENV_PATH, default ./.env)
//   - The YAML config file petition.yml in PETITION_CONFIG_PATH
//   - Built-in defaults
//
// The source of every attribute is recorded and shown by
// `petitionctl configuration show`.
//
// # Key Configuration Options
//
//   - DATABASE_URL: Database connection (required)
//   - SESSION_SECRET: Cookie signing key, at least 16 characters (required)
//   - PORT: Server listen port
//   - PETITION_SESSION_STORE: memory or redis
//   - PETITION_LOG_LEVEL: Logging verbosity
package config
