// Package postgrestest provides a disposable Message DB database for tests:
// a PostgreSQL container, a minimal message_store schema compatible with the
// Message DB read functions, and helpers to write fixture messages.
package postgrestest
