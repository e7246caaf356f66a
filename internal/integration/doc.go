// Package integration holds tests that run against a live PostgreSQL named
// by DATABASE_URL. They skip when it is unset.
package integration
