// Package cli implements the interactive gophsession command line: a small
// REPL over the auth service with register, signin, logout, users and
// whoami commands.
package cli
