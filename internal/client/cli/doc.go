// Package cli is the GophAuth command-line client.
//
// Given a command on the command line (signup, signin, refresh, me, ping)
// it runs that one command and exits. Without one it starts a small REPL
// that keeps the token pair between commands, so "me" after "signin" works
// and an expired access token is refreshed transparently.
package cli
