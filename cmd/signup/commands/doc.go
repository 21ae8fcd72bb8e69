// Package commands implements the signup CLI. Every command restores the
// wizard from a file snapshot under --home, dispatches at most one event and
// prints the page it lands on.
package commands
