package ui

import "github.com/flavono123/peek/internal/flatten"

// rowsMsg carries the output of one flatten pass.
type rowsMsg struct {
	gen  uint64
	rows []flatten.Row
	err  error
}

// RootMsg replaces the inspected value, e.g. after the source file
// changed on disk.
type RootMsg struct {
	Root any
	Err  error
}
