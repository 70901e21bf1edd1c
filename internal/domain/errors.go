package domain

import "errors"

var (
	// ErrInvalidInput indicates malformed identifiers, limits or record fields.
	// It is returned before any search or storage work begins.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound indicates a requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrIndexBuild indicates the transient search corpus could not be built
	// or fitted. It is terminal for the request that hit it.
	ErrIndexBuild = errors.New("index build failed")
)
