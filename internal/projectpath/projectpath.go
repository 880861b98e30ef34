package projectpath

import (
	"path/filepath"
	"runtime"
)

var (
	_, b, _, _ = runtime.Caller(0)

	// Root of the project so paths like .env and migrations resolve
	// the same no matter the working directory
	Root = filepath.Join(filepath.Dir(b), "..", "..")
)
