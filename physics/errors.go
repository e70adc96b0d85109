package physics

import "errors"

var (
	ErrInvalidViewport = errors.New("physics: viewport dimensions must be positive")
	ErrInvalidConfig   = errors.New("physics: invalid config")
)

const errNotInitialized = "physics: world not initialized"
