package bridge

import "errors"

var (
	ErrAlreadyStarted = errors.New("collector already started")
	ErrSnapshot       = errors.New("failed to read node snapshot")
	ErrMapNode        = errors.New("failed to map node")
	ErrWritePoint     = errors.New("failed to write point")
	ErrMaintain       = errors.New("storage maintenance failed")
)
