package game

import "errors"

var (
	ErrUnknownUnitKey = errors.New("unknown unit key")
)
