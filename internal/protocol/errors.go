package protocol

import "errors"

var (
	ErrUnknownMessage = errors.New("unknown message variant")
	ErrUnknownCommand = errors.New("unknown unit command variant")
)
