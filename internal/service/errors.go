package service

import "errors"

var (
	ErrUnknownWeapon  = errors.New("unknown weapon")
	ErrBoardNotFound  = errors.New("board not found")
	ErrInvalidRequest = errors.New("invalid request")
)
