package model

import "errors"

var (
	ErrSessionNotFound = errors.New("session does not exist")
	ErrLockNotAcquired = errors.New("session lock not acquired")
)
