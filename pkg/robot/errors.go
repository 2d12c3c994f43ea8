package robot

import "errors"

// ErrNotConnected is returned when an operation needs a session and
// none exists.
var ErrNotConnected = errors.New("not connected to robot")

// ErrConnectionLost is returned when a session exists but its
// transport no longer reports live.
var ErrConnectionLost = errors.New("robot connection lost")

// ValidationError rejects an operation argument before any command is
// sent to the robot. Param names the offending argument as the operator
// knows it (speed, turn, duration, jump_type, posture_type, animation);
// the message is written for the operator.
type ValidationError struct {
	Param   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalidArg(param, msg string) error {
	return &ValidationError{Param: param, Message: msg}
}
