package gallery

import "errors"

var (
	ErrInvalidConfig = errors.New("invalid gallery configuration")
	ErrUnknownWeapon = errors.New("unknown weapon")
)
