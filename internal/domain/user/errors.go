package user

import "errors"

var (
	ErrUserNotFound           = errors.New("user not found")
	ErrUnauthenticated        = errors.New("authentication required")
	ErrAdminPrivilegeRequired = errors.New("admin privilege required")
)
