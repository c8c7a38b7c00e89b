package service

import "errors"

// 服务层统一的错误类别，handler 据此决定响应形式。
var (
	ErrNotFound       = errors.New("entity not found")
	ErrUnauthorized   = errors.New("user not logged in")
	ErrInvalidSortKey = errors.New("unrecognized sort key")
	ErrInvalidTarget  = errors.New("unrecognized favorite target type")
	ErrInvalidSection = errors.New("unrecognized organization section")
	ErrInvalidPurpose = errors.New("unrecognized email purpose")
	ErrRejected       = errors.New("invalid input")
)
