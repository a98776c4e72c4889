package service

import "errors"

var (
	ErrValidation   = errors.New("validation")    // 400, generic message
	ErrWriteFailed  = errors.New("write failed")  // 400, header write affected nothing
	ErrPartialWrite = errors.New("partial write") // 400, links short and compensated
	ErrNotFound     = errors.New("not found")     // 404
	ErrConflict     = errors.New("conflict")      // 409
	ErrStorage      = errors.New("storage")       // 500

	ErrPasswordPolicy     = errors.New("password policy")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidTel         = errors.New("invalid tel")
	ErrAddressTooLong     = errors.New("address too long")
	ErrNameUnchanged      = errors.New("name unchanged")
	ErrSamePassword       = errors.New("new password equals old password")
	ErrPasswordMismatch   = errors.New("new password confirmation mismatch")
	ErrWrongPassword      = errors.New("wrong password")
	ErrUnknownCategory    = errors.New("unknown category")
)
