package contract

import "errors"

var (
	ErrUnauthenticated = errors.New("request is not authenticated")
	ErrModelInvoke     = errors.New("model invoke failed")
	ErrValidation      = errors.New("validation failed")
	ErrStoreQuery      = errors.New("store query failed")
)
