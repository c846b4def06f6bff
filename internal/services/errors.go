// internal/services/errors.go
package services

import "errors"

// Precondition failures raised before any aggregation runs. Handlers map
// these to 404-class responses; everything downstream of a successful
// fetch returns complete, zero-filled results instead of erroring.
var (
	ErrBusinessNotFound   = errors.New("business not found or unauthorized")
	ErrAssetNotFound      = errors.New("asset not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrInterestNotFound   = errors.New("interest not found")
	ErrInterestNotOwned   = errors.New("interest does not belong to seller")
	ErrInterestNotOpen    = errors.New("interest is already closed")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrSaleNotFound       = errors.New("sale not found")
	ErrSaleNotRefundable  = errors.New("sale cannot be refunded in its current status")
)
