package state

import "errors"

// Validation failures. They are raised before any request is sent.
var (
	ErrMissingCredentials = errors.New("email and password are required")
	ErrMissingName        = errors.New("name is required")
	ErrInvalidQuantity    = errors.New("quantity must be at least 1")
	ErrExceedsStock       = errors.New("quantity exceeds available stock")
	ErrInvalidStatus      = errors.New("unknown order status")
	ErrInvalidRole        = errors.New("unknown user role")
	ErrInvalidPrice       = errors.New("price cannot be negative")
	ErrInvalidStock       = errors.New("stock cannot be negative")
	ErrMissingDelivery    = errors.New("delivery address and phone are required")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrProductArchived    = errors.New("product is no longer available")
)

var validationErrors = []error{
	ErrMissingCredentials,
	ErrMissingName,
	ErrInvalidQuantity,
	ErrExceedsStock,
	ErrInvalidStatus,
	ErrInvalidRole,
	ErrInvalidPrice,
	ErrInvalidStock,
	ErrMissingDelivery,
	ErrEmptyCart,
	ErrProductArchived,
}

func IsValidation(err error) bool {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
