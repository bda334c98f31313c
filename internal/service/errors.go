package service

import "errors"

var (
	ErrProductNotFound      = errors.New("product not found")
	ErrVariantRequired      = errors.New("variant selection required")
	ErrCartSessionRequired  = errors.New("cart session required")
	ErrCheckoutUnavailable  = errors.New("checkout unavailable")
	ErrSearchQueryTooShort  = errors.New("search query too short")
	ErrReviewNotFound       = errors.New("review not found")
	ErrReviewRatingInvalid  = errors.New("review rating must be between 1 and 5")
	ErrReviewAuthorRequired = errors.New("review author name required")
	ErrReviewBodyRequired   = errors.New("review body required")
	ErrReviewFieldTooLong   = errors.New("review field too long")
	ErrReviewEmailInvalid   = errors.New("review email invalid")
)
