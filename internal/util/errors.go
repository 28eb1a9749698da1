package util

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailRegistered    = errors.New("email already registered")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrVariationNotFound  = errors.New("variation not found")
	ErrRunNotFound        = errors.New("sweep run not found")
	ErrReviewItemNotFound = errors.New("review queue item not found")
	ErrReviewItemResolved = errors.New("review queue item already resolved")
	ErrMalformedPatch     = errors.New("malformed patch payload")
	ErrUnknownPatchField  = errors.New("patch references unknown field")
	ErrPurchaseNotFound   = errors.New("purchase not found")
	ErrPurchaseOwnerMatch = errors.New("purchase owner does not match user")
	ErrPackageNotFound    = errors.New("package not found")
)
