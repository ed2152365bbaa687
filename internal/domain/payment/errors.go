package payment

import "errors"

var (
	ErrDeclined       = errors.New("payment authorization declined")
	ErrNotFound       = errors.New("payment not found")
	ErrNotCapturable  = errors.New("payment is not in an authorized state")
	ErrNotRefundable  = errors.New("payment is not in a captured state")
)
