package orders

import "errors"

var (
	ErrNotFound          = errors.New("order not found")
	ErrForbidden         = errors.New("order belongs to another actor")
	ErrInvalidTransition = errors.New("status transition not allowed")
	// ErrStaleStatus: conditional update kena 0 row karena status di DB sudah
	// berubah sejak dibaca. Caller harus refetch, jangan retry buta.
	ErrStaleStatus    = errors.New("order status changed concurrently")
	ErrNoCounterPrice = errors.New("no counter price on order")
)
