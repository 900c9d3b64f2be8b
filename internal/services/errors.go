package services

import "errors"

var (
	ErrSessionExpiredOrMissing = errors.New("guest session expired or missing")
	ErrStoreNotFound           = errors.New("store not found or inactive")
	ErrStoreNotSelected        = errors.New("no store selected for this session")
	ErrStoreMismatch           = errors.New("menu does not belong to the selected store")
	ErrMenuNotFound            = errors.New("menu not found")
	ErrMenuUnavailable         = errors.New("menu is not available")
	ErrItemNotFound            = errors.New("cart item not found")
	ErrForbidden               = errors.New("cart item belongs to another owner")
	ErrInvalidQuantity         = errors.New("quantity must be at least 1")
	ErrOrderNotFound           = errors.New("order not found")
	ErrNoStore                 = errors.New("user is not associated with any store")

	// ErrMigrationFailed wraps any transactional failure during cart
	// migration. Call sites log and swallow it so authentication never
	// blocks on cart consolidation; rollback keeps the guest cart intact
	// for a retry at the next login.
	ErrMigrationFailed = errors.New("cart migration failed")
)
