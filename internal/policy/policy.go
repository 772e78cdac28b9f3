// Package policy holds the pure authorization decisions. No I/O happens
// here: the actor has already been resolved by the auth middleware and the
// resource loaded by the usecase.
package policy

import "app/internal/domain/model"

// CanAccessOrder allows reads and mutations of a specific order for its
// owner and for admins.
func CanAccessOrder(actor *model.User, order model.Order) bool {
	if actor == nil {
		return false
	}
	return actor.Admin || actor.ID == order.UserID
}

// CanListAllOrders gates the system-wide order listing.
func CanListAllOrders(actor *model.User) bool {
	return actor != nil && actor.Admin
}
