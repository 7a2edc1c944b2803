package service

import (
	"errors"

	"github.com/fjod/storefront/internal/domain"
)

const (
	msgUserNotFound    = "User not found."
	msgProductNotFound = "Product not found."
	msgOrderNotFound   = "Order not found."
	msgItemNotFound    = "Item not found in cart."
)

// translate turns a repository sentinel into a client-facing not-found error
// and passes everything else through.
func translate(err, sentinel error, message string) error {
	if errors.Is(err, sentinel) {
		return domain.NotFound("%s", message)
	}
	return err
}
