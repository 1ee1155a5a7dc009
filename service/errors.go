package service

import "github.com/pkg/errors"

var (
	// ErrInvalidKey is returned for an empty product key.
	ErrInvalidKey = errors.New("product key is required")
	// ErrInvalidDate is returned when a rental date is not a YYYY-MM-DD calendar date.
	ErrInvalidDate = errors.New("invalid rental date")
	// ErrNotSignedIn is returned by checkout when no bearer token was supplied.
	ErrNotSignedIn = errors.New("please sign in to checkout")
	// ErrEmptyCart is returned by checkout when there is nothing to order.
	ErrEmptyCart = errors.New("your cart is empty")
	// ErrUpstream wraps failures of the catalog and orders APIs.
	ErrUpstream = errors.New("backend request failed")
)
