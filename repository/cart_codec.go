package repository

import (
	"encoding/json"
	"strings"

	"github.com/pkg/errors"

	"kv-rentals/models"
)

// ErrCartCorrupt means the stored value is not a JSON cart object.
var ErrCartCorrupt = errors.New("stored cart is not valid JSON")

// migrations upgrade a decoded cart from version N to N+1, indexed by N.
var migrations = map[int]func(*models.Cart){
	// Version 0 is the browser-era layout without a version field. The shape
	// is otherwise identical, so stamping the version is the whole migration.
	0: func(c *models.Cart) {},
}

// DecodeCart parses a stored cart and upgrades it to models.CartVersion.
// Field values are taken as stored; only a missing item list is replaced by an empty one.
func DecodeCart(raw string) (*models.Cart, error) {
	if !strings.HasPrefix(strings.TrimSpace(raw), "{") {
		return nil, errors.Wrap(ErrCartCorrupt, "decode: not a JSON object")
	}

	var cart models.Cart
	if err := json.Unmarshal([]byte(raw), &cart); err != nil {
		return nil, errors.Wrapf(ErrCartCorrupt, "decode: %v", err)
	}

	for cart.Version < models.CartVersion {
		migrate, ok := migrations[cart.Version]
		if !ok {
			return nil, errors.Wrapf(ErrCartCorrupt, "no migration from version %d", cart.Version)
		}
		migrate(&cart)
		cart.Version++
	}

	if cart.OrderedItems == nil {
		cart.OrderedItems = []models.CartLine{}
	}
	return &cart, nil
}

// EncodeCart serializes a cart for storage, always stamping the current version.
func EncodeCart(cart *models.Cart) (string, error) {
	out := cart.Clone()
	out.Version = models.CartVersion
	data, err := json.Marshal(out)
	if err != nil {
		return "", errors.Wrap(err, "encode cart")
	}
	return string(data), nil
}
