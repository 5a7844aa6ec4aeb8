package kernel

import (
	"fmt"
	"strings"

	"dispatch/internal/pkg/errs"
)

// ShopIDMaxLength bounds the tenant key so it fits the varchar column of every table.
const ShopIDMaxLength = 64

// ShopID is the multi-tenant partition key passed through every call.
// The allocation rules never interpret it; it is stored on groups, agents and orders
// and used to scope list queries.
type ShopID string

// NewShopID trims and validates a raw shop identifier.
func NewShopID(raw string) (ShopID, error) {
	id := ShopID(strings.TrimSpace(raw))
	if err := id.Validate(); err != nil {
		return "", err
	}
	return id, nil
}

// Validate rejects empty and overlong identifiers.
func (s ShopID) Validate() error {
	if s == "" {
		return errs.NewValueIsRequiredError("shopId")
	}
	if len(s) > ShopIDMaxLength {
		return errs.NewValueIsInvalidErrorWithCause(
			"shopId",
			fmt.Errorf("length %d exceeds %d characters", len(s), ShopIDMaxLength),
		)
	}
	return nil
}

func (s ShopID) String() string {
	return string(s)
}
