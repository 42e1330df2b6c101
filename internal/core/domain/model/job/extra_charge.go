package job

import (
	"errors"
	"math"
	"strings"

	"fieldservice/internal/pkg/errs"
	"fieldservice/internal/pkg/guard"
)

const (
	ExtraChargeNameMaxLength = 100
	ExtraChargeQuantityMin   = 1
	ExtraChargeQuantityMax   = 1000
	// ExtraChargeUnitPriceMax bounds one unit, in minor units.
	ExtraChargeUnitPriceMax int64 = 1_000_000_000
)

var ErrExtraChargeIsNotConstructed = errs.NewValueIsRequiredError("extra charge must be created via NewExtraCharge")

// ExtraCharge is an additional line item added on site, such as parts used.
// Prices are in minor currency units.
type ExtraCharge struct {
	name      string
	unitPrice int64
	quantity  int
	guard     guard.ConstructorGuard
}

// NewExtraCharge validates and creates a line item.
//
// Parameters:
//   - name: non-blank label up to ExtraChargeNameMaxLength characters
//   - unitPrice: price of one unit in [0..ExtraChargeUnitPriceMax]
//   - quantity: number of units in [ExtraChargeQuantityMin..ExtraChargeQuantityMax]
func NewExtraCharge(name string, unitPrice int64, quantity int) (ExtraCharge, error) {
	name = strings.TrimSpace(name)

	var nameErr, priceErr, qtyErr error
	if name == "" {
		nameErr = errs.NewValueIsRequiredError("name")
	} else if len([]rune(name)) > ExtraChargeNameMaxLength {
		nameErr = errs.NewValueIsOutOfRangeError("name length", len([]rune(name)), 1, ExtraChargeNameMaxLength)
	}
	if unitPrice < 0 || unitPrice > ExtraChargeUnitPriceMax {
		priceErr = errs.NewValueIsOutOfRangeError("unitPrice", unitPrice, 0, ExtraChargeUnitPriceMax)
	}
	if quantity < ExtraChargeQuantityMin || quantity > ExtraChargeQuantityMax {
		qtyErr = errs.NewValueIsOutOfRangeError("quantity", quantity, ExtraChargeQuantityMin, ExtraChargeQuantityMax)
	}
	if err := errors.Join(nameErr, priceErr, qtyErr); err != nil {
		return ExtraCharge{}, err
	}

	return ExtraCharge{name: name, unitPrice: unitPrice, quantity: quantity, guard: guard.NewConstructorGuard()}, nil
}

func (c ExtraCharge) Validate() error {
	return c.guard.Validate(ErrExtraChargeIsNotConstructed)
}

func (c ExtraCharge) Name() string { return c.name }
func (c ExtraCharge) UnitPrice() int64 { return c.unitPrice }
func (c ExtraCharge) Quantity() int { return c.quantity }

// Subtotal returns unitPrice × quantity.
func (c ExtraCharge) Subtotal() int64 {
	return c.unitPrice * int64(c.quantity)
}

// TotalDue returns base plus the subtotal of every charge. A total that does
// not fit in int64 is a ValueIsOutOfRangeError.
func TotalDue(base int64, charges []ExtraCharge) (int64, error) {
	if base < 0 {
		return 0, errs.NewValueIsOutOfRangeError("baseAmount", base, 0, int64(math.MaxInt64))
	}

	total := base
	for _, c := range charges {
		if c.unitPrice < 0 || c.quantity < 0 ||
			(c.quantity > 0 && c.unitPrice > math.MaxInt64/int64(c.quantity)) {
			return 0, errs.NewValueIsOutOfRangeError("extra charge subtotal", c.name, 0, int64(math.MaxInt64))
		}
		subtotal := c.Subtotal()
		if total > math.MaxInt64-subtotal {
			return 0, errs.NewValueIsOutOfRangeError("totalDue", "overflow", 0, int64(math.MaxInt64))
		}
		total += subtotal
	}
	return total, nil
}

func validateCharges(charges []ExtraCharge) error {
	for _, c := range charges {
		if err := c.Validate(); err != nil {
			return err
		}
	}
	return nil
}
