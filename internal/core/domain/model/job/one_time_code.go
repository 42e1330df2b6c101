package job

import (
	"crypto/subtle"
	"fmt"

	"fieldservice/internal/pkg/errs"
	"fieldservice/internal/pkg/guard"
)

// OneTimeCodeLength is the number of decimal digits in a visit or cash code.
const OneTimeCodeLength = 4

var ErrOneTimeCodeIsNotConstructed = errs.NewValueIsRequiredError("one-time code must be created via NewOneTimeCode")

// OneTimeCode is a short numeric secret shared with the customer. Workers
// prove arrival and cash handover by echoing it back.
//
// String masks the digits so codes never leak into logs; use Value when the
// code must be delivered or stored.
type OneTimeCode struct {
	value string
	guard guard.ConstructorGuard
}

// NewOneTimeCode validates that value is exactly OneTimeCodeLength ASCII digits.
//
// Example:
//
//	code, err := job.NewOneTimeCode("0427")
func NewOneTimeCode(value string) (OneTimeCode, error) {
	if len(value) != OneTimeCodeLength {
		return OneTimeCode{}, errs.NewValueIsInvalidErrorWithCause("code",
			fmt.Errorf("must have %d digits", OneTimeCodeLength))
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return OneTimeCode{}, errs.NewValueIsInvalidErrorWithCause("code", fmt.Errorf("must contain digits only"))
		}
	}

	return OneTimeCode{value: value, guard: guard.NewConstructorGuard()}, nil
}

func (c OneTimeCode) Validate() error {
	return c.guard.Validate(ErrOneTimeCodeIsNotConstructed)
}

// Value returns the digits.
func (c OneTimeCode) Value() string {
	return c.value
}

// Matches compares the codes in constant time. Unconstructed codes never match.
func (c OneTimeCode) Matches(other OneTimeCode) bool {
	if c.Validate() != nil || other.Validate() != nil {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(c.value), []byte(other.value)) == 1
}

func (c OneTimeCode) String() string {
	return "****"
}
