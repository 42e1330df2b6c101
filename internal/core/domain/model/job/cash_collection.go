package job

import (
	"slices"
	"time"
)

// CashCollection is the active attempt to collect cash for a job. Every
// initiation issues a fresh code and supersedes the previous one; superseded
// codes are kept so a late confirmation can be told apart from a typo.
type CashCollection struct {
	code        OneTimeCode
	baseAmount  int64
	totalDue    int64
	initiatedAt time.Time
	superseded  []OneTimeCode
	confirmedAt *time.Time
}

// RestoreCashCollection rebuilds a CashCollection from storage.
func RestoreCashCollection(
	code OneTimeCode,
	baseAmount, totalDue int64,
	initiatedAt time.Time,
	superseded []OneTimeCode,
	confirmedAt *time.Time,
) (*CashCollection, error) {
	if err := code.Validate(); err != nil {
		return nil, err
	}
	for _, s := range superseded {
		if err := s.Validate(); err != nil {
			return nil, err
		}
	}

	return &CashCollection{
		code:        code,
		baseAmount:  baseAmount,
		totalDue:    totalDue,
		initiatedAt: initiatedAt.UTC(),
		superseded:  slices.Clone(superseded),
		confirmedAt: cloneTime(confirmedAt),
	}, nil
}

func (c *CashCollection) Code() OneTimeCode { return c.code }
func (c *CashCollection) BaseAmount() int64 { return c.baseAmount }
func (c *CashCollection) TotalDue() int64 { return c.totalDue }
func (c *CashCollection) InitiatedAt() time.Time { return c.initiatedAt }
func (c *CashCollection) ConfirmedAt() *time.Time { return cloneTime(c.confirmedAt) }
func (c *CashCollection) Superseded() []OneTimeCode { return slices.Clone(c.superseded) }
func (c *CashCollection) IsConfirmed() bool { return c.confirmedAt != nil }

func (c *CashCollection) wasSuperseded(code OneTimeCode) bool {
	for _, old := range c.superseded {
		if old.Matches(code) {
			return true
		}
	}
	return false
}

func (c *CashCollection) clone() *CashCollection {
	if c == nil {
		return nil
	}
	cp := *c
	cp.superseded = slices.Clone(c.superseded)
	cp.confirmedAt = cloneTime(c.confirmedAt)
	return &cp
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
