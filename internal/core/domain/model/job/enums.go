package job

import (
	"fmt"

	"fieldservice/internal/pkg/errs"
)

// WorkerResponse records the worker's answer to the assignment.
type WorkerResponse int

const (
	ResponseUnset WorkerResponse = iota
	ResponseAccepted
	ResponseRejected
)

func (r WorkerResponse) String() string {
	switch r {
	case ResponseUnset:
		return "UNSET"
	case ResponseAccepted:
		return "ACCEPTED"
	case ResponseRejected:
		return "REJECTED"
	default:
		return "UNKNOWN"
	}
}

func (r WorkerResponse) Validate() error {
	if r < ResponseUnset || r > ResponseRejected {
		return errs.NewValueIsInvalidErrorWithCause("worker response is invalid", fmt.Errorf("%d", r))
	}
	return nil
}

// PaymentMode is how the customer pays for the job.
type PaymentMode int

const (
	PaymentModeUnknown PaymentMode = iota
	PaymentModeCash
	PaymentModeOnline
	PaymentModePlanBenefit
)

// ParsePaymentMode converts "CASH", "ONLINE" or "PLAN_BENEFIT" into a PaymentMode.
func ParsePaymentMode(s string) (PaymentMode, error) {
	switch s {
	case "CASH":
		return PaymentModeCash, nil
	case "ONLINE":
		return PaymentModeOnline, nil
	case "PLAN_BENEFIT":
		return PaymentModePlanBenefit, nil
	default:
		return PaymentModeUnknown, errs.NewValueIsInvalidErrorWithCause("payment mode is invalid",
			fmt.Errorf("%q is not a valid payment mode", s))
	}
}

func (m PaymentMode) String() string {
	switch m {
	case PaymentModeCash:
		return "CASH"
	case PaymentModeOnline:
		return "ONLINE"
	case PaymentModePlanBenefit:
		return "PLAN_BENEFIT"
	default:
		return "UNKNOWN"
	}
}

func (m PaymentMode) Validate() error {
	if m <= PaymentModeUnknown || m > PaymentModePlanBenefit {
		return errs.NewValueIsInvalidErrorWithCause("payment mode is invalid", fmt.Errorf("%d", m))
	}
	return nil
}

// WorkerPaymentStatus tracks the payout owed to the worker.
type WorkerPaymentStatus int

const (
	WorkerPaymentUnpaid WorkerPaymentStatus = iota
	WorkerPaymentPaid
)

func (s WorkerPaymentStatus) String() string {
	if s == WorkerPaymentPaid {
		return "PAID"
	}
	return "UNPAID"
}

func (s WorkerPaymentStatus) Validate() error {
	if s != WorkerPaymentUnpaid && s != WorkerPaymentPaid {
		return errs.NewValueIsInvalidErrorWithCause("worker payment status is invalid", fmt.Errorf("%d", s))
	}
	return nil
}

// SettlementStatus is the final acknowledgement of a job's books.
type SettlementStatus int

const (
	SettlementOpen SettlementStatus = iota
	SettlementDone
)

func (s SettlementStatus) String() string {
	if s == SettlementDone {
		return "DONE"
	}
	return "OPEN"
}

func (s SettlementStatus) Validate() error {
	if s != SettlementOpen && s != SettlementDone {
		return errs.NewValueIsInvalidErrorWithCause("settlement status is invalid", fmt.Errorf("%d", s))
	}
	return nil
}
