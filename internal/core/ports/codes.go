package ports

import (
	"context"

	"fieldservice/internal/core/domain/model/job"
	"fieldservice/internal/core/domain/model/kernel"
)

// CodePurpose tells the customer what a one-time code is for.
type CodePurpose string

const (
	CodePurposeVisit CodePurpose = "visit"
	CodePurposeCash  CodePurpose = "cash_collection"
)

// CodeDelivery is one code addressed to the customer of a job.
// Amount is the cash total in minor units, zero for visit codes.
type CodeDelivery struct {
	JobID   kernel.UUID
	Purpose CodePurpose
	Code    job.OneTimeCode
	Amount  int64
}

// CodeGenerator produces fresh one-time codes.
type CodeGenerator interface {
	Generate() (job.OneTimeCode, error)
}

// CodeSender delivers a code to the customer. Delivery is best effort;
// callers log failures and keep going.
type CodeSender interface {
	SendCode(ctx context.Context, delivery CodeDelivery) error
}
