// Package servers provides primitives to interact with the openapi HTTP API.
package servers

import (
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

// Error defines model for Error.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Position defines model for Position.
type Position struct {
	Lat        float64   `json:"lat" validate:"gte=-90,lte=90"`
	Lng        float64   `json:"lng" validate:"gte=-180,lte=180"`
	Heading    float64   `json:"heading"`
	CapturedAt time.Time `json:"capturedAt" validate:"required"`
}

// PositionErrorReport defines model for PositionErrorReport.
type PositionErrorReport struct {
	Cause   string  `json:"cause" validate:"required,oneof=PERMISSION_DENIED UNAVAILABLE TIMEOUT"`
	Message *string `json:"message,omitempty"`
}

// ExtraCharge defines model for ExtraCharge.
type ExtraCharge struct {
	Name      string `json:"name" validate:"required,max=100"`
	UnitPrice int64  `json:"unitPrice" validate:"gte=0,lte=1000000000"`
	Quantity  int    `json:"quantity" validate:"gte=1,lte=1000"`
}

// NewJob defines model for NewJob.
type NewJob struct {
	Id             *openapi_types.UUID `json:"id,omitempty"`
	WorkerId       openapi_types.UUID  `json:"workerId" validate:"required"`
	ScheduledAt    time.Time           `json:"scheduledAt" validate:"required"`
	PaymentMode    string              `json:"paymentMode" validate:"required,oneof=CASH ONLINE PLAN_BENEFIT"`
	BaseAmount     int64               `json:"baseAmount"`
	TaxAmount      *int64              `json:"taxAmount,omitempty"`
	FeeAmount      *int64              `json:"feeAmount,omitempty"`
	DiscountAmount *int64              `json:"discountAmount,omitempty"`
}

// TransitionRequest defines model for TransitionRequest.
type TransitionRequest struct {
	Action   string    `json:"action" validate:"required"`
	Code     *string   `json:"code,omitempty"`
	Position *Position `json:"position,omitempty" validate:"omitempty"`
	Evidence *[]string `json:"evidence,omitempty"`
	Reason   *string   `json:"reason,omitempty"`
}

// VisitRequest defines model for VisitRequest.
type VisitRequest struct {
	Code     string    `json:"code" validate:"required"`
	Position *Position `json:"position,omitempty" validate:"omitempty"`
}

// InitiateCashCollection defines model for InitiateCashCollection.
type InitiateCashCollection struct {
	BaseAmount   *int64         `json:"baseAmount,omitempty"`
	ExtraCharges *[]ExtraCharge `json:"extraCharges,omitempty" validate:"omitempty,dive"`
}

// CashCollectionInitiated defines model for CashCollectionInitiated.
type CashCollectionInitiated struct {
	TotalDue int64 `json:"totalDue"`
	Job      Job   `json:"job"`
}

// ConfirmCashCollection defines model for ConfirmCashCollection.
type ConfirmCashCollection struct {
	Code         string         `json:"code" validate:"required"`
	TotalAmount  int64          `json:"totalAmount"`
	ExtraCharges *[]ExtraCharge `json:"extraCharges,omitempty" validate:"omitempty,dive"`
}

// PayoutRequested defines model for PayoutRequested.
type PayoutRequested struct {
	Delivered bool `json:"delivered"`
	Job       Job  `json:"job"`
}

// ConfirmPayout defines model for ConfirmPayout.
type ConfirmPayout struct {
	Reference *string `json:"reference,omitempty"`
}

// CancelJob defines model for CancelJob.
type CancelJob struct {
	Reason *string `json:"reason,omitempty"`
}

// Job defines model for Job.
type Job struct {
	Id                    openapi_types.UUID `json:"id"`
	WorkerId              openapi_types.UUID `json:"workerId"`
	Status                string             `json:"status"`
	WorkerResponse        string             `json:"workerResponse"`
	PaymentMode           string             `json:"paymentMode"`
	ScheduledAt           time.Time          `json:"scheduledAt"`
	JourneyStartedAt      *time.Time         `json:"journeyStartedAt,omitempty"`
	VisitedAt             *time.Time         `json:"visitedAt,omitempty"`
	WorkDoneAt            *time.Time         `json:"workDoneAt,omitempty"`
	CompletedAt           *time.Time         `json:"completedAt,omitempty"`
	CancelledAt           *time.Time         `json:"cancelledAt,omitempty"`
	ClosedAt              *time.Time         `json:"closedAt,omitempty"`
	BaseAmount            int64              `json:"baseAmount"`
	TaxAmount             int64              `json:"taxAmount"`
	FeeAmount             int64              `json:"feeAmount"`
	DiscountAmount        int64              `json:"discountAmount"`
	PayableAmount         int64              `json:"payableAmount"`
	ExtraCharges          []ExtraCharge      `json:"extraCharges,omitempty"`
	CompletionEvidence    []string           `json:"completionEvidence,omitempty"`
	CancellationReason    *string            `json:"cancellationReason,omitempty"`
	CashTotalDue          *int64             `json:"cashTotalDue,omitempty"`
	CashCollected         bool               `json:"cashCollected"`
	WorkerPaymentStatus   string             `json:"workerPaymentStatus"`
	PayoutRequestedAt     *time.Time         `json:"payoutRequestedAt,omitempty"`
	PaidAt                *time.Time         `json:"paidAt,omitempty"`
	FinalSettlementStatus string             `json:"finalSettlementStatus"`
	LastKnownPosition     *Position          `json:"lastKnownPosition,omitempty"`
	Version               int64              `json:"version"`
}

// JobView defines model for JobView.
type JobView struct {
	Id                    openapi_types.UUID `json:"id"`
	WorkerId              openapi_types.UUID `json:"workerId"`
	Status                string             `json:"status"`
	PaymentMode           string             `json:"paymentMode"`
	ScheduledAt           time.Time          `json:"scheduledAt"`
	PayableAmount         int64              `json:"payableAmount"`
	CashTotalDue          *int64             `json:"cashTotalDue,omitempty"`
	CashCollected         bool               `json:"cashCollected"`
	WorkerPaymentStatus   string             `json:"workerPaymentStatus"`
	FinalSettlementStatus string             `json:"finalSettlementStatus"`
	VisitedAt             *time.Time         `json:"visitedAt,omitempty"`
	CompletedAt           *time.Time         `json:"completedAt,omitempty"`
	ClosedAt              *time.Time         `json:"closedAt,omitempty"`
	LastKnownPosition     *Position          `json:"lastKnownPosition,omitempty"`
	Version               int64              `json:"version"`
}

// JobSummary defines model for JobSummary.
type JobSummary struct {
	Id            openapi_types.UUID `json:"id"`
	Status        string             `json:"status"`
	PaymentMode   string             `json:"paymentMode"`
	ScheduledAt   time.Time          `json:"scheduledAt"`
	PayableAmount int64              `json:"payableAmount"`
}

// GetWorkerJobsParams defines parameters for GetWorkerJobs.
type GetWorkerJobsParams struct {
	// Status Only jobs in this status, e.g. JOURNEY_STARTED.
	Status *string `form:"status,omitempty" json:"status,omitempty"`
}
