// Package jobrepo maps the job aggregate to the jobs and job_extra_charges
// tables and implements ports.JobRepository on top of GORM.
package jobrepo

import (
	"time"

	"fieldservice/internal/core/domain/model/job"
	"fieldservice/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// JobDTO is one row of the jobs table.
type JobDTO struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	WorkerID uuid.UUID `gorm:"type:uuid;not null;index"`

	Status         int `gorm:"not null;index"`
	WorkerResponse int `gorm:"not null"`

	ScheduledAt      time.Time `gorm:"not null"`
	JourneyStartedAt *time.Time
	VisitedAt        *time.Time
	WorkDoneAt       *time.Time
	CompletedAt      *time.Time
	CancelledAt      *time.Time
	ClosedAt         *time.Time

	PaymentMode    int   `gorm:"not null"`
	BaseAmount     int64 `gorm:"not null"`
	TaxAmount      int64 `gorm:"not null"`
	FeeAmount      int64 `gorm:"not null"`
	DiscountAmount int64 `gorm:"not null"`

	CompletionEvidence pq.StringArray `gorm:"type:text[]"`
	CancellationReason string         `gorm:"type:varchar(500)"`

	VisitCode      *string           `gorm:"type:char(4)"`
	CashCollection CashCollectionDTO `gorm:"embedded;embeddedPrefix:cash_"`
	CashCollected  bool              `gorm:"not null"`

	WorkerPaymentStatus   int `gorm:"not null"`
	PayoutRequestedAt     *time.Time
	PayoutReference       string `gorm:"type:varchar(128)"`
	PaidAt                *time.Time
	FinalSettlementStatus int `gorm:"not null"`

	Position PositionDTO `gorm:"embedded;embeddedPrefix:position_"`

	Version int64 `gorm:"not null;default:0"`

	ExtraCharges []ExtraChargeDTO `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE"`
}

func (JobDTO) TableName() string {
	return "jobs"
}

// CashCollectionDTO holds the active cash collection. Code is nil until the
// first initiation.
type CashCollectionDTO struct {
	Code        *string `gorm:"type:char(4)"`
	BaseAmount  int64
	TotalDue    int64
	InitiatedAt *time.Time
	Superseded  pq.StringArray `gorm:"type:text[]"`
	ConfirmedAt *time.Time
}

// PositionDTO is the last known position; all columns are nil when unknown.
type PositionDTO struct {
	Lat        *float64
	Lng        *float64
	Heading    *float64
	CapturedAt *time.Time `gorm:"index"`
}

// ExtraChargeDTO is one line item of the job's extra charges. Ordinal keeps
// the order the worker entered them in.
type ExtraChargeDTO struct {
	JobID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	Ordinal   int       `gorm:"primaryKey"`
	Name      string    `gorm:"type:varchar(100);not null"`
	UnitPrice int64     `gorm:"not null"`
	Quantity  int       `gorm:"not null"`
}

func (ExtraChargeDTO) TableName() string {
	return "job_extra_charges"
}

func fromDomain(aggregate *job.Job) JobDTO {
	s := aggregate.Snapshot()
	jobID := s.ID.Bytes()

	charges := make([]ExtraChargeDTO, 0, len(s.ExtraCharges))
	for i, c := range s.ExtraCharges {
		charges = append(charges, ExtraChargeDTO{
			JobID:     jobID,
			Ordinal:   i,
			Name:      c.Name(),
			UnitPrice: c.UnitPrice(),
			Quantity:  c.Quantity(),
		})
	}

	var visitCode *string
	if s.VisitCode != nil {
		v := s.VisitCode.Value()
		visitCode = &v
	}

	return JobDTO{
		ID:                    jobID,
		WorkerID:              s.WorkerID.Bytes(),
		Status:                int(s.Status),
		WorkerResponse:        int(s.WorkerResponse),
		ScheduledAt:           s.ScheduledAt,
		JourneyStartedAt:      s.JourneyStartedAt,
		VisitedAt:             s.VisitedAt,
		WorkDoneAt:            s.WorkDoneAt,
		CompletedAt:           s.CompletedAt,
		CancelledAt:           s.CancelledAt,
		ClosedAt:              s.ClosedAt,
		PaymentMode:           int(s.PaymentMode),
		BaseAmount:            s.BaseAmount,
		TaxAmount:             s.TaxAmount,
		FeeAmount:             s.FeeAmount,
		DiscountAmount:        s.DiscountAmount,
		CompletionEvidence:    pq.StringArray(s.CompletionEvidence),
		CancellationReason:    s.CancellationReason,
		VisitCode:             visitCode,
		CashCollection:        cashCollectionFromDomain(s.CashCollection),
		CashCollected:         s.CashCollected,
		WorkerPaymentStatus:   int(s.WorkerPaymentStatus),
		PayoutRequestedAt:     s.PayoutRequestedAt,
		PayoutReference:       s.PayoutReference,
		PaidAt:                s.PaidAt,
		FinalSettlementStatus: int(s.FinalSettlementStatus),
		Position:              positionFromDomain(s.LastKnownPosition),
		Version:               s.Version,
		ExtraCharges:          charges,
	}
}

func cashCollectionFromDomain(c *job.CashCollection) CashCollectionDTO {
	if c == nil {
		return CashCollectionDTO{}
	}

	code := c.Code().Value()
	initiatedAt := c.InitiatedAt()
	superseded := make(pq.StringArray, 0, len(c.Superseded()))
	for _, s := range c.Superseded() {
		superseded = append(superseded, s.Value())
	}

	return CashCollectionDTO{
		Code:        &code,
		BaseAmount:  c.BaseAmount(),
		TotalDue:    c.TotalDue(),
		InitiatedAt: &initiatedAt,
		Superseded:  superseded,
		ConfirmedAt: c.ConfirmedAt(),
	}
}

func positionFromDomain(sample *kernel.PositionSample) PositionDTO {
	if sample == nil {
		return PositionDTO{}
	}

	lat := sample.Position().Lat()
	lng := sample.Position().Lng()
	heading := sample.Heading()
	capturedAt := sample.CapturedAt()
	return PositionDTO{
		Lat:        &lat,
		Lng:        &lng,
		Heading:    &heading,
		CapturedAt: &capturedAt,
	}
}

func toDomain(dto JobDTO) (*job.Job, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	workerID, err := kernel.UUIDFromBytes(dto.WorkerID[:])
	if err != nil {
		return nil, err
	}

	charges := make([]job.ExtraCharge, 0, len(dto.ExtraCharges))
	for _, c := range dto.ExtraCharges {
		charge, chargeErr := job.NewExtraCharge(c.Name, c.UnitPrice, c.Quantity)
		if chargeErr != nil {
			return nil, chargeErr
		}
		charges = append(charges, charge)
	}

	var visitCode *job.OneTimeCode
	if dto.VisitCode != nil {
		code, codeErr := job.NewOneTimeCode(*dto.VisitCode)
		if codeErr != nil {
			return nil, codeErr
		}
		visitCode = &code
	}

	cash, err := cashCollectionToDomain(dto.CashCollection)
	if err != nil {
		return nil, err
	}

	position, err := positionToDomain(dto.Position)
	if err != nil {
		return nil, err
	}

	return job.RestoreJob(job.Snapshot{
		ID:                    id,
		WorkerID:              workerID,
		Status:                job.Status(dto.Status),
		WorkerResponse:        job.WorkerResponse(dto.WorkerResponse),
		ScheduledAt:           dto.ScheduledAt,
		JourneyStartedAt:      dto.JourneyStartedAt,
		VisitedAt:             dto.VisitedAt,
		WorkDoneAt:            dto.WorkDoneAt,
		CompletedAt:           dto.CompletedAt,
		CancelledAt:           dto.CancelledAt,
		ClosedAt:              dto.ClosedAt,
		PaymentMode:           job.PaymentMode(dto.PaymentMode),
		BaseAmount:            dto.BaseAmount,
		TaxAmount:             dto.TaxAmount,
		FeeAmount:             dto.FeeAmount,
		DiscountAmount:        dto.DiscountAmount,
		ExtraCharges:          charges,
		CompletionEvidence:    []string(dto.CompletionEvidence),
		CancellationReason:    dto.CancellationReason,
		VisitCode:             visitCode,
		CashCollection:        cash,
		CashCollected:         dto.CashCollected,
		WorkerPaymentStatus:   job.WorkerPaymentStatus(dto.WorkerPaymentStatus),
		PayoutRequestedAt:     dto.PayoutRequestedAt,
		PayoutReference:       dto.PayoutReference,
		PaidAt:                dto.PaidAt,
		FinalSettlementStatus: job.SettlementStatus(dto.FinalSettlementStatus),
		LastKnownPosition:     position,
		Version:               dto.Version,
	})
}

func cashCollectionToDomain(dto CashCollectionDTO) (*job.CashCollection, error) {
	if dto.Code == nil {
		return nil, nil
	}

	code, err := job.NewOneTimeCode(*dto.Code)
	if err != nil {
		return nil, err
	}

	superseded := make([]job.OneTimeCode, 0, len(dto.Superseded))
	for _, v := range dto.Superseded {
		s, codeErr := job.NewOneTimeCode(v)
		if codeErr != nil {
			return nil, codeErr
		}
		superseded = append(superseded, s)
	}

	var initiatedAt time.Time
	if dto.InitiatedAt != nil {
		initiatedAt = *dto.InitiatedAt
	}

	return job.RestoreCashCollection(code, dto.BaseAmount, dto.TotalDue, initiatedAt, superseded, dto.ConfirmedAt)
}

func positionToDomain(dto PositionDTO) (*kernel.PositionSample, error) {
	if dto.Lat == nil || dto.Lng == nil || dto.CapturedAt == nil {
		return nil, nil
	}

	position, err := kernel.NewPosition(*dto.Lat, *dto.Lng)
	if err != nil {
		return nil, err
	}

	var heading float64
	if dto.Heading != nil {
		heading = *dto.Heading
	}

	sample, err := kernel.NewPositionSample(position, heading, *dto.CapturedAt)
	if err != nil {
		return nil, err
	}
	return &sample, nil
}
