package http

import (
	"fieldservice/internal/core/application/usecases/queries"
	"fieldservice/internal/core/domain/model/job"
	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/generated/servers"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

func toKernelUUID(id openapi_types.UUID) (kernel.UUID, error) {
	return kernel.UUIDFromString(id.String())
}

func toPositionSample(p servers.Position) (kernel.PositionSample, error) {
	position, err := kernel.NewPosition(p.Lat, p.Lng)
	if err != nil {
		return kernel.PositionSample{}, err
	}
	return kernel.NewPositionSample(position, p.Heading, p.CapturedAt)
}

func toOptionalPositionSample(p *servers.Position) (*kernel.PositionSample, error) {
	if p == nil {
		return nil, nil
	}
	sample, err := toPositionSample(*p)
	if err != nil {
		return nil, err
	}
	return &sample, nil
}

func toExtraCharges(in *[]servers.ExtraCharge) ([]job.ExtraCharge, error) {
	if in == nil {
		return nil, nil
	}
	out := make([]job.ExtraCharge, 0, len(*in))
	for _, c := range *in {
		charge, err := job.NewExtraCharge(c.Name, c.UnitPrice, c.Quantity)
		if err != nil {
			return nil, err
		}
		out = append(out, charge)
	}
	return out, nil
}

func fromPositionSample(s *kernel.PositionSample) *servers.Position {
	if s == nil {
		return nil
	}
	return &servers.Position{
		Lat:        s.Position().Lat(),
		Lng:        s.Position().Lng(),
		Heading:    s.Heading(),
		CapturedAt: s.CapturedAt(),
	}
}

func fromSnapshot(s job.Snapshot) servers.Job {
	out := servers.Job{
		Id:                    s.ID.Bytes(),
		WorkerId:              s.WorkerID.Bytes(),
		Status:                s.Status.String(),
		WorkerResponse:        s.WorkerResponse.String(),
		PaymentMode:           s.PaymentMode.String(),
		ScheduledAt:           s.ScheduledAt,
		JourneyStartedAt:      s.JourneyStartedAt,
		VisitedAt:             s.VisitedAt,
		WorkDoneAt:            s.WorkDoneAt,
		CompletedAt:           s.CompletedAt,
		CancelledAt:           s.CancelledAt,
		ClosedAt:              s.ClosedAt,
		BaseAmount:            s.BaseAmount,
		TaxAmount:             s.TaxAmount,
		FeeAmount:             s.FeeAmount,
		DiscountAmount:        s.DiscountAmount,
		PayableAmount:         s.PayableAmount(),
		CompletionEvidence:    s.CompletionEvidence,
		CashCollected:         s.CashCollected,
		WorkerPaymentStatus:   s.WorkerPaymentStatus.String(),
		PayoutRequestedAt:     s.PayoutRequestedAt,
		PaidAt:                s.PaidAt,
		FinalSettlementStatus: s.FinalSettlementStatus.String(),
		LastKnownPosition:     fromPositionSample(s.LastKnownPosition),
		Version:               s.Version,
	}
	if s.CancellationReason != "" {
		reason := s.CancellationReason
		out.CancellationReason = &reason
	}
	if s.CashCollection != nil {
		total := s.CashCollection.TotalDue()
		out.CashTotalDue = &total
	}
	for _, c := range s.ExtraCharges {
		out.ExtraCharges = append(out.ExtraCharges, servers.ExtraCharge{
			Name:      c.Name(),
			UnitPrice: c.UnitPrice(),
			Quantity:  c.Quantity(),
		})
	}
	return out
}

func fromJobView(v queries.GetJobQueryResponse) servers.JobView {
	out := servers.JobView{
		Id:                    v.ID.Bytes(),
		WorkerId:              v.WorkerID.Bytes(),
		Status:                v.Status,
		PaymentMode:           v.PaymentMode,
		ScheduledAt:           v.ScheduledAt,
		PayableAmount:         v.PayableAmount,
		CashTotalDue:          v.CashTotalDue,
		CashCollected:         v.CashCollected,
		WorkerPaymentStatus:   v.WorkerPaymentStatus,
		FinalSettlementStatus: v.FinalSettlementStatus,
		VisitedAt:             v.VisitedAt,
		CompletedAt:           v.CompletedAt,
		ClosedAt:              v.ClosedAt,
		Version:               v.Version,
	}
	if p := v.LastKnownPosition; p != nil {
		out.LastKnownPosition = &servers.Position{
			Lat:        p.Lat,
			Lng:        p.Lng,
			Heading:    p.Heading,
			CapturedAt: p.CapturedAt,
		}
	}
	return out
}

func fromJobSummaries(in []queries.GetWorkerActiveJobsQueryResponse) []servers.JobSummary {
	out := make([]servers.JobSummary, len(in))
	for i, j := range in {
		out[i] = servers.JobSummary{
			Id:            j.ID.Bytes(),
			Status:        j.Status,
			PaymentMode:   j.PaymentMode,
			ScheduledAt:   j.ScheduledAt,
			PayableAmount: j.PayableAmount,
		}
	}
	return out
}
