package jobrepo

import (
	"context"
	"errors"

	"fieldservice/internal/core/domain/model/job"
	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/core/ports"
	"fieldservice/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormJobRepository implements ports.JobRepository using GORM.
type GormJobRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker collects the aggregates written in a unit of work.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// positionColumns are owned by the conditional position write and are never
// overwritten by a full update.
var positionColumns = []string{
	"position_lat",
	"position_lng",
	"position_heading",
	"position_captured_at",
}

func NewGormJobRepository(db *gorm.DB, tracker aggregateTracker) *GormJobRepository {
	return &GormJobRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new job together with its extra charges.
func (r *GormJobRepository) Add(ctx context.Context, aggregate *job.Job) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update writes the job if the stored version still equals aggregate.Version()
// and bumps the version on both sides. Extra charges are replaced as a whole.
// The last known position only moves forward in time.
func (r *GormJobRepository) Update(ctx context.Context, aggregate *job.Job) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	db := r.db.WithContext(ctx)
	dto := fromDomain(aggregate)
	dto.Version = aggregate.Version() + 1

	result := db.Model(&JobDTO{}).
		Where("id = ? AND version = ?", dto.ID, aggregate.Version()).
		Select("*").
		Omit(append([]string{"id", clause.Associations}, positionColumns...)...).
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return r.missingOrStale(ctx, aggregate.ID())
	}

	if err := db.Where("job_id = ?", dto.ID).Delete(&ExtraChargeDTO{}).Error; err != nil {
		return err
	}
	if len(dto.ExtraCharges) > 0 {
		if err := db.Create(&dto.ExtraCharges).Error; err != nil {
			return err
		}
	}

	if sample := aggregate.LastKnownPosition(); sample != nil {
		if _, err := r.writePosition(ctx, aggregate.ID(), *sample, nil); err != nil {
			return err
		}
	}

	aggregate.IncrementVersion()
	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a job with its extra charges.
func (r *GormJobRepository) Get(ctx context.Context, id kernel.UUID) (*job.Job, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto JobDTO
	err := r.db.WithContext(ctx).
		Preload("ExtraCharges", func(db *gorm.DB) *gorm.DB { return db.Order("ordinal") }).
		First(&dto, "id = ?", id.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("job", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// UpdatePosition stores sample without touching the version, so telemetry
// never conflicts with lifecycle commands.
func (r *GormJobRepository) UpdatePosition(
	ctx context.Context,
	id kernel.UUID,
	sample kernel.PositionSample,
	statuses []job.Status,
) error {
	if err := errors.Join(id.Validate(), sample.Validate()); err != nil {
		return err
	}

	written, err := r.writePosition(ctx, id, sample, statuses)
	if err != nil {
		return err
	}
	if written {
		return nil
	}

	var eligible int64
	query := r.db.WithContext(ctx).Model(&JobDTO{}).Where("id = ?", id.Bytes())
	if len(statuses) > 0 {
		query = query.Where("status IN ?", statusValues(statuses))
	}
	if err = query.Count(&eligible).Error; err != nil {
		return err
	}
	if eligible == 0 {
		return ports.ErrPositionRejected
	}
	return ports.ErrPositionOutdated
}

// GetAllInStatuses retrieves every job in one of statuses, oldest schedule first.
func (r *GormJobRepository) GetAllInStatuses(ctx context.Context, statuses ...job.Status) ([]*job.Job, error) {
	if len(statuses) == 0 {
		return []*job.Job{}, nil
	}

	var dtos []JobDTO
	err := r.db.WithContext(ctx).
		Preload("ExtraCharges", func(db *gorm.DB) *gorm.DB { return db.Order("ordinal") }).
		Where("status IN ?", statusValues(statuses)).
		Order("scheduled_at").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	jobs := make([]*job.Job, 0, len(dtos))
	for _, dto := range dtos {
		j, restoreErr := toDomain(dto)
		if restoreErr != nil {
			return nil, restoreErr
		}
		jobs = append(jobs, j)
	}

	return jobs, nil
}

// writePosition updates the position columns when sample is not older than
// the stored one and, if statuses is not empty, the job is in one of them.
func (r *GormJobRepository) writePosition(
	ctx context.Context,
	id kernel.UUID,
	sample kernel.PositionSample,
	statuses []job.Status,
) (bool, error) {
	query := r.db.WithContext(ctx).Model(&JobDTO{}).
		Where("id = ?", id.Bytes()).
		Where("position_captured_at IS NULL OR position_captured_at <= ?", sample.CapturedAt())
	if len(statuses) > 0 {
		query = query.Where("status IN ?", statusValues(statuses))
	}

	result := query.Updates(map[string]any{
		"position_lat":         sample.Position().Lat(),
		"position_lng":         sample.Position().Lng(),
		"position_heading":     sample.Heading(),
		"position_captured_at": sample.CapturedAt(),
	})
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

func (r *GormJobRepository) missingOrStale(ctx context.Context, id kernel.UUID) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&JobDTO{}).Where("id = ?", id.Bytes()).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return errs.NewObjectNotFoundError("job", id.String())
	}
	return ports.ErrConcurrentModification
}

func statusValues(statuses []job.Status) []int {
	values := make([]int, 0, len(statuses))
	for _, s := range statuses {
		values = append(values, int(s))
	}
	return values
}

// Migrate creates or updates the job tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&JobDTO{}, &ExtraChargeDTO{})
}
