package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/parfumelle/parfumelle-backend/pkg/logger"
	"go.uber.org/multierr"
)

const defaultDiscountRetention = 30 * 24 * time.Hour

// DiscountCleanupJobParams configure the discount housekeeping job.
type DiscountCleanupJobParams struct {
	Logger     *logger.Logger
	Repository discountCleanupRepo
	Retention  time.Duration
}

type discountCleanupRepo interface {
	DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error)
	DeleteExhaustedPromosBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// NewDiscountCleanupJob builds the job that purges dead discount rules.
func NewDiscountCleanupJob(params DiscountCleanupJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Repository == nil {
		return nil, fmt.Errorf("discounts repository required")
	}
	retention := params.Retention
	if retention <= 0 {
		retention = defaultDiscountRetention
	}
	return &discountCleanupJob{
		logg:      params.Logger,
		repo:      params.Repository,
		retention: retention,
		now:       time.Now,
	}, nil
}

type discountCleanupJob struct {
	logg      *logger.Logger
	repo      discountCleanupRepo
	retention time.Duration
	now       func() time.Time
}

func (j *discountCleanupJob) Name() string { return "discount-cleanup" }

func (j *discountCleanupJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-j.retention)
	var errs []error
	if err := j.purgeExpired(ctx, cutoff); err != nil {
		errs = append(errs, err)
	}
	if err := j.purgeExhaustedPromos(ctx, cutoff); err != nil {
		errs = append(errs, err)
	}
	return multierr.Combine(errs...)
}

func (j *discountCleanupJob) purgeExpired(ctx context.Context, cutoff time.Time) error {
	deleted, err := j.repo.DeleteExpiredBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("purge expired discounts: %w", err)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"cutoff":       cutoff,
		"rows_deleted": deleted,
	})
	j.logg.Info(logCtx, "expired discount purge complete")
	return nil
}

func (j *discountCleanupJob) purgeExhaustedPromos(ctx context.Context, cutoff time.Time) error {
	deleted, err := j.repo.DeleteExhaustedPromosBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("purge exhausted promos: %w", err)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"cutoff":       cutoff,
		"rows_deleted": deleted,
	})
	j.logg.Info(logCtx, "exhausted promo purge complete")
	return nil
}
