package cron

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/parfumelle/parfumelle-backend/pkg/logger"
)

type fakeDiscountRepo struct {
	expiredCutoff   time.Time
	exhaustedCutoff time.Time
	expiredErr      error
	exhaustedErr    error
	expiredCalls    int
	exhaustedCalls  int
}

func (f *fakeDiscountRepo) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	f.expiredCalls++
	f.expiredCutoff = cutoff
	if f.expiredErr != nil {
		return 0, f.expiredErr
	}
	return 3, nil
}

func (f *fakeDiscountRepo) DeleteExhaustedPromosBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	f.exhaustedCalls++
	f.exhaustedCutoff = cutoff
	if f.exhaustedErr != nil {
		return 0, f.exhaustedErr
	}
	return 1, nil
}

func newDiscountCleanupJob(t *testing.T, repo *fakeDiscountRepo, retention time.Duration) *discountCleanupJob {
	t.Helper()
	jobIface, err := NewDiscountCleanupJob(DiscountCleanupJobParams{
		Logger:     logger.New(logger.Options{ServiceName: "test"}),
		Repository: repo,
		Retention:  retention,
	})
	if err != nil {
		t.Fatalf("NewDiscountCleanupJob: %v", err)
	}
	job, ok := jobIface.(*discountCleanupJob)
	if !ok {
		t.Fatalf("expected discountCleanupJob, got %T", jobIface)
	}
	return job
}

func TestDiscountCleanupJobUsesRetentionCutoff(t *testing.T) {
	now := time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)
	repo := &fakeDiscountRepo{}
	job := newDiscountCleanupJob(t, repo, 7*24*time.Hour)
	job.now = func() time.Time { return now }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	expected := now.Add(-7 * 24 * time.Hour)
	if !repo.expiredCutoff.Equal(expected) {
		t.Fatalf("expected expired cutoff %s, got %s", expected, repo.expiredCutoff)
	}
	if !repo.exhaustedCutoff.Equal(expected) {
		t.Fatalf("expected exhausted cutoff %s, got %s", expected, repo.exhaustedCutoff)
	}
	if repo.expiredCalls != 1 || repo.exhaustedCalls != 1 {
		t.Fatalf("expected each purge called once, got %d and %d", repo.expiredCalls, repo.exhaustedCalls)
	}
}

func TestDiscountCleanupJobRunsBothPhasesOnError(t *testing.T) {
	repo := &fakeDiscountRepo{expiredErr: errors.New("boom")}
	job := newDiscountCleanupJob(t, repo, 0)

	err := job.Run(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if repo.exhaustedCalls != 1 {
		t.Fatalf("expected exhausted purge to still run, got %d calls", repo.exhaustedCalls)
	}
}

func TestDiscountCleanupJobCombinesErrors(t *testing.T) {
	repo := &fakeDiscountRepo{
		expiredErr:   errors.New("expired boom"),
		exhaustedErr: errors.New("exhausted boom"),
	}
	job := newDiscountCleanupJob(t, repo, 0)

	err := job.Run(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"expired boom", "exhausted boom"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("expected error to mention %q, got %q", want, err.Error())
		}
	}
}
