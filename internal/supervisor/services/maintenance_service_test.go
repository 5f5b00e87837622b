// Vidrec - Hybrid Video Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vidrec

package services

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/vidrec/internal/metrics"
)

var _ suture.Service = (*MaintenanceService)(nil)

type countingJob struct {
	calls atomic.Int32
	err   error
}

func (j *countingJob) job(name string) MaintenanceJob {
	return MaintenanceJob{
		Name: name,
		Run: func(context.Context) error {
			j.calls.Add(1)
			return j.err
		},
	}
}

func TestNewMaintenanceService(t *testing.T) {
	noop := MaintenanceJob{Name: "noop", Run: func(context.Context) error { return nil }}

	tests := []struct {
		name     string
		schedule string
		jobs     []MaintenanceJob
		wantErr  bool
	}{
		{"cron expression", "*/5 * * * *", []MaintenanceJob{noop}, false},
		{"every descriptor", "@every 10m", []MaintenanceJob{noop}, false},
		{"no jobs", "@hourly", nil, false},
		{"invalid schedule", "not a schedule", []MaintenanceJob{noop}, true},
		{"seconds field rejected", "*/5 * * * * *", []MaintenanceJob{noop}, true},
		{"unnamed job", "@hourly", []MaintenanceJob{{Run: noop.Run}}, true},
		{"job without func", "@hourly", []MaintenanceJob{{Name: "x"}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := NewMaintenanceService(tt.jobs, MaintenanceServiceConfig{Schedule: tt.schedule}, zerolog.Nop())
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewMaintenanceService() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && svc.config.JobTimeout != time.Minute {
				t.Errorf("JobTimeout = %v, want default 1m", svc.config.JobTimeout)
			}
		})
	}
}

func TestMaintenanceService_RunOnce(t *testing.T) {
	var buf bytes.Buffer
	ok := &countingJob{}
	broken := &countingJob{err: errors.New("disk full")}
	after := &countingJob{}

	svc, err := NewMaintenanceService([]MaintenanceJob{
		ok.job("test_ok"),
		broken.job("test_broken"),
		after.job("test_after"),
	}, MaintenanceServiceConfig{Schedule: "@hourly"}, zerolog.New(&buf))
	if err != nil {
		t.Fatal(err)
	}

	before := testutil.ToFloat64(metrics.MaintenanceRuns.WithLabelValues("test_broken"))

	if failed := svc.RunOnce(context.Background()); failed != 1 {
		t.Errorf("RunOnce() failed = %d, want 1", failed)
	}
	if ok.calls.Load() != 1 || broken.calls.Load() != 1 || after.calls.Load() != 1 {
		t.Errorf("calls = %d/%d/%d, want every job run once", ok.calls.Load(), broken.calls.Load(), after.calls.Load())
	}
	if got := testutil.ToFloat64(metrics.MaintenanceRuns.WithLabelValues("test_broken")); got != before+1 {
		t.Errorf("maintenance_runs_total = %v, want %v", got, before+1)
	}
	if !strings.Contains(buf.String(), "disk full") || !strings.Contains(buf.String(), `"job":"test_broken"`) {
		t.Errorf("failure not logged: %s", buf.String())
	}
}

func TestMaintenanceService_RunOnceCanceled(t *testing.T) {
	job := &countingJob{}
	svc, _ := NewMaintenanceService([]MaintenanceJob{job.job("test_canceled")},
		MaintenanceServiceConfig{Schedule: "@hourly"}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc.RunOnce(ctx)
	if job.calls.Load() != 0 {
		t.Error("job ran with a canceled context")
	}
}

func TestMaintenanceService_JobTimeout(t *testing.T) {
	var sawDeadline atomic.Bool
	slow := MaintenanceJob{
		Name: "test_slow",
		Run: func(ctx context.Context) error {
			<-ctx.Done()
			sawDeadline.Store(errors.Is(ctx.Err(), context.DeadlineExceeded))
			return ctx.Err()
		},
	}
	svc, _ := NewMaintenanceService([]MaintenanceJob{slow},
		MaintenanceServiceConfig{Schedule: "@hourly", JobTimeout: 20 * time.Millisecond}, zerolog.Nop())

	if failed := svc.RunOnce(context.Background()); failed != 1 {
		t.Errorf("RunOnce() failed = %d, want 1", failed)
	}
	if !sawDeadline.Load() {
		t.Error("job context did not hit its deadline")
	}
}

func TestMaintenanceService_Serve(t *testing.T) {
	job := &countingJob{}
	svc, _ := NewMaintenanceService([]MaintenanceJob{job.job("test_startup")},
		MaintenanceServiceConfig{Schedule: "@hourly", RunOnStartup: true}, zerolog.Nop())

	if svc.String() != "maintenance-service" {
		t.Errorf("String() = %q", svc.String())
	}

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx) }()

	deadline := time.Now().Add(time.Second)
	for job.calls.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if job.calls.Load() != 1 {
		t.Fatalf("startup run count = %d, want 1", job.calls.Load())
	}

	cancel()
	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return")
	}
}

type fakeCache struct{ removed, size int }

func (f fakeCache) CleanupCache() (int, int) { return f.removed, f.size }

type fakeGC struct{ err error }

func (f fakeGC) RunGC() error { return f.err }

type fakeCheckpointer struct{ calls int }

func (f *fakeCheckpointer) Checkpoint(context.Context) error {
	f.calls++
	return nil
}

func TestMaintenanceJobs(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)

	cleanup := FeatureCacheCleanupJob(fakeCache{removed: 3, size: 7}, logger)
	if cleanup.Name != JobFeatureCacheCleanup {
		t.Errorf("Name = %q", cleanup.Name)
	}
	if err := cleanup.Run(context.Background()); err != nil {
		t.Errorf("cleanup: %v", err)
	}
	if !strings.Contains(buf.String(), `"removed":3`) {
		t.Errorf("cleanup not logged: %s", buf.String())
	}

	gcErr := errors.New("gc failed")
	gc := MetadataGCJob(fakeGC{err: gcErr})
	if err := gc.Run(context.Background()); !errors.Is(err, gcErr) {
		t.Errorf("gc: %v, want %v", err, gcErr)
	}

	cp := &fakeCheckpointer{}
	checkpoint := DatabaseCheckpointJob(cp)
	if err := checkpoint.Run(context.Background()); err != nil || cp.calls != 1 {
		t.Errorf("checkpoint: err=%v calls=%d", err, cp.calls)
	}
}
