// Package scheduler runs the daily report job: once per configured
// time-of-day it builds the full report and writes both rendered formats to
// dated files.
package scheduler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sagarsiwach/garmin-sync/internal/observability"
	"github.com/sagarsiwach/garmin-sync/internal/render"
	"github.com/sagarsiwach/garmin-sync/internal/report"
)

const dateLayout = "2006-01-02"

// ReportBuilder is the slice of the assembler the scheduler needs.
type ReportBuilder interface {
	BuildReport(ctx context.Context, day time.Time, includeDetails bool) (*report.Report, error)
	BuildWeeklySummary(ctx context.Context, end time.Time) (*report.WeeklySummary, error)
}

// Config holds scheduler settings.
type Config struct {
	// ReportTime is the local time of day in HH:MM form.
	ReportTime string
	// ReportDir is where dated report files land.
	ReportDir string
	// RunOnStartup triggers one report immediately before the daily loop.
	RunOnStartup bool
}

// Scheduler drives the daily report loop.
type Scheduler struct {
	builder ReportBuilder
	cfg     Config
	logger  *zap.Logger
	clock   func() time.Time
}

// New constructs a Scheduler.
func New(builder ReportBuilder, cfg Config, logger *zap.Logger) *Scheduler {
	return &Scheduler{builder: builder, cfg: cfg, logger: logger, clock: time.Now}
}

// Start runs until ctx is cancelled. A failed run is logged and retried at
// the next scheduled time, never sooner.
func (s *Scheduler) Start(ctx context.Context) error {
	hour, minute, err := parseReportTime(s.cfg.ReportTime)
	if err != nil {
		return err
	}

	s.logger.Info("scheduler started",
		zap.String("report_time", s.cfg.ReportTime),
		zap.String("report_dir", s.cfg.ReportDir))

	if s.cfg.RunOnStartup {
		if err := s.RunOnce(ctx); err != nil {
			s.logger.Error("startup report failed", zap.Error(err))
		}
	}

	for {
		next := nextRun(s.clock(), hour, minute)
		s.logger.Info("next report scheduled", zap.Time("at", next))

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		if err := s.RunOnce(ctx); err != nil {
			s.logger.Error("scheduled report failed", zap.Error(err))
		}
	}
}

// RunOnce builds today's report and writes the markdown and JSON files.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	day := s.clock()
	s.logger.Info("generating report", zap.String("date", day.Format(dateLayout)))

	rep, err := s.builder.BuildReport(ctx, day, true)
	if err != nil {
		observability.RecordSchedulerRun("error")
		return fmt.Errorf("build report: %w", err)
	}
	if weekly, err := s.builder.BuildWeeklySummary(ctx, day); err != nil {
		s.logger.Warn("weekly summary unavailable", zap.Error(err))
	} else {
		rep.Weekly = weekly
	}

	if err := s.write(rep); err != nil {
		observability.RecordSchedulerRun("error")
		return err
	}
	observability.RecordSchedulerRun("success")
	return nil
}

func (s *Scheduler) write(rep *report.Report) error {
	if err := os.MkdirAll(s.cfg.ReportDir, 0o755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}

	base := filepath.Join(s.cfg.ReportDir, "report_"+rep.Date)
	markdown := render.Markdown(rep)
	if err := os.WriteFile(base+".md", []byte(markdown), 0o644); err != nil {
		return fmt.Errorf("write markdown report: %w", err)
	}

	encoded, err := render.JSON(rep)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	if err := os.WriteFile(base+".json", encoded, 0o644); err != nil {
		return fmt.Errorf("write json report: %w", err)
	}

	s.logger.Info("report written",
		zap.String("markdown", base+".md"),
		zap.String("json", base+".json"))
	return nil
}

// nextRun returns the next occurrence of hour:minute strictly after now.
func nextRun(now time.Time, hour, minute int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

func parseReportTime(value string) (hour, minute int, err error) {
	parts := strings.SplitN(value, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("report time %q: want HH:MM", value)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("report time %q: bad hour", value)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("report time %q: bad minute", value)
	}
	return hour, minute, nil
}
