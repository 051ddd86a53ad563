package report

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sagarsiwach/garmin-sync/internal/garmin"
	"github.com/sagarsiwach/garmin-sync/internal/session"
)

// stubSource answers with the configured functions; anything unset behaves
// like a category with no data.
type stubSource struct {
	userSummary  func(date string) (*garmin.UserSummary, error)
	heartRates   func(date string) (*garmin.HeartRateDay, error)
	sleep        func(date string) (*garmin.SleepData, error)
	activities   func(limit int) ([]garmin.Activity, error)
	byDate       func(start, end string) ([]garmin.Activity, error)
	detail       func(id int64) (*garmin.ActivityDetail, error)
	detailCalls  int
	summaryCalls int
}

func (s *stubSource) UserSummary(_ context.Context, date string) (*garmin.UserSummary, error) {
	s.summaryCalls++
	if s.userSummary == nil {
		return nil, garmin.ErrNotFound
	}
	return s.userSummary(date)
}

func (s *stubSource) HeartRates(_ context.Context, date string) (*garmin.HeartRateDay, error) {
	if s.heartRates == nil {
		return nil, garmin.ErrNotFound
	}
	return s.heartRates(date)
}

func (s *stubSource) RestingHeartRate(context.Context, string) (*garmin.RestingHeartRate, error) {
	return nil, garmin.ErrNotFound
}

func (s *stubSource) HRV(context.Context, string) (*garmin.HRVData, error) {
	return nil, garmin.ErrNotFound
}

func (s *stubSource) Sleep(_ context.Context, date string) (*garmin.SleepData, error) {
	if s.sleep == nil {
		return nil, garmin.ErrNotFound
	}
	return s.sleep(date)
}

func (s *stubSource) Stress(context.Context, string) (*garmin.StressDay, error) {
	return nil, garmin.ErrNotFound
}

func (s *stubSource) BodyBattery(context.Context, string) ([]garmin.BodyBatteryReading, error) {
	return nil, garmin.ErrNotFound
}

func (s *stubSource) Respiration(context.Context, string) (*garmin.RespirationDay, error) {
	return nil, garmin.ErrNotFound
}

func (s *stubSource) SpO2(context.Context, string) (*garmin.SpO2Day, error) {
	return nil, garmin.ErrNotFound
}

func (s *stubSource) BodyComposition(context.Context, string, string) (*garmin.BodyComposition, error) {
	return nil, garmin.ErrNotFound
}

func (s *stubSource) Activities(_ context.Context, limit int) ([]garmin.Activity, error) {
	if s.activities == nil {
		return nil, nil
	}
	return s.activities(limit)
}

func (s *stubSource) ActivitiesByDate(_ context.Context, start, end string) ([]garmin.Activity, error) {
	if s.byDate == nil {
		return nil, nil
	}
	return s.byDate(start, end)
}

func (s *stubSource) ActivityDetail(_ context.Context, id int64) (*garmin.ActivityDetail, error) {
	s.detailCalls++
	if s.detail == nil {
		return &garmin.ActivityDetail{ActivityID: id}, nil
	}
	return s.detail(id)
}

func (s *stubSource) TrainingReadiness(context.Context, string) (*garmin.TrainingReadiness, error) {
	return nil, garmin.ErrNotFound
}

func (s *stubSource) TrainingStatus(context.Context, string) (*garmin.TrainingStatus, error) {
	return nil, garmin.ErrNotFound
}

func (s *stubSource) MaxMetrics(context.Context, string) (*garmin.MaxMetrics, error) {
	return nil, garmin.ErrNotFound
}

func (s *stubSource) RacePredictions(context.Context) (*garmin.RacePredictions, error) {
	return nil, garmin.ErrNotFound
}

func (s *stubSource) EnduranceScore(context.Context, string) (*garmin.EnduranceScore, error) {
	return nil, garmin.ErrNotFound
}

func (s *stubSource) Hydration(context.Context, string) (*garmin.Hydration, error) {
	return nil, garmin.ErrNotFound
}

func (s *stubSource) Devices(context.Context) ([]garmin.Device, error) {
	return nil, nil
}

type stubUpstream struct {
	logins int
	err    error
}

func (s *stubUpstream) Login(context.Context) error {
	s.logins++
	return s.err
}

func newTestBuilder(source Source, upstream *stubUpstream, opts ...Option) *Builder {
	sessions := session.NewManager(upstream, zap.NewNop())
	return NewBuilder(source, sessions, opts...)
}

var testDay = time.Date(2026, time.August, 27, 12, 0, 0, 0, time.UTC)

func TestBuildReportDowngradesFailedSection(t *testing.T) {
	source := &stubSource{
		userSummary: func(string) (*garmin.UserSummary, error) {
			return nil, errors.New("upstream timeout")
		},
		sleep: func(date string) (*garmin.SleepData, error) {
			return &garmin.SleepData{DailySleep: &garmin.DailySleep{SleepTimeSeconds: pInt(27000)}}, nil
		},
	}
	builder := newTestBuilder(source, &stubUpstream{})

	rep, err := builder.BuildReport(context.Background(), testDay, false)
	require.NoError(t, err)
	require.Nil(t, rep.Stats)
	require.Contains(t, rep.Unavailable, "daily_stats")
	require.NotNil(t, rep.Sleep)
	require.Equal(t, 7.5, rep.Sleep.DurationHours)
}

func TestBuildReportMissingDataIsNotUnavailable(t *testing.T) {
	builder := newTestBuilder(&stubSource{}, &stubUpstream{})

	rep, err := builder.BuildReport(context.Background(), testDay, false)
	require.NoError(t, err)
	require.Nil(t, rep.Sleep)
	require.Empty(t, rep.Unavailable)
}

func TestBuildReportDateFixedAndIdempotent(t *testing.T) {
	source := &stubSource{
		userSummary: func(string) (*garmin.UserSummary, error) {
			return &garmin.UserSummary{TotalSteps: pInt(8234), DailyStepGoal: pInt(7500)}, nil
		},
	}
	builder := newTestBuilder(source, &stubUpstream{})

	first, err := builder.BuildReport(context.Background(), testDay, false)
	require.NoError(t, err)
	second, err := builder.BuildReport(context.Background(), testDay, false)
	require.NoError(t, err)

	require.Equal(t, "2026-08-27", first.Date)
	first.GeneratedAt = second.GeneratedAt
	require.Equal(t, first, second)
}

func TestBuildReportDetailFetchesCapped(t *testing.T) {
	var activities []garmin.Activity
	for i := 0; i < 8; i++ {
		activities = append(activities, garmin.Activity{
			ActivityID:     pI64(int64(100 + i)),
			StartTimeLocal: pStr(fmt.Sprintf("2026-08-27 %02d:00:00", 6+i)),
		})
	}
	source := &stubSource{
		activities: func(int) ([]garmin.Activity, error) { return activities, nil },
	}
	builder := newTestBuilder(source, &stubUpstream{}, WithDetailLimit(3))

	rep, err := builder.BuildReport(context.Background(), testDay, true)
	require.NoError(t, err)
	require.Equal(t, 3, source.detailCalls)
	require.Len(t, rep.ActivityDetails, 3)
}

func TestBuildReportSkipsDetailsForOtherDays(t *testing.T) {
	source := &stubSource{
		activities: func(int) ([]garmin.Activity, error) {
			return []garmin.Activity{
				{ActivityID: pI64(1), StartTimeLocal: pStr("2026-08-26 07:00:00")},
				{ActivityID: pI64(2), StartTimeLocal: pStr("2026-08-27 07:00:00")},
			}, nil
		},
	}
	builder := newTestBuilder(source, &stubUpstream{})

	rep, err := builder.BuildReport(context.Background(), testDay, true)
	require.NoError(t, err)
	require.Equal(t, 1, source.detailCalls)
	require.Len(t, rep.ActivityDetails, 1)
	require.Len(t, rep.Activities, 2)
}

func TestBuildReportLoginFailurePropagates(t *testing.T) {
	source := &stubSource{}
	upstream := &stubUpstream{err: garmin.ErrAuthentication}
	builder := newTestBuilder(source, upstream)

	_, err := builder.BuildReport(context.Background(), testDay, false)
	require.ErrorIs(t, err, garmin.ErrAuthentication)
	require.Zero(t, source.summaryCalls)
}

func TestBuildReportAuthFailureMidBuildResetsSession(t *testing.T) {
	source := &stubSource{
		sleep: func(string) (*garmin.SleepData, error) {
			return nil, garmin.ErrAuthentication
		},
	}
	upstream := &stubUpstream{}
	builder := newTestBuilder(source, upstream)

	_, err := builder.BuildReport(context.Background(), testDay, false)
	require.ErrorIs(t, err, garmin.ErrAuthentication)
	require.False(t, builder.Sessions().Authenticated())

	// Next build logs in again.
	source.sleep = nil
	_, err = builder.BuildReport(context.Background(), testDay, false)
	require.NoError(t, err)
	require.Equal(t, 2, upstream.logins)
}

func TestBuildWeeklySummaryExcludesMissingDaysFromAverages(t *testing.T) {
	stepsByDate := map[string]int{
		"2026-08-27": 8000,
		"2026-08-25": 6000,
	}
	source := &stubSource{
		userSummary: func(date string) (*garmin.UserSummary, error) {
			steps, ok := stepsByDate[date]
			if !ok {
				return nil, garmin.ErrNotFound
			}
			return &garmin.UserSummary{TotalSteps: pInt(steps)}, nil
		},
		sleep: func(date string) (*garmin.SleepData, error) {
			if date != "2026-08-27" {
				return nil, garmin.ErrNotFound
			}
			return &garmin.SleepData{DailySleep: &garmin.DailySleep{SleepTimeSeconds: pInt(28800)}}, nil
		},
		byDate: func(start, end string) ([]garmin.Activity, error) {
			require.Equal(t, "2026-08-21", start)
			require.Equal(t, "2026-08-27", end)
			return []garmin.Activity{{ActivityID: pI64(1)}, {ActivityID: pI64(2)}}, nil
		},
	}
	builder := newTestBuilder(source, &stubUpstream{})

	weekly, err := builder.BuildWeeklySummary(context.Background(), testDay)
	require.NoError(t, err)

	require.Equal(t, "2026-08-21 to 2026-08-27", weekly.Period)
	require.Equal(t, 14000, weekly.TotalSteps)
	// Two days reported steps, so the average divides by two, not seven.
	require.Equal(t, 7000, weekly.AvgSteps)
	require.Equal(t, 8.0, weekly.AvgSleepHours)
	require.Nil(t, weekly.AvgRestingHR)
	require.Equal(t, 2, weekly.ActivityCount)

	require.Len(t, weekly.DailyBreakdown, 7)
	require.Equal(t, "2026-08-27", weekly.DailyBreakdown[0].Date)
	require.Equal(t, "2026-08-21", weekly.DailyBreakdown[6].Date)
	require.Nil(t, weekly.DailyBreakdown[1].Steps)
	require.Equal(t, 8000, *weekly.DailyBreakdown[0].Steps)
}

func TestActivityByIDNotFound(t *testing.T) {
	source := &stubSource{
		activities: func(limit int) ([]garmin.Activity, error) {
			require.Equal(t, 100, limit)
			return []garmin.Activity{{ActivityID: pI64(7)}}, nil
		},
	}
	builder := newTestBuilder(source, &stubUpstream{})

	_, err := builder.ActivityByID(context.Background(), 999)
	require.ErrorIs(t, err, ErrActivityNotFound)
	require.Zero(t, source.detailCalls)
}

func TestActivityByIDReturnsDetail(t *testing.T) {
	source := &stubSource{
		activities: func(int) ([]garmin.Activity, error) {
			return []garmin.Activity{{ActivityID: pI64(7), ActivityName: pStr("Tempo Run")}}, nil
		},
	}
	builder := newTestBuilder(source, &stubUpstream{})

	detail, err := builder.ActivityByID(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, int64(7), detail.ActivityID)
	require.Equal(t, "Tempo Run", *detail.Summary.Name)
}

func TestSleepForReturnsEmptySectionOnNoData(t *testing.T) {
	builder := newTestBuilder(&stubSource{}, &stubUpstream{})

	sleep, err := builder.SleepFor(context.Background(), testDay)
	require.NoError(t, err)
	require.Equal(t, "2026-08-27", sleep.Date)
	require.Zero(t, sleep.DurationMinutes)
}
