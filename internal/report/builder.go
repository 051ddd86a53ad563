package report

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sagarsiwach/garmin-sync/internal/garmin"
	"github.com/sagarsiwach/garmin-sync/internal/observability"
	"github.com/sagarsiwach/garmin-sync/internal/session"
)

const dateLayout = "2006-01-02"

// defaultActivityLimit is how many recent activities a report lists.
const defaultActivityLimit = 10

// ErrActivityNotFound is returned when an activity id cannot be located.
var ErrActivityNotFound = errors.New("activity not found")

// Source is the slice of the Garmin client the builder consumes. All
// date arguments are ISO 8601 (YYYY-MM-DD).
type Source interface {
	UserSummary(ctx context.Context, date string) (*garmin.UserSummary, error)
	HeartRates(ctx context.Context, date string) (*garmin.HeartRateDay, error)
	RestingHeartRate(ctx context.Context, date string) (*garmin.RestingHeartRate, error)
	HRV(ctx context.Context, date string) (*garmin.HRVData, error)
	Sleep(ctx context.Context, date string) (*garmin.SleepData, error)
	Stress(ctx context.Context, date string) (*garmin.StressDay, error)
	BodyBattery(ctx context.Context, date string) ([]garmin.BodyBatteryReading, error)
	Respiration(ctx context.Context, date string) (*garmin.RespirationDay, error)
	SpO2(ctx context.Context, date string) (*garmin.SpO2Day, error)
	BodyComposition(ctx context.Context, start, end string) (*garmin.BodyComposition, error)
	Activities(ctx context.Context, limit int) ([]garmin.Activity, error)
	ActivitiesByDate(ctx context.Context, start, end string) ([]garmin.Activity, error)
	ActivityDetail(ctx context.Context, id int64) (*garmin.ActivityDetail, error)
	TrainingReadiness(ctx context.Context, date string) (*garmin.TrainingReadiness, error)
	TrainingStatus(ctx context.Context, date string) (*garmin.TrainingStatus, error)
	MaxMetrics(ctx context.Context, date string) (*garmin.MaxMetrics, error)
	RacePredictions(ctx context.Context) (*garmin.RacePredictions, error)
	EnduranceScore(ctx context.Context, date string) (*garmin.EnduranceScore, error)
	Hydration(ctx context.Context, date string) (*garmin.Hydration, error)
	Devices(ctx context.Context) ([]garmin.Device, error)
}

// Builder assembles reports from independently fetched sections. Fetches are
// sequential; the activity-detail cap bounds rate-limit exposure per build.
type Builder struct {
	source      Source
	sessions    *session.Manager
	detailLimit int
	logger      *zap.Logger
	clock       func() time.Time
}

// Option customises a Builder.
type Option func(*Builder)

// WithLogger sets the builder logger.
func WithLogger(logger *zap.Logger) Option {
	return func(b *Builder) { b.logger = logger }
}

// WithDetailLimit caps activity-detail fetches per report build.
func WithDetailLimit(limit int) Option {
	return func(b *Builder) {
		if limit >= 0 {
			b.detailLimit = limit
		}
	}
}

// WithClock overrides the time source.
func WithClock(clock func() time.Time) Option {
	return func(b *Builder) { b.clock = clock }
}

// NewBuilder constructs a Builder.
func NewBuilder(source Source, sessions *session.Manager, opts ...Option) *Builder {
	b := &Builder{
		source:      source,
		sessions:    sessions,
		detailLimit: 5,
		logger:      zap.NewNop(),
		clock:       time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Sessions exposes the session manager for callers that need to force a reset.
func (b *Builder) Sessions() *session.Manager {
	return b.sessions
}

// checkFetch handles one section fetch outcome. No-data is a normal empty
// result. Authentication failures invalidate the session and abort the whole
// operation; anything else is downgraded to an unavailable section.
func (b *Builder) checkFetch(r *Report, name string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, garmin.ErrAuthentication) {
		b.sessions.Reset()
		return err
	}
	if !errors.Is(err, garmin.ErrNotFound) {
		b.logger.Warn("report section unavailable", zap.String("section", name), zap.Error(err))
		if r != nil {
			r.Unavailable = append(r.Unavailable, name)
		}
	}
	return nil
}

// softErr is checkFetch without a report to annotate, for category endpoints.
func (b *Builder) softErr(err error) error {
	if err == nil || errors.Is(err, garmin.ErrNotFound) {
		return nil
	}
	if errors.Is(err, garmin.ErrAuthentication) {
		b.sessions.Reset()
	}
	return err
}

// BuildReport assembles the full report for day. Each section is fetched
// independently: one failing category never aborts the report, only a session
// failure does. Activity details are fetched only when includeDetails is set,
// sequentially and capped.
func (b *Builder) BuildReport(ctx context.Context, day time.Time, includeDetails bool) (*Report, error) {
	if err := b.sessions.Ensure(ctx); err != nil {
		return nil, err
	}
	start := time.Now()
	defer func() { observability.ObserveReportBuild(time.Since(start)) }()

	date := day.Format(dateLayout)
	r := &Report{
		Date:        date,
		GeneratedAt: b.clock(),
		Activities:  []ActivitySummary{},
		Devices:     []Device{},
	}

	rawStats, err := b.source.UserSummary(ctx, date)
	if err := b.checkFetch(r, "daily_stats", err); err != nil {
		return nil, err
	}
	r.Stats = MapDailyStats(date, rawStats)

	rawHR, err := b.source.HeartRates(ctx, date)
	if err := b.checkFetch(r, "heart_rate", err); err != nil {
		return nil, err
	}
	rawRHR, err := b.source.RestingHeartRate(ctx, date)
	if err := b.checkFetch(nil, "resting_heart_rate", err); err != nil {
		return nil, err
	}
	r.HeartRate = MapHeartRate(date, rawHR, rawRHR)

	rawHRV, err := b.source.HRV(ctx, date)
	if err := b.checkFetch(r, "hrv", err); err != nil {
		return nil, err
	}
	r.HRV = MapHRV(date, rawHRV)

	rawSleep, err := b.source.Sleep(ctx, date)
	if err := b.checkFetch(r, "sleep", err); err != nil {
		return nil, err
	}
	r.Sleep = MapSleep(date, rawSleep)

	rawStress, err := b.source.Stress(ctx, date)
	if err := b.checkFetch(r, "stress", err); err != nil {
		return nil, err
	}
	r.Stress = MapStress(date, rawStress)

	rawBattery, err := b.source.BodyBattery(ctx, date)
	if err := b.checkFetch(r, "body_battery", err); err != nil {
		return nil, err
	}
	r.BodyBattery = MapBodyBattery(date, rawBattery)

	rawResp, err := b.source.Respiration(ctx, date)
	if err := b.checkFetch(r, "respiration", err); err != nil {
		return nil, err
	}
	r.Respiration = MapRespiration(date, rawResp)

	rawSpO2, err := b.source.SpO2(ctx, date)
	if err := b.checkFetch(r, "spo2", err); err != nil {
		return nil, err
	}
	r.SpO2 = MapSpO2(date, rawSpO2)

	rawReadiness, err := b.source.TrainingReadiness(ctx, date)
	if err := b.checkFetch(r, "training_readiness", err); err != nil {
		return nil, err
	}
	r.TrainingReadiness = MapTrainingReadiness(date, rawReadiness)

	rawStatus, err := b.source.TrainingStatus(ctx, date)
	if err := b.checkFetch(r, "training_status", err); err != nil {
		return nil, err
	}
	r.TrainingStatus = MapTrainingStatus(date, rawStatus)

	rawMax, err := b.source.MaxMetrics(ctx, date)
	if err := b.checkFetch(r, "max_metrics", err); err != nil {
		return nil, err
	}
	r.MaxMetrics = MapMaxMetrics(date, rawMax)

	rawPredictions, err := b.source.RacePredictions(ctx)
	if err := b.checkFetch(r, "race_predictions", err); err != nil {
		return nil, err
	}
	r.RacePredictions = MapRacePredictions(rawPredictions)

	rawEndurance, err := b.source.EnduranceScore(ctx, date)
	if err := b.checkFetch(r, "endurance_score", err); err != nil {
		return nil, err
	}
	r.Endurance = MapEndurance(date, rawEndurance)

	bodyStart := day.AddDate(0, 0, -30).Format(dateLayout)
	rawBody, err := b.source.BodyComposition(ctx, bodyStart, date)
	if err := b.checkFetch(r, "body_composition", err); err != nil {
		return nil, err
	}
	r.Body = MapBodyComposition(fmt.Sprintf("%s to %s", bodyStart, date), rawBody, 5)

	rawHydration, err := b.source.Hydration(ctx, date)
	if err := b.checkFetch(r, "hydration", err); err != nil {
		return nil, err
	}
	r.Hydration = MapHydration(date, rawHydration)

	rawActivities, err := b.source.Activities(ctx, defaultActivityLimit)
	if err := b.checkFetch(r, "activities", err); err != nil {
		return nil, err
	}
	for _, raw := range rawActivities {
		r.Activities = append(r.Activities, MapActivitySummary(raw))
	}

	if includeDetails {
		if err := b.attachDetails(ctx, r, rawActivities, date); err != nil {
			return nil, err
		}
	}

	rawDevices, err := b.source.Devices(ctx)
	if err := b.checkFetch(r, "devices", err); err != nil {
		return nil, err
	}
	r.Devices = MapDevices(rawDevices)

	return r, nil
}

// attachDetails fetches details for activities that started on the report
// date, sequentially, stopping at the configured cap.
func (b *Builder) attachDetails(ctx context.Context, r *Report, activities []garmin.Activity, date string) error {
	fetched := 0
	for _, raw := range activities {
		if fetched >= b.detailLimit {
			break
		}
		if raw.ActivityID == nil || raw.StartTimeLocal == nil || !strings.HasPrefix(*raw.StartTimeLocal, date) {
			continue
		}
		fetched++
		detail, err := b.source.ActivityDetail(ctx, *raw.ActivityID)
		if err != nil {
			if errors.Is(err, garmin.ErrAuthentication) {
				b.sessions.Reset()
				return err
			}
			b.logger.Warn("activity detail unavailable",
				zap.Int64("activity_id", *raw.ActivityID), zap.Error(err))
			continue
		}
		r.ActivityDetails = append(r.ActivityDetails, MapActivityDetail(MapActivitySummary(raw), detail))
	}
	return nil
}

// SleepFor returns the sleep section for day. No data yields an empty dated
// section, matching every other category endpoint.
func (b *Builder) SleepFor(ctx context.Context, day time.Time) (*Sleep, error) {
	if err := b.sessions.Ensure(ctx); err != nil {
		return nil, err
	}
	date := day.Format(dateLayout)
	raw, err := b.source.Sleep(ctx, date)
	if err := b.softErr(err); err != nil {
		return nil, err
	}
	if section := MapSleep(date, raw); section != nil {
		return section, nil
	}
	return &Sleep{Date: date}, nil
}

// HeartRateFor returns the heart rate and HRV sections for day.
func (b *Builder) HeartRateFor(ctx context.Context, day time.Time) (*HeartRate, *HRV, error) {
	if err := b.sessions.Ensure(ctx); err != nil {
		return nil, nil, err
	}
	date := day.Format(dateLayout)

	rawHR, err := b.source.HeartRates(ctx, date)
	if err := b.softErr(err); err != nil {
		return nil, nil, err
	}
	rawRHR, err := b.source.RestingHeartRate(ctx, date)
	if err := b.softErr(err); err != nil {
		return nil, nil, err
	}
	rawHRV, err := b.source.HRV(ctx, date)
	if err := b.softErr(err); err != nil {
		return nil, nil, err
	}

	hr := MapHeartRate(date, rawHR, rawRHR)
	if hr == nil {
		hr = &HeartRate{Date: date, HRZones: []HRZone{}}
	}
	hrv := MapHRV(date, rawHRV)
	if hrv == nil {
		hrv = &HRV{Date: date}
	}
	return hr, hrv, nil
}

// StressFor returns the stress and body battery sections for day.
func (b *Builder) StressFor(ctx context.Context, day time.Time) (*Stress, *BodyBattery, error) {
	if err := b.sessions.Ensure(ctx); err != nil {
		return nil, nil, err
	}
	date := day.Format(dateLayout)

	rawStress, err := b.source.Stress(ctx, date)
	if err := b.softErr(err); err != nil {
		return nil, nil, err
	}
	rawBattery, err := b.source.BodyBattery(ctx, date)
	if err := b.softErr(err); err != nil {
		return nil, nil, err
	}

	stress := MapStress(date, rawStress)
	if stress == nil {
		stress = &Stress{Date: date}
	}
	battery := MapBodyBattery(date, rawBattery)
	if battery == nil {
		battery = &BodyBattery{Date: date}
	}
	return stress, battery, nil
}

// HydrationFor returns the hydration section for day.
func (b *Builder) HydrationFor(ctx context.Context, day time.Time) (*Hydration, error) {
	if err := b.sessions.Ensure(ctx); err != nil {
		return nil, err
	}
	date := day.Format(dateLayout)
	raw, err := b.source.Hydration(ctx, date)
	if err := b.softErr(err); err != nil {
		return nil, err
	}
	if section := MapHydration(date, raw); section != nil {
		return section, nil
	}
	return &Hydration{Date: date}, nil
}

// RecentActivities lists recent activities. When days > 0 the list is
// restricted to that trailing window before applying limit.
func (b *Builder) RecentActivities(ctx context.Context, limit, days int) ([]ActivitySummary, error) {
	if err := b.sessions.Ensure(ctx); err != nil {
		return nil, err
	}

	var raw []garmin.Activity
	var err error
	if days > 0 {
		end := b.clock()
		start := end.AddDate(0, 0, -days)
		raw, err = b.source.ActivitiesByDate(ctx, start.Format(dateLayout), end.Format(dateLayout))
		if len(raw) > limit {
			raw = raw[:limit]
		}
	} else {
		raw, err = b.source.Activities(ctx, limit)
	}
	if err := b.softErr(err); err != nil {
		return nil, err
	}

	activities := make([]ActivitySummary, 0, len(raw))
	for _, act := range raw {
		activities = append(activities, MapActivitySummary(act))
	}
	return activities, nil
}

// ActivityByID returns the detail record for one activity. The id must appear
// among the hundred most recent activities; otherwise ErrActivityNotFound.
func (b *Builder) ActivityByID(ctx context.Context, id int64) (*ActivityDetail, error) {
	if err := b.sessions.Ensure(ctx); err != nil {
		return nil, err
	}

	raw, err := b.source.Activities(ctx, 100)
	if err := b.softErr(err); err != nil {
		return nil, err
	}
	var found *garmin.Activity
	for i := range raw {
		if raw[i].ActivityID != nil && *raw[i].ActivityID == id {
			found = &raw[i]
			break
		}
	}
	if found == nil {
		return nil, fmt.Errorf("%w: %d", ErrActivityNotFound, id)
	}

	rawDetail, err := b.source.ActivityDetail(ctx, id)
	if err := b.softErr(err); err != nil {
		return nil, err
	}
	detail := MapActivityDetail(MapActivitySummary(*found), rawDetail)
	detail.ActivityID = id
	return &detail, nil
}

// TrainingFor returns the combined training sections for day.
func (b *Builder) TrainingFor(ctx context.Context, day time.Time) (*Training, error) {
	if err := b.sessions.Ensure(ctx); err != nil {
		return nil, err
	}
	date := day.Format(dateLayout)
	training := &Training{}

	rawReadiness, err := b.source.TrainingReadiness(ctx, date)
	if err := b.softErr(err); err != nil {
		return nil, err
	}
	training.Readiness = MapTrainingReadiness(date, rawReadiness)

	rawStatus, err := b.source.TrainingStatus(ctx, date)
	if err := b.softErr(err); err != nil {
		return nil, err
	}
	training.Status = MapTrainingStatus(date, rawStatus)

	rawMax, err := b.source.MaxMetrics(ctx, date)
	if err := b.softErr(err); err != nil {
		return nil, err
	}
	training.MaxMetrics = MapMaxMetrics(date, rawMax)

	rawPredictions, err := b.source.RacePredictions(ctx)
	if err := b.softErr(err); err != nil {
		return nil, err
	}
	training.RacePredictions = MapRacePredictions(rawPredictions)

	rawEndurance, err := b.source.EnduranceScore(ctx, date)
	if err := b.softErr(err); err != nil {
		return nil, err
	}
	training.Endurance = MapEndurance(date, rawEndurance)

	return training, nil
}

// BodyCompositionFor returns body composition over the trailing days window.
func (b *Builder) BodyCompositionFor(ctx context.Context, days int) (*BodyComposition, error) {
	if err := b.sessions.Ensure(ctx); err != nil {
		return nil, err
	}
	end := b.clock()
	start := end.AddDate(0, 0, -days)
	startDate, endDate := start.Format(dateLayout), end.Format(dateLayout)

	raw, err := b.source.BodyComposition(ctx, startDate, endDate)
	if err := b.softErr(err); err != nil {
		return nil, err
	}
	period := fmt.Sprintf("%s to %s", startDate, endDate)
	if section := MapBodyComposition(period, raw, 10); section != nil {
		return section, nil
	}
	return &BodyComposition{Period: period, RecentMeasurements: []Measurement{}}, nil
}

// ConnectedDevices lists the registered devices.
func (b *Builder) ConnectedDevices(ctx context.Context) ([]Device, error) {
	if err := b.sessions.Ensure(ctx); err != nil {
		return nil, err
	}
	raw, err := b.source.Devices(ctx)
	if err := b.softErr(err); err != nil {
		return nil, err
	}
	return MapDevices(raw), nil
}

// BuildWeeklySummary reduces the trailing seven days ending at end. A day
// missing a section is excluded from that section's average denominator only;
// totals sum whatever is present.
func (b *Builder) BuildWeeklySummary(ctx context.Context, end time.Time) (*WeeklySummary, error) {
	if err := b.sessions.Ensure(ctx); err != nil {
		return nil, err
	}

	summary := &WeeklySummary{DailyBreakdown: make([]DayBreakdown, 0, 7)}
	var (
		stepsDays, sleepDays int
		sleepHoursTotal      float64
		restingTotal         int
		restingCount         int
	)

	for i := 0; i < 7; i++ {
		day := end.AddDate(0, 0, -i)
		date := day.Format(dateLayout)
		row := DayBreakdown{Date: date}

		rawStats, err := b.source.UserSummary(ctx, date)
		if err := b.softErr(err); err != nil {
			return nil, err
		}
		if stats := MapDailyStats(date, rawStats); stats != nil {
			row.Steps = &stats.Steps
			row.DistanceKm = &stats.DistanceKm
			row.Calories = &stats.CaloriesTotal
			summary.TotalSteps += stats.Steps
			summary.TotalDistanceKm += stats.DistanceKm
			summary.TotalCalories += stats.CaloriesTotal
			stepsDays++
		}

		rawSleep, err := b.source.Sleep(ctx, date)
		if err := b.softErr(err); err != nil {
			return nil, err
		}
		if sleep := MapSleep(date, rawSleep); sleep != nil {
			row.SleepHours = &sleep.DurationHours
			sleepHoursTotal += sleep.DurationHours
			sleepDays++
		}

		rawHR, err := b.source.HeartRates(ctx, date)
		if err := b.softErr(err); err != nil {
			return nil, err
		}
		if hr := MapHeartRate(date, rawHR, nil); hr != nil && hr.RestingHR != nil {
			row.RestingHR = hr.RestingHR
			restingTotal += *hr.RestingHR
			restingCount++
		}

		summary.DailyBreakdown = append(summary.DailyBreakdown, row)
	}

	startDate := end.AddDate(0, 0, -6).Format(dateLayout)
	endDate := end.Format(dateLayout)
	summary.Period = fmt.Sprintf("%s to %s", startDate, endDate)
	summary.TotalDistanceKm = round2(summary.TotalDistanceKm)
	if stepsDays > 0 {
		summary.AvgSteps = summary.TotalSteps / stepsDays
	}
	if sleepDays > 0 {
		summary.AvgSleepHours = round1(sleepHoursTotal / float64(sleepDays))
	}
	if restingCount > 0 {
		avg := int(float64(restingTotal)/float64(restingCount) + 0.5)
		summary.AvgRestingHR = &avg
	}

	rawActivities, err := b.source.ActivitiesByDate(ctx, startDate, endDate)
	if err := b.softErr(err); err != nil {
		return nil, err
	}
	summary.ActivityCount = len(rawActivities)

	return summary, nil
}
