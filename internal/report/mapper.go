package report

import (
	"fmt"
	"math"
	"time"

	"github.com/sagarsiwach/garmin-sync/internal/garmin"
)

// Mappers are pure: each one converts a single raw Garmin payload into a
// normalized section record. A nil payload maps to a nil section. Fields
// Garmin omitted stay nil rather than collapsing to zero so aggregates do not
// count absent data.

// MapDailyStats normalizes the daily wellness summary.
func MapDailyStats(date string, raw *garmin.UserSummary) *DailyStats {
	if raw == nil {
		return nil
	}
	distance := fval(raw.TotalDistanceMeters)
	return &DailyStats{
		Date:             date,
		Steps:            ival(raw.TotalSteps),
		GoalSteps:        ival(raw.DailyStepGoal),
		CaloriesTotal:    int(math.Round(fval(raw.TotalKilocalories))),
		CaloriesActive:   int(math.Round(fval(raw.ActiveKilocalories))),
		CaloriesBMR:      int(math.Round(fval(raw.BMRKilocalories))),
		DistanceMeters:   distance,
		DistanceKm:       round2(distance / 1000),
		ActiveMinutes:    ival(raw.ActiveSeconds) / 60,
		IntensityMinutes: ival(raw.IntensityMinutesGoal),
		FloorsClimbed:    int(fval(raw.FloorsAscended)),
		FloorsGoal:       int(fval(raw.FloorsGoal)),
	}
}

// MapHeartRate normalizes the all-day heart rate payload plus the wellness
// resting-HR reading.
func MapHeartRate(date string, day *garmin.HeartRateDay, rhr *garmin.RestingHeartRate) *HeartRate {
	if day == nil {
		return nil
	}
	section := &HeartRate{
		Date:            date,
		RestingHR:       day.RestingHeartRate,
		MinHR:           day.MinHeartRate,
		MaxHR:           day.MaxHeartRate,
		HRZones:         make([]HRZone, 0, len(day.HeartRateZones)),
		HRReadingsCount: len(day.HeartRateValues),
	}
	if rhr != nil {
		section.AvgHR = rhr.Value
	}
	for _, zone := range day.HeartRateZones {
		mins := 0.0
		if zone.SecsInZone != nil {
			mins = round1(float64(*zone.SecsInZone) / 60)
		}
		section.HRZones = append(section.HRZones, HRZone{
			ZoneNumber:    zone.ZoneNumber,
			MinutesInZone: mins,
			LowBoundary:   zone.ZoneLowBoundary,
		})
	}
	return section
}

// MapHRV normalizes the heart rate variability payload.
func MapHRV(date string, raw *garmin.HRVData) *HRV {
	if raw == nil {
		return nil
	}
	section := &HRV{Date: date, Baseline: raw.StartTimestampLocal}
	if raw.HRVSummary != nil {
		section.WeeklyAvg = raw.HRVSummary.WeeklyAvg
		section.LastNight = raw.HRVSummary.LastNight
		section.Status = raw.HRVSummary.Status
	}
	return section
}

// MapSleep normalizes the sleep payload. Stage durations convert from seconds
// to whole minutes.
func MapSleep(date string, raw *garmin.SleepData) *Sleep {
	if raw == nil || raw.DailySleep == nil {
		return nil
	}
	daily := raw.DailySleep
	durationSec := ival(daily.SleepTimeSeconds)
	section := &Sleep{
		Date:              date,
		SleepStart:        epochMillisToClock(daily.SleepStartTimestampLocal),
		SleepEnd:          epochMillisToClock(daily.SleepEndTimestampLocal),
		DurationHours:     round2(float64(durationSec) / 3600),
		DurationMinutes:   durationSec / 60,
		DeepSleepMinutes:  ival(daily.DeepSleepSeconds) / 60,
		LightSleepMinutes: ival(daily.LightSleepSeconds) / 60,
		RemSleepMinutes:   ival(daily.RemSleepSeconds) / 60,
		AwakeMinutes:      ival(daily.AwakeSleepSeconds) / 60,
		AvgSpO2:           daily.AvgOxygenPercentage,
		AvgRespiration:    daily.AvgRespirationValue,
		HRVStatus:         daily.HRVStatus,
	}
	if daily.SleepScores != nil {
		if daily.SleepScores.Overall != nil {
			section.SleepScore = daily.SleepScores.Overall.Value
		}
		if daily.SleepScores.QualityOfSleep != nil {
			section.SleepQuality = daily.SleepScores.QualityOfSleep.QualifierKey
		}
	}
	return section
}

// MapStress normalizes the daily stress payload.
func MapStress(date string, raw *garmin.StressDay) *Stress {
	if raw == nil {
		return nil
	}
	return &Stress{
		Date:               date,
		AvgStress:          raw.AvgStressLevel,
		MaxStress:          raw.MaxStressLevel,
		StressDurationMins: ival(raw.StressDurationMinutes),
		RestDurationMins:   ival(raw.RestDurationMinutes),
		LowStressMins:      ival(raw.LowStressDurationMinutes),
		MediumStressMins:   ival(raw.MediumStressDurationMinutes),
		HighStressMins:     ival(raw.HighStressDurationMinutes),
	}
}

// MapBodyBattery reduces the body battery series to start/end levels. The
// current level mirrors the end level, matching what the watch reports last.
func MapBodyBattery(date string, readings []garmin.BodyBatteryReading) *BodyBattery {
	if len(readings) == 0 {
		return nil
	}
	section := &BodyBattery{Date: date}
	section.StartLevel = readings[0].BodyBatteryLevel
	section.EndLevel = readings[len(readings)-1].BodyBatteryLevel
	section.CurrentLevel = section.EndLevel
	return section
}

// MapRespiration normalizes the respiration payload.
func MapRespiration(date string, raw *garmin.RespirationDay) *Respiration {
	if raw == nil {
		return nil
	}
	return &Respiration{
		Date:      date,
		AvgWaking: raw.AvgWakingRespirationValue,
		Highest:   raw.HighestRespirationValue,
		Lowest:    raw.LowestRespirationValue,
	}
}

// MapSpO2 normalizes the pulse-ox payload.
func MapSpO2(date string, raw *garmin.SpO2Day) *SpO2 {
	if raw == nil {
		return nil
	}
	return &SpO2{
		Date:    date,
		AvgSpO2: raw.AvgValue,
		MinSpO2: raw.MinValue,
		MaxSpO2: raw.MaxValue,
	}
}

// MapTrainingReadiness normalizes the readiness payload.
func MapTrainingReadiness(date string, raw *garmin.TrainingReadiness) *TrainingReadiness {
	if raw == nil {
		return nil
	}
	return &TrainingReadiness{
		Date:            date,
		Score:           raw.Score,
		Level:           raw.Level,
		RecoveryTimeHrs: raw.RecoveryTime,
		HRVFeedback:     raw.HRVFeedback,
		SleepFeedback:   raw.SleepFeedback,
	}
}

// MapTrainingStatus normalizes the training status payload.
func MapTrainingStatus(date string, raw *garmin.TrainingStatus) *TrainingStatus {
	if raw == nil {
		return nil
	}
	return &TrainingStatus{
		Date:      date,
		Status:    raw.TrainingStatus,
		Message:   raw.TrainingStatusMessage,
		Load:      raw.Load,
		LoadFocus: raw.LoadFocus,
	}
}

// MapMaxMetrics normalizes the VO2 max payload.
func MapMaxMetrics(date string, raw *garmin.MaxMetrics) *MaxMetrics {
	if raw == nil {
		return nil
	}
	section := &MaxMetrics{Date: date}
	if raw.Generic != nil {
		section.VO2MaxRunning = raw.Generic.VO2MaxValue
		section.FitnessAge = raw.Generic.FitnessAge
	}
	if raw.Cycling != nil {
		section.VO2MaxCycling = raw.Cycling.VO2MaxValue
	}
	return section
}

// MapRacePredictions formats projected race times as clock strings.
func MapRacePredictions(raw *garmin.RacePredictions) *RacePredictions {
	if raw == nil {
		return nil
	}
	return &RacePredictions{
		FiveK:        formatRaceTime(raw.Time5K),
		TenK:         formatRaceTime(raw.Time10K),
		HalfMarathon: formatRaceTime(raw.TimeHalfMarathon),
		Marathon:     formatRaceTime(raw.TimeMarathon),
	}
}

// MapEndurance normalizes the endurance score payload.
func MapEndurance(date string, raw *garmin.EnduranceScore) *Endurance {
	if raw == nil {
		return nil
	}
	return &Endurance{
		Date:           date,
		Score:          raw.OverallScore,
		Classification: raw.Classification,
	}
}

// MapBodyComposition normalizes the weight-range payload. Masses convert from
// grams to kilograms; at most maxMeasurements weigh-ins are kept.
func MapBodyComposition(period string, raw *garmin.BodyComposition, maxMeasurements int) *BodyComposition {
	if raw == nil {
		return nil
	}
	section := &BodyComposition{
		Period:             period,
		WeightKg:           gramsToKg(raw.Weight),
		BMI:                raw.BMI,
		BodyFatPct:         raw.BodyFat,
		MuscleMassKg:       gramsToKg(raw.MuscleMass),
		BoneMassKg:         gramsToKg(raw.BoneMass),
		BodyWaterPct:       raw.BodyWater,
		RecentMeasurements: make([]Measurement, 0, maxMeasurements),
	}
	for i, entry := range raw.DateWeightList {
		if i >= maxMeasurements {
			break
		}
		section.RecentMeasurements = append(section.RecentMeasurements, Measurement{
			Date:     entry.Date,
			WeightKg: gramsToKg(entry.Weight),
			BMI:      entry.BMI,
		})
	}
	return section
}

// MapHydration normalizes the hydration payload and derives goal percentage.
func MapHydration(date string, raw *garmin.Hydration) *Hydration {
	if raw == nil {
		return nil
	}
	section := &Hydration{
		Date:        date,
		IntakeML:    mlToInt(raw.ValueInML),
		GoalML:      mlToInt(raw.GoalInML),
		SweatLossML: mlToInt(raw.SweatLossInML),
	}
	if section.IntakeML != nil && section.GoalML != nil && *section.GoalML > 0 {
		pct := round1(float64(*section.IntakeML) / float64(*section.GoalML) * 100)
		section.PercentOfGoal = &pct
	}
	return section
}

// MapActivitySummary extracts the key metrics from one activity.
func MapActivitySummary(raw garmin.Activity) ActivitySummary {
	summary := ActivitySummary{
		ID:                      raw.ActivityID,
		Name:                    raw.ActivityName,
		StartTime:               raw.StartTimeLocal,
		DurationMins:            round2(fval(raw.Duration) / 60),
		DistanceKm:              round2(fval(raw.Distance) / 1000),
		Calories:                intPtr(raw.Calories),
		AvgHR:                   intPtr(raw.AverageHR),
		MaxHR:                   intPtr(raw.MaxHR),
		AvgSpeedKmh:             round2(fval(raw.AverageSpeed) * 3.6),
		MaxSpeedKmh:             round2(fval(raw.MaxSpeed) * 3.6),
		AvgPaceMinKm:            speedToPace(raw.AverageSpeed),
		ElevationGainM:          raw.ElevationGain,
		ElevationLossM:          raw.ElevationLoss,
		AvgCadence:              raw.AverageCadence,
		TrainingEffectAerobic:   raw.AerobicEffect,
		TrainingEffectAnaerobic: raw.AnaerobicEffect,
		VO2Max:                  raw.VO2MaxValue,
	}
	if raw.ActivityType != nil {
		summary.Type = raw.ActivityType.TypeKey
	}
	return summary
}

// MapActivityDetail combines a summary with the lazily fetched detail data.
func MapActivityDetail(summary ActivitySummary, raw *garmin.ActivityDetail) ActivityDetail {
	detail := ActivityDetail{
		Summary: summary,
		Splits:  []Split{},
		HRZones: []HRZone{},
		Gear:    []Gear{},
	}
	if raw == nil {
		return detail
	}
	detail.ActivityID = raw.ActivityID
	if raw.Splits != nil {
		for _, lap := range raw.Splits.LapDTOs {
			detail.Splits = append(detail.Splits, Split{
				LapNumber:     lap.LapIndex + 1,
				DistanceM:     lap.Distance,
				DurationS:     lap.Duration,
				AvgHR:         intPtr(lap.AverageHR),
				MaxHR:         intPtr(lap.MaxHR),
				AvgPace:       speedToPace(lap.AverageSpeed),
				Calories:      intPtr(lap.Calories),
				ElevationGain: lap.ElevationGain,
			})
		}
	}
	for _, zone := range raw.HRZones {
		mins := 0.0
		if zone.SecsInZone != nil {
			mins = round1(*zone.SecsInZone / 60)
		}
		detail.HRZones = append(detail.HRZones, HRZone{
			ZoneNumber:    zone.ZoneNumber,
			MinutesInZone: mins,
			LowBoundary:   zone.ZoneLowBoundary,
		})
	}
	if raw.Weather != nil {
		weather := &Weather{
			TempC:       raw.Weather.Temp,
			ApparentC:   raw.Weather.ApparentTemp,
			HumidityPct: raw.Weather.RelativeHumidity,
		}
		if raw.Weather.WindSpeed != nil {
			kmh := round2(*raw.Weather.WindSpeed * 3.6)
			weather.WindSpeedKmh = &kmh
		}
		if raw.Weather.WeatherTypeDTO != nil {
			weather.Description = raw.Weather.WeatherTypeDTO.Desc
		}
		detail.Weather = weather
	}
	for _, item := range raw.Gear {
		detail.Gear = append(detail.Gear, Gear{Name: item.DisplayName, MakeModel: item.CustomMakeModel})
	}
	return detail
}

// MapDevices normalizes the registered device list.
func MapDevices(raw []garmin.Device) []Device {
	devices := make([]Device, 0, len(raw))
	for _, d := range raw {
		devices = append(devices, Device{
			DeviceID:        d.DeviceID,
			DisplayName:     d.DisplayName,
			DeviceType:      d.DeviceTypeName,
			FirmwareVersion: d.SoftwareVersion,
			LastSync:        d.LastSyncTime,
		})
	}
	return devices
}

// speedToPace converts a speed in m/s to a min/km pace string like "5:32".
func speedToPace(speedMps *float64) *string {
	if speedMps == nil || *speedMps <= 0 {
		return nil
	}
	paceSeconds := 1000 / *speedMps
	mins := int(paceSeconds) / 60
	secs := int(paceSeconds) % 60
	pace := fmt.Sprintf("%d:%02d", mins, secs)
	return &pace
}

// formatRaceTime converts seconds to "H:MM:SS", or "MM:SS" under an hour.
func formatRaceTime(seconds *int) *string {
	if seconds == nil || *seconds <= 0 {
		return nil
	}
	total := *seconds
	var formatted string
	if total >= 3600 {
		formatted = fmt.Sprintf("%d:%02d:%02d", total/3600, (total%3600)/60, total%60)
	} else {
		formatted = fmt.Sprintf("%d:%02d", total/60, total%60)
	}
	return &formatted
}

// epochMillisToClock formats a Garmin local-wall-clock epoch as RFC 3339
// without offset, e.g. "2026-01-15T23:41:00".
func epochMillisToClock(ms *int64) *string {
	if ms == nil {
		return nil
	}
	formatted := time.UnixMilli(*ms).UTC().Format("2006-01-02T15:04:05")
	return &formatted
}

func fval(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

func ival(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func intPtr(p *float64) *int {
	if p == nil {
		return nil
	}
	v := int(math.Round(*p))
	return &v
}

func gramsToKg(p *float64) *float64 {
	if p == nil {
		return nil
	}
	kg := round1(*p / 1000)
	return &kg
}

func mlToInt(p *float64) *int {
	if p == nil {
		return nil
	}
	v := int(math.Round(*p))
	return &v
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
