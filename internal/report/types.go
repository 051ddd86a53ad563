// Package report maps raw Garmin payloads into normalized section records and
// assembles them into date-scoped reports.
package report

import "time"

// DailyStats is the normalized daily activity section.
type DailyStats struct {
	Date             string  `json:"date"`
	Steps            int     `json:"steps"`
	GoalSteps        int     `json:"goal_steps"`
	CaloriesTotal    int     `json:"calories_total"`
	CaloriesActive   int     `json:"calories_active"`
	CaloriesBMR      int     `json:"calories_bmr"`
	DistanceMeters   float64 `json:"distance_meters"`
	DistanceKm       float64 `json:"distance_km"`
	ActiveMinutes    int     `json:"active_minutes"`
	IntensityMinutes int     `json:"intensity_minutes"`
	FloorsClimbed    int     `json:"floors_climbed"`
	FloorsGoal       int     `json:"floors_goal"`
}

// HRZone is time spent in one heart rate zone, normalized to minutes.
type HRZone struct {
	ZoneNumber    int     `json:"zone_number"`
	MinutesInZone float64 `json:"minutes_in_zone"`
	LowBoundary   *int    `json:"low_boundary,omitempty"`
}

// HeartRate is the normalized daily heart rate section.
type HeartRate struct {
	Date            string   `json:"date"`
	RestingHR       *int     `json:"resting_hr"`
	MinHR           *int     `json:"min_hr"`
	MaxHR           *int     `json:"max_hr"`
	AvgHR           *int     `json:"avg_hr"`
	HRZones         []HRZone `json:"hr_zones"`
	HRReadingsCount int      `json:"hr_readings_count"`
}

// HRV is the normalized heart rate variability section.
type HRV struct {
	Date      string   `json:"date"`
	WeeklyAvg *float64 `json:"weekly_avg"`
	LastNight *float64 `json:"last_night"`
	Status    *string  `json:"status"`
	Baseline  *string  `json:"baseline"`
}

// Sleep is the normalized sleep section. Stage durations are minutes.
type Sleep struct {
	Date              string   `json:"date"`
	SleepStart        *string  `json:"sleep_start"`
	SleepEnd          *string  `json:"sleep_end"`
	DurationHours     float64  `json:"duration_hours"`
	DurationMinutes   int      `json:"duration_minutes"`
	DeepSleepMinutes  int      `json:"deep_sleep_minutes"`
	LightSleepMinutes int      `json:"light_sleep_minutes"`
	RemSleepMinutes   int      `json:"rem_sleep_minutes"`
	AwakeMinutes      int      `json:"awake_minutes"`
	SleepScore        *int     `json:"sleep_score"`
	SleepQuality      *string  `json:"sleep_quality"`
	AvgSpO2           *float64 `json:"avg_spo2"`
	AvgRespiration    *float64 `json:"avg_respiration"`
	HRVStatus         *string  `json:"hrv_status"`
}

// Stress is the normalized stress section.
type Stress struct {
	Date               string `json:"date"`
	AvgStress          *int   `json:"avg_stress"`
	MaxStress          *int   `json:"max_stress"`
	StressDurationMins int    `json:"stress_duration_mins"`
	RestDurationMins   int    `json:"rest_duration_mins"`
	LowStressMins      int    `json:"low_stress_mins"`
	MediumStressMins   int    `json:"medium_stress_mins"`
	HighStressMins     int    `json:"high_stress_mins"`
}

// BodyBattery is the normalized body battery section.
type BodyBattery struct {
	Date         string `json:"date"`
	StartLevel   *int   `json:"start_level"`
	EndLevel     *int   `json:"end_level"`
	CurrentLevel *int   `json:"current_level"`
}

// Respiration is the normalized respiration section, breaths per minute.
type Respiration struct {
	Date      string   `json:"date"`
	AvgWaking *float64 `json:"avg_waking"`
	Highest   *float64 `json:"highest"`
	Lowest    *float64 `json:"lowest"`
}

// SpO2 is the normalized blood oxygen section, percentages.
type SpO2 struct {
	Date    string   `json:"date"`
	AvgSpO2 *float64 `json:"avg_spo2"`
	MinSpO2 *float64 `json:"min_spo2"`
	MaxSpO2 *float64 `json:"max_spo2"`
}

// TrainingReadiness is the normalized readiness section.
type TrainingReadiness struct {
	Date            string  `json:"date"`
	Score           *int    `json:"score"`
	Level           *string `json:"level"`
	RecoveryTimeHrs *int    `json:"recovery_time_hrs"`
	HRVFeedback     *string `json:"hrv_feedback"`
	SleepFeedback   *string `json:"sleep_feedback"`
}

// TrainingStatus is the normalized training status section.
type TrainingStatus struct {
	Date      string   `json:"date"`
	Status    *string  `json:"training_status"`
	Message   *string  `json:"training_status_message"`
	Load      *float64 `json:"load"`
	LoadFocus *string  `json:"load_focus"`
}

// MaxMetrics is the normalized VO2 max section.
type MaxMetrics struct {
	Date          string   `json:"date"`
	VO2MaxRunning *float64 `json:"vo2max_running"`
	VO2MaxCycling *float64 `json:"vo2max_cycling"`
	FitnessAge    *int     `json:"fitness_age"`
}

// RacePredictions carries projected race times formatted as H:MM:SS.
type RacePredictions struct {
	FiveK        *string `json:"5k"`
	TenK         *string `json:"10k"`
	HalfMarathon *string `json:"half_marathon"`
	Marathon     *string `json:"marathon"`
}

// Endurance is the normalized endurance score section.
type Endurance struct {
	Date           string  `json:"date"`
	Score          *int    `json:"score"`
	Classification *string `json:"classification"`
}

// Training groups the training-related sections for the /training endpoint.
type Training struct {
	Readiness       *TrainingReadiness `json:"readiness"`
	Status          *TrainingStatus    `json:"status"`
	MaxMetrics      *MaxMetrics        `json:"max_metrics"`
	RacePredictions *RacePredictions   `json:"race_predictions"`
	Endurance       *Endurance         `json:"endurance"`
}

// Measurement is one dated weigh-in, normalized to kilograms.
type Measurement struct {
	Date     *string  `json:"date"`
	WeightKg *float64 `json:"weight_kg"`
	BMI      *float64 `json:"bmi"`
}

// BodyComposition is the normalized body composition section.
type BodyComposition struct {
	Period             string        `json:"period"`
	WeightKg           *float64      `json:"weight_kg"`
	BMI                *float64      `json:"bmi"`
	BodyFatPct         *float64      `json:"body_fat_pct"`
	MuscleMassKg       *float64      `json:"muscle_mass_kg"`
	BoneMassKg         *float64      `json:"bone_mass_kg"`
	BodyWaterPct       *float64      `json:"body_water_pct"`
	RecentMeasurements []Measurement `json:"recent_measurements"`
}

// Hydration is the normalized hydration section, milliliters.
type Hydration struct {
	Date          string   `json:"date"`
	IntakeML      *int     `json:"intake_ml"`
	GoalML        *int     `json:"goal_ml"`
	SweatLossML   *int     `json:"sweat_loss_ml"`
	PercentOfGoal *float64 `json:"percentage_of_goal"`
}

// ActivitySummary is the normalized record of one completed exercise session.
type ActivitySummary struct {
	ID                      *int64   `json:"id"`
	Name                    *string  `json:"name"`
	Type                    *string  `json:"type"`
	StartTime               *string  `json:"start_time"`
	DurationMins            float64  `json:"duration_mins"`
	DistanceKm              float64  `json:"distance_km"`
	Calories                *int     `json:"calories"`
	AvgHR                   *int     `json:"avg_hr"`
	MaxHR                   *int     `json:"max_hr"`
	AvgSpeedKmh             float64  `json:"avg_speed_kmh"`
	MaxSpeedKmh             float64  `json:"max_speed_kmh"`
	AvgPaceMinKm            *string  `json:"avg_pace_min_km"`
	ElevationGainM          *float64 `json:"elevation_gain_m"`
	ElevationLossM          *float64 `json:"elevation_loss_m"`
	AvgCadence              *float64 `json:"avg_cadence"`
	TrainingEffectAerobic   *float64 `json:"training_effect_aerobic"`
	TrainingEffectAnaerobic *float64 `json:"training_effect_anaerobic"`
	VO2Max                  *float64 `json:"vo2max"`
}

// Split is one normalized lap of an activity.
type Split struct {
	LapNumber     int      `json:"lap_number"`
	DistanceM     *float64 `json:"distance_m"`
	DurationS     *float64 `json:"duration_s"`
	AvgHR         *int     `json:"avg_hr"`
	MaxHR         *int     `json:"max_hr"`
	AvgPace       *string  `json:"avg_pace"`
	Calories      *int     `json:"calories"`
	ElevationGain *float64 `json:"elevation_gain"`
}

// Weather is the normalized weather recorded for an activity.
type Weather struct {
	TempC        *float64 `json:"temp_c"`
	ApparentC    *float64 `json:"apparent_temp_c"`
	HumidityPct  *int     `json:"humidity_pct"`
	WindSpeedKmh *float64 `json:"wind_speed_kmh"`
	Description  *string  `json:"description"`
}

// Gear is one piece of gear used during an activity.
type Gear struct {
	Name      *string `json:"name"`
	MakeModel *string `json:"make_model"`
}

// ActivityDetail enriches an activity summary with lazily fetched data.
type ActivityDetail struct {
	ActivityID int64           `json:"activity_id"`
	Summary    ActivitySummary `json:"summary"`
	Splits     []Split         `json:"splits"`
	HRZones    []HRZone        `json:"hr_zones"`
	Weather    *Weather        `json:"weather,omitempty"`
	Gear       []Gear          `json:"gear"`
}

// Device describes one connected Garmin device.
type Device struct {
	DeviceID        *int64  `json:"device_id"`
	DisplayName     *string `json:"display_name"`
	DeviceType      *string `json:"device_type"`
	FirmwareVersion *string `json:"firmware_version"`
	LastSync        *string `json:"last_sync"`
}

// DayBreakdown is one row of the weekly summary. Nil fields mean the section
// was unavailable that day and is excluded from averages.
type DayBreakdown struct {
	Date       string   `json:"date"`
	Steps      *int     `json:"steps"`
	DistanceKm *float64 `json:"distance_km"`
	Calories   *int     `json:"calories"`
	SleepHours *float64 `json:"sleep_hours"`
	RestingHR  *int     `json:"resting_hr"`
}

// WeeklySummary is the derived seven-day aggregate. It is recomputed on each
// request and never persisted independently.
type WeeklySummary struct {
	Period          string         `json:"period"`
	TotalSteps      int            `json:"total_steps"`
	AvgSteps        int            `json:"avg_steps"`
	TotalDistanceKm float64        `json:"total_distance_km"`
	TotalCalories   int            `json:"total_calories"`
	AvgSleepHours   float64        `json:"avg_sleep_hours"`
	AvgRestingHR    *int           `json:"avg_resting_hr"`
	ActivityCount   int            `json:"activity_count"`
	DailyBreakdown  []DayBreakdown `json:"daily_breakdown"`
}

// Report is the date-stamped aggregate of independently fetched sections.
// Sections are optional: a nil section means that category was unavailable or
// had no data. The date is fixed at creation.
type Report struct {
	Date              string             `json:"report_date"`
	GeneratedAt       time.Time          `json:"generated_at"`
	Stats             *DailyStats        `json:"daily_stats,omitempty"`
	HeartRate         *HeartRate         `json:"heart_rate,omitempty"`
	HRV               *HRV               `json:"hrv,omitempty"`
	Sleep             *Sleep             `json:"sleep,omitempty"`
	Stress            *Stress            `json:"stress,omitempty"`
	BodyBattery       *BodyBattery       `json:"body_battery,omitempty"`
	Respiration       *Respiration       `json:"respiration,omitempty"`
	SpO2              *SpO2              `json:"spo2,omitempty"`
	TrainingReadiness *TrainingReadiness `json:"training_readiness,omitempty"`
	TrainingStatus    *TrainingStatus    `json:"training_status,omitempty"`
	MaxMetrics        *MaxMetrics        `json:"max_metrics,omitempty"`
	RacePredictions   *RacePredictions   `json:"race_predictions,omitempty"`
	Endurance         *Endurance         `json:"endurance_score,omitempty"`
	Body              *BodyComposition   `json:"body_composition,omitempty"`
	Hydration         *Hydration         `json:"hydration,omitempty"`
	Activities        []ActivitySummary  `json:"activities"`
	ActivityDetails   []ActivityDetail   `json:"activity_details,omitempty"`
	Devices           []Device           `json:"devices"`
	Weekly            *WeeklySummary     `json:"weekly,omitempty"`
	Unavailable       []string           `json:"unavailable_sections,omitempty"`
	Markdown          string             `json:"markdown_report,omitempty"`
}
