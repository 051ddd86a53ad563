package garmin

// Raw response shapes returned by Garmin Connect. Fields Garmin may omit are
// pointers so downstream mappers can distinguish absent from zero. Units
// follow Garmin conventions: distances in meters, durations in seconds,
// speeds in m/s, weights in grams.

// UserSummary is the daily wellness summary.
type UserSummary struct {
	TotalSteps           *int     `json:"totalSteps"`
	DailyStepGoal        *int     `json:"dailyStepGoal"`
	TotalKilocalories    *float64 `json:"totalKilocalories"`
	ActiveKilocalories   *float64 `json:"activeKilocalories"`
	BMRKilocalories      *float64 `json:"bmrKilocalories"`
	TotalDistanceMeters  *float64 `json:"totalDistanceMeters"`
	ActiveSeconds        *int     `json:"activeSeconds"`
	IntensityMinutesGoal *int     `json:"intensityMinutesGoal"`
	FloorsAscended       *float64 `json:"floorsAscended"`
	FloorsGoal           *float64 `json:"floorsGoal"`
}

// HeartRateZone describes one configured HR training zone.
type HeartRateZone struct {
	ZoneNumber      int  `json:"zoneNumber"`
	ZoneLowBoundary *int `json:"zoneLowBoundary"`
	SecsInZone      *int `json:"secsInZone"`
}

// HeartRateDay is the all-day heart rate payload.
type HeartRateDay struct {
	RestingHeartRate *int            `json:"restingHeartRate"`
	MinHeartRate     *int            `json:"minHeartRate"`
	MaxHeartRate     *int            `json:"maxHeartRate"`
	HeartRateZones   []HeartRateZone `json:"heartRateZones"`
	// HeartRateValues is a series of [epoch-ms, bpm] pairs; bpm may be null
	// during gaps.
	HeartRateValues [][]*float64 `json:"heartRateValues"`
}

// RestingHeartRate is the wellness resting-HR reading for a day.
type RestingHeartRate struct {
	Value *int `json:"value"`
}

// HRVSummary aggregates overnight heart rate variability.
type HRVSummary struct {
	WeeklyAvg *float64 `json:"weeklyAvg"`
	LastNight *float64 `json:"lastNight"`
	Status    *string  `json:"status"`
}

// HRVData is the HRV service payload.
type HRVData struct {
	HRVSummary          *HRVSummary `json:"hrvSummary"`
	StartTimestampLocal *string     `json:"startTimestampLocal"`
}

// SleepScoreValue carries one scored sleep dimension.
type SleepScoreValue struct {
	Value        *int    `json:"value"`
	QualifierKey *string `json:"qualifierKey"`
}

// SleepScores groups the scored sleep dimensions we consume.
type SleepScores struct {
	Overall        *SleepScoreValue `json:"overall"`
	QualityOfSleep *SleepScoreValue `json:"qualityOfSleep"`
}

// DailySleep is the dailySleepDTO block of the sleep payload.
type DailySleep struct {
	SleepStartTimestampLocal *int64       `json:"sleepStartTimestampLocal"`
	SleepEndTimestampLocal   *int64       `json:"sleepEndTimestampLocal"`
	SleepTimeSeconds         *int         `json:"sleepTimeSeconds"`
	DeepSleepSeconds         *int         `json:"deepSleepSeconds"`
	LightSleepSeconds        *int         `json:"lightSleepSeconds"`
	RemSleepSeconds          *int         `json:"remSleepSeconds"`
	AwakeSleepSeconds        *int         `json:"awakeSleepSeconds"`
	SleepScores              *SleepScores `json:"sleepScores"`
	AvgOxygenPercentage      *float64     `json:"avgOxygenPercentage"`
	AvgRespirationValue      *float64     `json:"avgRespirationValue"`
	HRVStatus                *string      `json:"hrvStatus"`
}

// SleepData is the wellness sleep payload.
type SleepData struct {
	DailySleep *DailySleep `json:"dailySleepDTO"`
}

// StressDay is the daily stress payload.
type StressDay struct {
	AvgStressLevel              *int `json:"avgStressLevel"`
	MaxStressLevel              *int `json:"maxStressLevel"`
	StressDurationMinutes       *int `json:"stressDurationMinutes"`
	RestDurationMinutes         *int `json:"restDurationMinutes"`
	LowStressDurationMinutes    *int `json:"lowStressDurationMinutes"`
	MediumStressDurationMinutes *int `json:"mediumStressDurationMinutes"`
	HighStressDurationMinutes   *int `json:"highStressDurationMinutes"`
}

// BodyBatteryReading is one sampled body battery level.
type BodyBatteryReading struct {
	BodyBatteryLevel *int   `json:"bodyBatteryLevel"`
	Timestamp        *int64 `json:"timestamp"`
}

// RespirationDay is the daily respiration payload.
type RespirationDay struct {
	AvgWakingRespirationValue *float64 `json:"avgWakingRespirationValue"`
	HighestRespirationValue   *float64 `json:"highestRespirationValue"`
	LowestRespirationValue    *float64 `json:"lowestRespirationValue"`
}

// SpO2Day is the daily pulse-ox payload.
type SpO2Day struct {
	AvgValue *float64 `json:"avgValue"`
	MinValue *float64 `json:"minValue"`
	MaxValue *float64 `json:"maxValue"`
}

// WeightEntry is one dated weigh-in, weight in grams.
type WeightEntry struct {
	Date   *string  `json:"date"`
	Weight *float64 `json:"weight"`
	BMI    *float64 `json:"bmi"`
}

// BodyComposition is the weight-service range payload. Masses in grams.
type BodyComposition struct {
	Weight         *float64      `json:"weight"`
	BMI            *float64      `json:"bmi"`
	BodyFat        *float64      `json:"bodyFat"`
	MuscleMass     *float64      `json:"muscleMass"`
	BoneMass       *float64      `json:"boneMass"`
	BodyWater      *float64      `json:"bodyWater"`
	DateWeightList []WeightEntry `json:"dateWeightList"`
}

// ActivityType nests the activity type key.
type ActivityType struct {
	TypeKey *string `json:"typeKey"`
}

// Activity is one completed exercise session as listed by the activity search.
type Activity struct {
	ActivityID      *int64        `json:"activityId"`
	ActivityName    *string       `json:"activityName"`
	ActivityType    *ActivityType `json:"activityType"`
	StartTimeLocal  *string       `json:"startTimeLocal"`
	Duration        *float64      `json:"duration"`
	Distance        *float64      `json:"distance"`
	Calories        *float64      `json:"calories"`
	AverageHR       *float64      `json:"averageHR"`
	MaxHR           *float64      `json:"maxHR"`
	AverageSpeed    *float64      `json:"averageSpeed"`
	MaxSpeed        *float64      `json:"maxSpeed"`
	ElevationGain   *float64      `json:"elevationGain"`
	ElevationLoss   *float64      `json:"elevationLoss"`
	AverageCadence  *float64      `json:"averageRunningCadenceInStepsPerMinute"`
	AerobicEffect   *float64      `json:"aerobicTrainingEffect"`
	AnaerobicEffect *float64      `json:"anaerobicTrainingEffect"`
	VO2MaxValue     *float64      `json:"vO2MaxValue"`
}

// SplitLap is one lap row from the splits endpoint.
type SplitLap struct {
	LapIndex      int      `json:"lapIndex"`
	Distance      *float64 `json:"distance"`
	Duration      *float64 `json:"duration"`
	AverageHR     *float64 `json:"averageHR"`
	MaxHR         *float64 `json:"maxHR"`
	AverageSpeed  *float64 `json:"averageSpeed"`
	Calories      *float64 `json:"calories"`
	ElevationGain *float64 `json:"elevationGain"`
}

// ActivitySplits wraps the lap list.
type ActivitySplits struct {
	LapDTOs []SplitLap `json:"lapDTOs"`
}

// ActivityHRZone is time-in-zone for one HR zone during an activity.
type ActivityHRZone struct {
	ZoneNumber      int      `json:"zoneNumber"`
	SecsInZone      *float64 `json:"secsInZone"`
	ZoneLowBoundary *int     `json:"zoneLowBoundary"`
}

// WeatherType nests the weather description.
type WeatherType struct {
	Desc *string `json:"desc"`
}

// ActivityWeather is the recorded weather for an activity.
type ActivityWeather struct {
	Temp             *float64     `json:"temp"`
	ApparentTemp     *float64     `json:"apparentTemp"`
	RelativeHumidity *int         `json:"relativeHumidity"`
	WindSpeed        *float64     `json:"windSpeed"`
	WeatherTypeDTO   *WeatherType `json:"weatherTypeDTO"`
}

// GearItem is one piece of gear linked to an activity.
type GearItem struct {
	DisplayName     *string `json:"displayName"`
	CustomMakeModel *string `json:"customMakeModel"`
}

// ActivityDetail aggregates the per-activity endpoints that are fetched
// together: splits, HR zone timeline, weather and gear.
type ActivityDetail struct {
	ActivityID int64
	Splits     *ActivitySplits
	HRZones    []ActivityHRZone
	Weather    *ActivityWeather
	Gear       []GearItem
}

// TrainingReadiness is the daily readiness score payload.
type TrainingReadiness struct {
	Score         *int    `json:"score"`
	Level         *string `json:"level"`
	RecoveryTime  *int    `json:"recoveryTime"`
	HRVFeedback   *string `json:"hrvFeedback"`
	SleepFeedback *string `json:"sleepFeedback"`
}

// TrainingStatus is the aggregated training status payload.
type TrainingStatus struct {
	TrainingStatus        *string  `json:"trainingStatus"`
	TrainingStatusMessage *string  `json:"trainingStatusMessage"`
	Load                  *float64 `json:"load"`
	LoadFocus             *string  `json:"loadFocus"`
}

// MaxMetricsGeneric carries the running VO2 max block.
type MaxMetricsGeneric struct {
	VO2MaxValue *float64 `json:"vo2MaxValue"`
	FitnessAge  *int     `json:"fitnessAge"`
}

// MaxMetricsCycling carries the cycling VO2 max block.
type MaxMetricsCycling struct {
	VO2MaxValue *float64 `json:"vo2MaxValue"`
}

// MaxMetrics is the daily max-met payload.
type MaxMetrics struct {
	Generic *MaxMetricsGeneric `json:"generic"`
	Cycling *MaxMetricsCycling `json:"cycling"`
}

// RacePredictions carries projected race times in seconds.
type RacePredictions struct {
	Time5K           *int `json:"time5K"`
	Time10K          *int `json:"time10K"`
	TimeHalfMarathon *int `json:"timeHalfMarathon"`
	TimeMarathon     *int `json:"timeMarathon"`
}

// EnduranceScore is the endurance score payload.
type EnduranceScore struct {
	OverallScore   *int    `json:"overallScore"`
	Classification *string `json:"classification"`
}

// Hydration is the daily hydration payload, volumes in milliliters.
type Hydration struct {
	ValueInML     *float64 `json:"valueInML"`
	GoalInML      *float64 `json:"goalInML"`
	SweatLossInML *float64 `json:"sweatLossInML"`
}

// Device describes one registered Garmin device.
type Device struct {
	DeviceID        *int64  `json:"deviceId"`
	DisplayName     *string `json:"displayName"`
	DeviceTypeName  *string `json:"deviceTypeName"`
	SoftwareVersion *string `json:"softwareVersion"`
	LastSyncTime    *string `json:"lastSyncTime"`
}
