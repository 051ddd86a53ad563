package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sagarsiwach/garmin-sync/internal/report"
)

func pInt(v int) *int         { return &v }
func pF64(v float64) *float64 { return &v }
func pStr(v string) *string   { return &v }

func TestMarkdownStepsLineFormat(t *testing.T) {
	rep := &report.Report{
		Date: "2026-08-27",
		Stats: &report.DailyStats{
			Date:           "2026-08-27",
			Steps:          8234,
			GoalSteps:      7500,
			CaloriesTotal:  2150,
			CaloriesActive: 450,
			DistanceKm:     6.54,
		},
	}

	out := Markdown(rep)
	require.Contains(t, out, "Steps: 8,234 / 7,500 goal\n")
	require.Contains(t, out, "Calories: 2,150 total (450 active)\n")
	require.Contains(t, out, "Distance: 6.54 km\n")
}

func TestMarkdownDeterministicSectionOrder(t *testing.T) {
	rep := &report.Report{
		Date:  "2026-08-27",
		Stats: &report.DailyStats{Steps: 100},
		HeartRate: &report.HeartRate{
			Date:      "2026-08-27",
			RestingHR: pInt(52),
		},
		Sleep: &report.Sleep{Date: "2026-08-27", DurationHours: 7.5},
		Activities: []report.ActivitySummary{
			{Name: pStr("Morning Run"), Type: pStr("running"), DurationMins: 30, DistanceKm: 5},
		},
		Weekly: &report.WeeklySummary{Period: "2026-08-21 to 2026-08-27", TotalSteps: 50000},
	}

	first := Markdown(rep)
	second := Markdown(rep)
	require.Equal(t, first, second)

	order := []string{
		"# Garmin Health Report - 2026-08-27",
		"## Daily Activity",
		"## Heart Rate",
		"## Sleep",
		"## Recent Activities",
		"## Weekly Summary",
	}
	last := -1
	for _, heading := range order {
		idx := strings.Index(first, heading)
		require.Greater(t, idx, last, "expected %q after previous heading", heading)
		last = idx
	}
}

func TestMarkdownMissingValuesRenderNA(t *testing.T) {
	rep := &report.Report{
		Date:      "2026-08-27",
		HeartRate: &report.HeartRate{Date: "2026-08-27"},
	}

	out := Markdown(rep)
	require.Contains(t, out, "Resting HR: N/A bpm")
	require.NotContains(t, out, "## Daily Activity")
	require.NotContains(t, out, "## Sleep")
}

func TestMarkdownActivityLineDetails(t *testing.T) {
	rep := &report.Report{
		Date: "2026-08-27",
		Activities: []report.ActivitySummary{
			{
				Name:         pStr("Evening Ride"),
				Type:         pStr("cycling"),
				DurationMins: 62.4,
				DistanceKm:   24.8,
				AvgHR:        pInt(142),
			},
		},
	}

	out := Markdown(rep)
	require.Contains(t, out, "Evening Ride (cycling) - 62 min, 24.80 km, HR: 142 bpm")
}

func TestJSONSupersetOfMarkdownContent(t *testing.T) {
	rep := &report.Report{
		Date:  "2026-08-27",
		Stats: &report.DailyStats{Date: "2026-08-27", Steps: 8234},
		SpO2:  &report.SpO2{Date: "2026-08-27", AvgSpO2: pF64(96.5)},
	}

	encoded, err := JSON(rep)
	require.NoError(t, err)
	require.Contains(t, string(encoded), `"report_date": "2026-08-27"`)
	require.Contains(t, string(encoded), `"steps": 8234`)
	// min/max SpO2 ride along in JSON even though markdown shows averages only.
	require.Contains(t, string(encoded), `"min_spo2": null`)
}
