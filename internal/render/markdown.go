// Package render turns assembled reports into their output formats. Both
// renderers are pure transforms: same report in, same bytes out.
package render

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/sagarsiwach/garmin-sync/internal/report"
)

const na = "N/A"

// Markdown renders a report as plain-line markdown with a fixed section
// order. Sections absent from the report are omitted entirely.
func Markdown(r *report.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Garmin Health Report - %s\n\n", r.Date)

	if s := r.Stats; s != nil {
		b.WriteString("## Daily Activity\n")
		fmt.Fprintf(&b, "Steps: %s / %s goal\n", humanize.Comma(int64(s.Steps)), humanize.Comma(int64(s.GoalSteps)))
		fmt.Fprintf(&b, "Distance: %.2f km\n", s.DistanceKm)
		fmt.Fprintf(&b, "Calories: %s total (%s active)\n",
			humanize.Comma(int64(s.CaloriesTotal)), humanize.Comma(int64(s.CaloriesActive)))
		fmt.Fprintf(&b, "Active Minutes: %d\n", s.ActiveMinutes)
		fmt.Fprintf(&b, "Floors Climbed: %d / %d goal\n", s.FloorsClimbed, s.FloorsGoal)
		b.WriteString("\n")
	}

	if hr := r.HeartRate; hr != nil {
		b.WriteString("## Heart Rate\n")
		fmt.Fprintf(&b, "Resting HR: %s bpm\n", intOrNA(hr.RestingHR))
		fmt.Fprintf(&b, "Min HR: %s bpm\n", intOrNA(hr.MinHR))
		fmt.Fprintf(&b, "Max HR: %s bpm\n", intOrNA(hr.MaxHR))
		b.WriteString("\n")
	}

	if hrv := r.HRV; hrv != nil {
		b.WriteString("## Heart Rate Variability\n")
		fmt.Fprintf(&b, "Weekly Average: %s ms\n", floatOrNA(hrv.WeeklyAvg, 0))
		fmt.Fprintf(&b, "Last Night: %s ms\n", floatOrNA(hrv.LastNight, 0))
		fmt.Fprintf(&b, "Status: %s\n", strOrNA(hrv.Status))
		b.WriteString("\n")
	}

	if s := r.Sleep; s != nil {
		b.WriteString("## Sleep\n")
		fmt.Fprintf(&b, "Duration: %.1f hours\n", s.DurationHours)
		fmt.Fprintf(&b, "Sleep Score: %s\n", intOrNA(s.SleepScore))
		fmt.Fprintf(&b, "Quality: %s\n", strOrNA(s.SleepQuality))
		fmt.Fprintf(&b, "Deep: %d min | Light: %d min | REM: %d min | Awake: %d min\n",
			s.DeepSleepMinutes, s.LightSleepMinutes, s.RemSleepMinutes, s.AwakeMinutes)
		b.WriteString("\n")
	}

	if r.Stress != nil || r.BodyBattery != nil {
		b.WriteString("## Stress & Energy\n")
		if s := r.Stress; s != nil {
			fmt.Fprintf(&b, "Avg Stress: %s\n", intOrNA(s.AvgStress))
			fmt.Fprintf(&b, "Rest Duration: %d min\n", s.RestDurationMins)
		}
		if bb := r.BodyBattery; bb != nil {
			fmt.Fprintf(&b, "Body Battery: %s -> %s\n", intOrNA(bb.StartLevel), intOrNA(bb.EndLevel))
		}
		b.WriteString("\n")
	}

	if r.SpO2 != nil || r.Respiration != nil {
		b.WriteString("## Respiration & Blood Oxygen\n")
		if s := r.SpO2; s != nil {
			fmt.Fprintf(&b, "SpO2: %s%% (min: %s%%, max: %s%%)\n",
				floatOrNA(s.AvgSpO2, 0), floatOrNA(s.MinSpO2, 0), floatOrNA(s.MaxSpO2, 0))
		}
		if resp := r.Respiration; resp != nil {
			fmt.Fprintf(&b, "Respiration: %s breaths/min\n", floatOrNA(resp.AvgWaking, 1))
		}
		b.WriteString("\n")
	}

	if r.TrainingReadiness != nil || r.TrainingStatus != nil {
		b.WriteString("## Training Status\n")
		if tr := r.TrainingReadiness; tr != nil {
			fmt.Fprintf(&b, "Readiness Score: %s (%s)\n", intOrNA(tr.Score), strOrNA(tr.Level))
			fmt.Fprintf(&b, "Recovery Time: %s hours\n", intOrNA(tr.RecoveryTimeHrs))
		}
		if ts := r.TrainingStatus; ts != nil {
			fmt.Fprintf(&b, "Training Status: %s\n", strOrNA(ts.Status))
		}
		b.WriteString("\n")
	}

	if r.MaxMetrics != nil || r.RacePredictions != nil {
		b.WriteString("## Performance Metrics\n")
		if m := r.MaxMetrics; m != nil {
			fmt.Fprintf(&b, "VO2 Max (Running): %s\n", floatOrNA(m.VO2MaxRunning, 1))
			fmt.Fprintf(&b, "Fitness Age: %s\n", intOrNA(m.FitnessAge))
		}
		if p := r.RacePredictions; p != nil {
			b.WriteString("Race Predictions:\n")
			writePrediction(&b, "5K", p.FiveK)
			writePrediction(&b, "10K", p.TenK)
			writePrediction(&b, "Half Marathon", p.HalfMarathon)
			writePrediction(&b, "Marathon", p.Marathon)
		}
		b.WriteString("\n")
	}

	if len(r.Activities) > 0 {
		b.WriteString("## Recent Activities\n")
		for _, act := range r.Activities {
			b.WriteString(activityLine(act))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if body := r.Body; body != nil && body.WeightKg != nil {
		b.WriteString("## Body Composition\n")
		fmt.Fprintf(&b, "Weight: %.1f kg\n", *body.WeightKg)
		if body.BodyFatPct != nil {
			fmt.Fprintf(&b, "Body Fat: %.1f%%\n", *body.BodyFatPct)
		}
		if body.MuscleMassKg != nil {
			fmt.Fprintf(&b, "Muscle Mass: %.1f kg\n", *body.MuscleMassKg)
		}
		b.WriteString("\n")
	}

	if h := r.Hydration; h != nil && h.IntakeML != nil {
		b.WriteString("## Hydration\n")
		goal := 0
		if h.GoalML != nil {
			goal = *h.GoalML
		}
		fmt.Fprintf(&b, "Intake: %d ml / %d ml goal\n", *h.IntakeML, goal)
		b.WriteString("\n")
	}

	if w := r.Weekly; w != nil {
		b.WriteString("## Weekly Summary\n")
		fmt.Fprintf(&b, "Period: %s\n", w.Period)
		fmt.Fprintf(&b, "Total Steps: %s (avg %s/day)\n",
			humanize.Comma(int64(w.TotalSteps)), humanize.Comma(int64(w.AvgSteps)))
		fmt.Fprintf(&b, "Total Distance: %.2f km\n", w.TotalDistanceKm)
		fmt.Fprintf(&b, "Avg Sleep: %.1f hours\n", w.AvgSleepHours)
		fmt.Fprintf(&b, "Avg Resting HR: %s bpm\n", intOrNA(w.AvgRestingHR))
		fmt.Fprintf(&b, "Activities: %d\n", w.ActivityCount)
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}

// JSON renders the report as indented JSON. Its field set is a strict
// superset of the markdown content.
func JSON(r *report.Report) ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

func activityLine(act report.ActivitySummary) string {
	name, actType := "Unknown", "unknown"
	if act.Name != nil {
		name = *act.Name
	}
	if act.Type != nil {
		actType = *act.Type
	}
	line := fmt.Sprintf("%s (%s)", name, actType)

	var details []string
	if act.DurationMins > 0 {
		details = append(details, fmt.Sprintf("%.0f min", act.DurationMins))
	}
	if act.DistanceKm > 0 {
		details = append(details, fmt.Sprintf("%.2f km", act.DistanceKm))
	}
	if act.AvgPaceMinKm != nil {
		details = append(details, fmt.Sprintf("pace: %s/km", *act.AvgPaceMinKm))
	}
	if act.AvgHR != nil {
		details = append(details, fmt.Sprintf("HR: %d bpm", *act.AvgHR))
	}
	if len(details) > 0 {
		line += " - " + strings.Join(details, ", ")
	}
	return line
}

func writePrediction(b *strings.Builder, label string, value *string) {
	if value != nil {
		fmt.Fprintf(b, "  %s: %s\n", label, *value)
	}
}

func intOrNA(v *int) string {
	if v == nil {
		return na
	}
	return fmt.Sprintf("%d", *v)
}

func floatOrNA(v *float64, decimals int) string {
	if v == nil {
		return na
	}
	return fmt.Sprintf("%.*f", decimals, *v)
}

func strOrNA(v *string) string {
	if v == nil || *v == "" {
		return na
	}
	return *v
}
