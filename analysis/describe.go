package analysis

import (
	"fmt"
	"math"
	"strings"

	"github.com/adrian9211/private-coach/fit"
)

// Describe renders a short text summary of a decoded activity.
func Describe(act *fit.Activity) string {
	if act == nil {
		return ""
	}

	var b strings.Builder
	m := act.Metadata

	sport := m.Sport
	if sport == "" {
		sport = "activity"
	}
	if m.Device != "" {
		fmt.Fprintf(&b, "%s on %s\n", sport, m.Device)
	} else {
		fmt.Fprintf(&b, "%s\n", sport)
	}

	if m.StartTime != nil {
		fmt.Fprintf(&b, "Start: %s\n", m.StartTime.Format("2006-01-02 15:04:05"))
	}
	fmt.Fprintf(
		&b,
		"Duration %s | Distance %.1f km | Elevation +%.0f m\n",
		formatDuration(floatOrZero(m.TotalTime)),
		floatOrZero(m.TotalDistance)/1000.0,
		floatOrZero(m.ElevationGain),
	)
	if m.AvgPower != nil || m.MaxPower != nil {
		fmt.Fprintf(&b, "Power %.0f avg / %.0f max W\n", floatOrZero(m.AvgPower), floatOrZero(m.MaxPower))
	}
	if m.AvgHeartRate != nil || m.MaxHeartRate != nil {
		fmt.Fprintf(&b, "HR %.0f avg / %.0f max bpm\n", floatOrZero(m.AvgHeartRate), floatOrZero(m.MaxHeartRate))
	}
	if m.AvgSpeed != nil || m.MaxSpeed != nil {
		fmt.Fprintf(
			&b,
			"Speed %.1f avg / %.1f max km/h\n",
			mpsToKmh(floatOrZero(m.AvgSpeed)),
			mpsToKmh(floatOrZero(m.MaxSpeed)),
		)
	}
	if m.Calories != nil {
		fmt.Fprintf(&b, "Calories %.0f kcal\n", *m.Calories)
	}

	fmt.Fprintf(&b, "Records %d | Laps %d | Sessions %d\n", len(act.Records), len(act.Laps), len(act.Sessions))
	if n := len(act.Warnings); n > 0 {
		fmt.Fprintf(&b, "Warnings %d (first: %s at byte %d)\n", n, act.Warnings[0].Code, act.Warnings[0].Offset)
	}

	return strings.TrimSpace(b.String())
}

func formatDuration(seconds float64) string {
	if seconds <= 0 {
		return "0s"
	}
	s := int(math.Round(seconds))
	h := s / 3600
	m := (s % 3600) / 60
	sec := s % 60
	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, sec)
	}
	if m > 0 {
		return fmt.Sprintf("%dm%02ds", m, sec)
	}
	return fmt.Sprintf("%ds", sec)
}

func mpsToKmh(v float64) float64 {
	if v <= 0 {
		return 0
	}
	return v * 3.6
}

func floatOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
