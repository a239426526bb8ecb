package analysis

import "github.com/adrian9211/private-coach/fit"

// Split is a compact per-lap view for pacing tables.
type Split struct {
	Index           int     `json:"index"`
	DurationSeconds float64 `json:"durationSeconds"`
	DistanceMeters  float64 `json:"distanceMeters"`
	AvgSpeed        float64 `json:"avgSpeed,omitempty"`
	AvgHeartRate    float64 `json:"avgHeartRate,omitempty"`
	AvgPower        float64 `json:"avgPower,omitempty"`
}

// Splits builds one split per lap. Laps without an average speed get it
// derived from distance over duration. Files without lap messages collapse
// to a single split over the whole record stream.
func Splits(act *fit.Activity) []Split {
	if act == nil {
		return nil
	}
	if len(act.Laps) == 0 {
		return splitFromRecords(act.Records)
	}

	out := make([]Split, 0, len(act.Laps))
	for i, lap := range act.Laps {
		sp := Split{Index: i + 1}
		if lap.TotalTime != nil {
			sp.DurationSeconds = *lap.TotalTime
		}
		if lap.Distance != nil {
			sp.DistanceMeters = *lap.Distance
		}
		switch {
		case lap.AvgSpeed != nil:
			sp.AvgSpeed = *lap.AvgSpeed
		case sp.DurationSeconds > 0 && sp.DistanceMeters > 0:
			sp.AvgSpeed = sp.DistanceMeters / sp.DurationSeconds
		}
		if lap.AvgHeartRate != nil {
			sp.AvgHeartRate = *lap.AvgHeartRate
		}
		if lap.AvgPower != nil {
			sp.AvgPower = *lap.AvgPower
		}
		out = append(out, sp)
	}
	return out
}

func splitFromRecords(records []fit.Record) []Split {
	if len(records) == 0 {
		return nil
	}
	s := buildSeries(records)

	sp := Split{Index: 1}
	if !s.start.IsZero() && s.end.After(s.start) {
		sp.DurationSeconds = s.end.Sub(s.start).Seconds()
	}
	sp.DistanceMeters = s.lastDistance
	sp.AvgSpeed = average(s.speed)
	if sp.AvgSpeed == 0 && sp.DurationSeconds > 0 && sp.DistanceMeters > 0 {
		sp.AvgSpeed = sp.DistanceMeters / sp.DurationSeconds
	}
	sp.AvgHeartRate = average(s.hr)
	sp.AvgPower = average(s.power)
	return []Split{sp}
}
