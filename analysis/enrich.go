// Package analysis derives summary metrics from a decoded activity. All
// functions are pure: they read the record stream and only fill values the
// file's own summary messages left empty.
package analysis

import (
	"math"
	"time"

	"github.com/adrian9211/private-coach/fit"
)

const (
	// Altitude wobble below this many meters is treated as sensor noise
	// rather than climbing.
	climbNoiseMeters = 3.0

	// Samples slower than this don't count toward moving time.
	movingFloorMps = 0.5

	// Timestamp gaps longer than this are recording pauses, not riding.
	maxSampleGapSec = 10.0
)

// Enrich fills activity metadata the summary messages left empty, deriving
// the values from the record stream. Session-provided values are never
// overwritten. Sessions missing normalized power get it computed from the
// power channel.
func Enrich(act *fit.Activity) {
	if act == nil || len(act.Records) == 0 {
		return
	}

	s := buildSeries(act.Records)
	m := &act.Metadata

	if m.StartTime == nil && !s.start.IsZero() {
		start := s.start
		m.StartTime = &start
	}
	if m.TotalTime == nil && s.movingSec > 0 {
		m.TotalTime = ptr(s.movingSec)
	}
	if m.TotalDistance == nil && s.lastDistance > 0 {
		m.TotalDistance = ptr(s.lastDistance)
	}
	if m.AvgSpeed == nil {
		if v := average(s.speed); v > 0 {
			m.AvgSpeed = ptr(v)
		}
	}
	if m.MaxSpeed == nil {
		if v := maxValue(s.speed); v > 0 {
			m.MaxSpeed = ptr(v)
		}
	}
	if m.AvgHeartRate == nil {
		if v := average(s.hr); v > 0 {
			m.AvgHeartRate = ptr(v)
		}
	}
	if m.MaxHeartRate == nil {
		if v := maxValue(s.hr); v > 0 {
			m.MaxHeartRate = ptr(v)
		}
	}
	if m.AvgPower == nil {
		if v := average(s.power); v > 0 {
			m.AvgPower = ptr(v)
		}
	}
	if m.MaxPower == nil {
		if v := maxValue(s.power); v > 0 {
			m.MaxPower = ptr(v)
		}
	}
	if m.ElevationGain == nil && s.gain > 0 {
		m.ElevationGain = ptr(s.gain)
	}
	if m.Temperature == nil && len(s.temp) > 0 {
		m.Temperature = ptr(average(s.temp))
	}

	if np := normalizedPower(s.powerForNP); np > 0 {
		for i := range act.Sessions {
			if act.Sessions[i].NormalizedPower == nil {
				act.Sessions[i].NormalizedPower = ptr(np)
			}
		}
	}
}

// series holds the per-channel samples pulled out of the record stream.
type series struct {
	start        time.Time
	end          time.Time
	movingSec    float64
	lastDistance float64
	gain         float64

	power      []float64
	powerForNP []float64
	hr         []float64
	speed      []float64
	temp       []float64
}

func buildSeries(records []fit.Record) series {
	var s series
	var (
		lastTS    time.Time
		haveTS    bool
		lastPower float64
		havePower bool
		climbBase float64
		haveBase  bool
	)

	for _, rec := range records {
		var ts time.Time
		if rec.Timestamp != nil {
			ts = *rec.Timestamp
			if s.start.IsZero() || ts.Before(s.start) {
				s.start = ts
			}
			if ts.After(s.end) {
				s.end = ts
			}
		}

		if rec.Distance != nil && *rec.Distance > s.lastDistance {
			s.lastDistance = *rec.Distance
		}
		if rec.Speed != nil && isFinite(*rec.Speed) {
			s.speed = append(s.speed, *rec.Speed)
		}
		if rec.HeartRate != nil && *rec.HeartRate > 0 {
			s.hr = append(s.hr, *rec.HeartRate)
		}
		if rec.Temperature != nil && isFinite(*rec.Temperature) {
			s.temp = append(s.temp, *rec.Temperature)
		}

		if rec.Altitude != nil && isFinite(*rec.Altitude) {
			alt := *rec.Altitude
			switch {
			case !haveBase:
				climbBase, haveBase = alt, true
			case alt >= climbBase+climbNoiseMeters:
				s.gain += alt - climbBase
				climbBase = alt
			case alt < climbBase:
				climbBase = alt
			}
		}

		if !ts.IsZero() && haveTS && ts.After(lastTS) {
			delta := ts.Sub(lastTS).Seconds()
			if delta <= maxSampleGapSec && isMovingSample(rec) {
				s.movingSec += delta
			}
		}

		if rec.Power != nil && isFinite(*rec.Power) {
			p := *rec.Power
			s.power = append(s.power, p)

			// Short dropouts in the power channel repeat the last
			// sample so the rolling window stays one-per-second.
			if havePower && haveTS && !ts.IsZero() && ts.After(lastTS) {
				missing := int(math.Round(ts.Sub(lastTS).Seconds())) - 1
				if missing > 0 && missing <= 30 {
					for i := 0; i < missing; i++ {
						s.powerForNP = append(s.powerForNP, lastPower)
					}
				}
			}
			s.powerForNP = append(s.powerForNP, p)
			lastPower, havePower = p, true
		}

		if !ts.IsZero() {
			lastTS, haveTS = ts, true
		}
	}

	return s
}

func isMovingSample(rec fit.Record) bool {
	if rec.Speed != nil {
		return *rec.Speed >= movingFloorMps
	}
	return true
}

func average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	total := 0.0
	count := 0
	for _, v := range values {
		if !isFinite(v) {
			continue
		}
		total += v
		count++
	}
	if count == 0 {
		return 0
	}
	return total / float64(count)
}

func maxValue(values []float64) float64 {
	best := 0.0
	found := false
	for _, v := range values {
		if !isFinite(v) {
			continue
		}
		if !found || v > best {
			best = v
			found = true
		}
	}
	if !found {
		return 0
	}
	return best
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func ptr(v float64) *float64 {
	return &v
}
