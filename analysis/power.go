package analysis

import (
	"math"

	"github.com/adrian9211/private-coach/fit"
)

const npWindowSamples = 30

// NormalizedPower computes normalized power from the record stream: the
// power channel smoothed with a 30-sample rolling average, averaged at the
// fourth power, taken to the fourth root. Streams shorter than the window
// fall back to the plain average. Returns 0 when no power data exists.
func NormalizedPower(records []fit.Record) float64 {
	s := buildSeries(records)
	return normalizedPower(s.powerForNP)
}

func normalizedPower(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	if len(samples) < npWindowSamples {
		return average(samples)
	}

	sum := 0.0
	for i := 0; i < npWindowSamples; i++ {
		sum += samples[i]
	}

	fourthPowerTotal := 0.0
	count := 0
	for i := npWindowSamples - 1; i < len(samples); i++ {
		if i >= npWindowSamples {
			sum += samples[i] - samples[i-npWindowSamples]
		}
		rolling := sum / float64(npWindowSamples)
		fourthPowerTotal += math.Pow(rolling, 4)
		count++
	}
	if count == 0 {
		return average(samples)
	}
	return math.Pow(fourthPowerTotal/float64(count), 0.25)
}
