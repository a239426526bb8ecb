package fit

import "time"

// Activity is the assembled result of decoding one FIT activity file.
type Activity struct {
	Metadata Metadata  `json:"metadata"`
	Records  []Record  `json:"records"`
	Laps     []Lap     `json:"laps"`
	Sessions []Session `json:"sessions"`
	Warnings []Warning `json:"warnings"`
}

// Metadata summarizes the whole activity. Values come from the first session
// message, with the activity message filling gaps.
type Metadata struct {
	Device        string     `json:"device,omitempty"`
	Sport         string     `json:"sport,omitempty"`
	StartTime     *time.Time `json:"startTime,omitempty"`
	TotalTime     *float64   `json:"totalTime,omitempty"`
	TotalDistance *float64   `json:"totalDistance,omitempty"`
	AvgSpeed      *float64   `json:"avgSpeed,omitempty"`
	MaxSpeed      *float64   `json:"maxSpeed,omitempty"`
	AvgHeartRate  *float64   `json:"avgHeartRate,omitempty"`
	MaxHeartRate  *float64   `json:"maxHeartRate,omitempty"`
	AvgPower      *float64   `json:"avgPower,omitempty"`
	MaxPower      *float64   `json:"maxPower,omitempty"`
	Calories      *float64   `json:"calories,omitempty"`
	ElevationGain *float64   `json:"elevationGain,omitempty"`
	Temperature   *float64   `json:"temperature,omitempty"`
}

// Record is one sensor sample. Absent readings stay nil rather than zero.
type Record struct {
	Timestamp   *time.Time `json:"timestamp,omitempty"`
	Lat         *float64   `json:"lat,omitempty"`
	Lng         *float64   `json:"lng,omitempty"`
	Altitude    *float64   `json:"altitude,omitempty"`
	Distance    *float64   `json:"distance,omitempty"`
	Speed       *float64   `json:"speed,omitempty"`
	HeartRate   *float64   `json:"heartRate,omitempty"`
	Cadence     *float64   `json:"cadence,omitempty"`
	Power       *float64   `json:"power,omitempty"`
	Temperature *float64   `json:"temperature,omitempty"`
	Grade       *float64   `json:"grade,omitempty"`
}

// Lap is one lap summary row.
type Lap struct {
	StartTime       *time.Time `json:"startTime,omitempty"`
	TotalTime       *float64   `json:"totalTime,omitempty"`
	Distance        *float64   `json:"distance,omitempty"`
	AvgSpeed        *float64   `json:"avgSpeed,omitempty"`
	MaxSpeed        *float64   `json:"maxSpeed,omitempty"`
	AvgHeartRate    *float64   `json:"avgHeartRate,omitempty"`
	MaxHeartRate    *float64   `json:"maxHeartRate,omitempty"`
	AvgCadence      *float64   `json:"avgCadence,omitempty"`
	MaxCadence      *float64   `json:"maxCadence,omitempty"`
	AvgPower        *float64   `json:"avgPower,omitempty"`
	MaxPower        *float64   `json:"maxPower,omitempty"`
	NormalizedPower *float64   `json:"normalizedPower,omitempty"`
	TotalWork       *float64   `json:"totalWork,omitempty"`
	Calories        *float64   `json:"calories,omitempty"`
	Ascent          *float64   `json:"ascent,omitempty"`
	Descent         *float64   `json:"descent,omitempty"`
	Intensity       string     `json:"intensity,omitempty"`
	Trigger         string     `json:"trigger,omitempty"`
	Sport           string     `json:"sport,omitempty"`
}

// Session is one session summary row.
type Session struct {
	StartTime           *time.Time `json:"startTime,omitempty"`
	Sport               string     `json:"sport,omitempty"`
	SubSport            string     `json:"subSport,omitempty"`
	TotalTime           *float64   `json:"totalTime,omitempty"`
	ElapsedTime         *float64   `json:"elapsedTime,omitempty"`
	Distance            *float64   `json:"distance,omitempty"`
	AvgSpeed            *float64   `json:"avgSpeed,omitempty"`
	MaxSpeed            *float64   `json:"maxSpeed,omitempty"`
	AvgHeartRate        *float64   `json:"avgHeartRate,omitempty"`
	MaxHeartRate        *float64   `json:"maxHeartRate,omitempty"`
	MinHeartRate        *float64   `json:"minHeartRate,omitempty"`
	AvgCadence          *float64   `json:"avgCadence,omitempty"`
	MaxCadence          *float64   `json:"maxCadence,omitempty"`
	AvgPower            *float64   `json:"avgPower,omitempty"`
	MaxPower            *float64   `json:"maxPower,omitempty"`
	NormalizedPower     *float64   `json:"normalizedPower,omitempty"`
	TrainingStressScore *float64   `json:"trainingStressScore,omitempty"`
	IntensityFactor     *float64   `json:"intensityFactor,omitempty"`
	TotalWork           *float64   `json:"totalWork,omitempty"`
	Calories            *float64   `json:"calories,omitempty"`
	Ascent              *float64   `json:"ascent,omitempty"`
	Descent             *float64   `json:"descent,omitempty"`
	AvgAltitude         *float64   `json:"avgAltitude,omitempty"`
	MaxAltitude         *float64   `json:"maxAltitude,omitempty"`
	AvgTemperature      *float64   `json:"avgTemperature,omitempty"`
	MaxTemperature      *float64   `json:"maxTemperature,omitempty"`
	NumLaps             *int       `json:"numLaps,omitempty"`
}

// Message is one decoded data message in wire order, before assembly.
type Message struct {
	Offset    int            `json:"offset"`
	Local     uint8          `json:"local"`
	Global    uint16         `json:"global"`
	Name      string         `json:"name"`
	Fields    map[string]any `json:"fields"`
	Timestamp *time.Time     `json:"timestamp,omitempty"`
}

// Warning is a recoverable integrity anomaly found while decoding.
type Warning struct {
	Code   string `json:"code"`
	Offset int    `json:"offset,omitempty"`
	Detail string `json:"detail,omitempty"`
}
