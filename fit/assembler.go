package fit

import (
	"fmt"
	"time"
)

// assembler folds decoded messages into the activity-level result. Metadata
// slots fill first-wins: the first session populates the summary, and the
// activity message only patches what is still empty.
type assembler struct {
	act          *Activity
	warn         func(code string, offset int, detail string)
	manufacturer string
	productName  string
	lastRecordTS *time.Time
}

func newAssembler(warn func(string, int, string)) *assembler {
	return &assembler{
		act: &Activity{
			Records:  []Record{},
			Laps:     []Lap{},
			Sessions: []Session{},
			Warnings: []Warning{},
		},
		warn: warn,
	}
}

func (a *assembler) fold(msg Message) {
	switch msg.Global {
	case mesgNumFileID:
		if a.manufacturer == "" {
			a.manufacturer = fieldString(msg.Fields["manufacturer"])
		}
	case mesgNumDeviceInfo:
		if a.productName == "" {
			a.productName = fieldString(msg.Fields["product_name"])
		}
		if a.manufacturer == "" {
			a.manufacturer = fieldString(msg.Fields["manufacturer"])
		}
	case mesgNumSport:
		if a.act.Metadata.Sport == "" {
			a.act.Metadata.Sport = fieldString(msg.Fields["sport"])
		}
	case mesgNumRecord:
		a.foldRecord(msg)
	case mesgNumLap:
		a.act.Laps = append(a.act.Laps, lapFromMessage(msg))
	case mesgNumSession:
		a.foldSession(msg)
	case mesgNumActivity:
		a.foldActivity(msg)
	}
}

func (a *assembler) finish() *Activity {
	switch {
	case a.productName != "":
		a.act.Metadata.Device = a.productName
	case a.manufacturer != "":
		a.act.Metadata.Device = a.manufacturer
	}
	return a.act
}

func (a *assembler) foldRecord(msg Message) {
	f := msg.Fields
	rec := Record{
		Timestamp:   msg.Timestamp,
		Lat:         fieldFloat(f["position_lat"]),
		Lng:         fieldFloat(f["position_long"]),
		Altitude:    firstFloat(f["enhanced_altitude"], f["altitude"]),
		Distance:    fieldFloat(f["distance"]),
		Speed:       firstFloat(f["enhanced_speed"], f["speed"]),
		HeartRate:   fieldFloat(f["heart_rate"]),
		Cadence:     fieldFloat(f["cadence"]),
		Power:       fieldFloat(f["power"]),
		Temperature: fieldFloat(f["temperature"]),
		Grade:       fieldFloat(f["grade"]),
	}

	if rec.Timestamp != nil {
		if a.lastRecordTS != nil && rec.Timestamp.Before(*a.lastRecordTS) {
			a.warn("out_of_order_timestamp", msg.Offset, fmt.Sprintf("record at %s precedes %s",
				rec.Timestamp.Format(time.RFC3339), a.lastRecordTS.Format(time.RFC3339)))
		}
		a.lastRecordTS = rec.Timestamp
	}

	a.act.Records = append(a.act.Records, rec)
}

func lapFromMessage(msg Message) Lap {
	f := msg.Fields
	return Lap{
		StartTime:       fieldTime(f["start_time"]),
		TotalTime:       firstFloat(f["total_timer_time"], f["total_elapsed_time"]),
		Distance:        fieldFloat(f["total_distance"]),
		AvgSpeed:        firstFloat(f["enhanced_avg_speed"], f["avg_speed"]),
		MaxSpeed:        firstFloat(f["enhanced_max_speed"], f["max_speed"]),
		AvgHeartRate:    fieldFloat(f["avg_heart_rate"]),
		MaxHeartRate:    fieldFloat(f["max_heart_rate"]),
		AvgCadence:      fieldFloat(f["avg_cadence"]),
		MaxCadence:      fieldFloat(f["max_cadence"]),
		AvgPower:        fieldFloat(f["avg_power"]),
		MaxPower:        fieldFloat(f["max_power"]),
		NormalizedPower: fieldFloat(f["normalized_power"]),
		TotalWork:       fieldFloat(f["total_work"]),
		Calories:        fieldFloat(f["total_calories"]),
		Ascent:          fieldFloat(f["total_ascent"]),
		Descent:         fieldFloat(f["total_descent"]),
		Intensity:       fieldString(f["intensity"]),
		Trigger:         fieldString(f["lap_trigger"]),
		Sport:           fieldString(f["sport"]),
	}
}

func sessionFromMessage(msg Message) Session {
	f := msg.Fields
	return Session{
		StartTime:           fieldTime(f["start_time"]),
		Sport:               fieldString(f["sport"]),
		SubSport:            fieldString(f["sub_sport"]),
		TotalTime:           fieldFloat(f["total_timer_time"]),
		ElapsedTime:         fieldFloat(f["total_elapsed_time"]),
		Distance:            fieldFloat(f["total_distance"]),
		AvgSpeed:            firstFloat(f["enhanced_avg_speed"], f["avg_speed"]),
		MaxSpeed:            firstFloat(f["enhanced_max_speed"], f["max_speed"]),
		AvgHeartRate:        fieldFloat(f["avg_heart_rate"]),
		MaxHeartRate:        fieldFloat(f["max_heart_rate"]),
		MinHeartRate:        fieldFloat(f["min_heart_rate"]),
		AvgCadence:          fieldFloat(f["avg_cadence"]),
		MaxCadence:          fieldFloat(f["max_cadence"]),
		AvgPower:            fieldFloat(f["avg_power"]),
		MaxPower:            fieldFloat(f["max_power"]),
		NormalizedPower:     fieldFloat(f["normalized_power"]),
		TrainingStressScore: fieldFloat(f["training_stress_score"]),
		IntensityFactor:     fieldFloat(f["intensity_factor"]),
		TotalWork:           fieldFloat(f["total_work"]),
		Calories:            fieldFloat(f["total_calories"]),
		Ascent:              fieldFloat(f["total_ascent"]),
		Descent:             fieldFloat(f["total_descent"]),
		AvgAltitude:         firstFloat(f["enhanced_avg_altitude"], f["avg_altitude"]),
		MaxAltitude:         firstFloat(f["enhanced_max_altitude"], f["max_altitude"]),
		AvgTemperature:      fieldFloat(f["avg_temperature"]),
		MaxTemperature:      fieldFloat(f["max_temperature"]),
		NumLaps:             fieldInt(f["num_laps"]),
	}
}

func (a *assembler) foldSession(msg Message) {
	s := sessionFromMessage(msg)
	a.act.Sessions = append(a.act.Sessions, s)

	m := &a.act.Metadata
	if m.Sport == "" {
		m.Sport = s.Sport
	}
	if m.StartTime == nil {
		m.StartTime = s.StartTime
	}
	if m.TotalTime == nil {
		m.TotalTime = s.TotalTime
	}
	if m.TotalDistance == nil {
		m.TotalDistance = s.Distance
	}
	if m.AvgSpeed == nil {
		m.AvgSpeed = s.AvgSpeed
	}
	if m.MaxSpeed == nil {
		m.MaxSpeed = s.MaxSpeed
	}
	if m.AvgHeartRate == nil {
		m.AvgHeartRate = s.AvgHeartRate
	}
	if m.MaxHeartRate == nil {
		m.MaxHeartRate = s.MaxHeartRate
	}
	if m.AvgPower == nil {
		m.AvgPower = s.AvgPower
	}
	if m.MaxPower == nil {
		m.MaxPower = s.MaxPower
	}
	if m.Calories == nil {
		m.Calories = s.Calories
	}
	if m.ElevationGain == nil {
		m.ElevationGain = s.Ascent
	}
	if m.Temperature == nil {
		m.Temperature = s.AvgTemperature
	}
}

// foldActivity patches summary slots a session never filled. The activity
// message carries the end-of-activity timestamp, so the start time is the
// timestamp minus the total timer time.
func (a *assembler) foldActivity(msg Message) {
	m := &a.act.Metadata
	total := fieldFloat(msg.Fields["total_timer_time"])
	if m.TotalTime == nil {
		m.TotalTime = total
	}
	if m.StartTime == nil && msg.Timestamp != nil && total != nil {
		start := msg.Timestamp.Add(-time.Duration(*total * float64(time.Second)))
		m.StartTime = &start
	}
}

func fieldFloat(v any) *float64 {
	switch x := v.(type) {
	case float64:
		return &x
	case uint8:
		f := float64(x)
		return &f
	case int8:
		f := float64(x)
		return &f
	case uint16:
		f := float64(x)
		return &f
	case int16:
		f := float64(x)
		return &f
	case uint32:
		f := float64(x)
		return &f
	case int32:
		f := float64(x)
		return &f
	case uint64:
		f := float64(x)
		return &f
	case int64:
		f := float64(x)
		return &f
	}
	return nil
}

func firstFloat(values ...any) *float64 {
	for _, v := range values {
		if f := fieldFloat(v); f != nil {
			return f
		}
	}
	return nil
}

func fieldInt(v any) *int {
	f := fieldFloat(v)
	if f == nil {
		return nil
	}
	n := int(*f)
	return &n
}

func fieldString(v any) string {
	s, _ := v.(string)
	return s
}

func fieldTime(v any) *time.Time {
	if t, ok := v.(time.Time); ok {
		return &t
	}
	return nil
}
