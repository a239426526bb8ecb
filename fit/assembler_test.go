package fit

import (
	"math"
	"testing"
	"time"
)

func TestDecodeDevicePrefersProductName(t *testing.T) {
	var b fileBuilder
	b.definition(0, mesgNumFileID, [3]byte{1, 2, 0x84}).
		data(0, u16le(1)...). // manufacturer garmin
		definition(1, mesgNumDeviceInfo, [3]byte{27, 9, 0x07}).
		data(1, []byte("Edge 530\x00")...)

	act, err := Decode(b.bytes())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if act.Metadata.Device != "Edge 530" {
		t.Fatalf("Device = %q, want %q", act.Metadata.Device, "Edge 530")
	}
}

func TestDecodeDeviceFallsBackToManufacturer(t *testing.T) {
	var b fileBuilder
	b.definition(0, mesgNumFileID, [3]byte{1, 2, 0x84}).
		data(0, u16le(1)...)

	act, err := Decode(b.bytes())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if act.Metadata.Device != "garmin" {
		t.Fatalf("Device = %q, want %q", act.Metadata.Device, "garmin")
	}
}

func TestDecodeSecondSessionKeepsFirstMetadata(t *testing.T) {
	var b fileBuilder
	b.definition(0, mesgNumSession, [3]byte{5, 1, 0x00}, [3]byte{20, 2, 0x84}).
		data(0, concat([]byte{2}, u16le(210))...). // cycling, 210 W
		data(0, concat([]byte{1}, u16le(150))...)  // running, 150 W

	act, err := Decode(b.bytes())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(act.Sessions) != 2 {
		t.Fatalf("Sessions = %d, want 2", len(act.Sessions))
	}
	if act.Sessions[1].Sport != "running" {
		t.Fatalf("Sessions[1].Sport = %q", act.Sessions[1].Sport)
	}
	if act.Metadata.Sport != "cycling" {
		t.Fatalf("Metadata.Sport = %q, want first session's sport", act.Metadata.Sport)
	}
	if act.Metadata.AvgPower == nil || *act.Metadata.AvgPower != 210 {
		t.Fatalf("Metadata.AvgPower = %v, want 210", act.Metadata.AvgPower)
	}
}

func TestDecodeSportMessageWinsOverSession(t *testing.T) {
	var b fileBuilder
	b.definition(0, mesgNumSport, [3]byte{0, 1, 0x00}).
		data(0, 5). // swimming
		definition(1, mesgNumSession, [3]byte{5, 1, 0x00}).
		data(1, 2) // cycling

	act, err := Decode(b.bytes())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if act.Metadata.Sport != "swimming" {
		t.Fatalf("Metadata.Sport = %q, want %q", act.Metadata.Sport, "swimming")
	}
	if len(act.Sessions) != 1 || act.Sessions[0].Sport != "cycling" {
		t.Fatalf("Sessions = %+v", act.Sessions)
	}
}

func TestDecodeActivityPatchesMissingTotals(t *testing.T) {
	end := time.Date(2024, 6, 1, 11, 0, 0, 0, time.UTC)

	var b fileBuilder
	b.definition(0, mesgNumRecord, [3]byte{7, 2, 0x84}).
		data(0, u16le(200)...).
		definition(1, mesgNumActivity, [3]byte{253, 4, 0x86}, [3]byte{0, 4, 0x86}).
		data(1, concat(u32le(fitSeconds(end)), u32le(60_000))...)

	act, err := Decode(b.bytes())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if act.Metadata.TotalTime == nil || *act.Metadata.TotalTime != 60 {
		t.Fatalf("TotalTime = %v, want 60", act.Metadata.TotalTime)
	}
	want := end.Add(-60 * time.Second)
	if act.Metadata.StartTime == nil || !act.Metadata.StartTime.Equal(want) {
		t.Fatalf("StartTime = %v, want %v", act.Metadata.StartTime, want)
	}
}

func TestDecodeActivityDoesNotOverrideSession(t *testing.T) {
	end := time.Date(2024, 6, 1, 11, 0, 0, 0, time.UTC)

	var b fileBuilder
	b.definition(0, mesgNumSession, [3]byte{8, 4, 0x86}).
		data(0, u32le(3_600_000)...). // timer 3600 s
		definition(1, mesgNumActivity, [3]byte{253, 4, 0x86}, [3]byte{0, 4, 0x86}).
		data(1, concat(u32le(fitSeconds(end)), u32le(60_000))...)

	act, err := Decode(b.bytes())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if act.Metadata.TotalTime == nil || *act.Metadata.TotalTime != 3600 {
		t.Fatalf("TotalTime = %v, want the session's 3600", act.Metadata.TotalTime)
	}
}

func TestDecodeLapFields(t *testing.T) {
	start := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

	var b fileBuilder
	b.definition(0, mesgNumLap,
		[3]byte{2, 4, 0x86},  // start_time
		[3]byte{8, 4, 0x86},  // total_timer_time
		[3]byte{9, 4, 0x86},  // total_distance
		[3]byte{11, 2, 0x84}, // total_calories
		[3]byte{20, 2, 0x84}, // max_power
		[3]byte{21, 2, 0x84}, // total_ascent
		[3]byte{22, 2, 0x84}, // total_descent
		[3]byte{23, 1, 0x00}, // intensity
		[3]byte{24, 1, 0x00}, // lap_trigger
		[3]byte{25, 1, 0x00}, // sport
	).data(0, concat(
		u32le(fitSeconds(start)),
		u32le(330_000), // 330 s
		u32le(500_000), // 5000 m
		u16le(250),
		u16le(480),
		u16le(120),
		u16le(80),
		[]byte{0, 7, 2},
	)...)

	act, err := Decode(b.bytes())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(act.Laps) != 1 {
		t.Fatalf("Laps = %d, want 1", len(act.Laps))
	}
	lap := act.Laps[0]
	if lap.StartTime == nil || !lap.StartTime.Equal(start) {
		t.Fatalf("StartTime = %v, want %v", lap.StartTime, start)
	}
	if lap.TotalTime == nil || *lap.TotalTime != 330 {
		t.Fatalf("TotalTime = %v, want 330", lap.TotalTime)
	}
	if lap.Distance == nil || *lap.Distance != 5000 {
		t.Fatalf("Distance = %v, want 5000", lap.Distance)
	}
	if lap.Calories == nil || *lap.Calories != 250 {
		t.Fatalf("Calories = %v, want 250", lap.Calories)
	}
	if lap.MaxPower == nil || *lap.MaxPower != 480 {
		t.Fatalf("MaxPower = %v, want 480", lap.MaxPower)
	}
	if lap.Ascent == nil || *lap.Ascent != 120 {
		t.Fatalf("Ascent = %v, want 120", lap.Ascent)
	}
	if lap.Descent == nil || *lap.Descent != 80 {
		t.Fatalf("Descent = %v, want 80", lap.Descent)
	}
	if lap.Intensity != "active" {
		t.Fatalf("Intensity = %q", lap.Intensity)
	}
	if lap.Trigger != "session_end" {
		t.Fatalf("Trigger = %q", lap.Trigger)
	}
	if lap.Sport != "cycling" {
		t.Fatalf("Sport = %q", lap.Sport)
	}
}

func TestDecodeLapFallsBackToElapsedTime(t *testing.T) {
	var b fileBuilder
	b.definition(0, mesgNumLap, [3]byte{7, 4, 0x86}).
		data(0, u32le(100_000)...)

	act, err := Decode(b.bytes())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(act.Laps) != 1 || act.Laps[0].TotalTime == nil || *act.Laps[0].TotalTime != 100 {
		t.Fatalf("Laps = %+v", act.Laps)
	}
}

func TestDecodeRecordPositionsToDegrees(t *testing.T) {
	lat := int32(52.5 * semicirclesPerDegree)
	lng := int32(13.4 * semicirclesPerDegree)

	var b fileBuilder
	b.definition(0, mesgNumRecord, [3]byte{0, 4, 0x85}, [3]byte{1, 4, 0x85}).
		data(0, concat(u32le(uint32(lat)), u32le(uint32(lng)))...)

	act, err := Decode(b.bytes())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(act.Records) != 1 {
		t.Fatalf("Records = %d", len(act.Records))
	}
	rec := act.Records[0]
	if rec.Lat == nil || math.Abs(*rec.Lat-52.5) > 1e-6 {
		t.Fatalf("Lat = %v, want ~52.5", rec.Lat)
	}
	if rec.Lng == nil || math.Abs(*rec.Lng-13.4) > 1e-6 {
		t.Fatalf("Lng = %v, want ~13.4", rec.Lng)
	}
}

func TestDecodeSessionEnhancedFieldsPreferred(t *testing.T) {
	var b fileBuilder
	b.definition(0, mesgNumSession,
		[3]byte{14, 2, 0x84},  // avg_speed
		[3]byte{124, 4, 0x86}, // enhanced_avg_speed
	).data(0, concat(u16le(9_000), u32le(9_500))...)

	act, err := Decode(b.bytes())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(act.Sessions) != 1 {
		t.Fatalf("Sessions = %d", len(act.Sessions))
	}
	if got := act.Sessions[0].AvgSpeed; got == nil || *got != 9.5 {
		t.Fatalf("AvgSpeed = %v, want enhanced 9.5", got)
	}
}
