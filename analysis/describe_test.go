package analysis

import (
	"strings"
	"testing"
	"time"

	"github.com/adrian9211/private-coach/fit"
)

func TestDescribeSummarizesActivity(t *testing.T) {
	start := time.Date(2024, 5, 12, 8, 30, 0, 0, time.UTC)
	act := &fit.Activity{
		Metadata: fit.Metadata{
			Device:        "Edge 530",
			Sport:         "cycling",
			StartTime:     &start,
			TotalTime:     ptr(3600),
			TotalDistance: ptr(30_000),
			AvgPower:      ptr(200),
			MaxPower:      ptr(450),
			AvgSpeed:      ptr(8.333),
			MaxSpeed:      ptr(15),
			ElevationGain: ptr(420),
		},
		Records:  make([]fit.Record, 3600),
		Laps:     make([]fit.Lap, 2),
		Sessions: make([]fit.Session, 1),
	}

	out := Describe(act)

	for _, want := range []string{
		"cycling on Edge 530",
		"Start: 2024-05-12 08:30:00",
		"Duration 1h00m00s",
		"Distance 30.0 km",
		"Elevation +420 m",
		"Power 200 avg / 450 max W",
		"Speed 30.0 avg / 54.0 max km/h",
		"Records 3600 | Laps 2 | Sessions 1",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("summary missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Warnings") {
		t.Fatalf("summary should not mention warnings:\n%s", out)
	}
}

func TestDescribeMentionsWarnings(t *testing.T) {
	act := &fit.Activity{
		Warnings: []fit.Warning{{Code: "crc_mismatch", Offset: 120}},
	}
	out := Describe(act)
	if !strings.Contains(out, "Warnings 1 (first: crc_mismatch at byte 120)") {
		t.Fatalf("summary missing warning line:\n%s", out)
	}
}

func TestDescribeEmptyActivity(t *testing.T) {
	out := Describe(&fit.Activity{})
	if !strings.Contains(out, "activity") {
		t.Fatalf("summary missing sport placeholder:\n%s", out)
	}
	if !strings.Contains(out, "Records 0 | Laps 0 | Sessions 0") {
		t.Fatalf("summary missing counts:\n%s", out)
	}
	if Describe(nil) != "" {
		t.Fatal("Describe(nil) should be empty")
	}
}

func TestFormatDuration(t *testing.T) {
	cases := map[float64]string{
		0:    "0s",
		59:   "59s",
		75:   "1m15s",
		3661: "1h01m01s",
	}
	for in, want := range cases {
		if got := formatDuration(in); got != want {
			t.Fatalf("formatDuration(%v) = %q, want %q", in, got, want)
		}
	}
}
