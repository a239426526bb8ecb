// Package export writes a decoded activity as a bundle of analysis-ready
// artifacts: a parquet record table, JSONL records, CSV summaries, and a
// metadata manifest.
package export

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/adrian9211/private-coach/fit"
)

// FormatVersion identifies the bundle layout for downstream readers.
const FormatVersion = "1"

const (
	recordsParquetName = "records.parquet"
	recordsJSONLName   = "records.jsonl"
	lapsCSVName        = "laps.csv"
	sessionsCSVName    = "sessions.csv"
	metaName           = "meta.json"
)

// Options configures a Write call.
type Options struct {
	// SourceName is recorded in meta.json, typically the uploaded file name.
	SourceName string
}

// Result reports what Write produced.
type Result struct {
	Artifacts    []string `json:"artifacts"`
	RecordCount  int      `json:"recordCount"`
	LapCount     int      `json:"lapCount"`
	SessionCount int      `json:"sessionCount"`
}

// Meta is the meta.json document.
type Meta struct {
	FormatVersion string        `json:"formatVersion"`
	GeneratedAt   time.Time     `json:"generatedAt"`
	Source        string        `json:"source,omitempty"`
	Metadata      fit.Metadata  `json:"metadata"`
	RecordCount   int           `json:"recordCount"`
	LapCount      int           `json:"lapCount"`
	SessionCount  int           `json:"sessionCount"`
	Warnings      []fit.Warning `json:"warnings"`
}

// Write produces the artifact bundle for one activity through the sink.
func Write(act *fit.Activity, sink Sink, opts Options) (*Result, error) {
	if act == nil {
		return nil, fmt.Errorf("activity is required")
	}
	if sink == nil {
		return nil, fmt.Errorf("sink is required")
	}

	if err := writeArtifact(sink, recordsParquetName, func(w io.Writer) error {
		return writeRecordsParquet(w, act.Records)
	}); err != nil {
		return nil, fmt.Errorf("write %s: %w", recordsParquetName, err)
	}

	if err := writeArtifact(sink, recordsJSONLName, func(w io.Writer) error {
		return writeRecordsJSONL(w, act.Records)
	}); err != nil {
		return nil, fmt.Errorf("write %s: %w", recordsJSONLName, err)
	}

	if err := writeArtifact(sink, lapsCSVName, func(w io.Writer) error {
		return writeLapsCSV(w, act.Laps)
	}); err != nil {
		return nil, fmt.Errorf("write %s: %w", lapsCSVName, err)
	}

	if err := writeArtifact(sink, sessionsCSVName, func(w io.Writer) error {
		return writeSessionsCSV(w, act.Sessions)
	}); err != nil {
		return nil, fmt.Errorf("write %s: %w", sessionsCSVName, err)
	}

	meta := Meta{
		FormatVersion: FormatVersion,
		GeneratedAt:   time.Now().UTC(),
		Source:        opts.SourceName,
		Metadata:      act.Metadata,
		RecordCount:   len(act.Records),
		LapCount:      len(act.Laps),
		SessionCount:  len(act.Sessions),
		Warnings:      act.Warnings,
	}
	if meta.Warnings == nil {
		meta.Warnings = []fit.Warning{}
	}
	if err := writeArtifact(sink, metaName, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(meta)
	}); err != nil {
		return nil, fmt.Errorf("write %s: %w", metaName, err)
	}

	return &Result{
		Artifacts:    []string{recordsParquetName, recordsJSONLName, lapsCSVName, sessionsCSVName, metaName},
		RecordCount:  len(act.Records),
		LapCount:     len(act.Laps),
		SessionCount: len(act.Sessions),
	}, nil
}

func writeArtifact(sink Sink, name string, fn func(io.Writer) error) error {
	w, err := sink.Create(name)
	if err != nil {
		return err
	}
	if err := fn(w); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}

func writeRecordsJSONL(w io.Writer, records []fit.Record) error {
	buf := bufio.NewWriterSize(w, 1<<20)
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	for _, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return err
		}
	}
	return buf.Flush()
}

func writeLapsCSV(w io.Writer, laps []fit.Lap) error {
	cw := csv.NewWriter(w)
	header := []string{
		"index", "start_time", "total_time_s", "distance_m",
		"avg_speed_mps", "max_speed_mps", "avg_heart_rate", "max_heart_rate",
		"avg_power_w", "max_power_w", "normalized_power_w", "calories_kcal",
		"ascent_m", "descent_m", "intensity", "trigger", "sport",
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for i, lap := range laps {
		row := []string{
			strconv.Itoa(i + 1),
			csvTime(lap.StartTime),
			csvFloat(lap.TotalTime),
			csvFloat(lap.Distance),
			csvFloat(lap.AvgSpeed),
			csvFloat(lap.MaxSpeed),
			csvFloat(lap.AvgHeartRate),
			csvFloat(lap.MaxHeartRate),
			csvFloat(lap.AvgPower),
			csvFloat(lap.MaxPower),
			csvFloat(lap.NormalizedPower),
			csvFloat(lap.Calories),
			csvFloat(lap.Ascent),
			csvFloat(lap.Descent),
			lap.Intensity,
			lap.Trigger,
			lap.Sport,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeSessionsCSV(w io.Writer, sessions []fit.Session) error {
	cw := csv.NewWriter(w)
	header := []string{
		"index", "sport", "sub_sport", "start_time", "total_time_s",
		"elapsed_time_s", "distance_m", "avg_speed_mps", "max_speed_mps",
		"avg_heart_rate", "max_heart_rate", "avg_power_w", "max_power_w",
		"normalized_power_w", "training_stress_score", "intensity_factor",
		"calories_kcal", "ascent_m", "descent_m",
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for i, s := range sessions {
		row := []string{
			strconv.Itoa(i + 1),
			s.Sport,
			s.SubSport,
			csvTime(s.StartTime),
			csvFloat(s.TotalTime),
			csvFloat(s.ElapsedTime),
			csvFloat(s.Distance),
			csvFloat(s.AvgSpeed),
			csvFloat(s.MaxSpeed),
			csvFloat(s.AvgHeartRate),
			csvFloat(s.MaxHeartRate),
			csvFloat(s.AvgPower),
			csvFloat(s.MaxPower),
			csvFloat(s.NormalizedPower),
			csvFloat(s.TrainingStressScore),
			csvFloat(s.IntensityFactor),
			csvFloat(s.Calories),
			csvFloat(s.Ascent),
			csvFloat(s.Descent),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func csvFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func csvTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
