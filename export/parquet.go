package export

import (
	"io"
	"math"
	"time"

	parquetbuffer "github.com/xitongsys/parquet-go-source/buffer"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/adrian9211/private-coach/fit"
)

// recordRow flattens one record for the parquet table. Absent channels are
// written as NaN so every row has the full column set.
type recordRow struct {
	Timestamp    string  `parquet:"name=timestamp, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Lat          float64 `parquet:"name=lat, type=DOUBLE"`
	Lng          float64 `parquet:"name=lng, type=DOUBLE"`
	AltitudeM    float64 `parquet:"name=altitude_m, type=DOUBLE"`
	DistanceM    float64 `parquet:"name=distance_m, type=DOUBLE"`
	SpeedMPS     float64 `parquet:"name=speed_mps, type=DOUBLE"`
	HRBPM        float64 `parquet:"name=hr_bpm, type=DOUBLE"`
	CadenceRPM   float64 `parquet:"name=cadence_rpm, type=DOUBLE"`
	PowerW       float64 `parquet:"name=power_w, type=DOUBLE"`
	TemperatureC float64 `parquet:"name=temperature_c, type=DOUBLE"`
	GradePct     float64 `parquet:"name=grade_pct, type=DOUBLE"`
}

func writeRecordsParquet(w io.Writer, records []fit.Record) error {
	fw := parquetbuffer.NewBufferFile()
	pw, err := writer.NewParquetWriter(fw, new(recordRow), 4)
	if err != nil {
		return err
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	for _, rec := range records {
		row := recordRow{
			Lat:          valueOrNaN(rec.Lat),
			Lng:          valueOrNaN(rec.Lng),
			AltitudeM:    valueOrNaN(rec.Altitude),
			DistanceM:    valueOrNaN(rec.Distance),
			SpeedMPS:     valueOrNaN(rec.Speed),
			HRBPM:        valueOrNaN(rec.HeartRate),
			CadenceRPM:   valueOrNaN(rec.Cadence),
			PowerW:       valueOrNaN(rec.Power),
			TemperatureC: valueOrNaN(rec.Temperature),
			GradePct:     valueOrNaN(rec.Grade),
		}
		if rec.Timestamp != nil {
			row.Timestamp = rec.Timestamp.UTC().Format(time.RFC3339)
		}
		if err := pw.Write(row); err != nil {
			_ = pw.WriteStop()
			return err
		}
	}
	if err := pw.WriteStop(); err != nil {
		return err
	}
	if err := fw.Close(); err != nil {
		return err
	}

	_, err = w.Write(fw.Bytes())
	return err
}

func valueOrNaN(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}
