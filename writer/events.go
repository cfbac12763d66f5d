package writer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/source"
	pqwriter "github.com/xitongsys/parquet-go/writer"

	"matchflow/models"
)

// EventRecord is the parquet row schema for canonical events.
type EventRecord struct {
	RunID           string  `parquet:"name=run_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	MatchName       string  `parquet:"name=match_name, type=BYTE_ARRAY, convertedtype=UTF8"`
	Type            string  `parquet:"name=type, type=BYTE_ARRAY, convertedtype=UTF8"`
	Timestamp       float64 `parquet:"name=timestamp, type=DOUBLE"`
	Confidence      float64 `parquet:"name=confidence, type=DOUBLE"`
	SupportingCount int32   `parquet:"name=supporting_count, type=INT32"`
}

// memoryFileWriter implements ParquetFile for in-memory writing.
type memoryFileWriter struct {
	buffer *bytes.Buffer
}

func newMemoryFileWriter() *memoryFileWriter {
	return &memoryFileWriter{buffer: &bytes.Buffer{}}
}

func (mfw *memoryFileWriter) Create(name string) (source.ParquetFile, error) { return mfw, nil }
func (mfw *memoryFileWriter) Open(name string) (source.ParquetFile, error)   { return mfw, nil }
func (mfw *memoryFileWriter) Seek(offset int64, whence int) (int64, error) {
	return int64(mfw.buffer.Len()), nil
}
func (mfw *memoryFileWriter) Read(b []byte) (int, error)  { return mfw.buffer.Read(b) }
func (mfw *memoryFileWriter) Write(b []byte) (int, error) { return mfw.buffer.Write(b) }
func (mfw *memoryFileWriter) Close() error                { return nil }
func (mfw *memoryFileWriter) Bytes() []byte               { return mfw.buffer.Bytes() }

// renderEventsCSV serializes the canonical event list. Events are already
// ordered by timestamp then type, so identical timelines produce identical
// bytes.
func renderEventsCSV(timeline *models.Timeline) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"type", "timestamp", "confidence", "supporting_count"}); err != nil {
		return nil, err
	}
	for _, ev := range timeline.Events {
		record := []string{
			string(ev.Type),
			formatFloat(ev.Timestamp),
			formatFloat(ev.Confidence),
			strconv.Itoa(ev.SupportingCount),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// renderEventsParquet serializes the canonical event list as an in-memory
// parquet file.
func renderEventsParquet(timeline *models.Timeline) ([]byte, error) {
	fw := newMemoryFileWriter()

	pw, err := pqwriter.NewParquetWriter(fw, new(EventRecord), 1)
	if err != nil {
		return nil, fmt.Errorf("failed to create parquet writer: %w", err)
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	for _, ev := range timeline.Events {
		record := EventRecord{
			RunID:           timeline.RunID,
			MatchName:       timeline.MatchName,
			Type:            string(ev.Type),
			Timestamp:       ev.Timestamp,
			Confidence:      ev.Confidence,
			SupportingCount: int32(ev.SupportingCount),
		}
		if err := pw.Write(record); err != nil {
			pw.WriteStop()
			return nil, fmt.Errorf("failed to write parquet record: %w", err)
		}
	}
	if err := pw.WriteStop(); err != nil {
		return nil, fmt.Errorf("failed to finalize parquet writing: %w", err)
	}

	return fw.Bytes(), nil
}
