package writer

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"matchflow/models"
)

// renderCurveCSV serializes the excitement curve, one row per bucket in axis
// order.
func renderCurveCSV(timeline *models.Timeline) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"bucket_index", "bucket_start", "bucket_end", "excitement", "sentiment_norm", "loudness_norm", "is_peak"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, b := range timeline.Curve {
		record := []string{
			strconv.Itoa(b.Bucket.Index),
			formatFloat(b.Bucket.Start),
			formatFloat(b.Bucket.End),
			formatFloat(b.Excitement),
			formatFloat(b.SentimentNorm),
			formatFloat(b.LoudnessNorm),
			strconv.FormatBool(b.IsPeak),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
