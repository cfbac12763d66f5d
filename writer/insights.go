package writer

import (
	"encoding/json"
	"math"

	"matchflow/models"
)

// BuildInsights derives the summary artifact from a finished timeline. Counts
// follow the fixed event type order and peak timestamps are the start of each
// peak bucket, so identical timelines produce identical insights.
func BuildInsights(timeline *models.Timeline) models.Insights {
	insights := models.Insights{
		RunID:          timeline.RunID,
		MatchName:      timeline.MatchName,
		EventCounts:    []models.EventCount{},
		Timeline:       []models.TimelineRow{},
		PeakTimestamps: []float64{},
		EventSection:   timeline.EventSection,
		CurveSection:   timeline.CurveSection,
		Warnings:       timeline.Warnings,
	}

	counts := make(map[models.EventType]int)
	for _, ev := range timeline.Events {
		counts[ev.Type]++
	}
	for _, t := range models.EventTypes {
		if counts[t] > 0 {
			insights.EventCounts = append(insights.EventCounts, models.EventCount{Type: t, Count: counts[t]})
		}
	}

	// Canonical events are already ordered by timestamp, so the timeline rows
	// come out chronological.
	for _, ev := range timeline.Events {
		insights.Timeline = append(insights.Timeline, models.TimelineRow{
			Minute:    int(ev.Timestamp / 60),
			Type:      ev.Type,
			Timestamp: ev.Timestamp,
		})
	}

	if timeline.CurveSection.Present && len(timeline.Curve) > 0 {
		sum := 0.0
		max := 0.0
		for _, b := range timeline.Curve {
			sum += b.Excitement
			if b.Excitement > max {
				max = b.Excitement
			}
		}
		insights.MeanExcitement = sum / float64(len(timeline.Curve))
		insights.MaxExcitement = max

		insights.PeakCount = len(timeline.Peaks)
		for _, idx := range timeline.Peaks {
			insights.PeakTimestamps = append(insights.PeakTimestamps, timeline.Curve[idx].Bucket.Start)
		}
	}

	return insights
}

// renderInsightsJSON serializes insights with floats rounded to four decimal
// places so repeated runs over the same data stay byte-identical.
func renderInsightsJSON(insights models.Insights) ([]byte, error) {
	insights.MeanExcitement = round4(insights.MeanExcitement)
	insights.MaxExcitement = round4(insights.MaxExcitement)
	for i := range insights.PeakTimestamps {
		insights.PeakTimestamps[i] = round4(insights.PeakTimestamps[i])
	}
	for i := range insights.Timeline {
		insights.Timeline[i].Timestamp = round4(insights.Timeline[i].Timestamp)
	}
	return json.MarshalIndent(insights, "", "  ")
}

// renderTimelineJSON serializes the full timeline, floats rounded the same
// way as the insights.
func renderTimelineJSON(timeline *models.Timeline) ([]byte, error) {
	out := *timeline
	out.MatchDuration = round4(out.MatchDuration)
	out.BucketWidth = round4(out.BucketWidth)

	out.Events = make([]models.CanonicalEvent, len(timeline.Events))
	for i, ev := range timeline.Events {
		ev.Timestamp = round4(ev.Timestamp)
		ev.Confidence = round4(ev.Confidence)
		out.Events[i] = ev
	}

	out.Curve = make([]models.FusedBucket, len(timeline.Curve))
	for i, b := range timeline.Curve {
		b.Bucket.Start = round4(b.Bucket.Start)
		b.Bucket.End = round4(b.Bucket.End)
		b.Excitement = round4(b.Excitement)
		b.SentimentNorm = round4(b.SentimentNorm)
		b.LoudnessNorm = round4(b.LoudnessNorm)
		out.Curve[i] = b
	}

	return json.MarshalIndent(&out, "", "  ")
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
