package processor

import (
	"sort"

	"matchflow/models"
)

// MergeEvents collapses near-duplicate raw detections into canonical events.
// Commentary repeats its cues ("goal... it's a goal!"), so detections of the
// same type are chained while each successive mention stays within the merge
// window of the previous one. The window slides with the most recent
// contributor, not the first, so a burst spread wider than one window still
// collapses as long as the gaps between mentions stay small.
//
// A canonical event takes the timestamp of its first contributor (earliest
// mention is the moment of occurrence), the maximum confidence among
// contributors, and counts them. Raw events below the confidence threshold
// are dropped as noise before merging.
func MergeEvents(events []models.RawEvent, mergeWindow, confidenceThreshold float64) []models.CanonicalEvent {
	accepted := make([]models.RawEvent, 0, len(events))
	for _, e := range events {
		if e.Confidence < confidenceThreshold {
			continue
		}
		accepted = append(accepted, e)
	}
	if len(accepted) == 0 {
		return []models.CanonicalEvent{}
	}

	sort.SliceStable(accepted, func(i, j int) bool {
		if accepted[i].Timestamp != accepted[j].Timestamp {
			return accepted[i].Timestamp < accepted[j].Timestamp
		}
		return accepted[i].Type < accepted[j].Type
	})

	// Scan each type independently; detections of different types never merge.
	type open struct {
		canonical models.CanonicalEvent
		lastSeen  float64
	}
	current := make(map[models.EventType]*open)
	merged := make([]models.CanonicalEvent, 0, len(accepted))

	closeOpen := func(o *open) {
		merged = append(merged, o.canonical)
	}

	for _, e := range accepted {
		o, ok := current[e.Type]
		if ok && e.Timestamp-o.lastSeen <= mergeWindow {
			o.lastSeen = e.Timestamp
			if e.Confidence > o.canonical.Confidence {
				o.canonical.Confidence = e.Confidence
			}
			o.canonical.SupportingCount++
			continue
		}
		if ok {
			closeOpen(o)
		}
		current[e.Type] = &open{
			canonical: models.CanonicalEvent{
				Type:            e.Type,
				Timestamp:       e.Timestamp,
				Confidence:      e.Confidence,
				SupportingCount: 1,
			},
			lastSeen: e.Timestamp,
		}
	}
	for _, t := range models.EventTypes {
		if o, ok := current[t]; ok {
			closeOpen(o)
		}
	}

	sort.Slice(merged, func(i, j int) bool {
		if merged[i].Timestamp != merged[j].Timestamp {
			return merged[i].Timestamp < merged[j].Timestamp
		}
		return merged[i].Type < merged[j].Type
	})

	return merged
}
