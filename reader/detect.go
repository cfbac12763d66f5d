package reader

import (
	"fmt"
	"regexp"
	"strings"

	appconfig "matchflow/config"
	"matchflow/logger"
	"matchflow/models"
)

// defaultPatterns maps each event type to the commentary phrases that signal
// it. Matching is done on lowercased text. The goal list includes spoken
// scorelines because commentators often announce the score instead of
// describing the shot.
var defaultPatterns = map[models.EventType][]string{
	models.EventGoal: {
		`\b(he scores|scores!|scored!|it'?s a goal|what a goal|brilliant goal)`,
		`\b(puts? it in|into the net|back of the net|finds? the net|roof of the net)\b`,
		`\b(first goal|second goal|third goal|opening goal|opens? the scoring)\b`,
		`\b(brilliant finish|lovely finish|clinical finish|tucks it away)\b`,
		`\b(breaks? the deadlock|doubles the lead|seals? the victory)\b`,
		`\b(smashed in the rebound|and it's in)\b`,
		`\b(one null|two null|three null|four null|five null)\b`,
		`\b(one one|two one|three one|two two|three two)\b`,
		`\b(1-0|2-0|3-0|4-0|1-1|2-1|3-1|2-2|3-2)\b`,
	},
	models.EventFoul: {
		`\b(foul|fouls?|fouled|tackle|tackled|brought down|pulled back)\b`,
		`\b(trips?|tripped|push|pushed|shoved)\b`,
	},
	models.EventYellowCard: {
		`\b(yellow card|booked|booking|caution|cautioned)\b`,
		`\b(shown yellow|gets? a yellow|receives? a yellow)\b`,
	},
	models.EventRedCard: {
		`\b(red card|sent off|sending off|dismissed|ejected)\b`,
		`\b(straight red|second yellow|off he goes)\b`,
	},
	models.EventOffside: {
		`\b(offside|off-?side|flag is up|linesman'?s flag)\b`,
	},
	models.EventSubstitution: {
		`\b(substitution|sub|replaced|replacing|goes? off)\b`,
		`\b(brings? on|takes? off)\b`,
	},
	models.EventInjury: {
		`\b(injury|hurt|treatment|stretcher|medical)\b`,
		`\b(holding|injured|limping|medic)\b`,
	},
}

type typePatterns struct {
	eventType  models.EventType
	patterns   []*regexp.Regexp
	confidence float64
}

// EventDetector scans transcript segments for commentary cues. Each segment
// yields at most one raw event: types are tried in a fixed order and the
// first one with a matching pattern wins, so a segment describing a goal and
// the celebration noise around it does not also count as a foul.
type EventDetector struct {
	table []typePatterns
	log   *logger.Log
}

// NewEventDetector compiles the detection table. The configured overrides
// replace the built-in patterns for their event type; types without an
// override keep the defaults. A pattern match carries the type's configured
// confidence, or 1.0 when unset.
func NewEventDetector(overrides []appconfig.PatternConfig) (*EventDetector, error) {
	byType := make(map[models.EventType]appconfig.PatternConfig, len(overrides))
	for _, o := range overrides {
		byType[models.EventType(o.Type)] = o
	}

	table := make([]typePatterns, 0, len(models.EventTypes))
	for _, t := range models.EventTypes {
		patterns := defaultPatterns[t]
		confidence := 1.0
		if o, ok := byType[t]; ok {
			patterns = o.Patterns
			if o.Confidence > 0 {
				confidence = o.Confidence
			}
		}

		compiled := make([]*regexp.Regexp, 0, len(patterns))
		for _, p := range patterns {
			re, err := regexp.Compile(p)
			if err != nil {
				return nil, fmt.Errorf("%w: pattern %q for %s: %v", models.ErrInvalidConfiguration, p, t, err)
			}
			compiled = append(compiled, re)
		}
		table = append(table, typePatterns{eventType: t, patterns: compiled, confidence: confidence})
	}

	return &EventDetector{table: table, log: logger.GetLogger()}, nil
}

// Detect returns the raw events found in the transcript, one per matching
// segment, timestamped with the segment start.
func (d *EventDetector) Detect(segments []models.TranscriptSegment) []models.RawEvent {
	events := []models.RawEvent{}

	for _, seg := range segments {
		lowered := strings.ToLower(seg.Text)

		for _, tp := range d.table {
			span := d.firstMatch(tp.patterns, lowered)
			if span == nil {
				continue
			}
			events = append(events, models.RawEvent{
				Type:       tp.eventType,
				Timestamp:  seg.Start,
				SourceText: strings.TrimSpace(seg.Text),
				Confidence: tp.confidence,
				SpanStart:  span[0],
				SpanEnd:    span[1],
			})
			break
		}
	}

	d.log.WithComponent("event_detector").WithFields(logger.Fields{
		"segments": len(segments),
		"events":   len(events),
	}).Debug("pattern scan complete")

	return events
}

func (d *EventDetector) firstMatch(patterns []*regexp.Regexp, text string) []int {
	for _, re := range patterns {
		if loc := re.FindStringIndex(text); loc != nil {
			return loc
		}
	}
	return nil
}
