package writer

import (
	"bytes"
	"fmt"
	"strings"

	"matchflow/models"
)

var reportSections = []struct {
	title string
	types []models.EventType
}{
	{"GOALS", []models.EventType{models.EventGoal}},
	{"CARDS", []models.EventType{models.EventYellowCard, models.EventRedCard}},
	{"SUBSTITUTIONS", []models.EventType{models.EventSubstitution}},
	{"OTHER INCIDENTS", []models.EventType{models.EventOffside, models.EventInjury, models.EventFoul}},
}

// renderReport produces the human-readable match summary from the canonical
// event list, grouped into the sections a match report usually has.
func renderReport(timeline *models.Timeline) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "MATCH REPORT: %s\n", strings.ReplaceAll(timeline.MatchName, "_", " "))
	fmt.Fprintf(&buf, "%s\n\n", strings.Repeat("=", 50))

	for _, section := range reportSections {
		lines := []string{}
		for _, ev := range timeline.Events {
			for _, t := range section.types {
				if ev.Type == t {
					lines = append(lines, fmt.Sprintf("  %s %s (confidence %s, %d mentions)",
						minuteMark(ev.Timestamp), describeEvent(ev.Type), formatFloat(ev.Confidence), ev.SupportingCount))
				}
			}
		}
		if len(lines) == 0 {
			continue
		}
		fmt.Fprintf(&buf, "%s\n", section.title)
		for _, line := range lines {
			fmt.Fprintf(&buf, "%s\n", line)
		}
		buf.WriteString("\n")
	}

	if len(timeline.Events) == 0 {
		buf.WriteString("No notable events detected.\n\n")
	}

	if timeline.CurveSection.Present {
		fmt.Fprintf(&buf, "EXCITEMENT PEAKS: %d\n", len(timeline.Peaks))
		for _, idx := range timeline.Peaks {
			b := timeline.Curve[idx]
			fmt.Fprintf(&buf, "  %s excitement %s\n", minuteMark(b.Bucket.Start), formatFloat(b.Excitement))
		}
	} else {
		fmt.Fprintf(&buf, "EXCITEMENT CURVE: unavailable (%s)\n", timeline.CurveSection.Error)
	}

	return buf.Bytes()
}

// minuteMark renders a match timestamp the way commentary does: seconds 0-59
// are the 1st minute.
func minuteMark(ts float64) string {
	return fmt.Sprintf("%d'", int(ts/60)+1)
}

func describeEvent(t models.EventType) string {
	switch t {
	case models.EventGoal:
		return "Goal"
	case models.EventYellowCard:
		return "Yellow card"
	case models.EventRedCard:
		return "Red card"
	case models.EventOffside:
		return "Offside"
	case models.EventSubstitution:
		return "Substitution"
	case models.EventInjury:
		return "Injury stoppage"
	case models.EventFoul:
		return "Foul"
	default:
		return string(t)
	}
}
