package reader

import (
	"regexp"
	"strings"
	"unicode"

	"matchflow/models"
)

// Commentary excitement vocabulary. Tokens are matched after lowercasing and
// a trailing-s strip, which covers the plural and third-person forms that
// matter for this vocabulary without a full lemmatizer.
var excitementWords = map[string]struct{}{
	"goal": {}, "score": {}, "brilliant": {}, "amazing": {}, "incredible": {},
	"fantastic": {}, "unbelievable": {}, "wow": {}, "beautiful": {}, "stunning": {},
	"magnificent": {}, "sensational": {}, "spectacular": {}, "wonderful": {},
	"superb": {}, "perfect": {}, "genius": {}, "magic": {}, "masterclass": {},
	"clinical": {}, "unstoppable": {},
}

var tensionWords = map[string]struct{}{
	"foul": {}, "card": {}, "injury": {}, "hurt": {}, "miss": {}, "save": {},
	"block": {}, "dangerous": {}, "close": {}, "almost": {}, "nearly": {},
	"offside": {}, "controversial": {},
}

var intensifierWords = map[string]struct{}{
	"very": {}, "so": {}, "really": {}, "absolutely": {}, "completely": {},
	"totally": {}, "incredibly": {}, "extremely": {}, "truly": {}, "just": {},
}

var highIntensityPatterns = []*regexp.Regexp{
	regexp.MustCompile(`!{2,}`),
	regexp.MustCompile(`[A-Z]{3,}`),
	regexp.MustCompile(`\b(GOAL|YES|WOW|OH)\b`),
	regexp.MustCompile(`(?i)what a (goal|strike|save|finish|pass|hit)`),
	regexp.MustCompile(`(?i)(brilliant|amazing|incredible|unbelievable|sensational)`),
}

var mediumIntensityPatterns = []*regexp.Regexp{
	regexp.MustCompile(`!`),
	regexp.MustCompile(`(?i)(good|nice|well done|great)`),
	regexp.MustCompile(`(?i)(chance|shot|opportunity|attack)`),
}

// SentimentAnalyzer scores each transcript segment for emotional intensity.
// Scores are raw lexicon output; the fusion stage min-max normalizes them per
// match, so only their ordering within one match matters.
type SentimentAnalyzer struct{}

func NewSentimentAnalyzer() *SentimentAnalyzer {
	return &SentimentAnalyzer{}
}

// Analyze returns one sample per non-empty segment, timestamped with the
// segment start.
func (a *SentimentAnalyzer) Analyze(segments []models.TranscriptSegment) []models.SentimentSample {
	samples := []models.SentimentSample{}
	for _, seg := range segments {
		if strings.TrimSpace(seg.Text) == "" {
			continue
		}
		samples = append(samples, models.SentimentSample{
			Timestamp: seg.Start,
			RawScore:  Intensity(seg.Text),
			SpanStart: 0,
			SpanEnd:   len(seg.Text),
		})
	}
	return samples
}

// Intensity scores one piece of commentary in [0,1]. Lexicon hits carry the
// most weight; punctuation and capitalization act as shouting proxies.
func Intensity(text string) float64 {
	score := 0.0

	tokens := tokenize(text)
	excitement := 0
	tension := 0
	hasIntensifier := false
	for _, tok := range tokens {
		stem := strings.TrimSuffix(tok, "s")
		if _, ok := excitementWords[tok]; ok {
			excitement++
		} else if _, ok := excitementWords[stem]; ok {
			excitement++
		}
		if _, ok := tensionWords[tok]; ok {
			tension++
		} else if _, ok := tensionWords[stem]; ok {
			tension++
		}
		if _, ok := intensifierWords[tok]; ok {
			hasIntensifier = true
		}
	}

	wordCount := len(tokens)
	if wordCount == 0 {
		wordCount = 1
	}
	excitementScore := clamp(float64(excitement) / float64(wordCount) * 3)
	tensionScore := clamp(float64(tension) / float64(wordCount) * 3)

	score += excitementScore * 0.4
	score += tensionScore * 0.2
	if hasIntensifier {
		score += 0.1
	}

	for _, re := range highIntensityPatterns {
		if re.MatchString(text) {
			score += 0.2
		}
	}
	for _, re := range mediumIntensityPatterns {
		if re.MatchString(text) {
			score += 0.08
		}
	}

	exclamations := float64(strings.Count(text, "!")) * 0.08
	if exclamations > 0.25 {
		exclamations = 0.25
	}
	score += exclamations

	questions := float64(strings.Count(text, "?")) * 0.05
	if questions > 0.1 {
		questions = 0.1
	}
	score += questions

	// Sustained caps reads as shouting.
	caps, alpha := 0, 0
	for _, r := range text {
		if unicode.IsLetter(r) {
			alpha++
			if unicode.IsUpper(r) {
				caps++
			}
		}
	}
	if alpha > 0 && float64(caps)/float64(alpha) > 0.3 {
		score += 0.15
	}

	return clamp(score)
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
}

func clamp(v float64) float64 {
	if v > 1 {
		return 1
	}
	return v
}
