package recall

import (
	"fmt"
	"strings"

	"github.com/ppiankov/noosphere/internal/model"
)

// Format selects how a recall is rendered
type Format string

const (
	FormatDialectical Format = "dialectical"
	FormatSimple      Format = "simple"
)

// ParseFormat validates a format name
func ParseFormat(value string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(value))); f {
	case FormatDialectical, FormatSimple:
		return f, nil
	case "":
		return FormatDialectical, nil
	default:
		return "", fmt.Errorf("unknown format %q: want dialectical or simple", value)
	}
}

const (
	perVoiceLimit       = 2
	dialecticalTruncate = 200
	simpleTruncate      = 150
)

// Render renders records in the given format
func Render(format Format, records []model.ScoredHeuristic) string {
	if format == FormatSimple {
		return RenderSimple(records)
	}
	return RenderDialectical(records)
}

// RenderDialectical groups records by voice, in order of first appearance,
// and closes with a synthesis hint
func RenderDialectical(records []model.ScoredHeuristic) string {
	banner := strings.Repeat("=", 60)
	rule := strings.Repeat("-", 40)

	lines := []string{
		banner,
		"NOOSPHERE RECALL: Relevant Memory Retrieved",
		banner,
		"",
	}

	var order []model.Voice
	byVoice := make(map[model.Voice][]model.ScoredHeuristic)
	for _, h := range records {
		v := groupVoice(h.Voice)
		if _, ok := byVoice[v]; !ok {
			order = append(order, v)
		}
		byVoice[v] = append(byVoice[v], h)
	}

	for _, v := range order {
		lines = append(lines, "\n📌 "+v.String(), rule)

		group := byVoice[v]
		if len(group) > perVoiceLimit {
			group = group[:perVoiceLimit]
		}
		for _, h := range group {
			lines = append(lines,
				fmt.Sprintf("  [%s] (conf: %.2f)", h.HeuristicID, h.Confidence),
				fmt.Sprintf("  → %s...", truncate(h.Formulation, dialecticalTruncate)),
				"")
		}
	}

	lines = append(lines, "\n🎯 SYNTHESIS HINT", rule)

	_, hasClassical := byVoice[model.VoiceClassical]
	_, hasBeat := byVoice[model.VoiceBeatGeneration]
	if hasClassical && hasBeat {
		lines = append(lines,
			"  Classical and BeatGeneration both engaged—richest synthesis potential.",
			"  Ensure BeatGeneration's dissent is fully articulated before converging.")
	} else {
		lines = append(lines,
			"  Consider which voices are silent in this recall.",
			"  Missing perspectives may contain critical counter-arguments.")
	}

	lines = append(lines, "", banner)
	return strings.Join(lines, "\n")
}

// RenderSimple renders one line per record
func RenderSimple(records []model.ScoredHeuristic) string {
	lines := []string{"Relevant Heuristics:"}
	for _, h := range records {
		lines = append(lines, fmt.Sprintf("- [%s] %s: %s...",
			h.Voice, h.HeuristicID, truncate(h.Formulation, simpleTruncate)))
	}
	return strings.Join(lines, "\n")
}

func groupVoice(v model.Voice) model.Voice {
	if v == "" {
		return model.VoiceUnknown
	}
	return v
}

// truncate cuts s to at most n runes
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
