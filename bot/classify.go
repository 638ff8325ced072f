package bot

import (
	"regexp"
	"strings"
)

// Kind is the mutually exclusive path an incoming chat line takes.
type Kind int

const (
	// KindNoop is a bare "!!" with nothing after it: ignored entirely.
	KindNoop Kind = iota
	// KindCommand is a single-marker command invocation.
	KindCommand
	// KindFallbackSearch is a double-marker ad-hoc image search.
	KindFallbackSearch
	// KindPhraseCandidate is ordinary chat that may match a trigger or
	// stored phrase.
	KindPhraseCandidate
)

// Classification is the result of classifying one raw chat line.
type Classification struct {
	Kind Kind
	// Raw carries the command text, marker retained, for KindCommand.
	Raw string
	// Query carries the marker-stripped search text for KindFallbackSearch.
	Query string
}

var (
	// aliasPattern catches the drawn-out "!einnnn" variants and folds them
	// onto the canonical token.
	aliasPattern   = regexp.MustCompile(`^!ein+$`)
	commandPattern = regexp.MustCompile(`^!\S+`)
)

const commandAlias = "!ein"

// Classify decides which processing path a chat line takes. Rules are
// evaluated top to bottom and the first match wins; the double-marker rule
// must precede the single-marker rule so users can force a fallback search
// for text that would otherwise resolve as a command.
func Classify(raw string) Classification {
	switch {
	case raw == "!!":
		return Classification{Kind: KindNoop}
	case strings.HasPrefix(raw, "!!") && len(raw) > 2:
		return Classification{Kind: KindFallbackSearch, Query: raw[2:]}
	case aliasPattern.MatchString(raw):
		return Classification{Kind: KindCommand, Raw: commandAlias}
	case commandPattern.MatchString(raw):
		return Classification{Kind: KindCommand, Raw: raw}
	default:
		return Classification{Kind: KindPhraseCandidate}
	}
}
