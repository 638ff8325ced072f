package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Classification
	}{
		{"bare double marker is noop", "!!", Classification{Kind: KindNoop}},
		{"double marker forces search", "!!pizza time", Classification{Kind: KindFallbackSearch, Query: "pizza time"}},
		{"double marker with command-looking text", "!!weather", Classification{Kind: KindFallbackSearch, Query: "weather"}},
		{"command with args", "!weather nyc", Classification{Kind: KindCommand, Raw: "!weather nyc"}},
		{"command without args", "!420", Classification{Kind: KindCommand, Raw: "!420"}},
		{"drawn-out alias folds", "!einnnnn", Classification{Kind: KindCommand, Raw: "!ein"}},
		{"canonical alias", "!ein", Classification{Kind: KindCommand, Raw: "!ein"}},
		{"alias with trailing text is a plain command", "!ein hello", Classification{Kind: KindCommand, Raw: "!ein hello"}},
		{"marker followed by space is ordinary chat", "! hello", Classification{Kind: KindPhraseCandidate}},
		{"ordinary chat", "good morning", Classification{Kind: KindPhraseCandidate}},
		{"marker mid-sentence is ordinary chat", "wow!! nice", Classification{Kind: KindPhraseCandidate}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.raw))
		})
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	for _, raw := range []string{"!!", "!!x", "!weather nyc", "hello"} {
		first := Classify(raw)
		assert.Equal(t, first, Classify(raw), "classification of %q changed between calls", raw)
	}
}
