package cmds

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tangobot/go-tangobot/config"
)

func testSkills() *Skills {
	cfg := &config.Config{HTTPTimeout: time.Second}
	cfg.Moderation.MetricUsers = []string{"pierre"}
	cfg.Moderation.MetricRooms = []string{"ukroom"}
	return NewSkills(cfg, nil, nil, nil)
}

func TestBasicEchoesStoredResponse(t *testing.T) {
	s := testSkills()
	got, err := s.Basic(context.Background(), &Request{Command: "hello", Content: "hi there"})
	require.NoError(t, err)
	assert.Equal(t, "hi there", got)
}

func TestRandomResponsePicksFromOptions(t *testing.T) {
	s := testSkills()
	req := &Request{Command: "coin", Content: "heads; tails ;  edge"}

	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		got, err := s.RandomResponse(context.Background(), req)
		require.NoError(t, err)
		assert.Contains(t, []string{"heads", "tails", "edge"}, got, "options must come back trimmed")
		seen[got] = true
	}
	assert.Len(t, seen, 3, "every option should surface eventually")
}

func TestRandomResponseSingleOption(t *testing.T) {
	s := testSkills()
	got, err := s.RandomResponse(context.Background(), &Request{Command: "one", Content: "only"})
	require.NoError(t, err)
	assert.Equal(t, "only", got)
}

func TestRandomResponseRejectsEmptyTemplate(t *testing.T) {
	s := testSkills()
	for _, content := range []string{"", " ; ; "} {
		_, err := s.RandomResponse(context.Background(), &Request{Command: "empty", Content: content})
		assert.Error(t, err, "content %q", content)
	}
}

func TestRegistryHasNoReservedType(t *testing.T) {
	reg := testSkills().Registry()
	_, found := reg["reserved"]
	assert.False(t, found, "reserved commands must never resolve to a handler")
	for typ, skill := range reg {
		assert.NotNil(t, skill.Run, "type %q has no handler", typ)
	}
}
