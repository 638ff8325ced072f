package bot

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tangobot/go-tangobot/cmds"
	"github.com/tangobot/go-tangobot/config"
	"github.com/tangobot/go-tangobot/db"
)

type fakeCommandStore struct {
	commands map[string]*db.Command
	err      error
}

func (f *fakeCommandStore) GetCommand(token string) (*db.Command, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.commands[token], nil
}

type fakeSearcher struct {
	queries []string
	result  string
	err     error
}

func (f *fakeSearcher) SearchGif(ctx context.Context, query string) (string, error) {
	f.queries = append(f.queries, query)
	return f.result, f.err
}

func testConfig() *config.Config {
	cfg := &config.Config{HTTPTimeout: 5 * time.Second}
	cfg.Chat.HomeRoom = "home"
	cfg.Moderation.PlaceholderURL = "https://example.com/placeholder.png"
	return cfg
}

func TestDispatchKnownCommand(t *testing.T) {
	store := &fakeCommandStore{commands: map[string]*db.Command{
		"hello": {Command: "hello", Type: "basic", Response: "hi there"},
	}}
	registry := map[string]cmds.Skill{
		"basic": {Run: func(ctx context.Context, req *cmds.Request) (string, error) {
			return req.Content, nil
		}},
	}
	searcher := &fakeSearcher{}
	d := NewDispatcher(testConfig(), store, registry, searcher)

	out := d.ResolveAndDispatch(context.Background(), "!hello", "home", "alice")
	require.NotNil(t, out)
	assert.Equal(t, "hi there", out.Text)
	assert.True(t, out.HTML)
	assert.Empty(t, searcher.queries)
}

func TestDispatchPassesParsedRequest(t *testing.T) {
	store := &fakeCommandStore{commands: map[string]*db.Command{
		"weather": {Command: "weather", Type: "weather", Response: "ctx"},
	}}
	var got *cmds.Request
	registry := map[string]cmds.Skill{
		"weather": {
			Run: func(ctx context.Context, req *cmds.Request) (string, error) {
				got = req
				return "sunny", nil
			},
			NeedsArgs: true,
			NeedsUser: true,
			NeedsRoom: true,
		},
	}
	d := NewDispatcher(testConfig(), store, registry, &fakeSearcher{})

	out := d.ResolveAndDispatch(context.Background(), "!Weather new york city", "home", "alice")
	require.NotNil(t, out)
	require.NotNil(t, got)
	assert.Equal(t, "weather", got.Command)
	assert.Equal(t, "new york city", got.Args)
	assert.Equal(t, "ctx", got.Content)
	assert.Equal(t, "home", got.Room)
	assert.Equal(t, "alice", got.User)
}

func TestDispatchUnknownCommandFallsBackToSearch(t *testing.T) {
	store := &fakeCommandStore{commands: map[string]*db.Command{}}
	searcher := &fakeSearcher{result: "https://media.giphy.com/x.gif"}
	d := NewDispatcher(testConfig(), store, nil, searcher)

	out := d.ResolveAndDispatch(context.Background(), "!weathhher nyc", "home", "alice")
	require.NotNil(t, out)
	assert.Equal(t, "https://media.giphy.com/x.gif", out.Text)
	require.Len(t, searcher.queries, 1)
	assert.Equal(t, "weathhher nyc", searcher.queries[0])
}

func TestDispatchReservedTokenFallsBackToSearch(t *testing.T) {
	store := &fakeCommandStore{commands: map[string]*db.Command{
		"tune": {Command: "tune", Type: "reserved"},
	}}
	searcher := &fakeSearcher{result: "https://media.giphy.com/tune.gif"}
	d := NewDispatcher(testConfig(), store, nil, searcher)

	out := d.ResolveAndDispatch(context.Background(), "!tune something", "home", "alice")
	require.NotNil(t, out)
	assert.Equal(t, "https://media.giphy.com/tune.gif", out.Text)
	require.Len(t, searcher.queries, 1)
	assert.Equal(t, "tune something", searcher.queries[0])
}

func TestDispatchUnhandledTypeIsSilent(t *testing.T) {
	store := &fakeCommandStore{commands: map[string]*db.Command{
		"odd": {Command: "odd", Type: "martian"},
	}}
	searcher := &fakeSearcher{}
	d := NewDispatcher(testConfig(), store, map[string]cmds.Skill{}, searcher)

	assert.Nil(t, d.ResolveAndDispatch(context.Background(), "!odd", "home", "alice"))
	assert.Empty(t, searcher.queries)
}

func TestDispatchStoreErrorIsSilent(t *testing.T) {
	store := &fakeCommandStore{err: errors.New("connection refused")}
	d := NewDispatcher(testConfig(), store, nil, &fakeSearcher{})

	assert.Nil(t, d.ResolveAndDispatch(context.Background(), "!hello", "home", "alice"))
}

func TestDispatchMissingRequiredContextIsSilent(t *testing.T) {
	store := &fakeCommandStore{commands: map[string]*db.Command{
		"weather": {Command: "weather", Type: "weather"},
	}}
	ran := false
	registry := map[string]cmds.Skill{
		"weather": {
			Run: func(ctx context.Context, req *cmds.Request) (string, error) {
				ran = true
				return "sunny", nil
			},
			NeedsArgs: true,
		},
	}
	d := NewDispatcher(testConfig(), store, registry, &fakeSearcher{})

	assert.Nil(t, d.ResolveAndDispatch(context.Background(), "!weather", "home", "alice"))
	assert.False(t, ran, "skill must not run without its required arguments")
}

func TestDispatchSkillErrorIsSilent(t *testing.T) {
	store := &fakeCommandStore{commands: map[string]*db.Command{
		"boom": {Command: "boom", Type: "basic"},
	}}
	registry := map[string]cmds.Skill{
		"basic": {Run: func(ctx context.Context, req *cmds.Request) (string, error) {
			return "", errors.New("upstream 500")
		}},
	}
	d := NewDispatcher(testConfig(), store, registry, &fakeSearcher{})

	assert.Nil(t, d.ResolveAndDispatch(context.Background(), "!boom", "home", "alice"))
}

func TestDispatchSkillPanicIsContained(t *testing.T) {
	store := &fakeCommandStore{commands: map[string]*db.Command{
		"boom": {Command: "boom", Type: "basic"},
	}}
	registry := map[string]cmds.Skill{
		"basic": {Run: func(ctx context.Context, req *cmds.Request) (string, error) {
			panic("nil map write")
		}},
	}
	d := NewDispatcher(testConfig(), store, registry, &fakeSearcher{})

	assert.NotPanics(t, func() {
		assert.Nil(t, d.ResolveAndDispatch(context.Background(), "!boom", "home", "alice"))
	})
}

func TestDispatchEmptyResponseIsSilent(t *testing.T) {
	store := &fakeCommandStore{commands: map[string]*db.Command{
		"quiet": {Command: "quiet", Type: "basic"},
	}}
	registry := map[string]cmds.Skill{
		"basic": {Run: func(ctx context.Context, req *cmds.Request) (string, error) {
			return "", nil
		}},
	}
	d := NewDispatcher(testConfig(), store, registry, &fakeSearcher{})

	assert.Nil(t, d.ResolveAndDispatch(context.Background(), "!quiet", "home", "alice"))
}

func TestDispatchAwayRoomGetsPlaceholderAfterSkillRuns(t *testing.T) {
	store := &fakeCommandStore{commands: map[string]*db.Command{
		"count": {Command: "count", Type: "basic"},
	}}
	ran := false
	registry := map[string]cmds.Skill{
		"basic": {Run: func(ctx context.Context, req *cmds.Request) (string, error) {
			ran = true
			return "real answer", nil
		}},
	}
	cfg := testConfig()
	d := NewDispatcher(cfg, store, registry, &fakeSearcher{})

	out := d.ResolveAndDispatch(context.Background(), "!count", "elsewhere", "alice")
	require.NotNil(t, out)
	assert.Equal(t, cfg.Moderation.PlaceholderURL, out.Text)
	assert.False(t, out.HTML)
	assert.True(t, ran, "skill side effects still happen for away rooms")
}

func TestFallbackSearchNormalization(t *testing.T) {
	searcher := &fakeSearcher{result: "https://media.giphy.com/x.gif"}
	d := NewDispatcher(testConfig(), &fakeCommandStore{}, nil, searcher)

	out := d.FallbackSearch(context.Background(), "  !Pizza Time!  ")
	require.NotNil(t, out)
	assert.False(t, out.HTML)
	require.Len(t, searcher.queries, 1)
	assert.Equal(t, "pizza time", searcher.queries[0])
}

func TestFallbackSearchShortQueryIsSilent(t *testing.T) {
	searcher := &fakeSearcher{result: "https://media.giphy.com/x.gif"}
	d := NewDispatcher(testConfig(), &fakeCommandStore{}, nil, searcher)

	for _, text := range []string{"", " ", "!", "!!", "a", " !a "} {
		assert.Nil(t, d.FallbackSearch(context.Background(), text), "text %q", text)
	}
	assert.Empty(t, searcher.queries, "searcher must not be consulted for degenerate queries")
}

func TestFallbackSearchErrorAndEmptyResultAreSilent(t *testing.T) {
	d := NewDispatcher(testConfig(), &fakeCommandStore{}, nil, &fakeSearcher{err: errors.New("quota")})
	assert.Nil(t, d.FallbackSearch(context.Background(), "pizza time"))

	d = NewDispatcher(testConfig(), &fakeCommandStore{}, nil, &fakeSearcher{result: ""})
	assert.Nil(t, d.FallbackSearch(context.Background(), "pizza time"))
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		raw   string
		token string
		args  string
	}{
		{"!weather nyc", "weather", "nyc"},
		{"!420", "420", ""},
		{"!WEATHER New York", "weather", "New York"},
		{"!gif  double  spaces", "gif", " double  spaces"},
		{"!", "", ""},
	}
	for _, tt := range tests {
		token, args := parseCommand(tt.raw)
		assert.Equal(t, tt.token, token, "raw %q", tt.raw)
		assert.Equal(t, tt.args, args, "raw %q", tt.raw)
	}
}
