package bot

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tangobot/go-tangobot/chatango"
	"github.com/tangobot/go-tangobot/config"
)

type sentReply struct {
	text string
	html bool
}

type fakeRoomConn struct {
	mu      sync.Mutex
	sent    []sentReply
	deleted []string
}

func (f *fakeRoomConn) SendMessage(text string, isHTML bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentReply{text: text, html: isHTML})
	return nil
}

func (f *fakeRoomConn) Delete(msg *chatango.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, msg.ID)
	return nil
}

func (f *fakeRoomConn) replies() []sentReply {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentReply(nil), f.sent...)
}

func (f *fakeRoomConn) deletions() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.deleted...)
}

type fakePreviewer struct {
	mu      sync.Mutex
	links   []string
	preview string
	err     error
}

func (f *fakePreviewer) VideoPreview(ctx context.Context, link string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.links = append(f.links, link)
	return f.preview, f.err
}

func (f *fakePreviewer) seen() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.links...)
}

func triggersConfig() *config.Config {
	cfg := &config.Config{HTTPTimeout: 5 * time.Second}
	cfg.Chat.Username = "tangobot"
	cfg.Chat.AltUsername = "tangobot2"
	cfg.Moderation.TrademarkSuffix = "we did it!"
	cfg.Moderation.BannedPattern = `(?i)\bslurone\b|\bslurtwo\b`
	cfg.Moderation.Sentinels = []string{"bot is ded", "sh*t the bed"}
	return cfg
}

func msg(user, body string) *chatango.Message {
	return &chatango.Message{ID: "42", RoomName: "home", User: user, Body: body}
}

func TestTriggersVideoLinkPreview(t *testing.T) {
	conn := &fakeRoomConn{}
	previewer := &fakePreviewer{preview: "<b>Cool Video</b>"}
	tr := NewTriggers(triggersConfig(), previewer)

	handled := tr.Handle(conn, msg("alice", "https://www.youtube.com/watch?v=dQw4w9WgXcQ"))
	assert.True(t, handled)

	require.Eventually(t, func() bool {
		return len(conn.replies()) == 1
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, sentReply{text: "<b>Cool Video</b>", html: true}, conn.replies()[0])
	assert.Equal(t, []string{"https://www.youtube.com/watch?v=dQw4w9WgXcQ"}, previewer.seen())
}

func TestTriggersVideoLinkFromAltIdentityIsSuppressed(t *testing.T) {
	conn := &fakeRoomConn{}
	previewer := &fakePreviewer{preview: "<b>Cool Video</b>"}
	tr := NewTriggers(triggersConfig(), previewer)

	handled := tr.Handle(conn, msg("tangobot2", "https://youtu.be/dQw4w9WgXcQ"))
	assert.True(t, handled, "link is still consumed even when preview is suppressed")

	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, conn.replies())
	assert.Empty(t, previewer.seen())
}

func TestTriggersBannedPatternDeletes(t *testing.T) {
	conn := &fakeRoomConn{}
	tr := NewTriggers(triggersConfig(), &fakePreviewer{})

	handled := tr.Handle(conn, msg("alice", "you are a SlurOne my friend"))
	assert.True(t, handled)
	assert.Equal(t, []string{"42"}, conn.deletions())
	assert.Empty(t, conn.replies())
}

func TestTriggersInvalidBannedPatternIsDisabled(t *testing.T) {
	cfg := triggersConfig()
	cfg.Moderation.BannedPattern = `(unclosed`
	tr := NewTriggers(cfg, &fakePreviewer{})

	conn := &fakeRoomConn{}
	handled := tr.Handle(conn, msg("alice", "just chatting"))
	assert.False(t, handled)
	assert.Empty(t, conn.deletions())
}

func TestTriggersSentinelDeletesSilently(t *testing.T) {
	conn := &fakeRoomConn{}
	tr := NewTriggers(triggersConfig(), &fakePreviewer{})

	handled := tr.Handle(conn, msg("tangobot2", "bot is ded"))
	assert.True(t, handled)
	assert.Equal(t, []string{"42"}, conn.deletions())
	assert.Empty(t, conn.replies())
}

func TestTriggersWaveBack(t *testing.T) {
	conn := &fakeRoomConn{}
	tr := NewTriggers(triggersConfig(), &fakePreviewer{})

	handled := tr.Handle(conn, msg("alice", "hey @tangobot *waves*"))
	assert.True(t, handled)
	require.Len(t, conn.replies(), 1)
	assert.Equal(t, sentReply{text: "@alice *waves*"}, conn.replies()[0])
}

func TestTriggersWaveBackAtSelfGetsScolded(t *testing.T) {
	conn := &fakeRoomConn{}
	tr := NewTriggers(triggersConfig(), &fakePreviewer{})

	handled := tr.Handle(conn, msg("tangobot", "@tangobot *waves*"))
	assert.True(t, handled)
	replies := conn.replies()
	require.Len(t, replies, 2)
	assert.Contains(t, replies[0].text, "get some friends")
	assert.Equal(t, "@tangobot *waves*", replies[1].text)
}

func TestTriggersTrademarkSuffix(t *testing.T) {
	conn := &fakeRoomConn{}
	tr := NewTriggers(triggersConfig(), &fakePreviewer{})

	handled := tr.Handle(conn, msg("alice", "folks, we did it!"))
	assert.True(t, handled)
	require.Len(t, conn.replies(), 1)
	assert.Equal(t, "™", conn.replies()[0].text)
	assert.Empty(t, conn.deletions())
}

func TestTriggersBareTMIsReplacedWithSymbol(t *testing.T) {
	for _, body := range []string{"tm", "TM", "tM"} {
		conn := &fakeRoomConn{}
		tr := NewTriggers(triggersConfig(), &fakePreviewer{})

		handled := tr.Handle(conn, msg("alice", body))
		assert.True(t, handled, "body %q", body)
		assert.Equal(t, []string{"42"}, conn.deletions())
		require.Len(t, conn.replies(), 1)
		assert.Equal(t, "™", conn.replies()[0].text)
	}
}

func TestTriggersOrdinaryChatPassesThrough(t *testing.T) {
	conn := &fakeRoomConn{}
	tr := NewTriggers(triggersConfig(), &fakePreviewer{})

	for _, body := range []string{"good morning", "tmz is wild", "!not a trigger path"} {
		assert.False(t, tr.Handle(conn, msg("alice", body)), "body %q", body)
	}
	assert.Empty(t, conn.replies())
	assert.Empty(t, conn.deletions())
}
