package bot

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"slices"
	"strings"

	"github.com/tangobot/go-tangobot/chatango"
	"github.com/tangobot/go-tangobot/config"
)

var videoLinkPattern = regexp.MustCompile(
	`^((?:https?:)?//)?((?:www|m)\.)?((?:youtube(?:-nocookie)?\.com|youtu\.be))(/(?:[\w\-]+\?v=|embed/|live/|v/)?)([\w\-]+)(\S+)?$`,
)

// videoPreviewer builds link previews; implemented by the skills bundle.
type videoPreviewer interface {
	VideoPreview(ctx context.Context, link string) (string, error)
}

// Triggers evaluates the passive whole-message rules that run outside the
// command path. Rules run in fixed precedence; the first match wins.
type Triggers struct {
	botUser   string
	altUser   string
	suffix    string
	sentinels []string
	bannedRe  *regexp.Regexp
	previewer videoPreviewer
	timeout   func() (context.Context, context.CancelFunc)
}

func NewTriggers(cfg *config.Config, previewer videoPreviewer) *Triggers {
	var bannedRe *regexp.Regexp
	if cfg.Moderation.BannedPattern != "" {
		var err error
		if bannedRe, err = regexp.Compile(cfg.Moderation.BannedPattern); err != nil {
			log.Printf("invalid banned_pattern %q, moderation rule disabled: %v", cfg.Moderation.BannedPattern, err)
		}
	}
	return &Triggers{
		botUser:   strings.ToLower(cfg.Chat.Username),
		altUser:   strings.ToLower(cfg.Chat.AltUsername),
		suffix:    cfg.Moderation.TrademarkSuffix,
		sentinels: cfg.Moderation.Sentinels,
		bannedRe:  bannedRe,
		previewer: previewer,
		timeout: func() (context.Context, context.CancelFunc) {
			return context.WithTimeout(context.Background(), cfg.HTTPTimeout)
		},
	}
}

// Handle runs the trigger chain against one ordinary chat line. Returns true
// when a rule consumed the message, meaning no phrase lookup should follow.
func (t *Triggers) Handle(conn RoomConn, msg *chatango.Message) bool {
	switch {
	case videoLinkPattern.MatchString(msg.Body):
		t.previewVideoLink(conn, msg)
		return true

	case t.bannedRe != nil && t.bannedRe.MatchString(msg.Body):
		t.removeMessage(conn, msg, false)
		return true

	case slices.Contains(t.sentinels, msg.Body):
		t.removeMessage(conn, msg, true)
		return true

	case strings.Contains(msg.Body, "@"+t.botUser) && strings.Contains(msg.Body, "*waves*"):
		t.waveBack(conn, msg)
		return true

	case t.suffix != "" && strings.HasSuffix(msg.Body, t.suffix):
		t.send(conn, "™", false)
		return true

	case strings.EqualFold(msg.Body, "tm"):
		if err := conn.Delete(msg); err != nil {
			log.Printf("failed to delete tm message from %s: %v", msg.User, err)
		}
		t.send(conn, "™", false)
		return true
	}
	return false
}

// previewVideoLink posts a rich preview asynchronously so a slow metadata
// fetch never stalls the room's event loop. The alternate bot identity is
// suppressed to avoid two bots previewing each other forever.
func (t *Triggers) previewVideoLink(conn RoomConn, msg *chatango.Message) {
	if t.altUser != "" && msg.User == t.altUser {
		return
	}
	link := msg.Body
	go func() {
		ctx, cancel := t.timeout()
		defer cancel()
		preview, err := t.previewer.VideoPreview(ctx, link)
		if err != nil {
			log.Printf("video preview failed for %q: %v", link, err)
			return
		}
		if preview != "" {
			t.send(conn, preview, true)
		}
	}()
}

func (t *Triggers) waveBack(conn RoomConn, msg *chatango.Message) {
	if msg.User == t.botUser {
		t.send(conn, fmt.Sprintf("stop talking to urself and get some friends u loser @%s", t.botUser), false)
	}
	t.send(conn, fmt.Sprintf("@%s *waves*", msg.User), false)
}

func (t *Triggers) removeMessage(conn RoomConn, msg *chatango.Message, silent bool) {
	if err := conn.Delete(msg); err != nil {
		log.Printf("failed to delete message %s from %s: %v", msg.ID, msg.User, err)
		return
	}
	if !silent {
		log.Printf("deleted banned message from %s in %s", msg.User, msg.RoomName)
	}
}

func (t *Triggers) send(conn RoomConn, text string, isHTML bool) {
	if err := conn.SendMessage(text, isHTML); err != nil {
		log.Printf("failed to send trigger reply: %v", err)
	}
}
