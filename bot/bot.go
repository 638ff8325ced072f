// Package bot contains the message-processing core: access filtering,
// classification, command dispatch, passive triggers, and the fallback
// search chain. Everything durable lives behind collaborator interfaces.
package bot

import (
	"context"
	"log"

	"github.com/tangobot/go-tangobot/chatango"
	"github.com/tangobot/go-tangobot/cmds"
	"github.com/tangobot/go-tangobot/config"
	"github.com/tangobot/go-tangobot/db"
)

// RoomConn is the outbound surface of one room connection.
type RoomConn interface {
	SendMessage(text string, isHTML bool) error
	Delete(msg *chatango.Message) error
}

// messageStore is the persistence surface the bot writes through.
type messageStore interface {
	commandStore
	GetPhrase(text string) (*db.Phrase, error)
	SaveChatLog(username, room, message string) error
	SaveUser(user *db.ChatUser) error
}

// Bot wires the pipeline together. One instance serves every joined room;
// per-room ordering comes from the transport invoking HandleMessage on each
// room's own read loop.
type Bot struct {
	cfg        *config.Config
	store      messageStore
	filter     *AccessFilter
	dispatcher *Dispatcher
	triggers   *Triggers
}

func New(cfg *config.Config, store messageStore, skills *cmds.Skills) *Bot {
	return &Bot{
		cfg:        cfg,
		store:      store,
		filter:     NewAccessFilter(cfg.Moderation.IgnoredUsers, cfg.Moderation.IgnoredIPs),
		dispatcher: NewDispatcher(cfg, store, skills.Registry(), skills),
		triggers:   NewTriggers(cfg, skills),
	}
}

// HandleMessage processes one inbound chat event to completion.
func (b *Bot) HandleMessage(conn RoomConn, msg *chatango.Message) {
	if msg.Body == "" {
		return
	}
	b.logMessage(msg)

	// ignored senders are dropped before anything content-driven happens,
	// persistence included
	if decision := b.filter.Evaluate(msg.User, msg.IP); !decision.Allowed {
		log.Printf("dropped message from %s (%s): %s", msg.User, msg.IP, decision.Reason)
		return
	}

	b.persist(msg)

	ctx := context.Background()
	switch c := Classify(msg.Body); c.Kind {
	case KindNoop:
		return
	case KindFallbackSearch:
		b.reply(conn, b.dispatcher.FallbackSearch(ctx, c.Query))
	case KindCommand:
		b.reply(conn, b.dispatcher.ResolveAndDispatch(ctx, c.Raw, msg.RoomName, msg.User))
	case KindPhraseCandidate:
		if b.triggers.Handle(conn, msg) {
			return
		}
		b.lookupPhrase(conn, msg.Body)
	}
}

func (b *Bot) lookupPhrase(conn RoomConn, text string) {
	phrase, err := b.store.GetPhrase(text)
	if err != nil {
		log.Printf("phrase lookup failed for %q: %v", text, err)
		return
	}
	if phrase == nil {
		return
	}
	b.reply(conn, &Outbound{Text: phrase.Response, HTML: true})
}

func (b *Bot) reply(conn RoomConn, out *Outbound) {
	if out == nil {
		return
	}
	if err := conn.SendMessage(out.Text, out.HTML); err != nil {
		log.Printf("failed to send reply: %v", err)
	}
}

func (b *Bot) logMessage(msg *chatango.Message) {
	if msg.IP != "" {
		log.Printf("[%s] [%s] [%s]: %s", msg.RoomName, msg.User, msg.IP, msg.Body)
	} else {
		log.Printf("[%s] [%s] [no ip]: %s", msg.RoomName, msg.User, msg.Body)
	}
}

// persist saves the chat line and chatter metadata. Both are best-effort;
// persistence failures never block a reply.
func (b *Bot) persist(msg *chatango.Message) {
	if b.cfg.Persistence.ChatLogs {
		if err := b.store.SaveChatLog(msg.User, msg.RoomName, msg.Body); err != nil {
			log.Printf("failed to persist chat log from %s: %v", msg.User, err)
		}
	}
	if b.cfg.Persistence.UserData && msg.IP != "" {
		user := &db.ChatUser{Username: msg.User, Room: msg.RoomName, IP: msg.IP}
		if err := b.store.SaveUser(user); err != nil {
			log.Printf("failed to persist user data for %s: %v", msg.User, err)
		}
	}
}
