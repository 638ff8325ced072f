package bot

import (
	"context"
	"log"
	"strings"

	"github.com/tangobot/go-tangobot/cmds"
	"github.com/tangobot/go-tangobot/config"
	"github.com/tangobot/go-tangobot/db"
)

// Outbound is a reply ready for the transport.
type Outbound struct {
	Text string
	HTML bool
}

// commandStore is the slice of the database the dispatcher needs.
type commandStore interface {
	GetCommand(token string) (*db.Command, error)
}

// gifSearcher is the fallback-search collaborator.
type gifSearcher interface {
	SearchGif(ctx context.Context, query string) (string, error)
}

// Dispatcher resolves a command invocation to a skill and packages the reply.
// Skill failures never escape: every error path degrades to silence.
type Dispatcher struct {
	cfg      *config.Config
	store    commandStore
	registry map[string]cmds.Skill
	searcher gifSearcher
}

func NewDispatcher(cfg *config.Config, store commandStore, registry map[string]cmds.Skill, searcher gifSearcher) *Dispatcher {
	return &Dispatcher{
		cfg:      cfg,
		store:    store,
		registry: registry,
		searcher: searcher,
	}
}

// parseCommand splits a marker-prefixed line into its lower-cased token and
// trailing arguments. args is "" when no whitespace follows the token.
func parseCommand(raw string) (token, args string) {
	text := strings.TrimSpace(strings.TrimPrefix(raw, "!"))
	token, args, found := strings.Cut(text, " ")
	if !found {
		return strings.ToLower(token), ""
	}
	return strings.ToLower(token), args
}

// ResolveAndDispatch runs one command invocation end to end. A nil return
// means silence, which covers every failure mode by design.
func (d *Dispatcher) ResolveAndDispatch(ctx context.Context, raw, room, user string) *Outbound {
	token, args := parseCommand(raw)
	if token == "" {
		return nil
	}

	cmd, err := d.store.GetCommand(token)
	if err != nil {
		log.Printf("command lookup failed for %q: %v", token, err)
		return nil
	}
	// unknown and reserved tokens degrade into a generic search on the
	// whole text, markers removed
	if cmd == nil || cmd.Type == "reserved" {
		return d.FallbackSearch(ctx, strings.ReplaceAll(raw, "!", ""))
	}

	skill, ok := d.registry[cmd.Type]
	if !ok {
		log.Printf("command %q has unhandled type %q", token, cmd.Type)
		return nil
	}
	if (skill.NeedsArgs && args == "") ||
		(skill.NeedsUser && user == "") ||
		(skill.NeedsRoom && room == "") {
		log.Printf("command %q (type %q) missing required context: args=%q room=%q user=%q",
			token, cmd.Type, args, room, user)
		return nil
	}

	response := d.invoke(ctx, skill, &cmds.Request{
		Command: token,
		Args:    args,
		Content: cmd.Response,
		Room:    room,
		User:    user,
	})
	if response == "" {
		return nil
	}

	// every room except the home room gets a placeholder instead of the
	// real output; the skill already ran, so its side effects stand
	if room != d.cfg.Chat.HomeRoom {
		return &Outbound{Text: d.cfg.Moderation.PlaceholderURL}
	}
	return &Outbound{Text: response, HTML: true}
}

// invoke calls a skill under a timeout with panic containment. All failures
// log and yield "".
func (d *Dispatcher) invoke(ctx context.Context, skill cmds.Skill, req *cmds.Request) (response string) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("skill panicked on command %q args %q: %v", req.Command, req.Args, r)
			response = ""
		}
	}()

	callCtx, cancel := context.WithTimeout(ctx, d.cfg.HTTPTimeout)
	defer cancel()

	response, err := skill.Run(callCtx, req)
	if err != nil {
		log.Printf("skill failed on command %q args %q in %s for %s: %v",
			req.Command, req.Args, req.Room, req.User, err)
		return ""
	}
	return response
}

// FallbackSearch treats free text as an image search query. Normalization
// order is fixed: trim, strip markers, lower-case, then length check.
func (d *Dispatcher) FallbackSearch(ctx context.Context, text string) *Outbound {
	query := strings.TrimSpace(text)
	query = strings.ReplaceAll(query, "!", "")
	query = strings.ToLower(query)
	if len(query) <= 1 {
		return nil
	}

	callCtx, cancel := context.WithTimeout(ctx, d.cfg.HTTPTimeout)
	defer cancel()

	image, err := d.searcher.SearchGif(callCtx, query)
	if err != nil {
		log.Printf("fallback search failed for %q: %v", query, err)
		return nil
	}
	if image == "" {
		return nil
	}
	return &Outbound{Text: image}
}
