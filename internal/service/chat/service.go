package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/w-h-a/commonbase/internal/service/engine"
	"github.com/w-h-a/commonbase/store"
)

const (
	welcomeNew      = "Welcome %s! You can now use the insert and search commands."
	welcomeBack     = "Welcome back! You can use the insert and search commands."
	nameUpdated     = "Thanks, %s! Your name was updated."
	recordInserted  = "Record inserted!"
	unknownCommand  = "Unknown command. Send /help for the list."
	embeddingFailed = "Sorry, I could not process that right now. Please try again later."
	storeFailed     = "Something went wrong on my side. Please try again later."

	helpText = "Commands:\n" +
		"/start - Start the bot\n" +
		"/name [name] - Set your name\n" +
		"/insert [content] - Insert a record\n" +
		"[query] - Search for similar records\n" +
		"/? - Three random records\n" +
		"/expand - Retry your unanswered queries with a wider search\n"
)

// Event is one parsed inbound chat message, already stripped of transport
// framing by the gateway that received it.
type Event struct {
	SenderID   string
	SenderName string
	ChatID     string
	Text       string
}

type handler func(ctx context.Context, ev Event, args string) (string, error)

// Service routes parsed events to the retrieval engine: a dispatch table for
// command-form text, free text to the query path. Every failure produces a
// human-readable reply; no handler failure escapes to the caller.
type Service struct {
	engine   *engine.Service
	store    store.Store
	commands map[string]handler
}

// Respond handles one inbound event and returns the reply text. It never
// returns an empty reply.
func (s *Service) Respond(ctx context.Context, ev Event) string {
	known, reply := s.respond(ctx, ev)
	if !known {
		return unknownCommand
	}
	return reply
}

func (s *Service) respond(ctx context.Context, ev Event) (bool, string) {
	name, args := splitCommand(ev.Text)

	cmd, isCommand := s.commands[name]
	if strings.HasPrefix(name, "/") && !isCommand {
		return false, ""
	}

	if !isCommand {
		cmd = s.handleQuery
		args = strings.TrimSpace(ev.Text)
	}

	// /start registers explicitly; everything else onboards on first contact
	if name != "/start" {
		if err := s.ensureUser(ctx, ev); err != nil {
			slog.ErrorContext(ctx, "failed to ensure user", "sender", ev.SenderID, "error", err)
			return true, storeFailed
		}
	}

	reply, err := cmd(ctx, ev, args)
	if err != nil {
		return true, friendlyFailure(ctx, ev, err)
	}

	return true, reply
}

func (s *Service) handleStart(ctx context.Context, ev Event, _ string) (string, error) {
	_, err := s.store.GetUser(ctx, ev.SenderID)
	if err == nil {
		return welcomeBack, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return "", fmt.Errorf("%w: %v", engine.ErrStoreRead, err)
	}

	if err := s.store.CreateUser(ctx, ev.SenderID, ev.SenderName); err != nil {
		return "", fmt.Errorf("%w: %v", engine.ErrStoreWrite, err)
	}

	return fmt.Sprintf(welcomeNew, ev.SenderName), nil
}

func (s *Service) handleName(ctx context.Context, ev Event, args string) (string, error) {
	if len(args) == 0 {
		return "Usage: /name [name]", nil
	}

	if err := s.store.RenameUser(ctx, ev.SenderID, args); err != nil {
		return "", fmt.Errorf("%w: %v", engine.ErrStoreWrite, err)
	}

	return fmt.Sprintf(nameUpdated, args), nil
}

func (s *Service) handleInsert(ctx context.Context, ev Event, args string) (string, error) {
	if len(args) == 0 {
		return "Usage: /insert [content]", nil
	}

	if err := s.engine.Insert(ctx, ev.SenderID, args); err != nil {
		return "", err
	}

	return recordInserted, nil
}

func (s *Service) handleHelp(ctx context.Context, ev Event, _ string) (string, error) {
	return helpText, nil
}

func (s *Service) handleRandom(ctx context.Context, ev Event, _ string) (string, error) {
	return s.engine.Random(ctx)
}

func (s *Service) handleExpand(ctx context.Context, ev Event, _ string) (string, error) {
	return s.engine.Expand(ctx, ev.SenderID)
}

func (s *Service) handleQuery(ctx context.Context, ev Event, args string) (string, error) {
	if len(args) == 0 {
		return helpText, nil
	}

	return s.engine.Query(ctx, ev.SenderID, args)
}

func (s *Service) ensureUser(ctx context.Context, ev Event) error {
	_, err := s.store.GetUser(ctx, ev.SenderID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	return s.store.CreateUser(ctx, ev.SenderID, ev.SenderName)
}

func friendlyFailure(ctx context.Context, ev Event, err error) string {
	slog.ErrorContext(ctx, "handler failed", "sender", ev.SenderID, "error", err)

	if errors.Is(err, engine.ErrEmbeddingUnavailable) {
		return embeddingFailed
	}

	return storeFailed
}

func splitCommand(payload string) (name string, args string) {
	parts := strings.Fields(payload)
	if len(parts) == 0 {
		return "", ""
	}

	name = parts[0]
	if len(payload) > len(name) {
		args = strings.TrimSpace(payload[strings.Index(payload, name)+len(name):])
	}

	return name, args
}

func New(e *engine.Service, st store.Store) *Service {
	s := &Service{
		engine: e,
		store:  st,
	}

	s.commands = map[string]handler{
		"/start":  s.handleStart,
		"/name":   s.handleName,
		"/insert": s.handleInsert,
		"/help":   s.handleHelp,
		"/?":      s.handleRandom,
		"/random": s.handleRandom,
		"/expand": s.handleExpand,
	}

	return s
}
