package service

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/wearly/tryonbot/internal/domain"
)

// User-facing reply texts.
const (
	msgWelcome         = "Welcome to Virtual Try-On! Please send me a full-body photo of yourself."
	msgReset           = "Okay, starting over. Please send me a full-body photo of yourself."
	msgAskGarment      = "Great! Now send me the garment image you'd like to try on."
	msgResult          = "Here is your try-on result! Type 'start' to try another look."
	msgInstructions    = "Please send an image or type 'start' to begin."
	msgFetchFailed     = "Sorry, I couldn't download that image. Please try again."
	msgInferenceFailed = "Sorry, there was an error processing your images. Please try again."
)

type imageFetcher interface {
	Fetch(ctx context.Context, ref domain.MediaRef) (string, error)
}

type tryOnClient interface {
	TryOn(ctx context.Context, personPath, garmentPath string) (string, error)
}

// ConversationService drives the per-sender state machine. It is the only
// mutator of session state, and it owns deletion of the temp images the
// fetcher creates.
type ConversationService struct {
	sessions *SessionService
	fetcher  imageFetcher
	tryon    tryOnClient
}

func NewConversationService(sessions *SessionService, fetcher imageFetcher, tryon tryOnClient) *ConversationService {
	return &ConversationService{sessions: sessions, fetcher: fetcher, tryon: tryon}
}

// HandleEvent processes one inbound event to completion under the sender's
// lock and returns the reply. Every failure resolves to a conversational
// reply; nothing here is fatal.
func (s *ConversationService) HandleEvent(ctx context.Context, ev domain.InboundEvent) domain.Reply {
	var reply domain.Reply
	s.sessions.WithSession(ev.Sender, func(sess *domain.Session) {
		reply = s.handle(ctx, sess, ev)
	})
	return reply
}

func (s *ConversationService) handle(ctx context.Context, sess *domain.Session, ev domain.InboundEvent) domain.Reply {
	if ev.HasMedia() {
		return s.handleMedia(ctx, sess, *ev.Media)
	}

	switch strings.ToLower(strings.TrimSpace(ev.Body)) {
	case "start":
		s.restart(sess)
		return domain.Reply{Text: msgWelcome}
	case "reset":
		s.restart(sess)
		return domain.Reply{Text: msgReset}
	default:
		return domain.Reply{Text: msgInstructions}
	}
}

func (s *ConversationService) handleMedia(ctx context.Context, sess *domain.Session, ref domain.MediaRef) domain.Reply {
	switch sess.State {
	case domain.StateAwaitingPerson:
		path, err := s.fetcher.Fetch(ctx, ref)
		if err != nil {
			slog.Error("fetch person image", "sender", sess.Sender, "error", err)
			return domain.Reply{Text: msgFetchFailed}
		}
		sess.PersonImagePath = path
		sess.State = domain.StateAwaitingGarment
		return domain.Reply{Text: msgAskGarment}

	case domain.StateAwaitingGarment:
		if sess.PersonImagePath == "" {
			slog.Error("awaiting garment with no person image", "sender", sess.Sender, "error", domain.ErrSessionInvariant)
			sess.State = domain.StateAwaitingPerson
			return domain.Reply{Text: msgInstructions}
		}

		garmentPath, err := s.fetcher.Fetch(ctx, ref)
		if err != nil {
			// The stored person image stays; the sender can resend the garment.
			slog.Error("fetch garment image", "sender", sess.Sender, "error", err)
			return domain.Reply{Text: msgFetchFailed}
		}

		personPath := sess.PersonImagePath
		result, err := s.tryon.TryOn(ctx, personPath, garmentPath)

		removeImage(personPath)
		removeImage(garmentPath)
		sess.PersonImagePath = ""
		sess.State = domain.StateAwaitingPerson

		if err != nil {
			slog.Error("try-on inference", "sender", sess.Sender, "error", err)
			return domain.Reply{Text: msgInferenceFailed}
		}
		return domain.Reply{Text: msgResult, MediaRef: result}

	default:
		slog.Error("unknown session state", "sender", sess.Sender, "state", sess.State)
		s.restart(sess)
		return domain.Reply{Text: msgInstructions}
	}
}

// restart returns the session to the initial state, dropping any stored
// person image so a half-finished round cannot leak its temp file.
func (s *ConversationService) restart(sess *domain.Session) {
	if sess.PersonImagePath != "" {
		removeImage(sess.PersonImagePath)
	}
	sess.PersonImagePath = ""
	sess.State = domain.StateAwaitingPerson
}

func removeImage(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		slog.Warn("remove temp image", "path", path, "error", err)
	}
}
