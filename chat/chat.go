// Package chat answers visitor messages with a hosted generative model and
// turns every failure into a short fallback message.
package chat

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
)

// User-facing fallback messages. Failures are never surfaced in any other
// form.
const (
	FallbackMissingKey = "The assistant is not configured right now. Please reach out through the contact form."
	FallbackTimeout    = "That took too long to answer. Please try again in a moment."
	FallbackBusy       = "The assistant is busy right now. Please try again shortly."
	FallbackGeneric    = "Sorry, something went wrong. Please try again."
)

// ErrMissingKey is returned by NewGenAICompleter when no API key is set.
var ErrMissingKey = errors.New("chat: API key is required")

// Role is the author of a conversation turn.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Turn is one message in a conversation.
type Turn struct {
	Role Role
	Text string
}

// Completer produces the next model message for a conversation. history
// ends with the user message being answered.
type Completer interface {
	Complete(ctx context.Context, system string, history []Turn) (string, error)
}

// Reply is the outcome of one exchange.
type Reply struct {
	Text     string
	Fallback bool // Text is a fallback message, not a model answer
	Err      error
}

// Options configures an Assistant.
type Options struct {
	SystemInstruction string
	Timeout           time.Duration
	Logger            *zap.Logger
}

// Assistant keeps the running conversation and calls the completer once per
// message. No retries.
type Assistant struct {
	completer Completer
	system    string
	timeout   time.Duration
	logger    *zap.Logger
	history   []Turn
}

// NewAssistant creates an assistant. A nil completer means no API key was
// configured; every reply is then FallbackMissingKey.
func NewAssistant(c Completer, opts Options) *Assistant {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Assistant{
		completer: c,
		system:    opts.SystemInstruction,
		timeout:   opts.Timeout,
		logger:    opts.Logger,
	}
}

// History returns a copy of the conversation so far.
func (a *Assistant) History() []Turn {
	out := make([]Turn, len(a.history))
	copy(out, a.history)
	return out
}

// Reset clears the conversation.
func (a *Assistant) Reset() {
	a.history = a.history[:0]
}

// Reply sends message and returns the model's answer, or a fallback. The
// user turn is always recorded; the model turn only on success.
func (a *Assistant) Reply(ctx context.Context, message string) Reply {
	message = strings.TrimSpace(message)
	if message == "" {
		return Reply{}
	}
	a.history = append(a.history, Turn{Role: RoleUser, Text: message})

	if a.completer == nil {
		a.logger.Warn("chat: no API key configured")
		return Reply{Text: FallbackMissingKey, Fallback: true, Err: ErrMissingKey}
	}

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	text, err := a.completer.Complete(ctx, a.system, a.History())
	if err == nil && strings.TrimSpace(text) == "" {
		err = errEmptyCompletion
	}
	if err != nil {
		fallback := FallbackFor(err)
		a.logger.Warn("chat: completion failed",
			zap.Error(err),
			zap.String("fallback", fallback),
		)
		return Reply{Text: fallback, Fallback: true, Err: err}
	}

	a.history = append(a.history, Turn{Role: RoleModel, Text: text})
	return Reply{Text: text}
}

var errEmptyCompletion = errors.New("chat: empty completion")

// FallbackFor maps a completion error to the message shown to the visitor.
func FallbackFor(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMissingKey):
		return FallbackMissingKey
	case errors.Is(err, context.DeadlineExceeded):
		return FallbackTimeout
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "deadline"):
		return FallbackTimeout
	case strings.Contains(msg, "429"),
		strings.Contains(msg, "quota"),
		strings.Contains(msg, "resource_exhausted"),
		strings.Contains(msg, "rate limit"):
		return FallbackBusy
	}
	return FallbackGeneric
}
