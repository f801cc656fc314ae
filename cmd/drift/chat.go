package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/phanxgames/drift/analytics"
	"github.com/phanxgames/drift/chat"
)

func newChatCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Talk to the site assistant on the terminal",
		Long: `Reads one message per line from stdin and prints the assistant's reply.
An empty line or EOF ends the session. Without an API key every reply is the
"not configured" fallback.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			assistant := a.newAssistant(ctx)
			return chatLoop(ctx, assistant, a.analytics, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

func (a *app) newAssistant(ctx context.Context) *chat.Assistant {
	var completer chat.Completer
	c, err := chat.NewGenAICompleter(ctx, a.cfg.Chat.APIKey, a.cfg.Chat.Model)
	switch {
	case errors.Is(err, chat.ErrMissingKey):
	case err != nil:
		a.logger.Warn("chat unavailable", zap.Error(err))
	default:
		completer = c
	}
	return chat.NewAssistant(completer, chat.Options{
		SystemInstruction: a.cfg.Chat.SystemInstruction,
		Timeout:           a.cfg.ChatTimeout(),
		Logger:            a.logger.Named("chat"),
	})
}

// chatLoop runs a line-based conversation until EOF or an empty line.
func chatLoop(ctx context.Context, assistant *chat.Assistant, tracker *analytics.Dispatcher, in io.Reader, out io.Writer) error {
	sc := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !sc.Scan() {
			fmt.Fprintln(out)
			break
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			break
		}
		r := assistant.Reply(ctx, line)
		fmt.Fprintln(out, r.Text)

		label := "ok"
		if r.Fallback {
			label = "fallback"
		}
		tracker.Track(analytics.Event{Category: "chat", Action: "message", Label: label})
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	return nil
}
