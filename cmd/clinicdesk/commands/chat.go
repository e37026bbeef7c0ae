package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wolfman30/clinicdesk-ai/internal/app/bootstrap"
	"github.com/wolfman30/clinicdesk-ai/internal/conversation"
)

var chatSeed bool

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the assistant in the terminal",
	Long: `Start an interactive chat session on the in-memory stack.

Type a message and press enter. "exit" or Ctrl-D ends the session.

Examples:
  clinicdesk chat
  clinicdesk chat --seed`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger := loadConfig()
		cfg.DatabaseURL = ""
		cfg.SeedDemoData = chatSeed

		app, err := bootstrap.Build(cmd.Context(), cfg, logger, bootstrap.Options{
			Records:  bootstrap.MemoryRecords(cfg.Location()),
			Sessions: conversation.NewMemorySessionStore(),
		})
		if err != nil {
			return err
		}
		defer app.Close()
		return runChat(cmd.Context(), app.Engine, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func init() {
	chatCmd.Flags().BoolVar(&chatSeed, "seed", true, "load demo patients before chatting")
}

// runChat reads one message per line and prints each reply.
func runChat(ctx context.Context, engine conversation.TurnHandler, in io.Reader, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	scanner := bufio.NewScanner(in)
	sessionID := ""

	fmt.Fprintln(out, `Type a message ("exit" to quit).`)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.EqualFold(line, "exit") || strings.EqualFold(line, "quit") {
			return nil
		}

		res, err := engine.HandleTurn(ctx, conversation.TurnRequest{SessionID: sessionID, Message: line})
		if errors.Is(err, conversation.ErrInvalidMessage) {
			continue
		}
		if err != nil {
			return err
		}
		sessionID = res.SessionID
		fmt.Fprintf(out, "[%s] %s\n", res.Intent, res.Response)
	}
}
