package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/koraenergy/kora-control/internal/domain"
	"github.com/koraenergy/kora-control/internal/pages"
	"github.com/koraenergy/kora-control/internal/transcript"
)

var (
	chatHistory bool
	chatLast    int
)

var chatCmd = &cobra.Command{
	Use:   "chat [message]",
	Short: "Ask the AI assistant",
	Long: `Sends one message when given as arguments, otherwise starts an
interactive session (empty line or Ctrl+D to quit). Messages are kept in a
local transcript; --history prints it.`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().BoolVar(&chatHistory, "history", false, "print past chat sessions instead of chatting")
	chatCmd.Flags().IntVar(&chatLast, "last", 5, "sessions to print with --history")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	if chatHistory {
		return printChatHistory(transcript.DefaultPath(), chatLast)
	}

	e, err := setup(false, cliNavigator)
	if err != nil {
		return err
	}
	defer e.Close()
	if err := e.requireLogin(); err != nil {
		return err
	}

	chat := pages.NewChat(e.client, e.pageOptions()...)
	defer chat.Close()
	defer attachTranscript(e, chat)()

	if len(args) > 0 {
		return chatOnce(cmd, chat, strings.Join(args, " "))
	}

	if msgs := chat.State().Messages; len(msgs) > 0 {
		printChatMessage(msgs[0])
	}
	for {
		line, err := promptLine("you")
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if line == "" {
			return nil
		}
		if err := chatOnce(cmd, chat, line); err != nil && !errors.Is(err, pages.ErrEmptyMessage) {
			fmt.Printf("  (%v)\n", err)
		}
	}
}

// chatOnce sends text and prints the assistant entry, which is the reply
// or the apology on failure.
func chatOnce(cmd *cobra.Command, chat *pages.Chat, text string) error {
	reply, err := chat.Send(cmd.Context(), text)
	if reply.Text != "" {
		printChatMessage(reply)
	}
	return err
}

func printChatMessage(m domain.ChatMessage) {
	who := "kora"
	if m.Role == domain.RoleUser {
		who = "you"
	}
	fmt.Printf("%s: %s\n", who, m.Text)
}

func printChatHistory(path string, last int) error {
	res, err := transcript.ReadFile(path)
	if err != nil {
		return err
	}
	sessions := transcript.Sessions(transcript.Dedup(res.Entries))
	if len(sessions) == 0 {
		fmt.Println("No chat history")
		return nil
	}
	if last > 0 && len(sessions) > last {
		sessions = sessions[len(sessions)-last:]
	}

	for i, s := range sessions {
		if i > 0 {
			fmt.Println()
		}
		fmt.Printf("=== %s (%d messages) ===\n", humanize.Time(s.Started), len(s.Messages))
		for _, m := range s.Messages {
			printChatMessage(m)
		}
	}
	if res.ErrorCount > 0 {
		fmt.Printf("\n(%d unreadable lines skipped)\n", res.ErrorCount)
	}
	return nil
}
