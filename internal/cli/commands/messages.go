package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/carthatamaz/cartha/internal/cli/client"
	"github.com/carthatamaz/cartha/internal/cli/session"
)

// defaultWatchInterval is how often `messages watch` polls the server
const defaultWatchInterval = 5 * time.Second

// NewMessagesCmd creates the messages command group
func NewMessagesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "messages",
		Aliases: []string{"msg"},
		Short:   "Read and send direct messages",
	}

	cmd.AddCommand(newMessagesListCmd())
	cmd.AddCommand(newMessagesSendCmd())
	cmd.AddCommand(newMessagesReadCmd())
	cmd.AddCommand(newMessagesConversationsCmd())
	cmd.AddCommand(newMessagesUnreadCmd())
	cmd.AddCommand(newMessagesWatchCmd())

	return cmd
}

func newMessagesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ls",
		Short: "List your messages, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProtected(nil, func(ctx context.Context, e *env, sess session.Session) error {
				messages, err := e.api.Messages(ctx)
				if err != nil {
					return fmt.Errorf("failed to list messages: %w", err)
				}
				printMessages(messages, sess.User.ID)
				return nil
			})
		},
	}
}

func newMessagesSendCmd() *cobra.Command {
	var req client.MessageRequest

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send a message",
		RunE: func(cmd *cobra.Command, args []string) error {
			if req.ReceiverID == "" || req.Content == "" {
				return fmt.Errorf("--to and --text are required")
			}

			return runProtected(nil, func(ctx context.Context, e *env, sess session.Session) error {
				msg, err := e.api.SendMessage(ctx, req)
				if err != nil {
					return fmt.Errorf("failed to send message: %w", err)
				}
				fmt.Printf("✓ Sent message %s.\n", msg.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&req.ReceiverID, "to", "", "Recipient user ID")
	cmd.Flags().StringVar(&req.Content, "text", "", "Message text")

	return cmd
}

func newMessagesReadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "read <id>",
		Short: "Mark a message as read",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProtected(nil, func(ctx context.Context, e *env, sess session.Session) error {
				if err := e.api.MarkMessageRead(ctx, args[0]); err != nil {
					return fmt.Errorf("failed to mark message read: %w", err)
				}
				fmt.Println("✓ Marked as read.")
				return nil
			})
		},
	}
}

func newMessagesConversationsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "conversations",
		Short: "List conversations grouped by contact",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProtected(nil, func(ctx context.Context, e *env, sess session.Session) error {
				conversations, err := e.api.Conversations(ctx)
				if err != nil {
					return fmt.Errorf("failed to list conversations: %w", err)
				}

				if len(conversations) == 0 {
					fmt.Println("No conversations yet.")
					return nil
				}
				for _, conv := range conversations {
					marker := " "
					if conv.UnreadCount > 0 {
						marker = "*"
					}
					fmt.Printf("%s %s (%s): %s\n", marker, conv.OtherUserName, conv.OtherUserID, conv.LastMessage)
				}
				return nil
			})
		},
	}
}

func newMessagesUnreadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unread",
		Short: "Show the unread message count",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProtected(nil, func(ctx context.Context, e *env, sess session.Session) error {
				count, err := e.api.UnreadMessageCount(ctx)
				if err != nil {
					return fmt.Errorf("failed to fetch unread count: %w", err)
				}
				fmt.Printf("%d unread\n", count)
				return nil
			})
		},
	}
}

func newMessagesWatchCmd() *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Poll the unread count until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProtected(nil, func(ctx context.Context, e *env, sess session.Session) error {
				return watchUnread(e, interval)
			})
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", defaultWatchInterval, "Polling interval")

	return cmd
}

// watchResult carries one poll's outcome together with its sequence
// number, so a slow early response can never overwrite a later one
type watchResult struct {
	seq   uint64
	count int64
	err   error
}

// watchUnread polls on a fixed ticker. Every tick issues a fetch whether
// or not earlier ones are still in flight; the most recently issued
// request that completes wins the display.
func watchUnread(e *env, interval time.Duration) error {
	if interval <= 0 {
		interval = defaultWatchInterval
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Watching unread messages every %s. Ctrl-C to stop.\n", interval)

	results := make(chan watchResult, 1)
	var seq uint64

	poll := func(n uint64) {
		fetchCtx, cancel := context.WithTimeout(ctx, interval*2)
		defer cancel()

		count, err := e.api.UnreadMessageCount(fetchCtx)
		select {
		case results <- watchResult{seq: n, count: count, err: err}:
		case <-ctx.Done():
		}
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	seq++
	go poll(seq)

	var shown uint64
	for {
		select {
		case <-ctx.Done():
			fmt.Println("\nStopped.")
			return nil
		case <-ticker.C:
			seq++
			go poll(seq)
		case res := <-results:
			if res.seq < shown {
				continue
			}
			shown = res.seq
			if res.err != nil {
				if client.IsAuthRejected(res.err) {
					return fmt.Errorf("session expired: %w", res.err)
				}
				fmt.Printf("%s  fetch failed: %v\n", time.Now().Format("15:04:05"), res.err)
				continue
			}
			fmt.Printf("%s  %d unread\n", time.Now().Format("15:04:05"), res.count)
		}
	}
}

func printMessages(messages []client.Message, selfID string) {
	if len(messages) == 0 {
		fmt.Println("No messages.")
		return
	}

	for _, msg := range messages {
		direction := "from"
		who := msg.SenderID
		if msg.Sender != nil && msg.Sender.FullName != "" {
			who = msg.Sender.FullName
		}
		if msg.SenderID == selfID {
			direction = "to"
			who = msg.ReceiverID
			if msg.Receiver != nil && msg.Receiver.FullName != "" {
				who = msg.Receiver.FullName
			}
		}

		marker := " "
		if !msg.IsRead && msg.ReceiverID == selfID {
			marker = "*"
		}
		fmt.Printf("%s [%s] %s %s: %s\n", marker, msg.ID, direction, who, msg.Content)
	}
}
