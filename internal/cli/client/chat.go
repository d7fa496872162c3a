package client

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/cloo-solutions/supporthub/internal/domain"
	"github.com/spf13/cobra"
)

// ErrSubmissionInFlight is returned when a message is sent while the previous one
// is still waiting for a reply.
var ErrSubmissionInFlight = errors.New("a message is already being sent")

// QuickMessages are the suggested first questions offered on an empty chat.
var QuickMessages = []string{
	"How do I reset my password?",
	"What are your pricing plans?",
	"How do I contact support?",
	"Where can I find documentation?",
}

const (
	welcomeTitle = "Welcome to Support Hub"
	welcomeText  = "I'm here to help you with any questions about our products and services."
)

// ChatBackend sends one user message and returns the assistant reply.
type ChatBackend interface {
	Chat(ctx context.Context, message string) (*ChatResponse, error)
}

// ChatSession owns one conversation: its transcript, the last error banner, and
// the in-flight flag that serialises sends.
type ChatSession struct {
	backend    ChatBackend
	transcript domain.Transcript
	inFlight   atomic.Bool

	mu           sync.Mutex
	banner       string
	ticketOffer  bool
	lastResponse *ChatResponse
}

// NewChatSession creates an empty session bound to backend.
func NewChatSession(backend ChatBackend) *ChatSession {
	return &ChatSession{backend: backend}
}

// Send submits one message. Blank input is ignored and returns (nil, nil).
// On failure the transcript receives domain.FallbackReply, the banner is set to
// the error text, and the error is returned.
func (s *ChatSession) Send(ctx context.Context, input string) (*ChatResponse, error) {
	msg := strings.TrimSpace(input)
	if msg == "" {
		return nil, nil
	}
	if !s.inFlight.CompareAndSwap(false, true) {
		return nil, ErrSubmissionInFlight
	}
	defer s.inFlight.Store(false)

	s.transcript.Append(domain.RoleUser, msg)
	s.setBanner("")

	resp, err := s.backend.Chat(ctx, msg)
	if err != nil {
		s.transcript.Append(domain.RoleAssistant, domain.FallbackReply)
		s.setBanner(err.Error())
		return nil, err
	}

	s.transcript.Append(domain.RoleAssistant, resp.Response)

	s.mu.Lock()
	s.ticketOffer = resp.TicketOffered
	s.lastResponse = resp
	s.mu.Unlock()

	return resp, nil
}

// Busy reports whether a send is in flight.
func (s *ChatSession) Busy() bool {
	return s.inFlight.Load()
}

// Messages returns the transcript so far.
func (s *ChatSession) Messages() []domain.ChatMessage {
	return s.transcript.Messages()
}

// LastExchange returns the latest user message and the reply to it.
func (s *ChatSession) LastExchange() (user, assistant string) {
	return s.transcript.LastExchange()
}

// Banner returns the error text of the last failed send, or "".
func (s *ChatSession) Banner() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.banner
}

// TicketOffered reports whether the last reply suggested opening a ticket.
func (s *ChatSession) TicketOffered() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ticketOffer
}

func (s *ChatSession) setBanner(msg string) {
	s.mu.Lock()
	s.banner = msg
	s.mu.Unlock()
}

// ChatCmd creates the interactive chat command.
func ChatCmd() *cobra.Command {
	var (
		email    string
		priority string
	)

	cmd := &cobra.Command{
		Use:   "chat [message]",
		Short: "Chat with the support assistant",
		Long: `Starts an interactive chat with the support assistant.

With a message argument, sends that one message and prints the reply.
Inside the chat:
  1-4        send a suggested question (shown on start)
  /ticket    open a support ticket for the last exchange
  /history   print the conversation so far
  /quit      leave the chat`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := NewAPIClientWithCmd(cmd)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			session := NewChatSession(api)
			out := cmd.OutOrStdout()

			if len(args) == 1 {
				outputJSON, _ := cmd.Flags().GetBool("output")
				return runChatOnce(ctx, out, session, args[0], outputJSON)
			}

			if email == "" {
				email = defaultEmail()
			}
			repl := &chatREPL{
				session:  session,
				tickets:  api,
				in:       cmd.InOrStdin(),
				out:      out,
				email:    email,
				priority: priority,
			}
			return repl.run(ctx)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Contact email used for tickets opened from the chat")
	cmd.Flags().StringVar(&priority, "priority", string(domain.DefaultPriority), "Priority used for tickets opened from the chat")

	return cmd
}

func runChatOnce(ctx context.Context, out io.Writer, session *ChatSession, message string, outputJSON bool) error {
	resp, err := session.Send(ctx, message)
	if err != nil {
		fmt.Fprintln(out, domain.FallbackReply)
		return err
	}
	if resp == nil {
		return fmt.Errorf("message cannot be empty")
	}

	if outputJSON {
		return printJSON(out, resp)
	}

	fmt.Fprintln(out, resp.Response)
	if resp.TicketOffered {
		fmt.Fprintln(out, "\nNeed more help? Run 'supporthub ticket' to open a support ticket.")
	}
	return nil
}

type chatREPL struct {
	session  *ChatSession
	tickets  TicketSubmitter
	in       io.Reader
	out      io.Writer
	email    string
	priority string
}

func (r *chatREPL) run(ctx context.Context) error {
	r.printWelcome()

	scanner := bufio.NewScanner(r.in)
	for {
		fmt.Fprint(r.out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(r.out)
			return scanner.Err()
		}
		if ctx.Err() != nil {
			return nil
		}

		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			continue
		case line == "/quit" || line == "/exit":
			return nil
		case line == "/history":
			r.printHistory()
			continue
		case line == "/ticket":
			r.openTicket(ctx)
			continue
		}

		if n, err := strconv.Atoi(line); err == nil && r.session.transcript.Len() == 0 && n >= 1 && n <= len(QuickMessages) {
			line = QuickMessages[n-1]
			fmt.Fprintf(r.out, "> %s\n", line)
		}

		r.send(ctx, line)
	}
}

func (r *chatREPL) send(ctx context.Context, line string) {
	fmt.Fprintln(r.out, "...")
	resp, err := r.session.Send(ctx, line)
	if err != nil {
		fmt.Fprintf(r.out, "assistant: %s\n", domain.FallbackReply)
		fmt.Fprintf(r.out, "! %s\n", r.session.Banner())
		return
	}
	if resp == nil {
		return
	}

	fmt.Fprintf(r.out, "assistant: %s\n", resp.Response)
	if resp.TicketOffered {
		fmt.Fprintln(r.out, "(Type /ticket to open a support ticket for this question.)")
	}
}

func (r *chatREPL) openTicket(ctx context.Context) {
	userMsg, aiResp := r.session.LastExchange()
	if userMsg == "" {
		fmt.Fprintln(r.out, "Ask a question first, then type /ticket.")
		return
	}

	dialog := domain.NewTicketDialog()
	req := TicketRequest{
		UserMessage: userMsg,
		AIResponse:  aiResp,
		UserEmail:   r.email,
		Priority:    r.priority,
	}
	if err := submitTicket(ctx, r.out, r.tickets, dialog, req); err != nil {
		fmt.Fprintf(r.out, "! %s\n", err)
	}
}

func (r *chatREPL) printWelcome() {
	fmt.Fprintln(r.out, welcomeTitle)
	fmt.Fprintln(r.out, welcomeText)
	fmt.Fprintln(r.out)
	for i, q := range QuickMessages {
		fmt.Fprintf(r.out, "  %d. %s\n", i+1, q)
	}
	fmt.Fprintln(r.out)
}

func (r *chatREPL) printHistory() {
	for _, m := range r.session.Messages() {
		fmt.Fprintf(r.out, "[%s] %s: %s\n", m.Timestamp.Local().Format("15:04"), m.Role, m.Content)
	}
}
