package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/abacus/internal/presentation/tui"
	"golang.org/x/term"
)

// TextHandler implements the standard text-based interface.
type TextHandler struct {
	Reader   *bufio.Reader
	Writer   io.Writer
	Renderer ContentRenderer
	Width    int

	// Prompt is printed before every read. It defaults to "> " on terminals
	// and to nothing when input is piped.
	Prompt string

	inputChan chan inputResult
	startOnce sync.Once
}

type inputResult struct {
	text string
	err  error
}

// TextHandlerOption defines configuration for TextHandler.
type TextHandlerOption func(*TextHandler)

// WithTextHandlerRenderer configures the markdown renderer.
func WithTextHandlerRenderer(renderer ContentRenderer) TextHandlerOption {
	return func(h *TextHandler) {
		h.Renderer = renderer
	}
}

// WithTextHandlerWidth sets the display width before truncation.
func WithTextHandlerWidth(width int) TextHandlerOption {
	return func(h *TextHandler) {
		if width > 0 {
			h.Width = width
		}
	}
}

// WithTextHandlerPrompt overrides the prompt.
func WithTextHandlerPrompt(prompt string) TextHandlerOption {
	return func(h *TextHandler) {
		h.Prompt = prompt
	}
}

// NewTextHandler creates a handler for standard text IO.
func NewTextHandler(r io.Reader, w io.Writer, opts ...TextHandlerOption) *TextHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	h := &TextHandler{
		Reader: bufio.NewReader(r),
		Writer: w,
		Width:  tui.DefaultWidth,
	}
	if IsTerminal(r) {
		h.Prompt = "> "
	}

	for _, opt := range opts {
		opt(h)
	}
	return h
}

// IsTerminal reports whether r is an interactive terminal.
func IsTerminal(r any) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (h *TextHandler) initPump() {
	h.startOnce.Do(func() {
		h.inputChan = make(chan inputResult)
		go h.pump()
	})
}

func (h *TextHandler) pump() {
	for {
		text, err := h.Reader.ReadString('\n')

		// If we got text (even with EOF), send it
		if text != "" {
			h.inputChan <- inputResult{text: text}
		}

		if err != nil {
			if err == io.EOF {
				close(h.inputChan)
				return
			}
			h.inputChan <- inputResult{err: err}
			// Backoff for non-fatal errors to prevent CPU spikes on persistent failure
			time.Sleep(50 * time.Millisecond)
		}
	}
}

// Output prints the status line and, when present, the history.
func (h *TextHandler) Output(ctx context.Context, view View) error {
	if view.History != nil {
		if err := h.render(tui.HistoryMarkdown(view.History)); err != nil {
			return err
		}
	}

	message := ""
	if view.Error != "" {
		message = view.Message
	}
	_, err := fmt.Fprintln(h.Writer, tui.StatusLine(tui.Status{
		Display:        view.Display,
		LastExpression: view.Expression,
		Memory:         view.Memory,
		AngleMode:      view.AngleMode,
		Error:          message,
	}, h.Width))
	return err
}

// Input returns the next trimmed line. It honours ctx while waiting.
func (h *TextHandler) Input(ctx context.Context) (string, error) {
	h.initPump()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
		if h.Prompt != "" {
			fmt.Fprint(h.Writer, h.Prompt)
		}
	}

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res, ok := <-h.inputChan:
		if !ok {
			return "", io.EOF
		}
		if res.err != nil {
			return "", res.err
		}
		return strings.TrimSpace(res.text), nil
	}
}

// SystemOutput renders msg as markdown.
func (h *TextHandler) SystemOutput(ctx context.Context, msg string) error {
	return h.render(msg)
}

func (h *TextHandler) render(markdown string) error {
	output := markdown
	if h.Renderer != nil {
		if rendered, err := h.Renderer(markdown); err == nil {
			output = rendered
		}
	}
	_, err := fmt.Fprintln(h.Writer, strings.TrimRight(output, "\n"))
	return err
}
