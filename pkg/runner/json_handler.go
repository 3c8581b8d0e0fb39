package runner

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"
)

// JSONHandler implements the IOHandler interface for structured JSON-Lines communication.
// Every output is a single line: a View, or {"system": "..."} for meta-messages.
type JSONHandler struct {
	Reader  *bufio.Reader
	Writer  io.Writer
	Encoder *json.Encoder
}

// NewJSONHandler creates a handler for JSON IO.
func NewJSONHandler(r io.Reader, w io.Writer) *JSONHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	return &JSONHandler{
		Reader:  bufio.NewReader(r),
		Writer:  w,
		Encoder: json.NewEncoder(w),
	}
}

// Output emits the view as one JSON line.
func (h *JSONHandler) Output(ctx context.Context, view View) error {
	return h.Encoder.Encode(view)
}

// Input reads one line. The line may be a JSON string ("7"), an object
// ({"key": "7"}) or plain text (7).
func (h *JSONHandler) Input(ctx context.Context) (string, error) {
	text, err := h.Reader.ReadString('\n')
	if err != nil && (err != io.EOF || text == "") {
		return "", err
	}
	text = strings.TrimSpace(text)

	var val string
	if err := json.Unmarshal([]byte(text), &val); err == nil {
		return val, nil
	}

	var obj struct {
		Key string `json:"key"`
	}
	if strings.HasPrefix(text, "{") {
		if err := json.Unmarshal([]byte(text), &obj); err == nil {
			return obj.Key, nil
		}
	}

	// Fallback: return raw text (e.g. if they just sent plain text)
	return text, nil
}

// SystemOutput emits {"system": msg}.
func (h *JSONHandler) SystemOutput(ctx context.Context, msg string) error {
	return h.Encoder.Encode(map[string]string{"system": msg})
}
