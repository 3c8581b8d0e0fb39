package runner

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/aretw0/abacus/pkg/domain"
	"github.com/aretw0/abacus/pkg/session"
)

// Key groups, in keypad reference order.
const (
	GroupEntry    = "entry"
	GroupOperator = "operator"
	GroupFunction = "function"
	GroupMemory   = "memory"
	GroupCommand  = "command"
)

// Key is one keypad button and the keyboard bindings that press it.
type Key struct {
	Label   string   `json:"label"`
	Aliases []string `json:"aliases,omitempty"`
	Group   string   `json:"group"`
	Help    string   `json:"help"`

	press func(s *session.Session) error
}

func digit(d string) Key {
	return Key{Label: d, Group: GroupEntry, Help: "Append " + d,
		press: func(s *session.Session) error { return s.AppendDigit(d) }}
}

func operator(label, op, help string, aliases ...string) Key {
	return Key{Label: label, Aliases: aliases, Group: GroupOperator, Help: help,
		press: func(s *session.Session) error { return s.AppendOperator(op) }}
}

// immediate keys evaluate the buffer and apply the function to the result.
func immediate(label, fn, help string, aliases ...string) Key {
	return Key{Label: label, Aliases: aliases, Group: GroupFunction, Help: help,
		press: func(s *session.Session) error {
			_, err := s.ApplyFunction(fn)
			return err
		}}
}

func command(label, help string, press func(s *session.Session) error, aliases ...string) Key {
	return Key{Label: label, Aliases: aliases, Group: GroupCommand, Help: help, press: press}
}

func memory(label, help string, press func(s *session.Session), aliases ...string) Key {
	return Key{Label: label, Aliases: aliases, Group: GroupMemory, Help: help,
		press: func(s *session.Session) error {
			press(s)
			return nil
		}}
}

var keypad = []Key{
	digit("0"), digit("1"), digit("2"), digit("3"), digit("4"),
	digit("5"), digit("6"), digit("7"), digit("8"), digit("9"), digit("00"),
	{Label: ".", Group: GroupEntry, Help: "Decimal point",
		press: func(s *session.Session) error { s.AppendDecimalPoint(); return nil }},
	{Label: "(", Group: GroupEntry, Help: "Open parenthesis",
		press: func(s *session.Session) error { return s.AppendParen("(") }},
	{Label: ")", Group: GroupEntry, Help: "Close parenthesis",
		press: func(s *session.Session) error { return s.AppendParen(")") }},
	{Label: "π", Aliases: []string{"pi"}, Group: GroupEntry, Help: "Constant π",
		press: func(s *session.Session) error { return s.AppendConstant("π") }},
	{Label: "e", Group: GroupEntry, Help: "Euler's number",
		press: func(s *session.Session) error { return s.AppendConstant("e") }},

	operator("+", "+", "Add"),
	operator("-", "-", "Subtract"),
	operator("×", "*", "Multiply", "*"),
	operator("÷", "/", "Divide", "/"),
	operator("%", "%", "Modulo"),
	operator("mod", "mod", "Modulo"),
	{Label: "xⁿ", Aliases: []string{"**", "^", "pow"}, Group: GroupOperator, Help: "Raise to a power",
		press: func(s *session.Session) error { return s.AppendFunction("pow") }},
	{Label: "exp", Group: GroupOperator, Help: "Scientific exponent (×10ⁿ)",
		press: func(s *session.Session) error { return s.AppendFunction("exp") }},

	immediate("sin", "sin", "Sine of the display"),
	immediate("cos", "cos", "Cosine of the display"),
	immediate("tan", "tan", "Tangent of the display"),
	immediate("log", "log", "Base-10 logarithm of the display"),
	immediate("ln", "ln", "Natural logarithm of the display"),
	immediate("x²", "sqr", "Square the display", "sqr"),
	immediate("√", "sqrt", "Square root of the display", "sqrt"),
	immediate("1/x", "recip", "Reciprocal of the display", "recip"),
	immediate("|x|", "abs", "Absolute value of the display", "abs"),
	immediate("!", "fact", "Factorial of the display", "n!", "fact"),
	immediate("±", "neg", "Negate the display", "neg", "+/-"),

	memory("MC", "Clear memory", (*session.Session).MemoryClear),
	memory("MR", "Recall memory", func(s *session.Session) { s.MemoryRecall() }),
	memory("M+", "Add the display to memory", func(s *session.Session) { s.MemoryAdd() }),
	memory("M-", "Subtract the display from memory", func(s *session.Session) { s.MemorySubtract() }),

	command("=", "Evaluate", func(s *session.Session) error {
		_, err := s.Evaluate()
		return err
	}, "enter"),
	command("C", "Clear all", func(s *session.Session) error { s.ClearAll(); return nil }, "esc", "clear"),
	command("CE", "Clear entry", func(s *session.Session) error { s.ClearEntry(); return nil }),
	command("⌫", "Delete the last character", func(s *session.Session) error { s.Backspace(); return nil }, "bs", "backspace"),
	command("DEG/RAD", "Toggle the angle mode", func(s *session.Session) error { s.ToggleAngleMode(); return nil }, "mode"),
	command("DEG", "Use degrees", func(s *session.Session) error { s.SetAngleMode(domain.Degrees); return nil }),
	command("RAD", "Use radians", func(s *session.Session) error { s.SetAngleMode(domain.Radians); return nil }),
	command("Ans", "Recall the last result", func(s *session.Session) error { s.UseLastAnswer(); return nil }),
}

var keyIndex = buildIndex(keypad)

func buildIndex(keys []Key) map[string]Key {
	index := make(map[string]Key, len(keys)*2)
	for _, k := range keys {
		index[strings.ToLower(k.Label)] = k
		for _, a := range k.Aliases {
			index[strings.ToLower(a)] = k
		}
	}
	return index
}

// Keypad returns the keypad reference.
func Keypad() []Key {
	return append([]Key(nil), keypad...)
}

// Lookup finds the key bound to name, ignoring case.
func Lookup(name string) (Key, bool) {
	k, ok := keyIndex[strings.ToLower(strings.TrimSpace(name))]
	return k, ok
}

// Dispatch presses key on s.
// Besides the keypad, "hist N" reloads the N-th history expression (most recent first)
// and any other text is appended as a typed expression fragment.
// An empty evaluation is not an error.
func Dispatch(s *session.Session, key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil
	}

	var err error
	if k, ok := Lookup(key); ok {
		err = k.press(s)
	} else if rest, ok := cutPrefixFold(key, "hist "); ok {
		err = selectHistory(s, rest)
	} else {
		err = s.AppendText(key)
	}

	if errors.Is(err, domain.ErrEmptyInput) {
		return nil
	}
	return err
}

func selectHistory(s *session.Session, arg string) error {
	index, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		return fmt.Errorf("%w: %q", domain.ErrHistoryIndex, arg)
	}
	_, err = s.SelectHistory(index)
	return err
}

func cutPrefixFold(s, prefix string) (string, bool) {
	if len(s) < len(prefix) || !strings.EqualFold(s[:len(prefix)], prefix) {
		return "", false
	}
	return s[len(prefix):], true
}

// KeypadMarkdown renders the keypad reference as markdown.
func KeypadMarkdown() string {
	groups := map[string][]Key{}
	for _, k := range keypad {
		groups[k.Group] = append(groups[k.Group], k)
	}
	order := []string{GroupEntry, GroupOperator, GroupFunction, GroupMemory, GroupCommand}
	titles := map[string]string{
		GroupEntry:    "Entry",
		GroupOperator: "Operators",
		GroupFunction: "Functions (applied to the display)",
		GroupMemory:   "Memory",
		GroupCommand:  "Commands",
	}

	var sb strings.Builder
	sb.WriteString("# Keypad\n\n")
	for _, g := range order {
		sb.WriteString("## " + titles[g] + "\n\n")
		sb.WriteString("| Key | Also | Action |\n|---|---|---|\n")
		for _, k := range groups[g] {
			aliases := append([]string(nil), k.Aliases...)
			sort.Strings(aliases)
			sb.WriteString(fmt.Sprintf("| `%s` | %s | %s |\n", escapePipe(k.Label), codeList(aliases), k.Help))
		}
		sb.WriteString("\n")
	}
	sb.WriteString("Type `hist N` to reload a past expression, `history` to list them, `help` for this page and `quit` to leave.\n")
	sb.WriteString("Anything else is typed into the expression, e.g. `2*sin(30)+1`.\n")
	return sb.String()
}

func codeList(items []string) string {
	if len(items) == 0 {
		return ""
	}
	quoted := make([]string, len(items))
	for i, it := range items {
		quoted[i] = "`" + escapePipe(it) + "`"
	}
	return strings.Join(quoted, ", ")
}

// escapePipe keeps labels such as |x| from splitting a table cell.
func escapePipe(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
