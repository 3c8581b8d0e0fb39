package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aretw0/abacus/internal/logging"
	"github.com/aretw0/abacus/internal/testutils"
	"github.com/aretw0/abacus/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	return NewServer(testutils.NewManager(t), WithLogger(logging.NewNop()))
}

func TestCalculate(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		args   CalculateArgs
		result string
		kind   domain.ErrorKind
	}{
		{"arithmetic", CalculateArgs{Expression: "2+3*4"}, "14", ""},
		{"factorial", CalculateArgs{Expression: "fact(5)"}, "120", ""},
		{"degrees", CalculateArgs{Expression: "2*sin(30)+1"}, "2", ""},
		{"radians", CalculateArgs{Expression: "cos(pi)", AngleMode: "RAD"}, "-1", ""},
		{"divide by zero", CalculateArgs{Expression: "1/0"}, "", domain.KindDivideByZero},
		{"domain", CalculateArgs{Expression: "ln(0)"}, "", domain.KindDomain},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := s.handleCalculate(ctx, mcp.CallToolRequest{}, tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.kind == "", resp.OK)
			assert.Equal(t, tt.result, resp.Result)
			assert.Equal(t, tt.kind, resp.Error)
		})
	}

	_, err := s.handleCalculate(ctx, mcp.CallToolRequest{}, CalculateArgs{Expression: "1", AngleMode: "grad"})
	assert.Error(t, err)
}

func TestPressKey_SessionFlow(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	for _, key := range []string{"9", "×", "9"} {
		_, err := s.handlePressKey(ctx, mcp.CallToolRequest{}, KeyArgs{Key: key})
		require.NoError(t, err)
	}
	v, err := s.handlePressKey(ctx, mcp.CallToolRequest{}, KeyArgs{Key: "="})
	require.NoError(t, err)
	assert.Equal(t, "81", v.Display)
	assert.Equal(t, "9*9", v.Expression)

	v, err = s.handlePressKey(ctx, mcp.CallToolRequest{}, KeyArgs{Key: "√"})
	require.NoError(t, err)
	assert.Equal(t, "9", v.Display)

	// Sessions are isolated.
	v, err = s.handlePressKey(ctx, mcp.CallToolRequest{}, KeyArgs{Key: "2", SessionID: "other"})
	require.NoError(t, err)
	assert.Equal(t, "2", v.Display)

	hist, err := s.handleGetHistory(ctx, mcp.CallToolRequest{}, HistoryArgs{})
	require.NoError(t, err)
	assert.Equal(t, DefaultSessionID, hist.SessionID)
	assert.Equal(t, []domain.HistoryEntry{{Expression: "9*9", Result: "81"}}, hist.History)

	hist, err = s.handleGetHistory(ctx, mcp.CallToolRequest{}, HistoryArgs{SessionID: "other"})
	require.NoError(t, err)
	assert.Empty(t, hist.History)
}

func TestPressKey_Errors(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	for _, key := range []string{"1", "÷", "0", "="} {
		_, err := s.handlePressKey(ctx, mcp.CallToolRequest{}, KeyArgs{Key: key, SessionID: "div"})
		require.NoError(t, err)
	}
	v, err := s.handlePressKey(ctx, mcp.CallToolRequest{}, KeyArgs{Key: "bogus", SessionID: "div"})
	require.NoError(t, err)
	assert.Equal(t, domain.KindInvalidKey, v.Error)

	_, err = s.handlePressKey(ctx, mcp.CallToolRequest{}, KeyArgs{Key: "\xff"})
	assert.ErrorIs(t, err, domain.ErrInvalidUTF8)
}

func TestProtocol_ListsToolsAndResources(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	call := func(msg string) string {
		t.Helper()
		resp := s.MCPServer().HandleMessage(ctx, json.RawMessage(msg))
		require.NotNil(t, resp)
		out, err := json.Marshal(resp)
		require.NoError(t, err)
		return string(out)
	}

	call(`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2024-11-05","capabilities":{},"clientInfo":{"name":"test","version":"1.0"}}}`)

	tools := call(`{"jsonrpc":"2.0","id":2,"method":"tools/list"}`)
	assert.Contains(t, tools, `"calculate"`)
	assert.Contains(t, tools, `"press_key"`)
	assert.Contains(t, tools, `"get_history"`)

	resources := call(`{"jsonrpc":"2.0","id":3,"method":"resources/list"}`)
	assert.Contains(t, resources, keypadURI)
	assert.Contains(t, resources, functionsURI)

	keypad := call(`{"jsonrpc":"2.0","id":4,"method":"resources/read","params":{"uri":"abacus://keypad"}}`)
	assert.Contains(t, keypad, "# Keypad")
}
