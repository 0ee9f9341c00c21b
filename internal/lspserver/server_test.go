package lspserver

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeMessage(buf *bytes.Buffer, v interface{}) {
	data, _ := json.Marshal(v)
	fmt.Fprintf(buf, "Content-Length: %d\r\n\r\n%s", len(data), data)
}

// readMessages re-parses the server's Content-Length-framed output the same
// way Server.Start reads its input, so the test stays in sync with the
// framing format instead of duplicating a looser ad hoc parser.
func readMessages(t *testing.T, data []byte) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	r := bufio.NewReader(bytes.NewReader(data))
	for {
		line, err := r.ReadString('\n')
		if err == io.EOF && line == "" {
			break
		}
		require.NoError(t, err)
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			continue
		}
		n, err := strconv.Atoi(strings.TrimPrefix(line, "Content-Length: "))
		require.NoError(t, err)
		sep, err := r.ReadString('\n')
		require.NoError(t, err)
		require.Equal(t, "", strings.TrimRight(sep, "\r\n"))
		body := make([]byte, n)
		_, err = io.ReadFull(r, body)
		require.NoError(t, err)
		var msg map[string]interface{}
		require.NoError(t, json.Unmarshal(body, &msg))
		out = append(out, msg)
	}
	return out
}

func TestInitializeAdvertisesHoverAndDefinition(t *testing.T) {
	var in, out bytes.Buffer
	writeMessage(&in, RequestMessage{Jsonrpc: "2.0", ID: 1, Method: "initialize", Params: InitializeParams{}})
	writeMessage(&in, NotificationMessage{Jsonrpc: "2.0", Method: "exit"})

	s := New(&in, &out, &bytes.Buffer{})
	require.NoError(t, s.Start())

	msgs := readMessages(t, out.Bytes())
	require.Len(t, msgs, 1)
	result := msgs[0]["result"].(map[string]interface{})
	caps := result["capabilities"].(map[string]interface{})
	require.Equal(t, true, caps["hoverProvider"])
	require.Equal(t, true, caps["definitionProvider"])
}

func TestDidOpenPublishesDiagnosticsForBadSource(t *testing.T) {
	var in, out bytes.Buffer
	writeMessage(&in, NotificationMessage{Jsonrpc: "2.0", Method: "textDocument/didOpen", Params: DidOpenTextDocumentParams{
		TextDocument: TextDocumentItem{URI: "file:///bad.al", Text: "fn broken("},
	}})
	writeMessage(&in, NotificationMessage{Jsonrpc: "2.0", Method: "exit"})

	s := New(&in, &out, &bytes.Buffer{})
	require.NoError(t, s.Start())

	msgs := readMessages(t, out.Bytes())
	require.Len(t, msgs, 1)
	require.Equal(t, "textDocument/publishDiagnostics", msgs[0]["method"])
	params := msgs[0]["params"].(map[string]interface{})
	diags := params["diagnostics"].([]interface{})
	require.NotEmpty(t, diags)
}

func TestHoverReturnsResolvedType(t *testing.T) {
	var in, out bytes.Buffer
	src := "fn add(a Int, b Int) Int { a + b }\nadd(1, 2)\n"
	writeMessage(&in, NotificationMessage{Jsonrpc: "2.0", Method: "textDocument/didOpen", Params: DidOpenTextDocumentParams{
		TextDocument: TextDocumentItem{URI: "file:///ok.al", Text: src},
	}})
	writeMessage(&in, RequestMessage{Jsonrpc: "2.0", ID: 2, Method: "textDocument/hover", Params: HoverParams{
		TextDocument: TextDocumentIdentifier{URI: "file:///ok.al"},
		Position:     Position{Line: 1, Character: 0},
	}})
	writeMessage(&in, NotificationMessage{Jsonrpc: "2.0", Method: "exit"})

	s := New(&in, &out, &bytes.Buffer{})
	require.NoError(t, s.Start())

	msgs := readMessages(t, out.Bytes())
	require.Len(t, msgs, 2)
	hoverResp := msgs[1]
	require.Equal(t, float64(2), hoverResp["id"])
	result := hoverResp["result"].(map[string]interface{})
	contents := result["contents"].(map[string]interface{})
	require.Contains(t, contents["value"], "Int")
}
