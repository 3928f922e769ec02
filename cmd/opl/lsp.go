package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"

	"github.com/opl-lang/opl/opl"
)

const (
	severityError   = 1
	severityWarning = 2

	completionKindFunction = 3
	completionKindKeyword  = 14
)

var builtinDocs = map[string]string{
	"Print":         "Print(values...) writes each value's text form without a newline.",
	"Println":       "Println(values...) writes each value's text form followed by a newline.",
	"Length":        "Length(value) returns the element count of an Array or the character count of a String.",
	"StringToInt":   "StringToInt(s) parses a String as an Integer.",
	"IntToString":   "IntToString(n) returns the decimal text of an Integer.",
	"StringToFloat": "StringToFloat(s) parses a String as a Float.",
	"FloatToString": "FloatToString(f) returns the text of a Float.",
	"Input":         "Input(prompt...) prints the prompt and reads one line, or Null at end of input.",
	"Append":        "array.Append(values...) appends to the array in place and returns a copy of it.",
	"NotNull":       "NotNull(value) reports whether value is not Null.",
}

type lspInboundMessage struct {
	JSONRPC string           `json:"jsonrpc"`
	ID      *json.RawMessage `json:"id,omitempty"`
	Method  string           `json:"method,omitempty"`
	Params  json.RawMessage  `json:"params,omitempty"`
}

type lspResponseError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type lspOutboundMessage struct {
	JSONRPC string            `json:"jsonrpc"`
	ID      *json.RawMessage  `json:"id,omitempty"`
	Method  string            `json:"method,omitempty"`
	Params  any               `json:"params,omitempty"`
	Result  any               `json:"result,omitempty"`
	Error   *lspResponseError `json:"error,omitempty"`
}

type lspDidOpenParams struct {
	TextDocument struct {
		URI  string `json:"uri"`
		Text string `json:"text"`
	} `json:"textDocument"`
}

type lspDidChangeParams struct {
	TextDocument struct {
		URI string `json:"uri"`
	} `json:"textDocument"`
	ContentChanges []struct {
		Text string `json:"text"`
	} `json:"contentChanges"`
}

type lspTextDocumentPositionParams struct {
	TextDocument struct {
		URI string `json:"uri"`
	} `json:"textDocument"`
	Position struct {
		Line      int `json:"line"`
		Character int `json:"character"`
	} `json:"position"`
}

type lspPosition struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

type lspRange struct {
	Start lspPosition `json:"start"`
	End   lspPosition `json:"end"`
}

type lspDiagnostic struct {
	Range    lspRange `json:"range"`
	Severity int      `json:"severity"`
	Source   string   `json:"source"`
	Message  string   `json:"message"`
}

type lspCompletionItem struct {
	Label  string `json:"label"`
	Kind   int    `json:"kind"`
	Detail string `json:"detail"`
}

type lspServer struct {
	reader   *bufio.Reader
	writer   *bufio.Writer
	builtins []string
	docs     map[string]string
}

type lspHandler func(s *lspServer, params json.RawMessage) (result any, rpcErr *lspResponseError)

// lspRequests answer with a result; lspNotifications may only emit
// server notifications of their own.
var (
	lspRequests = map[string]lspHandler{
		"initialize":              (*lspServer).initialize,
		"shutdown":                func(*lspServer, json.RawMessage) (any, *lspResponseError) { return nil, nil },
		"textDocument/completion": (*lspServer).completion,
		"textDocument/hover":      (*lspServer).hover,
	}
	lspNotifications = map[string]func(s *lspServer, params json.RawMessage) []lspOutboundMessage{
		"initialized":            nil,
		"exit":                   nil,
		"textDocument/didOpen":   (*lspServer).didOpen,
		"textDocument/didChange": (*lspServer).didChange,
	}
)

func newLSPServer(r io.Reader, w io.Writer) *lspServer {
	engine := opl.MustNewEngine(opl.Config{Stdout: io.Discard})
	return &lspServer{
		reader:   bufio.NewReader(r),
		writer:   bufio.NewWriter(w),
		builtins: engine.Builtins(),
		docs:     make(map[string]string),
	}
}

func runLSP() error {
	return newLSPServer(os.Stdin, os.Stdout).serve()
}

func (s *lspServer) serve() error {
	for {
		payload, err := s.readPayload()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		var incoming lspInboundMessage
		if err := json.Unmarshal(payload, &incoming); err != nil {
			continue
		}

		for _, msg := range s.handleMessage(incoming) {
			if err := s.writePayload(msg); err != nil {
				return err
			}
		}

		if incoming.Method == "exit" {
			return nil
		}
	}
}

func (s *lspServer) handleMessage(incoming lspInboundMessage) []lspOutboundMessage {
	if notify, ok := lspNotifications[incoming.Method]; ok {
		if notify == nil {
			return nil
		}
		return notify(s, incoming.Params)
	}
	if incoming.ID == nil {
		return nil
	}

	handler, ok := lspRequests[incoming.Method]
	if !ok {
		return []lspOutboundMessage{{
			JSONRPC: "2.0",
			ID:      incoming.ID,
			Error:   &lspResponseError{Code: -32601, Message: "method not found"},
		}}
	}
	result, rpcErr := handler(s, incoming.Params)
	return []lspOutboundMessage{{JSONRPC: "2.0", ID: incoming.ID, Result: result, Error: rpcErr}}
}

func (s *lspServer) initialize(json.RawMessage) (any, *lspResponseError) {
	return map[string]any{
		"capabilities": map[string]any{
			"textDocumentSync":   1,
			"hoverProvider":      true,
			"completionProvider": map[string]any{"resolveProvider": false},
		},
		"serverInfo": map[string]any{"name": "opl-lsp", "version": version},
	}, nil
}

func (s *lspServer) completion(json.RawMessage) (any, *lspResponseError) {
	return map[string]any{
		"isIncomplete": false,
		"items":        completionItems(s.builtins),
	}, nil
}

func (s *lspServer) hover(raw json.RawMessage) (any, *lspResponseError) {
	var params lspTextDocumentPositionParams
	if err := json.Unmarshal(raw, &params); err != nil {
		return nil, &lspResponseError{Code: -32602, Message: "invalid hover params"}
	}
	source := s.docs[params.TextDocument.URI]
	word := wordAtPosition(source, params.Position.Line, params.Position.Character)
	if word == "" {
		return nil, nil
	}
	return map[string]any{
		"contents": map[string]any{
			"kind":  "markdown",
			"value": s.hoverText(word),
		},
	}, nil
}

func (s *lspServer) didOpen(raw json.RawMessage) []lspOutboundMessage {
	var params lspDidOpenParams
	if err := json.Unmarshal(raw, &params); err != nil {
		return nil
	}
	return s.store(params.TextDocument.URI, params.TextDocument.Text)
}

// didChange keeps the last full-text change; the server only advertises
// full document sync.
func (s *lspServer) didChange(raw json.RawMessage) []lspOutboundMessage {
	var params lspDidChangeParams
	if err := json.Unmarshal(raw, &params); err != nil || len(params.ContentChanges) == 0 {
		return nil
	}
	return s.store(params.TextDocument.URI, params.ContentChanges[len(params.ContentChanges)-1].Text)
}

func (s *lspServer) store(uri, text string) []lspOutboundMessage {
	s.docs[uri] = text
	return []lspOutboundMessage{{
		JSONRPC: "2.0",
		Method:  "textDocument/publishDiagnostics",
		Params: map[string]any{
			"uri":         uri,
			"diagnostics": diagnosticsForSource(text),
		},
	}}
}

func (s *lspServer) hoverText(word string) string {
	switch {
	case slices.Contains(opl.Keywords(), word):
		return fmt.Sprintf("`%s`\n\nOPL keyword", word)
	case slices.Contains(s.builtins, word):
		text := fmt.Sprintf("`%s`\n\nOPL builtin", word)
		if doc, ok := builtinDocs[word]; ok {
			text += "\n\n" + doc
		}
		return text
	default:
		return fmt.Sprintf("`%s`\n\nOPL symbol", word)
	}
}

// diagnosticsForSource reports the first parse error, or the lint warnings
// of a program that parses. Positions are converted to zero-based lines
// and columns.
func diagnosticsForSource(source string) []lspDiagnostic {
	program, err := opl.Parse(source)
	if err != nil {
		var perr *opl.ParseError
		if !errors.As(err, &perr) {
			return []lspDiagnostic{newDiagnostic(opl.Position{}, severityError, err.Error())}
		}
		return []lspDiagnostic{newDiagnostic(perr.Pos, severityError, perr.Msg)}
	}

	warnings := lintProgram(program)
	out := make([]lspDiagnostic, 0, len(warnings))
	for _, w := range warnings {
		out = append(out, newDiagnostic(w.Pos, severityWarning, w.Message))
	}
	return out
}

func newDiagnostic(pos opl.Position, severity int, message string) lspDiagnostic {
	start := lspPosition{Line: max(0, pos.Line-1), Character: max(0, pos.Column-1)}
	end := start
	end.Character++
	return lspDiagnostic{
		Range:    lspRange{Start: start, End: end},
		Severity: severity,
		Source:   "opl-lsp",
		Message:  message,
	}
}

func completionItems(builtins []string) []lspCompletionItem {
	keywords := opl.Keywords()
	items := make([]lspCompletionItem, 0, len(keywords)+len(builtins))
	for _, kw := range keywords {
		items = append(items, lspCompletionItem{Label: kw, Kind: completionKindKeyword, Detail: "keyword"})
	}
	for _, name := range builtins {
		items = append(items, lspCompletionItem{Label: name, Kind: completionKindFunction, Detail: "builtin"})
	}
	slices.SortFunc(items, func(a, b lspCompletionItem) int { return strings.Compare(a.Label, b.Label) })
	return items
}

// wordAtPosition returns the identifier under a cursor given in UTF-16
// code units, as LSP clients send it.
func wordAtPosition(source string, line, character int) string {
	lines := strings.Split(source, "\n")
	if line < 0 || line >= len(lines) {
		return ""
	}

	runes := []rune(lines[line])
	if len(runes) == 0 {
		return ""
	}

	cursor := runeIndexForUTF16(runes, max(character, 0))
	if cursor == len(runes) {
		cursor--
	}
	if !isWordRune(runes[cursor]) {
		if cursor > 0 && isWordRune(runes[cursor-1]) {
			cursor--
		} else {
			return ""
		}
	}

	start := cursor
	for start > 0 && isWordRune(runes[start-1]) {
		start--
	}
	end := cursor
	for end < len(runes) && isWordRune(runes[end]) {
		end++
	}
	return string(runes[start:end])
}

func runeIndexForUTF16(runes []rune, units int) int {
	consumed := 0
	for i, r := range runes {
		if consumed >= units {
			return i
		}
		consumed += len(utf16.Encode([]rune{r}))
	}
	return len(runes)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

func (s *lspServer) readPayload() ([]byte, error) {
	contentLength := -1
	for {
		line, err := s.reader.ReadString('\n')
		if err != nil {
			return nil, err
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(name), "Content-Length") {
			n, err := strconv.Atoi(strings.TrimSpace(value))
			if err != nil {
				return nil, fmt.Errorf("invalid Content-Length: %w", err)
			}
			contentLength = n
		}
	}

	if contentLength < 0 {
		return nil, errors.New("missing Content-Length header")
	}
	payload := make([]byte, contentLength)
	if _, err := io.ReadFull(s.reader, payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func (s *lspServer) writePayload(msg lspOutboundMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(s.writer, "Content-Length: %d\r\n\r\n", len(data)); err != nil {
		return err
	}
	if _, err := s.writer.Write(data); err != nil {
		return err
	}
	return s.writer.Flush()
}
