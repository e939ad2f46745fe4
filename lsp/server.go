// Package lsp serves diagnostics and completion for documents holding one
// tag in text notation.
package lsp

import (
	"errors"
	"unicode"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"

	"github.com/dhamidi/nbtkit/grammar"
	"github.com/dhamidi/nbtkit/snbt"
)

const lsName = "nbt"

var log = commonlog.GetLogger("nbt.lsp")

type Server struct {
	docs    *Store
	parser  *snbt.TagParser
	handler protocol.Handler
	server  *server.Server
	version string
}

func NewServer(version string) *Server {
	ls := &Server{
		docs:    NewStore(),
		parser:  snbt.NewTagParser(nil),
		version: version,
	}

	ls.handler = protocol.Handler{
		Initialize:             ls.initialize,
		Initialized:            ls.initialized,
		Shutdown:               ls.shutdown,
		SetTrace:               ls.setTrace,
		TextDocumentDidOpen:    ls.textDocumentDidOpen,
		TextDocumentDidChange:  ls.textDocumentDidChange,
		TextDocumentDidClose:   ls.textDocumentDidClose,
		TextDocumentDidSave:    ls.textDocumentDidSave,
		TextDocumentCompletion: ls.textDocumentCompletion,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls
}

func (ls *Server) RunStdio() error {
	return ls.server.RunStdio()
}

func (ls *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	capabilities := ls.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}

	capabilities.CompletionProvider = &protocol.CompletionOptions{
		TriggerCharacters: []string{"{", "[", ":", ",", ";", "("},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

func (ls *Server) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	log.Infof("language server %s initialized", ls.version)
	return nil
}

func (ls *Server) shutdown(ctx *glsp.Context) error {
	return nil
}

func (ls *Server) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	doc := ls.docs.Update(params.TextDocument.URI, params.TextDocument.Version, params.TextDocument.Text)
	ls.publish(ctx, doc)
	return nil
}

func (ls *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	if len(params.ContentChanges) == 0 {
		return nil
	}
	change := params.ContentChanges[len(params.ContentChanges)-1]
	if textChange, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
		doc := ls.docs.Update(params.TextDocument.URI, params.TextDocument.Version, textChange.Text)
		ls.publish(ctx, doc)
	}
	return nil
}

func (ls *Server) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	ls.docs.Close(params.TextDocument.URI)
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         params.TextDocument.URI,
		Diagnostics: []protocol.Diagnostic{},
	})
	return nil
}

func (ls *Server) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	if params.Text == nil {
		return nil
	}
	version := protocol.Integer(0)
	if doc, ok := ls.docs.Get(params.TextDocument.URI); ok {
		version = doc.Version
	}
	doc := ls.docs.Update(params.TextDocument.URI, version, *params.Text)
	ls.publish(ctx, doc)
	return nil
}

func (ls *Server) publish(ctx *glsp.Context, doc *Document) {
	diagnostics := Diagnose(ls.parser, doc.Text)
	log.Debugf("%s: %d diagnostics", doc.URI, len(diagnostics))
	version := protocol.UInteger(doc.Version)
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         doc.URI,
		Version:     &version,
		Diagnostics: diagnostics,
	})
}

func (ls *Server) textDocumentCompletion(ctx *glsp.Context, params *protocol.CompletionParams) (any, error) {
	doc, ok := ls.docs.Get(params.TextDocument.URI)
	if !ok {
		return nil, nil
	}
	items := Complete(ls.parser, doc.Text, params.Position)
	if len(items) == 0 {
		return nil, nil
	}
	return items, nil
}

// Diagnose parses text as a single tag and reports the syntax error, if
// any. The result is never nil so that publishing it clears old errors.
func Diagnose(p *snbt.TagParser, text string) []protocol.Diagnostic {
	_, err := p.ParseFully(text)
	if err == nil {
		return []protocol.Diagnostic{}
	}

	start, end := 0, len(text)
	var syntax *grammar.SyntaxError
	if errors.As(err, &syntax) && syntax.Cursor >= 0 {
		start = min(syntax.Cursor, len(text))
		end = start
	}
	message := err.Error()
	if syntax != nil {
		message = syntax.Message
	}
	return []protocol.Diagnostic{{
		Range: protocol.Range{
			Start: OffsetToPosition(text, start),
			End:   OffsetToPosition(text, end),
		},
		Severity: severityPtr(protocol.DiagnosticSeverityError),
		Source:   stringPtr(lsName),
		Message:  message,
	}}
}

// Complete lists the suggestions offered for the text before pos. Each item
// replaces the typed text the suggestion was matched against.
func Complete(p *snbt.TagParser, text string, pos protocol.Position) []protocol.CompletionItem {
	offset := PositionToOffset(text, pos)
	suggestions := p.Suggest(text[:offset], 0)

	replace := protocol.Range{
		Start: OffsetToPosition(text, suggestions.Start),
		End:   pos,
	}
	var items []protocol.CompletionItem
	for _, v := range suggestions.Values {
		kind := protocol.CompletionItemKindValue
		if isWord(v) {
			kind = protocol.CompletionItemKindKeyword
		}
		items = append(items, protocol.CompletionItem{
			Label:    v,
			Kind:     &kind,
			TextEdit: protocol.TextEdit{Range: replace, NewText: v},
		})
	}
	return items
}

func isWord(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return s != ""
}

func boolPtr(b bool) *bool {
	return &b
}

func stringPtr(s string) *string {
	return &s
}

func syncKindPtr(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}

func severityPtr(s protocol.DiagnosticSeverity) *protocol.DiagnosticSeverity {
	return &s
}
