// Package parser implements the NMEA sentence parser: a pull-style state
// machine that consumes one lexer token at a time and delivers completed,
// checksum-verified sentences to a listener.
//
// Grounded on the same per-sentence sub-machine structure as the source
// this spec was distilled from (original_source/src/GPS/nmea.h): a prologue
// that recognises '$' and the sentence tag, then a sub-machine that
// alternates consuming a field token and its following comma, ending in a
// checksum-verification step. Rather than one flat numbered state per field
// (the original's packed 16-bit state word), this implementation drives the
// alternation from a table of per-field decoders - see fields.go - which
// keeps the twelve sentence layouts as data instead of near-duplicate code.
package parser

import (
	"github.com/goblimey/go-gpswire/buffer"
	"github.com/goblimey/go-gpswire/nmea/lexer"
	"github.com/goblimey/go-gpswire/nmea/message"
	"github.com/goblimey/go-gpswire/nmea/token"
)

// Listener receives a completed, checksum-verified message. The reference
// is only valid for the duration of the call; the listener must copy
// anything it needs to keep.
type Listener func(*message.Message)

type state int

const (
	stateProlog0  state = iota // expect '$'
	stateProlog1               // expect a sentence tag
	stateSentence              // inside a sentence's field/separator run
	stateWaitNL                // sentence complete, checksum verified; waiting for the line terminator
	stateError                 // discarding tokens until the next newline
)

// Parser drives one NMEA byte stream. It owns its buffer, lexer, message
// record and listener exclusively - nothing here is safe to share between
// goroutines, matching the single-threaded, cooperatively-driven model the
// rest of this library follows.
type Parser struct {
	buf *buffer.Staged
	lex *lexer.Lexer

	listener Listener
	msg      message.Message

	state state

	fields          []fieldSpec
	fieldPos        int
	expectSeparator bool
}

// New creates a Parser reading from source, recognising the sentence tags
// in tags (nil for the full default set), and delivering completed
// sentences to listener (nil is fine; the parser still does the work, it
// just has no one to tell).
func New(source buffer.ByteSource, tags lexer.TagTable, listener Listener) *Parser {
	buf := buffer.New(source)
	return &Parser{
		buf:      buf,
		lex:      lexer.New(buf, tags),
		listener: listener,
	}
}

// SetListener replaces the listener. Safe to call between Step calls.
func (p *Parser) SetListener(l Listener) {
	p.listener = l
}

// Step consumes exactly one token and advances the state machine,
// delivering a completed sentence to the listener if this token finished
// one. It reports false if the byte source currently has nothing
// available; the caller should return control to its own caller and call
// Step again once more data has arrived.
func (p *Parser) Step() bool {
	tok, ok := p.lex.Next()
	if !ok {
		return false
	}

	switch p.state {
	case stateProlog0:
		p.stepProlog0(tok)
	case stateProlog1:
		p.stepProlog1(tok)
	case stateSentence:
		p.stepSentence(tok)
	case stateWaitNL:
		p.stepWaitNL(tok)
	case stateError:
		p.stepError(tok)
	}
	return true
}

// Drain calls Step until the byte source runs dry, for callers that prefer
// to consume everything currently available in one call rather than one
// token at a time.
func (p *Parser) Drain() {
	for p.Step() {
	}
}

func (p *Parser) stepProlog0(tok token.Token) {
	if tok.Kind == token.Char && tok.Char == '$' {
		p.state = stateProlog1
		return
	}
	p.enterError()
}

func (p *Parser) stepProlog1(tok token.Token) {
	if tok.Kind != token.Tag {
		p.enterError()
		return
	}
	fields, ok := fieldTableFor(tok.MessageID)
	if !ok {
		p.enterError()
		return
	}
	p.msg.Reset(tok.MessageID)
	p.fields = fields
	p.fieldPos = 0
	p.expectSeparator = true
	p.state = stateSentence
}

func (p *Parser) stepSentence(tok token.Token) {
	if p.fieldPos >= len(p.fields) {
		p.verifyChecksum(tok)
		return
	}

	if p.expectSeparator {
		if tok.Kind == token.Char && tok.Char == ',' {
			p.expectSeparator = false
			return
		}
		p.enterError()
		return
	}

	spec := p.fields[p.fieldPos]

	// An empty field: two adjacent commas, the second seen here once the
	// first has already been consumed as the preceding separator. That
	// second comma also serves as the separator ahead of whatever comes
	// next, so there is no separate separator state to pass through here.
	if tok.Kind == token.Char && tok.Char == ',' {
		p.fieldPos++
		return
	}

	if tok.Kind == token.Checksum {
		if !p.remainingFieldsOptional() {
			p.enterError()
			return
		}
		p.fieldPos = len(p.fields)
		p.verifyChecksum(tok)
		return
	}

	if !spec.accept(tok.Kind) {
		p.enterError()
		return
	}

	spec.assign(p, tok)
	p.fieldPos++
	if spec.afterAssign != nil && spec.afterAssign(p) {
		p.fieldPos = len(p.fields)
	}
	if p.fieldPos < len(p.fields) {
		p.expectSeparator = true
	}
}

func (p *Parser) remainingFieldsOptional() bool {
	for _, f := range p.fields[p.fieldPos:] {
		if !f.optional {
			return false
		}
	}
	return true
}

func (p *Parser) verifyChecksum(tok token.Token) {
	if tok.Kind != token.Checksum {
		p.enterError()
		return
	}
	wire, ok := p.buf.DecodeChecksum()
	if !ok || wire != p.lex.Checksum() {
		p.enterError()
		return
	}
	p.state = stateWaitNL
}

func (p *Parser) stepWaitNL(tok token.Token) {
	if tok.Kind != token.NL {
		p.enterError()
		return
	}
	if p.listener != nil {
		p.listener(&p.msg)
	}
	p.state = stateProlog0
}

func (p *Parser) stepError(tok token.Token) {
	if tok.Kind == token.NL {
		p.state = stateProlog0
	}
}

func (p *Parser) enterError() {
	p.state = stateError
}
