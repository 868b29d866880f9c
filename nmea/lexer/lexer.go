// Package lexer implements the NMEA sentence lexer: it fragments the
// incoming byte stream into the token kinds defined by package token and
// maintains the rolling XOR checksum of the bytes between '$' and '*'.
//
// The original implementation this is grounded on drives a flex-style DFA
// from seven precomputed tables. This implementation produces the same
// token classification by walking the same grammar directly - a direct
// state switch keyed on the first byte of each token, with lookahead
// implemented via the staged buffer's rewind/position primitives instead of
// an explicit transition table. The wire contract (which token kind a given
// byte run produces) is identical; only the table-driven bookkeeping is
// gone. See SPEC_FULL.md §4.2 for the Open Question this resolves.
package lexer

import (
	"github.com/goblimey/go-gpswire/buffer"
	"github.com/goblimey/go-gpswire/nmea/token"
)

// xorPhase tracks whether bytes currently being committed should be folded
// into the rolling checksum.
type xorPhase int

const (
	xorOff      xorPhase = iota // outside a $...* span
	xorStarting                 // the '$' token itself is about to commit; don't XOR it, but switch on afterwards
	xorOn                       // inside a $...* span; XOR each committed token
)

// TagTable maps a sentence tag string (e.g. "GPGGA", "PSRF150") to the
// message ID the parser should switch to. A restricted table is how this
// library expresses the "each sentence may be independently disabled"
// compile-time switch from spec.md §6.6 - see package message for the ID
// constants and DefaultTagTable for the full set.
type TagTable map[string]int

// DefaultTagTable contains every supported sentence tag.
func DefaultTagTable() TagTable {
	return TagTable{
		"GPGGA":   msgGGA,
		"GPGLL":   msgGLL,
		"GPGSA":   msgGSA,
		"GPGSV":   msgGSV,
		"GPMSS":   msgMSS,
		"GPRMC":   msgRMC,
		"GPVTG":   msgVTG,
		"GPZDA":   msgZDA,
		"PSRF150": msgPSRF150,
		"PSRF151": msgPSRF151,
		"PSRF152": msgPSRF152,
		"PSRF154": msgPSRF154,
	}
}

// These mirror package message's IDs; duplicated here so that the lexer
// does not import package message.
const (
	msgGGA     = 1
	msgGLL     = 2
	msgGSA     = 3
	msgGSV     = 4
	msgMSS     = 5
	msgRMC     = 6
	msgVTG     = 7
	msgZDA     = 8
	msgPSRF150 = 10
	msgPSRF151 = 11
	msgPSRF152 = 12
	msgPSRF154 = 13
)

const maxTagLength = 8

// Lexer turns a staged buffer into a stream of tokens.
type Lexer struct {
	buf      *buffer.Staged
	tags     TagTable
	checksum byte
	phase    xorPhase
	expectTag bool
}

// New creates a Lexer reading from buf and recognising the sentence tags in
// tags. Pass nil to accept every supported sentence.
func New(buf *buffer.Staged, tags TagTable) *Lexer {
	if tags == nil {
		tags = DefaultTagTable()
	}
	return &Lexer{buf: buf, tags: tags}
}

// Checksum returns the rolling XOR checksum accumulated since the last '$'.
// Valid to call right after receiving a token.Checksum token, before the
// buffer is next advanced.
func (lx *Lexer) Checksum() byte {
	return lx.checksum
}

// Next returns the next token. The second return value is false if the
// byte source currently has nothing available; the caller should return
// control to its own caller and try again once more data has arrived. No
// state is lost between such calls.
func (lx *Lexer) Next() (token.Token, bool) {
	lx.commitPrevious()
	tok, ok := lx.scan()
	if !ok {
		return tok, false
	}

	switch tok.Kind {
	case token.NL:
		lx.checksum = 0
		lx.phase = xorOff
	case token.Char:
		if tok.Char == '$' {
			lx.checksum = 0
			lx.phase = xorStarting
		}
	case token.Checksum:
		lx.phase = xorOff
	}

	return tok, true
}

// commitPrevious folds the previously returned token's bytes into the
// rolling checksum (if we're inside a $...* span) and then commits them,
// freeing the buffer for the next token.
func (lx *Lexer) commitPrevious() {
	if lx.phase == xorOn {
		lx.checksum = lx.buf.CalcChecksum(lx.checksum)
	}
	lx.buf.Accept()
	if lx.phase == xorStarting {
		lx.phase = xorOn
	}
}

func (lx *Lexer) needMore() (token.Token, bool) {
	lx.buf.Rewind(0)
	return token.Token{}, false
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func isHexDigit(b byte) bool {
	return isDigit(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

func isTagChar(b byte) bool {
	return (b >= 'A' && b <= 'Z') || isDigit(b)
}

func (lx *Lexer) scan() (token.Token, bool) {
	if lx.expectTag {
		first := lx.buf.Next()
		if first == buffer.NoByteAvailable {
			return lx.needMore()
		}
		if first == buffer.BufferFull {
			lx.expectTag = false
			return token.Token{Kind: token.Char, Char: 0}, true
		}
		tok, ok := lx.lexTag(byte(first))
		// Stay in tag mode if the tag was cut short by the source running dry.
		lx.expectTag = !ok
		return tok, ok
	}

	c := lx.buf.Next()
	if c == buffer.NoByteAvailable {
		return lx.needMore()
	}
	if c == buffer.BufferFull {
		return token.Token{Kind: token.Char, Char: 0}, true
	}
	b := byte(c)

	switch {
	case b == ' ' || b == '\t':
		// Whitespace is silently consumed - it never starts a token of its
		// own, so we restart the scan for the byte that follows.
		return lx.scan()
	case b == '\r':
		return lx.lexCR()
	case b == '\n':
		return token.Token{Kind: token.NL}, true
	case b == '$':
		lx.expectTag = true
		return token.Token{Kind: token.Char, Char: '$'}, true
	case b == '*':
		return lx.lexChecksum()
	case b == '-' || isDigit(b):
		return lx.lexNumber(b)
	default:
		return token.Token{Kind: token.Char, Char: b}, true
	}
}

func (lx *Lexer) lexTag(first byte) (token.Token, bool) {
	var text [maxTagLength]byte
	text[0] = first
	n := 1

	for n < maxTagLength {
		c := lx.buf.Next()
		if c == buffer.NoByteAvailable {
			return lx.needMore()
		}
		if c == buffer.BufferFull {
			break
		}
		ch := byte(c)
		if !isTagChar(ch) {
			lx.buf.Rewind(lx.buf.Position())
			break
		}
		text[n] = ch
		n++
	}

	if id, ok := lx.tags[string(text[:n])]; ok {
		return token.Token{Kind: token.Tag, MessageID: id}, true
	}

	// Not a recognised tag.  Treat only the first character as consumed and
	// let the rest of the line be re-scanned as ordinary tokens; the parser
	// will see an unexpected token and resynchronise at the next newline.
	lx.buf.Rewind(1)
	return token.Token{Kind: token.Char, Char: first}, true
}

func (lx *Lexer) lexCR() (token.Token, bool) {
	c := lx.buf.Next()
	if c == buffer.NoByteAvailable {
		return lx.needMore()
	}
	if c != buffer.BufferFull && byte(c) != '\n' {
		lx.buf.Rewind(lx.buf.Position())
	}
	return token.Token{Kind: token.NL}, true
}

func (lx *Lexer) lexChecksum() (token.Token, bool) {
	for i := 0; i < 2; i++ {
		c := lx.buf.Next()
		if c == buffer.NoByteAvailable {
			return lx.needMore()
		}
		if c == buffer.BufferFull || !isHexDigit(byte(c)) {
			if c != buffer.BufferFull {
				lx.buf.Rewind(lx.buf.Position())
			}
			lx.buf.Rewind(1)
			return token.Token{Kind: token.Char, Char: '*'}, true
		}
	}
	return token.Token{Kind: token.Checksum}, true
}

func (lx *Lexer) lexNumber(first byte) (token.Token, bool) {
	if first == '0' {
		c := lx.buf.Next()
		if c == buffer.NoByteAvailable {
			return lx.needMore()
		}
		if c != buffer.BufferFull && (byte(c) == 'x' || byte(c) == 'X') {
			tok, ok, handled := lx.lexHex8()
			if handled {
				return tok, ok
			}
			// Not a valid Hex8 token after all; lx.lexHex8 has already
			// rewound the buffer to just after the '0'.
		} else if c != buffer.BufferFull {
			lx.buf.Rewind(lx.buf.Position())
		}
	}

	isFloat := false
	for {
		c := lx.buf.Next()
		if c == buffer.NoByteAvailable {
			return lx.needMore()
		}
		if c == buffer.BufferFull {
			break
		}
		ch := byte(c)
		if ch == '.' && !isFloat {
			isFloat = true
			continue
		}
		if isDigit(ch) {
			continue
		}
		lx.buf.Rewind(lx.buf.Position())
		break
	}

	if isFloat {
		return token.Token{Kind: token.FltNum}, true
	}
	return token.Token{Kind: token.Num}, true
}

// lexHex8 attempts to recognise "0x" (already consumed, cursor just past
// the 'x') followed by hex digits as a Hex8 token. If more data is needed,
// handled is true and ok is false, so the caller propagates needMore as is.
// handled is false only if the bytes past "0x" didn't amount to a valid
// Hex8 token, in which case the buffer has already been rewound to just
// after the leading '0' and the caller should fall through to ordinary
// number scanning.
func (lx *Lexer) lexHex8() (tok token.Token, ok bool, handled bool) {
	zeroPos := 1 // index of '0' is 0, so "just after '0'" is position 1
	xPos := lx.buf.Position()

	count := 0
	for count < 9 {
		c := lx.buf.Next()
		if c == buffer.NoByteAvailable {
			t, o := lx.needMore()
			return t, o, true
		}
		if c == buffer.BufferFull {
			break
		}
		if !isHexDigit(byte(c)) {
			lx.buf.Rewind(lx.buf.Position())
			break
		}
		count++
	}

	switch {
	case count == 8:
		return token.Token{Kind: token.Hex8}, true, true
	case count > 8:
		lx.buf.Rewind(xPos + 1 + 8)
		return token.Token{Kind: token.Hex8}, true, true
	default:
		lx.buf.Rewind(zeroPos)
		return token.Token{}, false, false
	}
}
