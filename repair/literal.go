package repair

import (
	"strconv"
	"strings"
	"unicode/utf16"
)

// orderedObject is a parsed object literal that preserves key order, so
// callers can scan values in document order. Duplicate keys keep their first
// position and the last value.
type orderedObject struct {
	keys   []string
	values map[string]any
}

func (o *orderedObject) set(key string, value any) {
	if _, exists := o.values[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
}

func (o *orderedObject) stringValue(key string) (string, bool) {
	v, ok := o.values[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func (o *orderedObject) firstString() (string, bool) {
	for _, k := range o.keys {
		if s, ok := o.values[k].(string); ok {
			return s, true
		}
	}
	return "", false
}

// parseLiteral parses one strict-JSON or Python-style literal value: objects,
// arrays (including parenthesized tuples), single- or double-quoted strings,
// numbers, and the true/false/null and True/False/None spellings. Trailing
// commas are accepted. The whole input must be a single value; bare words are
// not strings.
func parseLiteral(text string) (any, bool) {
	p := &literalParser{input: text}
	p.skipSpace()
	value, ok := p.parseValue()
	if !ok {
		return nil, false
	}
	p.skipSpace()
	if p.pos != len(p.input) {
		return nil, false
	}
	return value, true
}

type literalParser struct {
	input string
	pos   int
}

func (p *literalParser) skipSpace() {
	for p.pos < len(p.input) {
		switch p.input[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *literalParser) peek() byte {
	if p.pos >= len(p.input) {
		return 0
	}
	return p.input[p.pos]
}

func (p *literalParser) parseValue() (any, bool) {
	switch c := p.peek(); {
	case c == '{':
		return p.parseObject()
	case c == '[':
		return p.parseArray(']')
	case c == '(':
		return p.parseArray(')')
	case c == '"' || c == '\'':
		return p.parseString()
	case c == '-' || c == '+' || c == '.' || (c >= '0' && c <= '9'):
		return p.parseNumber()
	default:
		return p.parseName()
	}
}

func (p *literalParser) parseObject() (any, bool) {
	p.pos++
	obj := &orderedObject{values: map[string]any{}}
	p.skipSpace()
	if p.peek() == '}' {
		p.pos++
		return obj, true
	}
	for {
		p.skipSpace()
		key, ok := p.parseKey()
		if !ok {
			return nil, false
		}
		p.skipSpace()
		if p.peek() != ':' {
			return nil, false
		}
		p.pos++
		p.skipSpace()
		value, ok := p.parseValue()
		if !ok {
			return nil, false
		}
		obj.set(key, value)
		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
			p.skipSpace()
			if p.peek() == '}' {
				p.pos++
				return obj, true
			}
		case '}':
			p.pos++
			return obj, true
		default:
			return nil, false
		}
	}
}

// parseKey accepts quoted string keys and bare numeric keys (kept as their
// literal text).
func (p *literalParser) parseKey() (string, bool) {
	switch c := p.peek(); {
	case c == '"' || c == '\'':
		v, ok := p.parseString()
		if !ok {
			return "", false
		}
		return v.(string), true
	case c == '-' || c == '+' || c == '.' || (c >= '0' && c <= '9'):
		start := p.pos
		if _, ok := p.parseNumber(); !ok {
			return "", false
		}
		return p.input[start:p.pos], true
	default:
		return "", false
	}
}

func (p *literalParser) parseArray(closing byte) (any, bool) {
	p.pos++
	items := []any{}
	p.skipSpace()
	if p.peek() == closing {
		p.pos++
		return items, true
	}
	for {
		p.skipSpace()
		value, ok := p.parseValue()
		if !ok {
			return nil, false
		}
		items = append(items, value)
		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
			p.skipSpace()
			if p.peek() == closing {
				p.pos++
				return items, true
			}
		case closing:
			p.pos++
			return items, true
		default:
			return nil, false
		}
	}
}

func (p *literalParser) parseString() (any, bool) {
	quote := p.input[p.pos]
	p.pos++
	var b strings.Builder
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		switch c {
		case quote:
			p.pos++
			return b.String(), true
		case '\\':
			p.pos++
			if p.pos >= len(p.input) {
				return nil, false
			}
			esc := p.input[p.pos]
			switch esc {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			case 'b':
				b.WriteByte('\b')
			case 'f':
				b.WriteByte('\f')
			case '/', '\\', '\'', '"':
				b.WriteByte(esc)
			case 'u':
				r, ok := p.parseUnicodeEscape()
				if !ok {
					return nil, false
				}
				b.WriteRune(r)
				continue
			default:
				// Unknown escapes pass through untouched.
				b.WriteByte('\\')
				b.WriteByte(esc)
			}
			p.pos++
		default:
			b.WriteByte(c)
			p.pos++
		}
	}
	return nil, false
}

// parseUnicodeEscape decodes \uXXXX at the current position (on the 'u'),
// pairing surrogates when a matching low half follows. Leaves pos after the
// consumed escape.
func (p *literalParser) parseUnicodeEscape() (rune, bool) {
	if p.pos+4 >= len(p.input) {
		return 0, false
	}
	code, err := strconv.ParseUint(p.input[p.pos+1:p.pos+5], 16, 32)
	if err != nil {
		return 0, false
	}
	p.pos += 5
	r := rune(code)
	if utf16.IsSurrogate(r) && p.pos+5 < len(p.input) && p.input[p.pos] == '\\' && p.input[p.pos+1] == 'u' {
		low, err := strconv.ParseUint(p.input[p.pos+2:p.pos+6], 16, 32)
		if err == nil {
			if combined := utf16.DecodeRune(r, rune(low)); combined != 0xFFFD {
				p.pos += 6
				return combined, true
			}
		}
	}
	return r, true
}

func (p *literalParser) parseNumber() (any, bool) {
	start := p.pos
	if c := p.peek(); c == '-' || c == '+' {
		p.pos++
	}
	digits := false
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		if c >= '0' && c <= '9' {
			digits = true
			p.pos++
			continue
		}
		if c == '.' || c == 'e' || c == 'E' || c == '-' || c == '+' {
			p.pos++
			continue
		}
		break
	}
	if !digits {
		return nil, false
	}
	f, err := strconv.ParseFloat(p.input[start:p.pos], 64)
	if err != nil {
		return nil, false
	}
	return f, true
}

func (p *literalParser) parseName() (any, bool) {
	start := p.pos
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
			p.pos++
		} else {
			break
		}
	}
	switch p.input[start:p.pos] {
	case "true", "True":
		return true, true
	case "false", "False":
		return false, true
	case "null", "None":
		return nil, true
	}
	return nil, false
}
