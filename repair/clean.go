package repair

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	reReplyPrefix = regexp.MustCompile(`(?i)^(?:<)?AgentReply(?:>)?[:\s]*`)
	reReplyClose  = regexp.MustCompile(`(?i)</AgentReply>$`)

	// Mangled triple-quote artifacts: a quote character followed by a
	// literal 3, left behind when models echo """ blocks.
	reTripleOpen  = regexp.MustCompile(`^['"]3\s*`)
	reTripleClose = regexp.MustCompile(`['"]3\s*$`)

	// Leading "key:" / "key=" noise in front of the actual message.
	rePrefixKey = regexp.MustCompile(`(?i)^\s*["']?(?:response|resposta|mensagem|message|content|text|cliente|client|bot|atendente|assistant)["']?\s*[:=]\s*["']?`)

	// Quoted value after a known key anywhere in the text.
	reLooseValue = regexp.MustCompile(`(?is)["']?(?:response|resposta|mensagem|message|content|text|cliente|client|bot|atendente|assistant)["']?\s*[:=]\s*["'](.+?)["']`)

	reFragments = []*regexp.Regexp{
		regexp.MustCompile(`(?is)(?:message|mensagem|response)\s*=\s*['"](.+?)['"](?:,|}|\)|$)`),
		regexp.MustCompile(`(?is)['"](?:message|mensagem|response)['"]\s*[:=]\s*['"](.+?)['"](?:,|}|\)|$)`),
		regexp.MustCompile(`(?is)AgentReply\s*\(\s*['"](.+?)['"]\s*\)`),
		regexp.MustCompile(`(?is)AgentReply\s*\{.+?['"](?:message|mensagem|response)['"]\s*:\s*['"](.+?)['"].+?\}`),
	}

	replyKeys = []string{"response", "mensagem", "message", "content", "text"}
)

// CleanReplyText recovers the human-readable message from raw model output
// that failed structured parsing. It peels wrapper noise in a fixed order:
// AgentReply tags, triple-quote artifacts, one balanced bracket layer, one
// quote layer, then a literal parse, then progressively looser regex
// extraction. Plain prose passes through unchanged, so the function is
// idempotent on its own output.
func CleanReplyText(text string) string {
	if text == "" {
		return ""
	}
	clean := strings.TrimSpace(text)

	clean = strings.TrimSpace(reReplyPrefix.ReplaceAllString(clean, ""))
	clean = reTripleOpen.ReplaceAllString(clean, "")
	clean = reTripleClose.ReplaceAllString(clean, "")
	clean = strings.TrimSpace(reReplyPrefix.ReplaceAllString(clean, ""))
	clean = strings.TrimSpace(reReplyClose.ReplaceAllString(clean, ""))

	if strings.HasPrefix(clean, ":") {
		clean = strings.TrimSpace(clean[1:])
	}

	if wrapsBalanced(clean, '(', ')') || wrapsBalanced(clean, '{', '}') || wrapsBalanced(clean, '[', ']') {
		clean = strings.TrimSpace(clean[1 : len(clean)-1])
	}

	if len(clean) >= 2 {
		if (clean[0] == '"' && clean[len(clean)-1] == '"') || (clean[0] == '\'' && clean[len(clean)-1] == '\'') {
			clean = clean[1 : len(clean)-1]
		}
	}

	if data, ok := parseLiteral(clean); ok {
		switch v := data.(type) {
		case *orderedObject:
			for _, key := range replyKeys {
				if s, ok := v.stringValue(key); ok {
					return s
				}
			}
			if s, ok := v.firstString(); ok {
				return s
			}
		case string:
			return v
		}
	}

	if loc := rePrefixKey.FindStringIndex(clean); loc != nil {
		matched := clean[loc[0]:loc[1]]
		rest := clean[loc[1]:]
		// When the stripped prefix opened a quote, drop the matching
		// close quote left dangling at the end.
		if q := matched[len(matched)-1]; q == '"' || q == '\'' {
			if strings.HasSuffix(rest, string(q)) && strings.Count(rest, string(q)) == 1 {
				rest = rest[:len(rest)-1]
			}
		}
		clean = strings.TrimSpace(rest)
	}

	if m := reLooseValue.FindStringSubmatch(clean); m != nil {
		return m[1]
	}

	for _, re := range reFragments {
		if m := re.FindStringSubmatch(clean); m != nil {
			return m[1]
		}
	}

	if strings.HasPrefix(clean, "AgentReply") {
		if s, ok := sliceBetweenQuotes(clean); ok {
			return s
		}
	}

	if utf8.RuneCountInString(clean) < 5 && !containsAlnum(clean) {
		return ""
	}
	return clean
}

// wrapsBalanced reports whether s is enclosed by open/closing and the pair
// wraps the whole string, so stripping it cannot split sibling groups like
// "(a) e (b)".
func wrapsBalanced(s string, open, closing byte) bool {
	if len(s) < 2 || s[0] != open || s[len(s)-1] != closing {
		return false
	}
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case open:
			depth++
		case closing:
			depth--
			if depth == 0 && i != len(s)-1 {
				return false
			}
		}
	}
	return depth == 0
}

// sliceBetweenQuotes returns the text between the first quote character and
// the last occurrence of that same character.
func sliceBetweenQuotes(s string) (string, bool) {
	first := -1
	for _, q := range []byte{'"', '\''} {
		if f := strings.IndexByte(s, q); f != -1 && (first == -1 || f < first) {
			first = f
		}
	}
	if first == -1 {
		return "", false
	}
	q := s[first]
	last := strings.LastIndexByte(s, q)
	if last <= first {
		return "", false
	}
	return s[first+1 : last], true
}

func containsAlnum(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			return true
		}
	}
	return false
}
