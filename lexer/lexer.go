package lexer

import (
	"errors"
	"strings"
	"unicode"

	"golang.org/x/net/html"
)

// Emoticons are kept as tokens. The lexer sees lowercased text, so ":D"
// arrives as ":d".
var emoticons = []string{
	":-)", ":-(", ":-d", ":-p", ":')", ":'(",
	":)", ":(", ":d", ":p", ";)", ";-)", "=)", "=(", "<3", ":/", ":o",
}

type Lexer struct {
	content []rune
	stem    func(string) string
}

// NewLexer creates a new Lexer. stem is applied to every word; a nil stem
// leaves words as they are and a stem returning "" drops the word.
func NewLexer(content string, stem func(string) string) *Lexer {
	return &Lexer{[]rune(content), stem}
}

// TrimLeft trims empty spaces from the left of the content
func (l *Lexer) TrimLeft() {
	for len(l.content) > 0 && unicode.IsSpace(l.content[0]) {
		l.content = l.content[1:]
	}
}

// Chop chops the content by n and returns the chopped content
func (l *Lexer) Chop(n int) (token []rune) {
	token = l.content[:n]
	l.content = l.content[n:]
	return token
}

// ChopWhile chops the content while the predicate f returns true
func (l *Lexer) ChopWhile(f func(rune) bool) (token []rune) {
	n := 0
	for n < len(l.content) && f(l.content[n]) {
		n += 1
	}
	return l.Chop(n)
}

func (l *Lexer) hasPrefix(prefix string) bool {
	p := []rune(prefix)
	if len(p) > len(l.content) {
		return false
	}
	for i, r := range p {
		if l.content[i] != r {
			return false
		}
	}
	return true
}

// NextToken returns the next token: a number run, a stemmed word, an emoticon
// or a single punctuation rune.
func (l *Lexer) NextToken() []rune {
	l.TrimLeft()

	if len(l.content) == 0 {
		return nil
	}
	for _, e := range emoticons {
		if l.hasPrefix(e) {
			return l.Chop(len([]rune(e)))
		}
	}
	if unicode.IsNumber(l.content[0]) {
		return l.ChopWhile(unicode.IsNumber)
	}
	if unicode.IsLetter(l.content[0]) {
		term := l.ChopWhile(func(r rune) bool {
			return unicode.IsLetter(r) || unicode.IsNumber(r) || r == '\''
		})
		word := strings.Trim(string(term), "'")
		if l.stem != nil {
			word = l.stem(word)
		}
		if word == "" {
			return l.NextToken()
		}
		return []rune(word)
	}
	return l.Chop(1)
}

// Next returns the next token as a string
func (l *Lexer) Next() (string, error) {
	token := l.NextToken()
	if token == nil {
		return "EOF", errors.New("no more tokens")
	}
	return string(token), nil
}

// ParseHtmlTextContent returns the text of an html fragment with tags removed
// and entities such as &amp; decoded.
func ParseHtmlTextContent(htmlContent string) string {
	var content strings.Builder

	d := html.NewTokenizer(strings.NewReader(htmlContent))
	for {
		tt := d.Next()
		switch tt {
		case html.ErrorToken:
			return content.String()
		case html.TextToken:
			content.Write(d.Text())
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			content.WriteByte(' ')
		}
	}
}
