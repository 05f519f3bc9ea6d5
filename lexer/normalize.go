package lexer

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/tebeka/snowball"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	retweetPattern = regexp.MustCompile(`^RT\s+`)
	urlPattern     = regexp.MustCompile(`https?://\S+|www\.\S+`)
	handlePattern  = regexp.MustCompile(`@\w+`)
)

// Normalizer turns a raw post into a sequence of normalized tokens. It holds a
// snowball stemmer and must not be shared between goroutines.
type Normalizer struct {
	stopwords map[string]struct{}
	stemmer   *snowball.Stemmer
	lower     cases.Caser
}

// NewNormalizer creates a Normalizer that drops the given stop words.
func NewNormalizer(stopwords []string) (*Normalizer, error) {
	stemmer, err := snowball.New("english")
	if err != nil {
		return nil, fmt.Errorf("error creating stemmer: %w", err)
	}

	n := &Normalizer{
		stopwords: make(map[string]struct{}, len(stopwords)),
		stemmer:   stemmer,
		lower:     cases.Lower(language.English),
	}
	for _, w := range stopwords {
		n.stopwords[n.lower.String(strings.TrimSpace(w))] = struct{}{}
	}
	return n, nil
}

// Close releases the stemmer.
func (n *Normalizer) Close() {
	n.stemmer.Close()
}

// Normalize strips markup, retweet markers, links, handles and hashtag signs,
// lowercases the text, drops stop words and punctuation and stems what is left.
func (n *Normalizer) Normalize(raw string) []string {
	text := ParseHtmlTextContent(raw)
	text = retweetPattern.ReplaceAllString(strings.TrimSpace(text), "")
	text = urlPattern.ReplaceAllString(text, " ")
	text = handlePattern.ReplaceAllString(text, " ")
	text = strings.ReplaceAll(text, "#", " ")
	text = n.lower.String(text)

	tokens := []string{}
	l := NewLexer(text, n.stem)
	for {
		token, err := l.Next()
		if err != nil {
			break
		}
		if isPunctuation(token) {
			continue
		}
		tokens = append(tokens, token)
	}
	return tokens
}

// stem drops stop words and stems everything else. Stop words are matched
// before stemming.
func (n *Normalizer) stem(word string) string {
	if _, ok := n.stopwords[word]; ok {
		return ""
	}
	return n.stemmer.Stem(word)
}

func isPunctuation(token string) bool {
	r := []rune(token)
	return len(r) == 1 && (unicode.IsPunct(r[0]) || unicode.IsSymbol(r[0]))
}
