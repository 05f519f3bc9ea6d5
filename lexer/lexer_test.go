package lexer

import (
	"reflect"
	"regexp"
	"strings"
	"testing"
	"unicode"
)

func TestNewLexer(t *testing.T) {
	l := NewLexer("Hello World!", nil)
	if l == nil {
		t.Error("NewLexer() returned nil")
	} else {
		if len(l.content) != 12 {
			t.Error("NewLexer() returned wrong length")
		}

		if string(l.content) != "Hello World!" {
			t.Error("NewLexer() returned wrong content")
		}
	}
}

func TestTrimLeft(t *testing.T) {
	l := NewLexer(" Hello World!", nil)
	l.TrimLeft()
	if string(l.content) != "Hello World!" {
		t.Error("TrimLeft() failed")
	}
}

func TestChopWhile(t *testing.T) {
	l := NewLexer("Hello World!", nil)

	l.ChopWhile(unicode.IsLetter)
	expected := " World!"
	if string(l.content) != expected {
		t.Errorf("ChopWhile() Failed, expected %v, got %v", expected, string(l.content))
	}
}

func TestNext(t *testing.T) {
	l := NewLexer("Hello World!", strings.ToLower)

	for _, expected := range []string{"hello", "world", "!"} {
		token, err := l.Next()
		if err != nil {
			t.Fatalf("Next() Failed, expected %v, got %v", nil, err)
		}
		if token != expected {
			t.Errorf("Next() Failed, expected %v, got %v", expected, token)
		}
	}

	EOF, err := l.Next()
	if err == nil {
		t.Errorf("Next() Failed, expected an error at the end of content")
	}
	if EOF != "EOF" {
		t.Errorf("Next() Failed, expected %v, got %v", "EOF", EOF)
	}
}

func TestNextTokenEmoticons(t *testing.T) {
	testCases := []struct {
		name     string
		content  string
		expected []string
	}{
		{"smile", "great day :)", []string{"great", "day", ":)"}},
		{"frown with nose", ":-( sad", []string{":-(", "sad"}},
		{"heart", "love <3", []string{"love", "<3"}},
		{"plain colon", "note: ok", []string{"note", ":", "ok"}},
		{"numbers", "top 10", []string{"top", "10"}},
		{"apostrophe", "don't 'quote'", []string{"don't", "'", "quote"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			l := NewLexer(tc.content, nil)
			var tokens []string
			for {
				token, err := l.Next()
				if err != nil {
					break
				}
				tokens = append(tokens, token)
			}
			if !reflect.DeepEqual(tokens, tc.expected) {
				t.Errorf("Expected: %v, got: %v", tc.expected, tokens)
			}
		})
	}
}

func TestParseHtmlTextContent(t *testing.T) {
	testCases := []struct {
		name                string
		htmlContent         string
		expectedTextContent string
	}{
		{
			name:                "entities",
			htmlContent:         "fish &amp; chips &lt;3",
			expectedTextContent: "fish & chips <3",
		},
		{
			name:                "tags",
			htmlContent:         "<b>bold</b> move",
			expectedTextContent: "bold move",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			textContent := ParseHtmlTextContent(tc.htmlContent)
			// Remove all whitespaces from both textContent and expectedTextContent
			re := regexp.MustCompile(`\s`)
			expected := re.ReplaceAllString(tc.expectedTextContent, "")
			actual := re.ReplaceAllString(textContent, "")
			if actual != expected {
				t.Errorf("Expected: %v, got: %v", expected, actual)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	n, err := NewNormalizer([]string{"i", "am", "so", "You"})
	if err != nil {
		t.Fatalf("NewNormalizer() failed: %v", err)
	}
	defer n.Close()

	testCases := []struct {
		name     string
		raw      string
		expected []string
	}{
		{
			name:     "retweet with handle, link and hashtag",
			raw:      "RT @someone: I am so happy today!!! :) http://t.co/xyz #blessed",
			expected: []string{"happi", "today", ":)", "bless"},
		},
		{
			name:     "entities and stop words are case folded",
			raw:      "YOU &lt;3 cats &amp; dogs",
			expected: []string{"<3", "cat", "dog"},
		},
		{
			name:     "only noise",
			raw:      "@a @b https://example.com ...",
			expected: []string{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tokens := n.Normalize(tc.raw)
			if !reflect.DeepEqual(tokens, tc.expected) {
				t.Errorf("Normalize(%q) == %v, want %v", tc.raw, tokens, tc.expected)
			}
		})
	}
}

func TestNormalizeDeterministic(t *testing.T) {
	n, err := NewNormalizer(nil)
	if err != nil {
		t.Fatalf("NewNormalizer() failed: %v", err)
	}
	defer n.Close()

	raw := "Running with the dogs, loving it :D"
	first := n.Normalize(raw)
	second := n.Normalize(raw)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Normalize() not deterministic: %v vs %v", first, second)
	}
}

func TestNextStemDropsWords(t *testing.T) {
	drop := func(word string) string {
		if word == "the" {
			return ""
		}
		return strings.ToUpper(word)
	}
	l := NewLexer("the cat the 42 hat", drop)

	for _, expected := range []string{"CAT", "42", "HAT"} {
		token, err := l.Next()
		if err != nil {
			t.Fatalf("Next() Failed, expected %v, got %v", nil, err)
		}
		if token != expected {
			t.Errorf("Next() Failed, expected %v, got %v", expected, token)
		}
	}
	if _, err := l.Next(); err == nil {
		t.Errorf("Next() Failed, expected an error at the end of content")
	}
}

func TestNormalizeMatchesStopWordsBeforeStemming(t *testing.T) {
	n, err := NewNormalizer([]string{"have"})
	if err != nil {
		t.Fatalf("NewNormalizer() failed: %v", err)
	}
	defer n.Close()

	tokens := n.Normalize("have having fun")
	expected := []string{"have", "fun"}
	if !reflect.DeepEqual(tokens, expected) {
		t.Errorf("Normalize() == %v, want %v", tokens, expected)
	}
}
