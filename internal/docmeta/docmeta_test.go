package docmeta

import (
	"reflect"
	"testing"
)

func TestExtractURLs(t *testing.T) {
	blob := []byte(`[
  {"id": 0, "url_norm": "https://example.com/wiki/First_Page", "title": "x"},
  {"id": 1, "url_norm": "https://example.com/a\/b"},
  {"id": 2, "url_norm": "https://example.com/with\"quote"}
]`)
	want := []string{
		"https://example.com/wiki/First_Page",
		"https://example.com/a/b",
		`https://example.com/with"quote`,
	}
	if got := ExtractURLs(blob); !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractURLs = %q, want %q", got, want)
	}
}

func TestExtractURLsEscapes(t *testing.T) {
	blob := []byte(`{"url_norm": "a\\b\nc\td\re"}`)
	want := []string{"a\\b\nc\td\re"}
	if got := ExtractURLs(blob); !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractURLs = %q, want %q", got, want)
	}
}

func TestExtractURLsUnknownEscapeKeepsBackslash(t *testing.T) {
	blob := []byte(`{"url_norm": "a\xb"}`)
	want := []string{`a\xb`}
	if got := ExtractURLs(blob); !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractURLs = %q, want %q", got, want)
	}
}

func TestExtractURLsTolerant(t *testing.T) {
	// Not valid JSON at all; the scanner only cares about the key.
	blob := []byte(`garbage "url_norm" : "https://e.com/one" more garbage
"url_norm":"https://e.com/two"`)
	want := []string{"https://e.com/one", "https://e.com/two"}
	if got := ExtractURLs(blob); !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractURLs = %q, want %q", got, want)
	}
	if got := ExtractURLs([]byte(`{"other_key": "v"}`)); got != nil {
		t.Errorf("ExtractURLs without key = %q, want nil", got)
	}
}

func TestTitleFromURL(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://en.wikipedia.org/wiki/Grey_Cat", "Grey Cat"},
		{"https://en.wikipedia.org/wiki/C%2B%2B", "C++"},
		{"https://example.com/pages/Some_Page", "Some Page"},
		{"https://example.com/plus+name", "plus name"},
		{"no-slashes", "no-slashes"},
		{"https://example.com/", "https://example.com/"},
		{"https://e.com/wiki/100%", "100%"},
	}
	for _, tt := range tests {
		if got := TitleFromURL(tt.url); got != tt.want {
			t.Errorf("TitleFromURL(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestTable(t *testing.T) {
	urls := []string{"https://e.com/wiki/A_B", ""}
	docs := Table(4, urls)
	if len(docs) != 4 {
		t.Fatalf("Table returned %d rows, want 4", len(docs))
	}
	if docs[0].URL != urls[0] || docs[0].Title != "A B" {
		t.Errorf("doc 0 = %+v", docs[0])
	}
	if docs[1].URL != "" || docs[1].Title != "Document 1" {
		t.Errorf("doc 1 = %+v, want placeholder", docs[1])
	}
	if docs[3].Title != "Document 3" {
		t.Errorf("doc 3 = %+v, want placeholder", docs[3])
	}
}
