// Package docmeta supplies per-document URL and title metadata for the
// forward table. URLs come either from a JSON-like companion blob or from a
// Postgres documents table; both assign URLs to doc ids 0..N-1 positionally.
//
// The blob scanner is deliberately not a strict JSON decoder: the upstream
// dump is only JSON-like, and the contract is a tolerant scan for
// "url_norm" keys that survives malformed surrounding content.
package docmeta

import (
	"strconv"
	"strings"

	"github.com/Nik1toZ/IR/internal/index"
)

const urlKey = `"url_norm"`

// ExtractURLs scans the blob for "url_norm" string values in order,
// decoding the JSON escapes \" \\ \/ \n \t \r. Unknown escapes keep their
// backslash.
func ExtractURLs(blob []byte) []string {
	text := string(blob)
	var urls []string

	pos := 0
	for {
		k := strings.Index(text[pos:], urlKey)
		if k < 0 {
			break
		}
		k += pos
		c := strings.IndexByte(text[k+len(urlKey):], ':')
		if c < 0 {
			break
		}
		q1 := strings.IndexByte(text[k+len(urlKey)+c+1:], '"')
		if q1 < 0 {
			break
		}

		var val strings.Builder
		i := k + len(urlKey) + c + 1 + q1 + 1
		for i < len(text) {
			ch := text[i]
			if ch == '\\' && i+1 < len(text) {
				switch nxt := text[i+1]; nxt {
				case '"', '\\', '/':
					val.WriteByte(nxt)
					i += 2
					continue
				case 'n':
					val.WriteByte('\n')
					i += 2
					continue
				case 't':
					val.WriteByte('\t')
					i += 2
					continue
				case 'r':
					val.WriteByte('\r')
					i += 2
					continue
				}
				val.WriteByte(ch)
				i++
				continue
			}
			if ch == '"' {
				break
			}
			val.WriteByte(ch)
			i++
		}
		urls = append(urls, val.String())
		pos = i + 1
	}
	return urls
}

// TitleFromURL derives a human title from the trailing path segment of a
// URL: the part after "/wiki/" when present, else after the last slash,
// with underscores turned into spaces and percent-escapes decoded.
func TitleFromURL(url string) string {
	tail := url
	if p := strings.Index(url, "/wiki/"); p >= 0 {
		tail = url[p+len("/wiki/"):]
	} else if s := strings.LastIndexByte(url, '/'); s >= 0 && s+1 < len(url) {
		tail = url[s+1:]
	}
	tail = strings.ReplaceAll(tail, "_", " ")
	return percentDecode(tail)
}

// Table builds the forward rows for doc ids 0..docCount-1 from the
// positional URL list. Missing docs get an empty URL and a "Document <id>"
// placeholder title.
func Table(docCount uint32, urls []string) []index.DocInfo {
	docs := make([]index.DocInfo, docCount)
	for d := uint32(0); d < docCount; d++ {
		if d < uint32(len(urls)) {
			docs[d].URL = urls[d]
			docs[d].Title = TitleFromURL(urls[d])
		}
		if docs[d].Title == "" {
			docs[d].Title = "Document " + strconv.FormatUint(uint64(d), 10)
		}
	}
	return docs
}

// percentDecode resolves %XY escapes and turns '+' into spaces; invalid
// escapes pass through untouched.
func percentDecode(s string) string {
	var out strings.Builder
	out.Grow(len(s))
	for i := 0; i < len(s); {
		c := s[i]
		if c == '%' && i+2 < len(s) {
			h1 := hexVal(s[i+1])
			h2 := hexVal(s[i+2])
			if h1 >= 0 && h2 >= 0 {
				out.WriteByte(byte(h1<<4 | h2))
				i += 3
				continue
			}
		}
		if c == '+' {
			out.WriteByte(' ')
			i++
			continue
		}
		out.WriteByte(c)
		i++
	}
	return out.String()
}

func hexVal(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return 10 + int(c-'a')
	case c >= 'A' && c <= 'F':
		return 10 + int(c-'A')
	}
	return -1
}
