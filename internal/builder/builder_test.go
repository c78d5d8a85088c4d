package builder

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/Nik1toZ/IR/internal/index"
	irerrors "github.com/Nik1toZ/IR/pkg/errors"
)

const sampleTokens = `0 cat
0 dog
1 dog
2 bird
`

func TestBuildExample(t *testing.T) {
	ix, stats, err := Build(strings.NewReader(sampleTokens), nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if stats.DocCount != 3 {
		t.Errorf("doc count = %d, want 3", stats.DocCount)
	}
	if stats.TotalTokens != 4 {
		t.Errorf("total tokens = %d, want 4", stats.TotalTokens)
	}
	if stats.UniqueTerms != 3 {
		t.Errorf("unique terms = %d, want 3", stats.UniqueTerms)
	}

	wantDict := []index.DictEntry{
		{Term: "bird", DocFreq: 1, PostingsOff: 0},
		{Term: "cat", DocFreq: 1, PostingsOff: 4},
		{Term: "dog", DocFreq: 2, PostingsOff: 8},
	}
	if !reflect.DeepEqual(ix.Dict, wantDict) {
		t.Errorf("dictionary = %+v, want %+v", ix.Dict, wantDict)
	}
	wantPostings := []uint32{2, 0, 0, 1}
	if !reflect.DeepEqual(ix.Postings, wantPostings) {
		t.Errorf("postings = %v, want %v", ix.Postings, wantPostings)
	}
	if len(ix.Docs) != 3 {
		t.Fatalf("forward table has %d rows, want 3", len(ix.Docs))
	}
	if ix.Docs[1].Title != "Document 1" || ix.Docs[1].URL != "" {
		t.Errorf("doc 1 = %+v, want placeholder", ix.Docs[1])
	}
}

func TestBuildDeduplicatesWithinDocument(t *testing.T) {
	in := "0 dog\n0 dog\n0 dog\n2 dog\n"
	ix, _, err := Build(strings.NewReader(in), nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	want := []uint32{0, 2}
	if !reflect.DeepEqual(ix.Postings, want) {
		t.Errorf("postings = %v, want %v", ix.Postings, want)
	}
	if ix.Dict[0].DocFreq != 2 {
		t.Errorf("df = %d, want 2", ix.Dict[0].DocFreq)
	}
}

func TestBuildCaseFolding(t *testing.T) {
	in := "0 Dog\n1 DOG\n2 dOg\n"
	ix, _, err := Build(strings.NewReader(in), nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(ix.Dict) != 1 || ix.Dict[0].Term != "dog" {
		t.Errorf("dictionary = %+v, want single entry for %q", ix.Dict, "dog")
	}
	if !reflect.DeepEqual(ix.Postings, []uint32{0, 1, 2}) {
		t.Errorf("postings = %v, want [0 1 2]", ix.Postings)
	}
}

func TestBuildSkipsMalformedLines(t *testing.T) {
	in := "0 cat\n\nnot-a-number dog\n5\n  \t\n-3 cat\n1 dog extra ignored\n"
	ix, stats, err := Build(strings.NewReader(in), nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if stats.TotalTokens != 2 {
		t.Errorf("total tokens = %d, want 2", stats.TotalTokens)
	}
	if stats.SkippedLines != 5 {
		t.Errorf("skipped lines = %d, want 5", stats.SkippedLines)
	}
	if got := ix.PostingsFor("dog"); !reflect.DeepEqual(got, []uint32{1}) {
		t.Errorf("dog postings = %v, want [1]", got)
	}
}

func TestBuildDocCountFromMaxID(t *testing.T) {
	in := "9 rare\n"
	ix, stats, err := Build(strings.NewReader(in), nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if stats.DocCount != 10 {
		t.Errorf("doc count = %d, want 10", stats.DocCount)
	}
	if len(ix.Docs) != 10 {
		t.Errorf("forward table has %d rows, want 10", len(ix.Docs))
	}
}

func TestBuildEmptyInput(t *testing.T) {
	_, _, err := Build(strings.NewReader("garbage\n\n"), nil)
	if !errors.Is(err, irerrors.ErrEmptyInput) {
		t.Errorf("Build error = %v, want ErrEmptyInput", err)
	}
}

func TestBuildPostingsSortedUnique(t *testing.T) {
	in := "3 b\n1 a\n2 b\n1 b\n2 a\n2 b\n0 c\n"
	ix, _, err := Build(strings.NewReader(in), nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	for _, e := range ix.Dict {
		list := ix.PostingsFor(e.Term)
		for i := 1; i < len(list); i++ {
			if list[i-1] >= list[i] {
				t.Errorf("postings for %q not strictly increasing: %v", e.Term, list)
				break
			}
		}
		for _, d := range list {
			if d >= ix.Meta.DocCount {
				t.Errorf("postings for %q contain doc id %d >= doc count %d", e.Term, d, ix.Meta.DocCount)
			}
		}
	}
	for i := 1; i < len(ix.Dict); i++ {
		if ix.Dict[i-1].Term > ix.Dict[i].Term {
			t.Errorf("dictionary out of order: %q > %q", ix.Dict[i-1].Term, ix.Dict[i].Term)
		}
	}
}

func TestBuildWithURLs(t *testing.T) {
	urls := []string{"https://en.wikipedia.org/wiki/Grey_Cat"}
	ix, _, err := Build(strings.NewReader("0 cat\n1 dog\n"), urls)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if ix.Docs[0].URL != urls[0] {
		t.Errorf("doc 0 url = %q, want %q", ix.Docs[0].URL, urls[0])
	}
	if ix.Docs[0].Title != "Grey Cat" {
		t.Errorf("doc 0 title = %q, want %q", ix.Docs[0].Title, "Grey Cat")
	}
	if ix.Docs[1].URL != "" || ix.Docs[1].Title != "Document 1" {
		t.Errorf("doc 1 = %+v, want placeholder", ix.Docs[1])
	}
}
