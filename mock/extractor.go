package mock

import (
	"iter"

	"github.com/fwojciec/menuscrape"
)

var _ menuscrape.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of menuscrape.Extractor.
type Extractor struct {
	ExtractFn func(content string) iter.Seq2[menuscrape.Candidate, error]
}

func (e *Extractor) Extract(content string) iter.Seq2[menuscrape.Candidate, error] {
	return e.ExtractFn(content)
}

var _ menuscrape.FallbackExtractor = (*FallbackExtractor)(nil)

// FallbackExtractor is a mock implementation of menuscrape.FallbackExtractor.
type FallbackExtractor struct {
	ExtractFn     func(content string) iter.Seq2[menuscrape.Candidate, error]
	ExtractNearFn func(content string, anchor menuscrape.Anchor) (menuscrape.Candidate, bool)
}

func (e *FallbackExtractor) Extract(content string) iter.Seq2[menuscrape.Candidate, error] {
	return e.ExtractFn(content)
}

func (e *FallbackExtractor) ExtractNear(content string, anchor menuscrape.Anchor) (menuscrape.Candidate, bool) {
	return e.ExtractNearFn(content, anchor)
}

var _ menuscrape.MenuExtractor = (*MenuExtractor)(nil)

// MenuExtractor is a mock implementation of menuscrape.MenuExtractor.
type MenuExtractor struct {
	ExtractMenuFn func(content string) *menuscrape.Extraction
}

func (e *MenuExtractor) ExtractMenu(content string) *menuscrape.Extraction {
	return e.ExtractMenuFn(content)
}

// Candidates returns a sequence yielding the given candidates without errors.
func Candidates(cs ...menuscrape.Candidate) iter.Seq2[menuscrape.Candidate, error] {
	return func(yield func(menuscrape.Candidate, error) bool) {
		for _, c := range cs {
			if !yield(c, nil) {
				return
			}
		}
	}
}
