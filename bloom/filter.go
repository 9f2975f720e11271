// Package bloom provides approximate set membership using Bloom filters.
// The scraper uses it to skip repeated page URLs in large batches without
// keeping every URL in memory.
package bloom

import "github.com/bits-and-blooms/bloom/v3"

// Filter is a Bloom filter over string keys.
type Filter struct {
	f *bloom.BloomFilter
}

// NewFilter creates a new Bloom filter sized for n expected keys
// with the given false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	return &Filter{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// Add adds a key to the filter.
func (f *Filter) Add(key string) {
	f.f.AddString(key)
}

// Test returns true if the key might be in the filter.
// False positives are possible; false negatives are not.
func (f *Filter) Test(key string) bool {
	return f.f.TestString(key)
}

// Seen adds key and reports whether it might have been added before.
func (f *Filter) Seen(key string) bool {
	return f.f.TestAndAddString(key)
}
