package bloom_test

import (
	"fmt"
	"testing"

	"github.com/fwojciec/menuscrape/bloom"
	"github.com/stretchr/testify/assert"
)

func TestFilter_AddAndTest(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(1000, 0.01)

	assert.False(t, f.Test("https://example.com/store/1"))

	f.Add("https://example.com/store/1")

	assert.True(t, f.Test("https://example.com/store/1"))
	assert.False(t, f.Test("https://example.com/store/2"))
}

func TestFilter_Seen(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(100, 0.0001)

	assert.False(t, f.Seen("https://example.com/store/1"), "first sighting")
	assert.True(t, f.Seen("https://example.com/store/1"), "repeat")
	assert.False(t, f.Seen("https://example.com/store/2"))
	assert.True(t, f.Test("https://example.com/store/2"), "Seen adds the key")
}

func TestFilter_FalsePositiveRate(t *testing.T) {
	t.Parallel()

	const (
		numKeys    = 10000
		fpRate     = 0.01
		testProbes = 10000
	)

	f := bloom.NewFilter(numKeys, fpRate)
	for i := range numKeys {
		f.Add(fmt.Sprintf("https://example.com/store/%d", i))
	}

	falsePositives := 0
	for i := range testProbes {
		if f.Test(fmt.Sprintf("https://example.org/store/%d", i)) {
			falsePositives++
		}
	}

	// Allow twice the configured rate for statistical variance.
	actualRate := float64(falsePositives) / float64(testProbes)
	assert.Less(t, actualRate, 2*fpRate, "false positive rate %f exceeds %f", actualRate, 2*fpRate)
}
