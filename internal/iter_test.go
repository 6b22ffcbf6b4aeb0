package internal

import (
	"maps"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIterSeq2Concat(t *testing.T) {
	assert := assert.New(t)

	a := slices.All([]string{"a", "b"})
	b := slices.All([]string{"c"})

	var values []string
	for _, value := range IterSeq2Concat(a, b) {
		values = append(values, value)
	}
	assert.Equal([]string{"a", "b", "c"}, values)

	// Early stop.
	values = values[:0]
	for _, value := range IterSeq2Concat(a, b) {
		values = append(values, value)
		if value == "b" {
			break
		}
	}
	assert.Equal([]string{"a", "b"}, values)

	merged := maps.Collect(IterSeq2Concat(maps.All(map[string]int{"x": 1}), maps.All(map[string]int{"y": 2})))
	assert.Equal(map[string]int{"x": 1, "y": 2}, merged)
}
