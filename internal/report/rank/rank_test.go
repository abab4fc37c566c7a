package rank

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newCounterFrom(keys ...string) *Counter {
	c := NewCounter()
	for _, k := range keys {
		c.Add(k)
	}
	return c
}

func TestCounterRanking(t *testing.T) {
	cases := []struct {
		name     string
		keys     []string
		wantDesc SortedList
		wantAsc  SortedList
	}{
		{
			name:     "empty",
			keys:     nil,
			wantDesc: SortedList{},
			wantAsc:  SortedList{},
		},
		{
			name:     "ties keep first seen order",
			keys:     []string{"b", "a", "c", "a", "b", "d"},
			wantDesc: SortedList{{"b", 2}, {"a", 2}, {"c", 1}, {"d", 1}},
			wantAsc:  SortedList{{"c", 1}, {"d", 1}, {"b", 2}, {"a", 2}},
		},
		{
			name:     "distinct counts",
			keys:     []string{"x", "y", "y", "z", "z", "z"},
			wantDesc: SortedList{{"z", 3}, {"y", 2}, {"x", 1}},
			wantAsc:  SortedList{{"x", 1}, {"y", 2}, {"z", 3}},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newCounterFrom(tc.keys...)
			assert.Equal(t, tc.wantDesc, c.Descending())
			assert.Equal(t, tc.wantAsc, c.Ascending())
			assert.Equal(t, len(tc.keys), c.Total())
		})
	}
}

func TestSortedListWriteTo(t *testing.T) {
	buf := &bytes.Buffer{}
	c := newCounterFrom("A", "A", "B")
	n, err := c.Descending().WriteTo(buf)
	assert.NoError(t, err)
	assert.Equal(t, "2 A\n1 B\n", buf.String())
	assert.Equal(t, int64(buf.Len()), n)
}
