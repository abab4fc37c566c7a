// Package rank counts repeated strings and ranks them by occurrence.
package rank

import (
	"fmt"
	"io"
	"sort"
)

// SortedData stores the key/value to be sorted.
type SortedData struct {
	Key   string
	Value int
}

// SortedList stores the list of key/value, implementing interfaces
// to sort/rank strings with integers as values. Ties keep the first-seen order.
type SortedList []SortedData

func (p SortedList) Len() int           { return len(p) }
func (p SortedList) Swap(i, j int)      { p[i], p[j] = p[j], p[i] }
func (p SortedList) Less(i, j int) bool { return p[i].Value < p[j].Value }

// Counter counts occurrences of strings, remembering the order in which each
// distinct string was first seen.
type Counter struct {
	counts map[string]int
	order  []string
	total  int
}

// NewCounter creates an empty Counter.
func NewCounter() *Counter {
	return &Counter{counts: map[string]int{}}
}

// Add increments the counter of key.
func (c *Counter) Add(key string) {
	if _, ok := c.counts[key]; !ok {
		c.order = append(c.order, key)
	}
	c.counts[key] += 1
	c.total += 1
}

// Total is the number of keys added, duplicates included.
func (c *Counter) Total() int { return c.total }

// Len is the number of distinct keys.
func (c *Counter) Len() int { return len(c.order) }

func (c *Counter) list() SortedList {
	l := make(SortedList, 0, len(c.order))
	for _, k := range c.order {
		l = append(l, SortedData{Key: k, Value: c.counts[k]})
	}
	return l
}

// Ascending ranks the keys from the least to the most frequent.
func (c *Counter) Ascending() SortedList {
	l := c.list()
	sort.Stable(l)
	return l
}

// Descending ranks the keys from the most to the least frequent.
func (c *Counter) Descending() SortedList {
	l := c.list()
	sort.Stable(sort.Reverse(l))
	return l
}

// WriteTo writes one "<count> <key>" row per item.
func (p SortedList) WriteTo(w io.Writer) (int64, error) {
	var n int64
	for _, d := range p {
		written, err := fmt.Fprintf(w, "%d %s\n", d.Value, d.Key)
		n += int64(written)
		if err != nil {
			return n, err
		}
	}
	return n, nil
}
