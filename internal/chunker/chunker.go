// Package chunker splits extracted document text into overlapping
// fixed-size windows. Chunking the same text with the same parameters is
// deterministic and produces byte-identical boundaries.
package chunker

import (
	"fmt"
	"strings"
)

// DefaultSize is the default number of characters per chunk.
const DefaultSize = 800

// DefaultOverlap is the default number of overlapping characters
// between neighbouring chunks.
const DefaultOverlap = 100

// Draft is a chunk candidate before embedding and storage.
// Offsets are character (rune) positions into the source text.
type Draft struct {
	// Index is the 0-based sequence position within the text.
	Index int

	// Start and End are the [Start,End) character offsets.
	Start int
	End   int

	// Content is the text slice covered by the offsets.
	Content string
}

// Chunker produces overlapping fixed-size chunks.
type Chunker struct {
	size    int
	overlap int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithSize sets the chunk size in characters.
func WithSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.size = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(c *Chunker) {
		if overlap >= 0 {
			c.overlap = overlap
		}
	}
}

// New creates a chunker with the given options.
// It returns an error unless 0 < overlap < size.
func New(opts ...Option) (*Chunker, error) {
	c := &Chunker{
		size:    DefaultSize,
		overlap: DefaultOverlap,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.overlap <= 0 || c.overlap >= c.size {
		return nil, fmt.Errorf("chunker: overlap %d must be greater than 0 and less than size %d", c.overlap, c.size)
	}
	return c, nil
}

// Size returns the configured chunk size.
func (c *Chunker) Size() int {
	return c.size
}

// Overlap returns the configured overlap.
func (c *Chunker) Overlap() int {
	return c.overlap
}

// Split slides a window of size characters across the text, advancing by
// size-overlap each step. The last window is truncated to the remaining
// text. Empty or whitespace-only text yields no chunks: callers must treat
// that as "no content extracted", not an error.
func (c *Chunker) Split(text string) []Draft {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	runes := []rune(text)
	total := len(runes)

	if total <= c.size {
		return []Draft{{Index: 0, Start: 0, End: total, Content: text}}
	}

	step := c.size - c.overlap
	drafts := make([]Draft, 0, total/step+1)

	for start := 0; start < total; start += step {
		end := start + c.size
		if end > total {
			end = total
		}

		drafts = append(drafts, Draft{
			Index:   len(drafts),
			Start:   start,
			End:     end,
			Content: string(runes[start:end]),
		})

		if end == total {
			break
		}
	}

	return drafts
}
