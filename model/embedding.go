package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Embedding is the vector representation of a poem text.
type Embedding []float32

// String serializes the embedding as a bracketed, space separated list: [0.1 0.2 0.3]
func (e Embedding) String() string {
	if e == nil {
		return ""
	}

	var b strings.Builder
	b.WriteByte('[')
	for i, value := range e {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(strconv.FormatFloat(float64(value), 'g', -1, 32))
	}
	b.WriteByte(']')
	return b.String()
}

// ParseEmbedding parses the output of Embedding.String.
// The brackets are stripped and the values split on whitespace, so
// numpy style output with line breaks parses as well.
// An empty string or an empty list yields a nil embedding.
func ParseEmbedding(s string) (Embedding, error) {
	fields := strings.Fields(strings.Trim(strings.TrimSpace(s), "[]"))
	if len(fields) == 0 {
		return nil, nil
	}

	embedding := make(Embedding, 0, len(fields))
	for i, field := range fields {
		value, err := strconv.ParseFloat(strings.TrimSuffix(field, ","), 32)
		if err != nil {
			return nil, fmt.Errorf("invalid embedding value %d %q: %w", i, field, err)
		}
		embedding = append(embedding, float32(value))
	}

	return embedding, nil
}
