package model

import (
	"time"

	"github.com/google/uuid"
)

// RawDocument is the extracted text of one source file.
type RawDocument struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

// Poem is one row of the poems table.
// Poems with a nil ID are normalized but not yet identified.
type Poem struct {
	ID        uuid.UUID  `json:"id"`
	Date      *time.Time `json:"date,omitempty"`
	Title     string     `json:"title"`
	Text      string     `json:"text"`
	Filename  string     `json:"filename,omitempty"`
	Topic1    *int       `json:"topic1,omitempty"`
	Topic2    *int       `json:"topic2,omitempty"`
	Topic3    *int       `json:"topic3,omitempty"`
	Embedding Embedding  `json:"embedding,omitempty"`
}

// DateLayout is the layout dates are written with in table files and logs.
const DateLayout = "2006-01-02 15:04:05"

// Topics returns the assigned topic slots in order, nil for empty slots.
func (p *Poem) Topics() [3]*int {
	return [3]*int{p.Topic1, p.Topic2, p.Topic3}
}

// SetTopics fills the topic slots from topics, leaving slots beyond its length empty.
func (p *Poem) SetTopics(topics []int) {
	slots := [3]**int{&p.Topic1, &p.Topic2, &p.Topic3}
	for i, slot := range slots {
		if i < len(topics) {
			topic := topics[i]
			*slot = &topic
		} else {
			*slot = nil
		}
	}
}

// Identified reports whether an id has been assigned.
func (p *Poem) Identified() bool {
	return p.ID != uuid.Nil
}
