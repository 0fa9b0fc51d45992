package model

// Topic is one topic of the topic model with its weighted words.
type Topic struct {
	Number int         `json:"number"`
	Words  []TopicWord `json:"words"`
}

// TopicWord is a word and its weight within a topic.
type TopicWord struct {
	Word  string  `json:"word"`
	Score float64 `json:"score"`
}
