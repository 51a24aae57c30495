package domain

import "context"

// Post is a single short text fetched from a social feed.
type Post struct {
	ID      string
	Account string
	Text    string
	Time    string
	// Words, when set, are key phrases supplied with the post; extraction and
	// the language filter are skipped for it.
	Words []string
}

// Document is one post reduced to its key-phrase words.
type Document struct {
	ID    string
	Text  string
	Time  string
	Words []string
}

// WordTopicScore is the nearest category for one word and the distance to it.
type WordTopicScore struct {
	Category int
	Distance float64
}

// DocumentTopicDecision is the category chosen for a whole document.
// Votes counts the words assigned to Category; it does not drive selection.
type DocumentTopicDecision struct {
	Category int
	Distance float64
	Votes    int
}

// Record is the flat output row for one classified document.
type Record struct {
	ID       string  `json:"id"`
	Account  string  `json:"account,omitempty"`
	Text     string  `json:"text"`
	Category string  `json:"category"`
	Time     string  `json:"time"`
	Distance float64 `json:"distance"`
	Votes    int     `json:"votes"`
}

// DistanceModel maps a word to its embedding distance against each of terms.
// Implementations return an error when the word or a term cannot be represented.
type DistanceModel interface {
	Name() string
	Distances(ctx context.Context, word string, terms []string) ([]float64, error)
}

// Source fetches recent posts for an account.
type Source interface {
	Fetch(ctx context.Context, account string, limit int) ([]Post, error)
}

// LanguageDetector reports the ISO 639-1 language of a text.
type LanguageDetector interface {
	DetectLanguage(ctx context.Context, text string) (string, error)
}

// KeyPhraseExtractor returns key phrases per document ID.
type KeyPhraseExtractor interface {
	KeyPhrases(ctx context.Context, docs []Document) (map[string][]string, error)
}

// RecordStore persists classified records per account.
type RecordStore interface {
	Save(account string, records []Record) error
	List(account string) ([]Record, error)
	Accounts() ([]string, error)
	Close() error
}
