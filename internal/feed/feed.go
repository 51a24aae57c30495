// Package feed fetches short social-media posts to classify.
package feed

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"topics/internal/domain"
)

// ErrNoDocuments is returned when a source yields nothing to classify.
var ErrNoDocuments = errors.New("no documents found")

var linkRe = regexp.MustCompile(`http\S+`)

// StripLinks removes URLs from text.
func StripLinks(text string) string {
	return linkRe.ReplaceAllString(text, "")
}

// FileSource reads posts from a JSON-lines file.
type FileSource struct {
	path string
}

// NewFileSource creates a source over path.
func NewFileSource(path string) *FileSource { return &FileSource{path: path} }

type fileLine struct {
	ID      string `json:"id"`
	Account string `json:"account"`
	Text    string `json:"text"`
	Time    string `json:"time"`
}

// Fetch returns up to limit posts for account (all accounts when empty), in file order.
func (s *FileSource) Fetch(ctx context.Context, account string, limit int) ([]domain.Post, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open feed: %w", err)
	}
	defer f.Close()
	var posts []domain.Post
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	n := 0
	for sc.Scan() {
		n++
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		var fl fileLine
		if err := json.Unmarshal([]byte(line), &fl); err != nil {
			return nil, fmt.Errorf("%s:%d: %w", s.path, n, err)
		}
		if account != "" && fl.Account != "" && !strings.EqualFold(fl.Account, account) {
			continue
		}
		id := fl.ID
		if id == "" {
			id = strconv.Itoa(n)
		}
		acc := fl.Account
		if acc == "" {
			acc = account
		}
		posts = append(posts, domain.Post{ID: id, Account: acc, Text: fl.Text, Time: fl.Time})
		if limit > 0 && len(posts) >= limit {
			break
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, ErrNoDocuments
	}
	return posts, nil
}
