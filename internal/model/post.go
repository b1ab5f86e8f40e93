package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// PostID identifies a post. The remote API assigns integer ids, so a PostID
// decodes from either a JSON number or a JSON string.
type PostID string

func (id PostID) String() string { return string(id) }

// UnmarshalJSON accepts 42, "42" and "abc".
func (id *PostID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = PostID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("post id: %w", err)
	}
	*id = canonicalNumber(n)
	return nil
}

// canonicalNumber spells integral numbers the way strconv does, so 7, 7.0 and
// 7e0 all become "7".
func canonicalNumber(n json.Number) PostID {
	if i, err := n.Int64(); err == nil {
		return PostID(strconv.FormatInt(i, 10))
	}
	f, err := n.Float64()
	if err == nil && f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64 {
		return PostID(strconv.FormatInt(int64(f), 10))
	}
	return PostID(n.String())
}

// Int reports the id as an integer. Only the canonical spelling counts:
// "7" does, "007" and "+7" do not.
func (id PostID) Int() (int64, bool) {
	n, err := strconv.ParseInt(string(id), 10, 64)
	if err != nil || strconv.FormatInt(n, 10) != string(id) {
		return 0, false
	}
	return n, true
}

// Less orders ids numerically when both are integers, otherwise integers
// first and the rest lexicographically.
func (id PostID) Less(other PostID) bool {
	a, aOK := id.Int()
	b, bOK := other.Int()
	switch {
	case aOK && bOK:
		return a < b
	case aOK:
		return true
	case bOK:
		return false
	default:
		return id < other
	}
}

// Post is a blog post as served by the remote API.
type Post struct {
	ID         PostID `json:"id"`
	Title      string `json:"title"`
	Categories string `json:"categories"`
	Content    string `json:"content"`
}

// Tags splits the free-text categories into individual tags.
func (p Post) Tags() []string {
	return strings.FieldsFunc(p.Categories, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
}

// Fields is the user-supplied field set for a new post.
type Fields struct {
	Title      string `json:"title"`
	Categories string `json:"categories"`
	Content    string `json:"content"`
}
