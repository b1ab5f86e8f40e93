package state

import (
	"maps"
	"slices"

	"blog-client/internal/model"
)

// Collection is an immutable set of posts keyed by id. Every key equals the
// ID of the post stored under it. Methods that change the set return a new
// Collection and leave the receiver untouched.
type Collection struct {
	posts map[model.PostID]model.Post
}

var empty = &Collection{posts: map[model.PostID]model.Post{}}

// Empty returns the shared empty collection.
func Empty() *Collection { return empty }

// NewCollection keys posts by their ID. Later duplicates win; posts without
// an ID are dropped.
func NewCollection(posts ...model.Post) *Collection {
	m := make(map[model.PostID]model.Post, len(posts))
	for _, p := range posts {
		if p.ID == "" {
			continue
		}
		m[p.ID] = p
	}
	return &Collection{posts: m}
}

func (c *Collection) Len() int { return len(c.posts) }

func (c *Collection) Get(id model.PostID) (model.Post, bool) {
	p, ok := c.posts[id]
	return p, ok
}

func (c *Collection) Has(id model.PostID) bool {
	_, ok := c.posts[id]
	return ok
}

// IDs returns every key, integers numerically first.
func (c *Collection) IDs() []model.PostID {
	ids := slices.Collect(maps.Keys(c.posts))
	slices.SortFunc(ids, func(a, b model.PostID) int {
		switch {
		case a.Less(b):
			return -1
		case b.Less(a):
			return 1
		default:
			return 0
		}
	})
	return ids
}

// Posts returns every post ordered by IDs.
func (c *Collection) Posts() []model.Post {
	ids := c.IDs()
	posts := make([]model.Post, len(ids))
	for i, id := range ids {
		posts[i] = c.posts[id]
	}
	return posts
}

// Map returns a copy of the underlying mapping.
func (c *Collection) Map() map[model.PostID]model.Post {
	return maps.Clone(c.posts)
}

// with returns c plus p, or c itself when p is already stored unchanged.
func (c *Collection) with(p model.Post) *Collection {
	if cur, ok := c.posts[p.ID]; ok && cur == p {
		return c
	}
	m := make(map[model.PostID]model.Post, len(c.posts)+1)
	maps.Copy(m, c.posts)
	m[p.ID] = p
	return &Collection{posts: m}
}

// without returns c minus id, or c itself when id is absent.
func (c *Collection) without(id model.PostID) *Collection {
	if _, ok := c.posts[id]; !ok {
		return c
	}
	m := maps.Clone(c.posts)
	delete(m, id)
	return &Collection{posts: m}
}
