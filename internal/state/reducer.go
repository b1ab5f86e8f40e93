// Package state holds the normalized post collection and the pure reducers
// that fold actions into it.
package state

import (
	"blog-client/internal/action"
)

// State is the root value held by the store. Treat it as read-only.
type State struct {
	Posts *Collection
	// Failure is the last failed request, cleared by the next successful one.
	Failure *action.RequestFailed
}

// Initial is the state of a freshly constructed store.
func Initial() *State {
	return &State{Posts: Empty()}
}

// Reduce computes the next root state. It returns s itself when the action
// changes nothing.
func Reduce(s *State, a action.Action) *State {
	if s == nil {
		s = Initial()
	}
	posts := ReducePosts(s.Posts, a)
	failure := reduceFailure(s.Failure, a)

	if posts == s.Posts && failure == s.Failure {
		return s
	}
	return &State{Posts: posts, Failure: failure}
}

// ReducePosts folds one action into the collection.
func ReducePosts(c *Collection, a action.Action) *Collection {
	if c == nil {
		c = Empty()
	}

	switch act := a.(type) {
	case action.PostsListFetched:
		return NewCollection(act.Posts...)
	case action.PostFetched:
		if act.Post.ID == "" {
			return c
		}
		return c.with(act.Post)
	case action.PostCreated:
		if act.Post.ID == "" {
			return c
		}
		return c.with(act.Post)
	case action.PostDeleted:
		return c.without(act.ID)
	default:
		return c
	}
}

func reduceFailure(cur *action.RequestFailed, a action.Action) *action.RequestFailed {
	switch act := a.(type) {
	case action.RequestFailed:
		return &act
	case action.PostsListFetched, action.PostFetched, action.PostCreated, action.PostDeleted:
		return nil
	default:
		return cur
	}
}
