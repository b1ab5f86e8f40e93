// Package action defines the actions fed into the post reducers and the
// creators that produce them from remote API calls.
package action

import "blog-client/internal/model"

// Kind is the wire tag of an action.
type Kind string

const (
	KindPostsListFetched Kind = "PostsListFetched"
	KindPostFetched      Kind = "PostFetched"
	KindPostCreated      Kind = "PostCreated"
	KindPostDeleted      Kind = "PostDeleted"
	KindRequestFailed    Kind = "RequestFailed"
)

// Action is one dispatchable unit. The set of implementations is closed to
// this package.
type Action interface {
	Kind() Kind
	isAction()
}

// Dispatcher accepts resolved actions.
type Dispatcher interface {
	Dispatch(a Action)
}

// DispatchFunc adapts a function to Dispatcher.
type DispatchFunc func(a Action)

func (f DispatchFunc) Dispatch(a Action) { f(a) }

// PostsListFetched replaces the whole collection.
type PostsListFetched struct {
	Posts []model.Post
}

// PostFetched upserts a single post read from the API.
type PostFetched struct {
	Post model.Post
}

// PostCreated upserts a post the API has just created.
type PostCreated struct {
	Post model.Post
}

// PostDeleted removes a post by id.
type PostDeleted struct {
	ID model.PostID
}

// Op names the request a RequestFailed belongs to.
type Op string

const (
	OpList   Op = "list"
	OpFetch  Op = "fetch"
	OpCreate Op = "create"
	OpDelete Op = "delete"
)

// RequestFailed reports a failed API call. ID is empty for list and create.
type RequestFailed struct {
	Op      Op           `json:"op"`
	ID      model.PostID `json:"id,omitempty"`
	Message string       `json:"error"`
}

// Unknown carries a decoded kind this build does not understand.
type Unknown struct {
	Tag Kind
}

func (PostsListFetched) Kind() Kind { return KindPostsListFetched }
func (PostFetched) Kind() Kind      { return KindPostFetched }
func (PostCreated) Kind() Kind      { return KindPostCreated }
func (PostDeleted) Kind() Kind      { return KindPostDeleted }
func (RequestFailed) Kind() Kind    { return KindRequestFailed }
func (u Unknown) Kind() Kind        { return u.Tag }

func (PostsListFetched) isAction() {}
func (PostFetched) isAction()      {}
func (PostCreated) isAction()      {}
func (PostDeleted) isAction()      {}
func (RequestFailed) isAction()    {}
func (Unknown) isAction()          {}
