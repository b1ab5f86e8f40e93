package action

import (
	"encoding/json"
	"errors"
	"fmt"

	"blog-client/internal/model"
)

var (
	ErrUnknownKind = errors.New("unknown action kind")
	ErrNoKind      = errors.New("envelope has no kind")
)

// Envelope is the wire shape of an action: {"kind": ..., "payload": ...}.
type Envelope struct {
	Kind    Kind            `json:"kind"`
	Payload json.RawMessage `json:"payload"`
}

// Encode serializes an action into its envelope. Unknown actions cannot be
// encoded since their payload was never kept.
func Encode(a Action) ([]byte, error) {
	var payload any
	switch act := a.(type) {
	case PostsListFetched:
		posts := act.Posts
		if posts == nil {
			posts = []model.Post{}
		}
		payload = posts
	case PostFetched:
		payload = act.Post
	case PostCreated:
		payload = act.Post
	case PostDeleted:
		payload = act.ID
	case RequestFailed:
		payload = act
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, a.Kind())
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", a.Kind(), err)
	}
	return json.Marshal(Envelope{Kind: a.Kind(), Payload: raw})
}

// Decode parses an envelope. A kind it does not recognise yields Unknown so
// that newer producers do not break older consumers.
func Decode(data []byte) (Action, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}
	if env.Kind == "" {
		return nil, ErrNoKind
	}

	switch env.Kind {
	case KindPostsListFetched:
		var posts []model.Post
		if err := json.Unmarshal(env.Payload, &posts); err != nil {
			return nil, fmt.Errorf("decode %s: %w", env.Kind, err)
		}
		return PostsListFetched{Posts: posts}, nil
	case KindPostFetched, KindPostCreated:
		var post model.Post
		if err := json.Unmarshal(env.Payload, &post); err != nil {
			return nil, fmt.Errorf("decode %s: %w", env.Kind, err)
		}
		if env.Kind == KindPostFetched {
			return PostFetched{Post: post}, nil
		}
		return PostCreated{Post: post}, nil
	case KindPostDeleted:
		var id model.PostID
		if err := json.Unmarshal(env.Payload, &id); err != nil {
			return nil, fmt.Errorf("decode %s: %w", env.Kind, err)
		}
		return PostDeleted{ID: id}, nil
	case KindRequestFailed:
		var failed RequestFailed
		if err := json.Unmarshal(env.Payload, &failed); err != nil {
			return nil, fmt.Errorf("decode %s: %w", env.Kind, err)
		}
		return failed, nil
	default:
		return Unknown{Tag: env.Kind}, nil
	}
}
