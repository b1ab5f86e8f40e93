package store

import (
	"strconv"
	"sync"
	"testing"

	"blog-client/internal/action"
	"blog-client/internal/model"
	"blog-client/internal/state"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestStore_StartsEmpty(t *testing.T) {
	st := New()

	s := st.GetState()
	require.NotNil(t, s)
	assert.Equal(t, 0, s.Posts.Len())
	assert.Nil(t, s.Failure)
}

func TestStore_InstancesAreIndependent(t *testing.T) {
	a := New()
	b := New()

	a.Dispatch(action.PostCreated{Post: model.Post{ID: "1"}})

	assert.Equal(t, 1, a.GetState().Posts.Len())
	assert.Equal(t, 0, b.GetState().Posts.Len())
}

func TestStore_InjectedInitialState(t *testing.T) {
	seed := &state.State{Posts: state.NewCollection(model.Post{ID: "3", Title: "seeded"})}
	st := New(WithInitialState(seed), WithLogger(zap.NewNop()))

	assert.Same(t, seed, st.GetState())
}

func TestStore_EndToEnd(t *testing.T) {
	st := New()

	st.Dispatch(action.PostsListFetched{Posts: []model.Post{{ID: "1", Title: "first"}}})
	st.Dispatch(action.PostCreated{Post: model.Post{ID: "2", Title: "second"}})
	st.Dispatch(action.PostDeleted{ID: "1"})

	assert.Equal(t, map[model.PostID]model.Post{
		"2": {ID: "2", Title: "second"},
	}, st.GetState().Posts.Map())
}

func TestStore_ListenersOnlySeeChanges(t *testing.T) {
	st := New()
	var seen []*state.State
	st.Subscribe(func(s *state.State) { seen = append(seen, s) })

	st.Dispatch(action.PostCreated{Post: model.Post{ID: "1"}})
	st.Dispatch(action.PostCreated{Post: model.Post{ID: "1"}}) // identical upsert
	st.Dispatch(action.PostDeleted{ID: "99"})
	st.Dispatch(action.Unknown{Tag: "PostLiked"})

	require.Len(t, seen, 1)
	assert.Same(t, st.GetState(), seen[0])
}

func TestStore_ListenersRunInSubscriptionOrder(t *testing.T) {
	st := New()
	var order []string
	st.Subscribe(func(*state.State) { order = append(order, "first") })
	st.Subscribe(func(*state.State) { order = append(order, "second") })

	st.Dispatch(action.PostCreated{Post: model.Post{ID: "1"}})

	assert.Equal(t, []string{"first", "second"}, order)
}

func TestStore_Unsubscribe(t *testing.T) {
	st := New()
	calls := 0
	unsubscribe := st.Subscribe(func(*state.State) { calls++ })

	st.Dispatch(action.PostCreated{Post: model.Post{ID: "1"}})
	unsubscribe()
	unsubscribe()
	st.Dispatch(action.PostCreated{Post: model.Post{ID: "2"}})

	assert.Equal(t, 1, calls)
}

func TestStore_ListenerMayDispatch(t *testing.T) {
	st := New()
	st.Subscribe(func(s *state.State) {
		if s.Posts.Has("1") && !s.Posts.Has("2") {
			st.Dispatch(action.PostCreated{Post: model.Post{ID: "2"}})
		}
	})

	st.Dispatch(action.PostCreated{Post: model.Post{ID: "1"}})

	assert.Equal(t, []model.PostID{"1", "2"}, st.GetState().Posts.IDs())
}

func TestStore_LastDispatchWinsPerKey(t *testing.T) {
	st := New()

	st.Dispatch(action.PostFetched{Post: model.Post{ID: "5", Title: "newer request"}})
	st.Dispatch(action.PostFetched{Post: model.Post{ID: "5", Title: "older request"}})

	p, ok := st.GetState().Posts.Get("5")
	require.True(t, ok)
	assert.Equal(t, "older request", p.Title)
}

func TestStore_ConcurrentDispatch(t *testing.T) {
	st := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			st.Dispatch(action.PostCreated{Post: model.Post{ID: model.PostID(string(rune('a' + i%26))), Title: "x"}})
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 26, st.GetState().Posts.Len())
}

func TestStore_ListenersNeverSeeAStaleStateLast(t *testing.T) {
	st := New()
	entered := make(chan struct{})
	release := make(chan struct{})

	var mu sync.Mutex
	var seen []*state.State
	st.Subscribe(func(s *state.State) {
		mu.Lock()
		seen = append(seen, s)
		first := len(seen) == 1
		mu.Unlock()
		if first {
			close(entered)
			<-release
		}
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		st.Dispatch(action.PostCreated{Post: model.Post{ID: "1"}})
	}()

	// The first dispatch is stalled inside its notification; a second one
	// completes meanwhile.
	<-entered
	st.Dispatch(action.PostCreated{Post: model.Post{ID: "2"}})
	close(release)
	<-done

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, seen, 2)
	last := seen[len(seen)-1]
	assert.Same(t, st.GetState(), last)
	assert.Equal(t, 2, last.Posts.Len())
}

func TestStore_ConcurrentNotificationsAreMonotonic(t *testing.T) {
	st := New()
	var mu sync.Mutex
	var lens []int
	var last *state.State
	st.Subscribe(func(s *state.State) {
		mu.Lock()
		defer mu.Unlock()
		lens = append(lens, s.Posts.Len())
		last = s
	})

	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			st.Dispatch(action.PostCreated{Post: model.Post{ID: model.PostID(strconv.Itoa(i))}})
		}(i)
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	for i := 1; i < len(lens); i++ {
		assert.Greater(t, lens[i], lens[i-1], "notification %d went backwards", i)
	}
	assert.Same(t, st.GetState(), last)
	assert.Equal(t, 40, last.Posts.Len())
}

func TestStore_NestedDispatchIsAnnouncedAfterTheCurrentRound(t *testing.T) {
	st := New()
	var order []string
	st.Subscribe(func(s *state.State) {
		order = append(order, "first:"+strconv.Itoa(s.Posts.Len()))
		if s.Posts.Len() == 1 {
			st.Dispatch(action.PostCreated{Post: model.Post{ID: "2"}})
		}
	})
	st.Subscribe(func(s *state.State) {
		order = append(order, "second:"+strconv.Itoa(s.Posts.Len()))
	})

	st.Dispatch(action.PostCreated{Post: model.Post{ID: "1"}})

	assert.Equal(t, []string{"first:1", "second:1", "first:2", "second:2"}, order)
}

func TestStore_CustomReducer(t *testing.T) {
	calls := 0
	st := New(WithReducer(func(s *state.State, a action.Action) *state.State {
		calls++
		return state.Reduce(s, a)
	}))

	st.Dispatch(action.PostDeleted{ID: "1"})
	assert.Equal(t, 1, calls)
}
