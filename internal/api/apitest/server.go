// Package apitest runs an in-memory posts API for tests.
package apitest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"

	"blog-client/internal/model"

	"github.com/gorilla/mux"
)

// Server mimics the remote posts API: integer ids, ?key= scoping and JSON
// bodies. Each key sees its own set of posts.
type Server struct {
	mu       sync.Mutex
	posts    map[string]map[string]model.Post
	nextID   int
	failNext int
	requests []*http.Request

	router *mux.Router
	srv    *httptest.Server
}

// NewServer starts a server. Call Close when done.
func NewServer() *Server {
	s := &Server{
		posts:  make(map[string]map[string]model.Post),
		nextID: 1,
		router: mux.NewRouter(),
	}
	s.routes()
	s.srv = httptest.NewServer(s.router)
	return s
}

func (s *Server) routes() {
	api := s.router.PathPrefix("/api").Subrouter()
	api.Use(s.record)

	api.HandleFunc("/posts", s.handleList).Methods("GET")
	api.HandleFunc("/posts", s.handleCreate).Methods("POST")
	api.HandleFunc("/posts/{id}", s.handleGet).Methods("GET")
	api.HandleFunc("/posts/{id}", s.handleDelete).Methods("DELETE")
}

// URL is the API base URL to hand to api.NewClient.
func (s *Server) URL() string { return s.srv.URL + "/api" }

func (s *Server) Close() { s.srv.Close() }

// Seed stores posts under key, assigning ids to those without one.
func (s *Server) Seed(key string, posts ...model.Post) []model.Post {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Post, 0, len(posts))
	for _, p := range posts {
		if p.ID == "" {
			p.ID = s.allocID()
		} else if n, ok := p.ID.Int(); ok && n >= int64(s.nextID) {
			s.nextID = int(n) + 1
		}
		s.bucket(key)[p.ID.String()] = p
		out = append(out, p)
	}
	return out
}

// FailNext makes the next request answer with status.
func (s *Server) FailNext(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNext = status
}

// Requests returns every request seen so far.
func (s *Server) Requests() []*http.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*http.Request(nil), s.requests...)
}

// Posts returns the stored posts for key.
func (s *Server) Posts(key string) map[string]model.Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]model.Post)
	for id, p := range s.bucket(key) {
		out[id] = p
	}
	return out
}

func (s *Server) bucket(key string) map[string]model.Post {
	b, ok := s.posts[key]
	if !ok {
		b = make(map[string]model.Post)
		s.posts[key] = b
	}
	return b
}

func (s *Server) allocID() model.PostID {
	id := model.PostID(strconv.Itoa(s.nextID))
	s.nextID++
	return id
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, r.Clone(r.Context()))
		status := s.failNext
		s.failNext = 0
		s.mu.Unlock()

		if status != 0 {
			http.Error(w, http.StatusText(status), status)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")

	s.mu.Lock()
	posts := make([]postJSON, 0, len(s.bucket(key)))
	for _, p := range s.bucket(key) {
		posts = append(posts, toJSON(p))
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, posts)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	id := mux.Vars(r)["id"]

	s.mu.Lock()
	p, ok := s.bucket(key)[id]
	s.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, toJSON(p))
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")

	var fields model.Fields
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		http.Error(w, "Invalid body", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	p := model.Post{
		ID:         s.allocID(),
		Title:      fields.Title,
		Categories: fields.Categories,
		Content:    fields.Content,
	}
	s.bucket(key)[p.ID.String()] = p
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, toJSON(p))
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	id := mux.Vars(r)["id"]

	s.mu.Lock()
	p, ok := s.bucket(key)[id]
	delete(s.bucket(key), id)
	s.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, toJSON(p))
}

// postJSON renders integer ids as JSON numbers, as the real API does. Ids
// like "007" stay strings.
type postJSON struct {
	ID         json.RawMessage `json:"id"`
	Title      string          `json:"title"`
	Categories string          `json:"categories"`
	Content    string          `json:"content"`
}

func toJSON(p model.Post) postJSON {
	var id json.RawMessage
	if _, ok := p.ID.Int(); ok {
		id = json.RawMessage(p.ID.String())
	} else {
		id, _ = json.Marshal(p.ID.String())
	}
	return postJSON{ID: id, Title: p.Title, Categories: p.Categories, Content: p.Content}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
