package apitest

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"blog-client/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func get(t *testing.T, url string) []byte {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return body
}

func TestServer_ZeroPaddedIDsStayStrings(t *testing.T) {
	srv := NewServer()
	defer srv.Close()
	srv.Seed("k", model.Post{ID: "007", Title: "padded"}, model.Post{ID: "12", Title: "plain"})

	body := get(t, srv.URL()+"/posts?key=k")
	require.True(t, json.Valid(body), "invalid JSON: %s", body)

	var raw []map[string]any
	require.NoError(t, json.Unmarshal(body, &raw))
	ids := map[any]bool{}
	for _, p := range raw {
		ids[p["id"]] = true
	}
	assert.Equal(t, map[any]bool{"007": true, float64(12): true}, ids)

	one := get(t, srv.URL()+"/posts/007?key=k")
	assert.JSONEq(t, `{"id":"007","title":"padded","categories":"","content":""}`, string(one))
}

func TestServer_SeedSkipsPastNumericIDs(t *testing.T) {
	srv := NewServer()
	defer srv.Close()

	seeded := srv.Seed("k", model.Post{ID: "5"}, model.Post{ID: "009"}, model.Post{Title: "fresh"})

	assert.Equal(t, model.PostID("6"), seeded[2].ID, "\"009\" is not an integer id")
}
