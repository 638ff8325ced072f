package cmds

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetJSON(t *testing.T) {
	var gotQuery url.Values
	var gotHeader http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		gotHeader = r.Header.Clone()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"name":"value"}`))
	}))
	defer srv.Close()

	s := testSkills()
	var out struct {
		Name string `json:"name"`
	}
	params := url.Values{"q": {"pizza time"}}
	headers := map[string]string{"X-Api-Key": "secret"}
	err := s.getJSON(context.Background(), srv.URL, params, headers, &out)
	require.NoError(t, err)
	assert.Equal(t, "value", out.Name)
	assert.Equal(t, "pizza time", gotQuery.Get("q"))
	assert.Equal(t, "secret", gotHeader.Get("X-Api-Key"))
	assert.Equal(t, "application/json", gotHeader.Get("Accept"))
}

func TestGetJSONNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	s := testSkills()
	var out map[string]any
	err := s.getJSON(context.Background(), srv.URL, nil, nil, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestGetJSONMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	s := testSkills()
	var out map[string]any
	assert.Error(t, s.getJSON(context.Background(), srv.URL, nil, nil, &out))
}
