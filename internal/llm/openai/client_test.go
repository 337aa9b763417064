package openai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/menu-extractor/internal/llm"
)

func TestGenerate_ChatCompletions(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var body struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "gpt-test", body.Model)
		require.Len(t, body.Messages, 1)
		assert.Equal(t, "menu text", body.Messages[0].Content)

		_, _ = io.WriteString(w, `{"choices":[{"message":{"content":"  [{\"name\":\"Soup\"}]\n"}}]}`)
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "sk-test", BaseURL: srv.URL, Model: "gpt-test"}, nil)
	out, err := c.Generate(context.Background(), llm.GenerateRequest{Prompt: "menu text"})
	require.NoError(t, err)
	assert.Equal(t, `[{"name":"Soup"}]`, out)
}

func TestGenerate_Failures(t *testing.T) {
	t.Parallel()

	c := NewClient(Config{}, nil)
	_, err := c.Generate(context.Background(), llm.GenerateRequest{Prompt: "x"})
	assert.Error(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"choices":[]}`)
	}))
	defer srv.Close()

	c = NewClient(Config{APIKey: "k", BaseURL: srv.URL}, nil)
	_, err = c.Generate(context.Background(), llm.GenerateRequest{Prompt: "x"})
	assert.Error(t, err)
}
