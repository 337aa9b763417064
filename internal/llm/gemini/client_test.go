package gemini

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

func TestGenerate_SendsKeyHeaderAndSchema(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/gemini-test:generateContent", r.URL.Path)
		assert.Equal(t, "k-123", r.Header.Get("x-goog-api-key"))
		assert.Empty(t, r.URL.Query().Get("key"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		gc := body["generationConfig"].(map[string]any)
		assert.Equal(t, "application/json", gc["responseMimeType"])
		assert.NotNil(t, gc["responseSchema"])

		_, _ = io.WriteString(w, `{"candidates":[{"content":{"parts":[{"text":"[{\"name\":"},{"text":"\"Soup\"}]"}]},"finishReason":"STOP"}]}`)
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "k-123", BaseURL: srv.URL + "/", Model: "gemini-test", StructuredOutput: true}, nil)
	out, err := c.Generate(context.Background(), llm.GenerateRequest{
		Prompt:         "menu",
		ResponseSchema: llm.BuildGeminiResponseSchema(),
	})
	require.NoError(t, err)
	assert.Equal(t, `[{"name":"Soup"}]`, out)
	assert.Equal(t, "gemini-test", c.Model())
}

func TestGenerate_UnstructuredOmitsSchema(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		gc := body["generationConfig"].(map[string]any)
		_, hasSchema := gc["responseSchema"]
		assert.False(t, hasSchema)
		_, _ = io.WriteString(w, `{"candidates":[{"content":{"parts":[{"text":"[]"}]}}]}`)
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "k", BaseURL: srv.URL, StructuredOutput: false}, nil)
	out, err := c.Generate(context.Background(), llm.GenerateRequest{
		Prompt:         "menu",
		ResponseSchema: llm.BuildGeminiResponseSchema(),
	})
	require.NoError(t, err)
	assert.Equal(t, "[]", out)
}

func TestGenerate_MissingKeyFailsWithoutCalling(t *testing.T) {
	t.Parallel()

	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL}, nil)
	_, err := c.Generate(context.Background(), llm.GenerateRequest{Prompt: "menu"})
	require.ErrorIs(t, err, errMissingAPIKey)
	assert.False(t, called)
}

func TestGenerate_ErrorsSurface(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		status int
		body   string
	}{
		"http error":    {status: http.StatusForbidden, body: `{"error":{"message":"API key not valid"}}`},
		"no candidates": {status: http.StatusOK, body: `{"candidates":[]}`},
		"blocked":       {status: http.StatusOK, body: `{"promptFeedback":{"blockReason":"SAFETY"}}`},
		"garbage":       {status: http.StatusOK, body: `not json`},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = io.WriteString(w, tc.body)
			}))
			defer srv.Close()

			c := NewClient(Config{APIKey: "k", BaseURL: srv.URL}, nil)
			_, err := c.Generate(context.Background(), llm.GenerateRequest{Prompt: "menu"})
			assert.Error(t, err)
		})
	}
}
