package ai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chatServer(t *testing.T, content string, captured *map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}
		body, _ := io.ReadAll(r.Body)
		if captured != nil {
			_ = json.Unmarshal(body, captured)
		}
		msg, _ := json.Marshal(content)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{
			"id": "chatcmpl-test",
			"object": "chat.completion",
			"created": 1700000000,
			"model": "gpt-4o-mini",
			"choices": [{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": `+string(msg)+`}}],
			"usage": {"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15}
		}`)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestOpenAI_NormalizeIngredients(t *testing.T) {
	var req map[string]any
	srv := chatServer(t, `{"items":[{"index":0,"shopping_name":"garlic","shopping_qty":1,"shopping_unit":"head"},{"index":1,"shopping_name":"salt","shopping_qty":0,"shopping_unit":""}]}`, &req)

	o, err := NewOpenAI("sk-test", srv.URL+"/v1/", "", nil)
	require.NoError(t, err)

	forms, err := o.NormalizeIngredients(context.Background(), twoLines)
	require.NoError(t, err)
	assert.Equal(t, []ShoppingForm{
		{Name: "garlic", Quantity: ptr(1.0), Unit: "head"},
		{Name: "salt"},
	}, forms)

	assert.Equal(t, "gpt-4o-mini", req["model"])
	format, ok := req["response_format"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "json_schema", format["type"])
	messages, ok := req["messages"].([]any)
	require.True(t, ok)
	assert.Len(t, messages, 2)
}

func TestOpenAI_BadContent(t *testing.T) {
	srv := chatServer(t, "I cannot do that", nil)
	o, err := NewOpenAI("sk-test", srv.URL+"/v1/", "gpt-4o-mini", nil)
	require.NoError(t, err)

	_, err = o.NormalizeIngredients(context.Background(), twoLines)
	assert.Error(t, err)
}

func TestNewOpenAI_RequiresKey(t *testing.T) {
	_, err := NewOpenAI("", "", "", nil)
	assert.Error(t, err)
}
