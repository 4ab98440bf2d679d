package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeminiClient_Generate(t *testing.T) {
	var gotPath, gotKey, gotText string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")

		var body generateRequest
		_ = json.NewDecoder(r.Body).Decode(&body)
		gotText = body.Contents[0].Parts[0].Text

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"candidates":[{"content":{"parts":[{"text":"你好，同学"}]}}]}`)
	}))
	defer srv.Close()

	c := NewGeminiClient(GeminiConfig{APIKey: "k", BaseURL: srv.URL, Model: "gemini-2.5-flash"})

	reply, err := c.Generate(context.Background(), "你好")
	require.NoError(t, err)

	assert.Equal(t, "你好，同学", reply)
	assert.Equal(t, "/models/gemini-2.5-flash:generateContent", gotPath)
	assert.Equal(t, "k", gotKey)
	assert.Equal(t, "你好", gotText)
}

func TestGeminiClient_EmptyCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"candidates":[]}`)
	}))
	defer srv.Close()

	reply, err := NewGeminiClient(GeminiConfig{APIKey: "k", BaseURL: srv.URL}).Generate(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, NoResponse, reply)
}

func TestGeminiClient_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = io.WriteString(w, `{"error":"API key not valid"}`)
	}))
	defer srv.Close()

	_, err := NewGeminiClient(GeminiConfig{APIKey: "bad", BaseURL: srv.URL}).Generate(context.Background(), "hi")

	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, http.StatusForbidden, upstream.Status)
	assert.Contains(t, upstream.Body, "API key not valid")
	assert.Equal(t, "Gemini API Error: 403", upstream.Error())
	assert.False(t, upstream.Retryable())
}

func TestGeminiClient_MissingKey(t *testing.T) {
	_, err := NewGeminiClient(GeminiConfig{}).Generate(context.Background(), "hi")
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

type fakeGenerator struct {
	calls int
	err   error
	delay time.Duration
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	f.calls++
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if f.err != nil {
		return "", f.err
	}
	return strings.ToUpper(prompt), nil
}

func TestProtectedGenerator_OpensAfterThresholdAndRecovers(t *testing.T) {
	inner := &fakeGenerator{err: errors.New("connection reset")}
	g := NewProtectedGenerator(inner, ProtectedConfig{FailureThreshold: 2, Cooldown: time.Minute})

	now := time.Unix(0, 0)
	g.now = func() time.Time { return now }

	for i := 0; i < 2; i++ {
		_, err := g.Generate(context.Background(), "x")
		require.Error(t, err)
	}
	assert.Equal(t, "open", g.State())

	_, err := g.Generate(context.Background(), "x")
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.Equal(t, 2, inner.calls, "open circuit must not reach the upstream")

	// after cooldown a single trial call goes through and closes the circuit
	now = now.Add(2 * time.Minute)
	inner.err = nil

	reply, err := g.Generate(context.Background(), "ok")
	require.NoError(t, err)
	assert.Equal(t, "OK", reply)
	assert.Equal(t, "closed", g.State())
}

func TestProtectedGenerator_ClientErrorsDoNotTrip(t *testing.T) {
	inner := &fakeGenerator{err: &UpstreamError{Provider: "Gemini", Status: 400}}
	g := NewProtectedGenerator(inner, ProtectedConfig{FailureThreshold: 1})

	for i := 0; i < 3; i++ {
		_, _ = g.Generate(context.Background(), "x")
	}

	assert.Equal(t, "closed", g.State())
	assert.Equal(t, 3, inner.calls)
}

func TestProtectedGenerator_EnforcesTimeout(t *testing.T) {
	inner := &fakeGenerator{delay: time.Second}
	g := NewProtectedGenerator(inner, ProtectedConfig{Timeout: 20 * time.Millisecond})

	_, err := g.Generate(context.Background(), "x")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestMessageLength_CountsUTF16Units(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{in: "", want: 0},
		{in: "abc", want: 3},
		{in: "静夜思", want: 3},
		{in: "📚", want: 2},
		{in: "读📚", want: 3},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, MessageLength(tt.in), tt.in)
	}
}
