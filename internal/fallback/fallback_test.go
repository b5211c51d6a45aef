package fallback

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

type generatorMock struct {
	mu       sync.Mutex
	prompts  []string
	text     string
	err      error
	block    bool
	panicMsg string
}

func (g *generatorMock) GenerateContent(ctx context.Context, model string, contents []*genai.Content, _ *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	g.mu.Lock()
	g.prompts = append(g.prompts, contents[0].Parts[0].Text)
	g.mu.Unlock()

	if g.panicMsg != "" {
		panic(g.panicMsg)
	}
	if g.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if g.err != nil {
		return nil, g.err
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: genai.NewContentFromText(g.text, genai.RoleModel)},
		},
	}, nil
}

// delegateMock counts calls and returns a fixed answer
type delegateMock struct {
	calls atomic.Int32
	text  string
	err   error
	wait  chan struct{}
}

func (d *delegateMock) Reply(ctx context.Context, utterance string) (string, error) {
	d.calls.Add(1)
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if d.wait != nil {
		select {
		case <-d.wait:
		case <-ctx.Done():
			return "", fmt.Errorf("%w: %w", ErrUnavailable, ctx.Err())
		}
	}
	if d.err != nil {
		return "", d.err
	}
	return d.text, nil
}

func TestUnavailable_Reply(t *testing.T) {
	_, err := Unavailable{}.Reply(context.Background(), "tell me a joke")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestNew_NoAPIKey(t *testing.T) {
	d := New(context.Background(), GeminiConfig{}, zap.NewNop())
	assert.IsType(t, Unavailable{}, d)
}

func TestPrompt(t *testing.T) {
	assert.Equal(t, "You are a shopping assistant. Reply simply: tell me a joke", Prompt("tell me a joke"))
}

func TestGemini_Reply_Success(t *testing.T) {
	gen := &generatorMock{text: "  Sure, try our backpack!  "}
	g := newGemini(gen, GeminiConfig{}, zap.NewNop())

	text, err := g.Reply(context.Background(), "tell me a joke")
	require.NoError(t, err)
	assert.Equal(t, "Sure, try our backpack!", text)
	assert.Equal(t, []string{"You are a shopping assistant. Reply simply: tell me a joke"}, gen.prompts)
	assert.Equal(t, DefaultModel, g.model)
}

func TestGemini_Reply_Error(t *testing.T) {
	cause := errors.New("quota exceeded")
	g := newGemini(&generatorMock{err: cause}, GeminiConfig{}, zap.NewNop())

	_, err := g.Reply(context.Background(), "tell me a joke")
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorIs(t, err, cause)
}

func TestGemini_Reply_EmptyText(t *testing.T) {
	g := newGemini(&generatorMock{text: "   "}, GeminiConfig{}, zap.NewNop())

	_, err := g.Reply(context.Background(), "tell me a joke")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestGemini_Reply_Timeout(t *testing.T) {
	g := newGemini(&generatorMock{block: true}, GeminiConfig{Timeout: 20 * time.Millisecond}, zap.NewNop())

	start := time.Now()
	_, err := g.Reply(context.Background(), "tell me a joke")
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestGemini_Reply_Panic(t *testing.T) {
	g := newGemini(&generatorMock{panicMsg: "boom"}, GeminiConfig{}, zap.NewNop())

	_, err := g.Reply(context.Background(), "tell me a joke")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestGemini_Reply_CallerCancelled(t *testing.T) {
	g := newGemini(&generatorMock{block: true}, GeminiConfig{Timeout: time.Minute}, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.Reply(ctx, "tell me a joke")
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	next := &delegateMock{err: ErrUnavailable}
	b := NewBreaker(next, BreakerConfig{ConsecutiveFailures: 2, OpenTimeout: time.Minute}, zap.NewNop())

	for i := 0; i < 2; i++ {
		_, err := b.Reply(context.Background(), "hmm")
		assert.ErrorIs(t, err, ErrUnavailable)
	}
	require.Equal(t, int32(2), next.calls.Load())

	// open: fails fast without calling the delegate
	_, err := b.Reply(context.Background(), "hmm")
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, int32(2), next.calls.Load())
	assert.Equal(t, "open", b.State().String())
}

func TestBreaker_PassesSuccess(t *testing.T) {
	next := &delegateMock{text: "hello"}
	b := NewBreaker(next, BreakerConfig{}, zap.NewNop())

	text, err := b.Reply(context.Background(), "hmm")
	require.NoError(t, err)
	assert.Equal(t, "hello", text)
	assert.Equal(t, "closed", b.State().String())
}

func TestBreaker_CallerCancellationDoesNotTrip(t *testing.T) {
	next := &delegateMock{text: "hello"}
	b := NewBreaker(next, BreakerConfig{ConsecutiveFailures: 3, OpenTimeout: time.Minute}, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for i := 0; i < 3; i++ {
		_, err := b.Reply(ctx, "hmm")
		assert.ErrorIs(t, err, ErrUnavailable)
		assert.ErrorIs(t, err, context.Canceled)
	}
	assert.Equal(t, "closed", b.Status())

	text, err := b.Reply(context.Background(), "hmm")
	require.NoError(t, err)
	assert.Equal(t, "hello", text)
	assert.Equal(t, int32(4), next.calls.Load())
}

func TestBreaker_DelegateTimeoutTrips(t *testing.T) {
	next := &delegateMock{err: fmt.Errorf("%w: %w", ErrUnavailable, context.DeadlineExceeded)}
	b := NewBreaker(next, BreakerConfig{ConsecutiveFailures: 2, OpenTimeout: time.Minute}, zap.NewNop())

	for i := 0; i < 2; i++ {
		_, err := b.Reply(context.Background(), "hmm")
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	}
	assert.Equal(t, "open", b.Status())
}

func TestStatus(t *testing.T) {
	cache, _ := setupTestRedis(t)

	tests := []struct {
		name     string
		delegate Delegate
		want     string
	}{
		{"unavailable", Unavailable{}, "unavailable"},
		{"gemini", newGemini(&generatorMock{}, GeminiConfig{}, zap.NewNop()), "ready"},
		{"breaker", NewBreaker(&delegateMock{}, BreakerConfig{}, zap.NewNop()), "closed"},
		{"cached breaker", NewCached(NewBreaker(&delegateMock{}, BreakerConfig{}, zap.NewNop()), cache, zap.NewNop()), "closed"},
		{"plain delegate", &delegateMock{}, "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Status(tt.delegate))
		})
	}
}
