package summarizer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/spacesedan/summariser/internal/bedrock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingGenerator struct {
	prompts []bedrock.Prompt
	models  []bedrock.Model
	failAt  int
}

func (g *recordingGenerator) Generate(_ context.Context, model bedrock.Model, prompt bedrock.Prompt) (string, error) {
	g.prompts = append(g.prompts, prompt)
	g.models = append(g.models, model)
	if g.failAt > 0 && len(g.prompts) == g.failAt {
		return "", errors.New("model unavailable")
	}
	return fmt.Sprintf("summary-%d", len(g.prompts)), nil
}

type memCache struct {
	entries map[string]string
	getErr  error
}

func (c *memCache) Get(_ context.Context, modelID, text string) (string, bool, error) {
	if c.getErr != nil {
		return "", false, c.getErr
	}
	s, ok := c.entries[modelID+"|"+text]
	return s, ok, nil
}

func (c *memCache) Set(_ context.Context, modelID, text, summary string) error {
	if c.entries == nil {
		c.entries = map[string]string{}
	}
	c.entries[modelID+"|"+text] = summary
	return nil
}

func testModel(t *testing.T, key string) bedrock.Model {
	t.Helper()
	r, err := bedrock.NewRegistry(bedrock.ClaudeHaikuModelID)
	require.NoError(t, err)
	return r.Resolve(key)
}

func TestShortTextMakesTwoCalls(t *testing.T) {
	for _, key := range []string{"titan", "haiku", "cohere-light"} {
		t.Run(key, func(t *testing.T) {
			gen := &recordingGenerator{}
			res, err := New(gen, nil).Summarize(context.Background(), "a short passage", testModel(t, key))
			require.NoError(t, err)

			require.Len(t, gen.prompts, 2)
			assert.Equal(t, "a short passage", gen.prompts[0].User)
			assert.Equal(t, "summary-1", gen.prompts[1].User)
			assert.Equal(t, "summary-2", res.Summary)
			assert.Equal(t, 1, res.Chunks)
			assert.False(t, res.Truncated)
		})
	}
}

func TestEmptyTextStillReduces(t *testing.T) {
	gen := &recordingGenerator{}
	_, err := New(gen, nil).Summarize(context.Background(), "", testModel(t, "haiku"))
	require.NoError(t, err)

	require.Len(t, gen.prompts, 2)
	assert.Equal(t, "", gen.prompts[0].User)
}

func TestLongTextKeepsFirstFourChunks(t *testing.T) {
	var b strings.Builder
	for _, c := range "ABCDEF" {
		b.WriteString(strings.Repeat(string(c), ChunkSize))
	}

	gen := &recordingGenerator{}
	res, err := New(gen, nil).Summarize(context.Background(), b.String(), testModel(t, "titan"))
	require.NoError(t, err)

	require.Len(t, gen.prompts, MaxChunks+1)
	for i, c := range "ABCD" {
		assert.Equal(t, strings.Repeat(string(c), ChunkSize), gen.prompts[i].User)
	}
	for _, p := range gen.prompts {
		assert.NotContains(t, p.User, "E")
		assert.NotContains(t, p.User, "F")
	}
	assert.Equal(t, "summary-1 summary-2 summary-3 summary-4", gen.prompts[MaxChunks].User)
	assert.True(t, res.Truncated)
	assert.Equal(t, MaxChunks, res.Chunks)
}

func TestFailureAbortsWithoutPartialResult(t *testing.T) {
	gen := &recordingGenerator{failAt: 2}
	text := strings.Repeat("x", ChunkSize*3)

	res, err := New(gen, nil).Summarize(context.Background(), text, testModel(t, "haiku"))
	require.Error(t, err)
	assert.Empty(t, res.Summary)
	assert.Len(t, gen.prompts, 2)
}

func TestEveryCallUsesSameModelAndInstruction(t *testing.T) {
	gen := &recordingGenerator{}
	model := testModel(t, "cohere-light")
	_, err := New(gen, nil).Summarize(context.Background(), strings.Repeat("y", ChunkSize+1), model)
	require.NoError(t, err)

	require.Len(t, gen.prompts, 3)
	for i := range gen.prompts {
		assert.Equal(t, systemPrompt, gen.prompts[i].System)
		assert.Equal(t, model.ID, gen.models[i].ID)
	}
}

func TestCacheHitSkipsModel(t *testing.T) {
	model := testModel(t, "haiku")
	cache := &memCache{}
	require.NoError(t, cache.Set(context.Background(), model.ID, "text", "cached bullets"))

	gen := &recordingGenerator{}
	res, err := New(gen, cache).Summarize(context.Background(), "text", model)
	require.NoError(t, err)

	assert.Empty(t, gen.prompts)
	assert.True(t, res.Cached)
	assert.Equal(t, "cached bullets", res.Summary)
}

func TestCacheMissStoresSummary(t *testing.T) {
	model := testModel(t, "haiku")
	cache := &memCache{}
	gen := &recordingGenerator{}

	res, err := New(gen, cache).Summarize(context.Background(), "text", model)
	require.NoError(t, err)

	assert.Len(t, gen.prompts, 2)
	assert.Equal(t, res.Summary, cache.entries[model.ID+"|text"])
}

func TestCacheErrorFallsThrough(t *testing.T) {
	gen := &recordingGenerator{}
	res, err := New(gen, &memCache{getErr: errors.New("conn refused")}).
		Summarize(context.Background(), "text", testModel(t, "haiku"))
	require.NoError(t, err)

	assert.Len(t, gen.prompts, 2)
	assert.False(t, res.Cached)
}

func TestSplitChunks(t *testing.T) {
	chunks, truncated := SplitChunks("abcdefg", 3, 4)
	assert.Equal(t, []string{"abc", "def", "g"}, chunks)
	assert.False(t, truncated)

	chunks, truncated = SplitChunks("abcdefghijklm", 3, 4)
	assert.Equal(t, []string{"abc", "def", "ghi", "jkl"}, chunks)
	assert.True(t, truncated)

	chunks, truncated = SplitChunks("abcdefghijkl", 3, 4)
	assert.Len(t, chunks, 4)
	assert.False(t, truncated)

	// counts characters, not bytes
	chunks, _ = SplitChunks("héllo wörld", 5, 4)
	assert.Equal(t, []string{"héllo", " wörl", "d"}, chunks)
}
