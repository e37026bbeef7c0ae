package conversation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLLMGenerator_Generate(t *testing.T) {
	llm := &stubLLM{resp: LLMResponse{Text: " We open at 8am. "}}
	gen := NewLLMGenerator(llm, 0, nil)

	out := gen.Generate(context.Background(), "system", "when do you open")
	assert.Equal(t, Generated("We open at 8am."), out)
	require.Len(t, llm.last.System, 1)
	assert.Equal(t, "system", llm.last.System[0])
	assert.Equal(t, int32(generateMaxTokens), llm.last.MaxTokens)
}

func TestLLMGenerator_FailuresAreUnavailable(t *testing.T) {
	gen := NewLLMGenerator(&stubLLM{err: errors.New("down")}, 0, nil)
	assert.Equal(t, Unavailable, gen.Generate(context.Background(), "s", "m"))
	assert.False(t, gen.Probe(context.Background()))

	gen = NewLLMGenerator(&stubLLM{resp: LLMResponse{Text: "   "}}, 0, nil)
	assert.False(t, gen.Generate(context.Background(), "s", "m").Available)
	assert.False(t, gen.Probe(context.Background()))
}

func TestLLMGenerator_Probe(t *testing.T) {
	llm := &stubLLM{resp: LLMResponse{Text: "OK"}}
	gen := NewLLMGenerator(llm, 0, nil)
	assert.True(t, gen.Probe(context.Background()))
	assert.Equal(t, int32(5), llm.last.MaxTokens)
	assert.Equal(t, "Respond with OK", llm.last.Messages[0].Content)
}

func TestNoopGenerator(t *testing.T) {
	var gen TextGenerator = NoopGenerator{}
	assert.False(t, gen.Generate(context.Background(), "s", "m").Available)
	assert.False(t, gen.Probe(context.Background()))
}
