package tokenize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	clocktesting "k8s.io/utils/clock/testing"
)

var baseTime, _ = time.Parse("2006-01-02T15:04:05.000Z", "2022-03-01T15:04:05.000Z")

func testTokenizer() *Tokenizer {
	return NewWithClock(clocktesting.NewFakePassiveClock(baseTime))
}

func TestNormalize_WordsFromKeysAndStrings(t *testing.T) {
	row := testTokenizer().Normalize(map[string]any{
		"level": "WARN",
		"msg":   "disk-full on node-7",
	})

	assert.Equal(t, "WARN", row.Level)
	assert.Equal(t, baseTime, row.Time)
	assert.Equal(t, map[string]any{"msg": "disk-full on node-7"}, row.Data)
	assert.ElementsMatch(t, []string{"msg", "disk-full", "on", "node-7"}, row.Words)
}

func TestNormalize_NestedObjectsAndArrays(t *testing.T) {
	row := testTokenizer().Normalize(map[string]any{
		"request": map[string]any{
			"path":  "/api/logs",
			"codes": []any{"ok", map[string]any{"retry_after": "10s"}},
		},
		"count": 3.0,
		"flag":  true,
	})

	assert.Equal(t, "INFO", row.Level)
	assert.ElementsMatch(t,
		[]string{"request", "path", "api", "logs", "codes", "ok", "retry_after", "10s", "count", "flag"},
		row.Words)
}

func TestNormalize_LevelDefaultsAndRemoval(t *testing.T) {
	tests := map[string]struct {
		input         map[string]any
		expectedLevel string
		levelRetained bool
	}{
		"missing level":    {input: map[string]any{"msg": "hi"}, expectedLevel: "INFO"},
		"empty level":      {input: map[string]any{"level": "", "msg": "hi"}, expectedLevel: "INFO", levelRetained: true},
		"non-string level": {input: map[string]any{"level": 3.0, "msg": "hi"}, expectedLevel: "INFO", levelRetained: true},
		"level present":    {input: map[string]any{"level": "ERROR", "msg": "hi"}, expectedLevel: "ERROR"},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			row := testTokenizer().Normalize(tc.input)
			assert.Equal(t, tc.expectedLevel, row.Level)
			_, ok := row.Data["level"]
			assert.Equal(t, tc.levelRetained, ok)
		})
	}
}

func TestNormalize_WordsDeduplicated(t *testing.T) {
	row := testTokenizer().Normalize(map[string]any{
		"a": "foo foo foo",
		"b": "foo",
	})
	assert.ElementsMatch(t, []string{"a", "b", "foo"}, row.Words)
}

func TestNormalize_EmptyInput(t *testing.T) {
	for _, input := range []map[string]any{nil, {}} {
		row := testTokenizer().Normalize(input)
		assert.Equal(t, "INFO", row.Level)
		assert.Empty(t, row.Data)
		assert.Empty(t, row.Words)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	first := testTokenizer().Normalize(map[string]any{
		"level": "DEBUG",
		"msg":   "cache_miss for key user_42",
		"tags":  []any{"hot", "cold"},
	})
	second := testTokenizer().Normalize(first.Data)

	assert.Equal(t, "INFO", second.Level)
	assert.ElementsMatch(t, first.Words, second.Words)
}

func TestNormalize_DeeplyNestedInput(t *testing.T) {
	// A recursive traversal would overflow the stack on input like this.
	leaf := map[string]any{"k": "deep-leaf"}
	nested := any(leaf)
	for i := 0; i < 100000; i++ {
		nested = []any{nested}
	}
	row := testTokenizer().Normalize(map[string]any{"root": nested})
	assert.ElementsMatch(t, []string{"root", "k", "deep-leaf"}, row.Words)
}

func TestNormalize_InputNotMutated(t *testing.T) {
	input := map[string]any{"level": "WARN", "msg": "hi"}
	testTokenizer().Normalize(input)
	assert.Equal(t, map[string]any{"level": "WARN", "msg": "hi"}, input)
}
