package tokenize

import (
	"regexp"

	"k8s.io/utils/clock"

	"github.com/princess-entrapta/logsearcher/internal/logingester/model"
)

// Compiled once and never mutated, so it is safe to share across goroutines.
var wordPattern = regexp.MustCompile(`[A-Za-z0-9]+([-_][A-Za-z0-9]+)*`)

const defaultLevel = "INFO"

type Tokenizer struct {
	clock clock.PassiveClock
}

func New() *Tokenizer {
	return &Tokenizer{clock: clock.RealClock{}}
}

func NewWithClock(clock clock.PassiveClock) *Tokenizer {
	return &Tokenizer{clock: clock}
}

// Normalize turns one raw log object into a LogRow. The level field is
// extracted when it holds a non-empty string and removed from the residual
// payload; everything else is traversed for word tokens. Malformed or empty
// input yields a row with empty data and words, never an error.
func (t *Tokenizer) Normalize(raw map[string]any) model.LogRow {
	data := make(map[string]any, len(raw))
	for k, v := range raw {
		data[k] = v
	}

	level := defaultLevel
	if s, ok := data["level"].(string); ok && s != "" {
		level = s
		delete(data, "level")
	}

	words := make(map[string]struct{})

	// Breadth-first traversal over an explicit work-list rather than the call
	// stack, so deeply nested input cannot blow the stack.
	worklist := []any{data}
	for len(worklist) > 0 {
		value := worklist[0]
		worklist = worklist[1:]
		switch v := value.(type) {
		case string:
			for _, match := range wordPattern.FindAllString(v, -1) {
				words[match] = struct{}{}
			}
		case []any:
			worklist = append(worklist, v...)
		case map[string]any:
			for key, nested := range v {
				words[key] = struct{}{}
				worklist = append(worklist, nested)
			}
		}
		// Scalars other than strings contribute nothing.
	}

	wordList := make([]string, 0, len(words))
	for word := range words {
		wordList = append(wordList, word)
	}

	return model.LogRow{
		Time:  t.clock.Now(),
		Data:  data,
		Level: level,
		Words: wordList,
	}
}
