package learning

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(text string, t Target) Entry {
	return Entry{Question: Question{Text: text}, Target: t}
}

func TestQueue_DequeueMatchesTarget(t *testing.T) {
	var q Queue
	q.Enqueue(entry("f0", Foundational(0)))
	q.Enqueue(entry("main", Main()))
	q.Enqueue(entry("f1", Foundational(1)))

	e, ok := q.Dequeue(Foundational(1))
	require.True(t, ok)
	assert.Equal(t, "f1", e.Question.Text)

	_, ok = q.Dequeue(Foundational(2))
	assert.False(t, ok)

	e, ok = q.Dequeue(Main())
	require.True(t, ok)
	assert.Equal(t, "main", e.Question.Text)
	assert.Equal(t, 1, q.Len())
}

func TestQueue_DequeueFirstMatch(t *testing.T) {
	var q Queue
	q.Enqueue(entry("a", Main()))
	q.Enqueue(entry("b", Main()))

	e, _ := q.Dequeue(Main())
	assert.Equal(t, "a", e.Question.Text)
	assert.Equal(t, 1, q.Count(Main()))
}

func TestQueue_PurgeStaleForeign(t *testing.T) {
	var q Queue
	for i := 0; i < 3; i++ {
		q.Enqueue(entry("f", Foundational(i)))
		q.Enqueue(entry("f", Foundational(i)))
	}
	q.Enqueue(entry("m", Main()))

	removed := q.PurgeStaleForeign(1)
	assert.Equal(t, 4, removed)
	for _, e := range q.entries {
		if e.Target.Kind == TargetFoundational {
			assert.Equal(t, 1, e.Target.Index)
		}
	}
	assert.Equal(t, 2, q.Count(Foundational(1)))
	assert.Equal(t, 1, q.Count(Main()))

	q.PurgeStaleForeign(-1)
	assert.Equal(t, 0, q.Count(Foundational(1)))
	assert.Equal(t, 1, q.Len())
}

func TestQueue_TextsAndClear(t *testing.T) {
	var q Queue
	q.Enqueue(entry("a", Foundational(0)))
	q.Enqueue(entry("b", Main()))
	assert.Equal(t, []string{"a"}, q.Texts(Foundational(0)))

	q.Clear()
	assert.Equal(t, 0, q.Len())
}
