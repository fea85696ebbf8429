package learning

// Queue holds generated questions that have not been served yet. It is not
// safe for concurrent use; the Machine guards it with its mutex.
type Queue struct {
	entries []Entry
}

// Enqueue appends e.
func (q *Queue) Enqueue(e Entry) {
	q.entries = append(q.entries, e)
}

// Dequeue removes and returns the first entry for t.
func (q *Queue) Dequeue(t Target) (Entry, bool) {
	for i, e := range q.entries {
		if e.Target.Matches(t) {
			q.entries = append(q.entries[:i], q.entries[i+1:]...)
			return e, true
		}
	}
	return Entry{}, false
}

// PurgeStaleForeign drops every foundational entry whose index is not keep.
// A negative keep drops all foundational entries.
func (q *Queue) PurgeStaleForeign(keep int) int {
	kept := q.entries[:0]
	for _, e := range q.entries {
		if e.Target.Kind == TargetFoundational && (keep < 0 || e.Target.Index != keep) {
			continue
		}
		kept = append(kept, e)
	}
	removed := len(q.entries) - len(kept)
	clear(q.entries[len(kept):])
	q.entries = kept
	return removed
}

// Count returns the number of entries for t.
func (q *Queue) Count(t Target) int {
	n := 0
	for _, e := range q.entries {
		if e.Target.Matches(t) {
			n++
		}
	}
	return n
}

// Texts returns the question texts queued for t.
func (q *Queue) Texts(t Target) []string {
	var out []string
	for _, e := range q.entries {
		if e.Target.Matches(t) {
			out = append(out, e.Question.Text)
		}
	}
	return out
}

func (q *Queue) Len() int { return len(q.entries) }

// Clear empties the queue.
func (q *Queue) Clear() {
	q.entries = nil
}
