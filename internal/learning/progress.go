package learning

const (
	// Window is the number of most recent answers considered for passing.
	Window = 5
	// PassThreshold is the number of correct answers within a full window
	// needed to pass.
	PassThreshold = 3
)

// Progress tracks answers for one topic.
type Progress struct {
	// RecentAnswers holds at most Window entries, oldest first.
	RecentAnswers []bool
	TotalCorrect  int
	TotalAnswered int
	IsPassed      bool
}

// Record returns the progress after one more answer. The receiver is not
// modified.
func (p Progress) Record(correct bool) Progress {
	recent := make([]bool, 0, Window)
	recent = append(recent, p.RecentAnswers...)
	recent = append(recent, correct)
	if len(recent) > Window {
		recent = recent[len(recent)-Window:]
	}

	next := Progress{
		RecentAnswers: recent,
		TotalCorrect:  p.TotalCorrect,
		TotalAnswered: p.TotalAnswered + 1,
	}
	if correct {
		next.TotalCorrect++
	}
	next.IsPassed = len(recent) == Window && countTrue(recent) >= PassThreshold
	return next
}

// RecentCorrect counts correct answers in the window.
func (p Progress) RecentCorrect() int {
	return countTrue(p.RecentAnswers)
}

// Accuracy is the lifetime fraction of correct answers, 0 when nothing was
// answered.
func (p Progress) Accuracy() float64 {
	if p.TotalAnswered == 0 {
		return 0
	}
	return float64(p.TotalCorrect) / float64(p.TotalAnswered)
}

func (p Progress) clone() Progress {
	p.RecentAnswers = append([]bool(nil), p.RecentAnswers...)
	return p
}

func countTrue(bs []bool) int {
	n := 0
	for _, b := range bs {
		if b {
			n++
		}
	}
	return n
}
