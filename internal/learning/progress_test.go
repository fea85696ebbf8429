package learning

import (
	"math/rand"
	"testing"
)

func record(answers ...bool) Progress {
	var p Progress
	for _, a := range answers {
		p = p.Record(a)
	}
	return p
}

func TestProgress_PassesOnThreeOfFive(t *testing.T) {
	p := record(true, true, true, false, false)
	if !p.IsPassed {
		t.Fatal("expected passed after 3 of 5 correct")
	}
	if p.TotalCorrect != 3 || p.TotalAnswered != 5 {
		t.Fatalf("totals = %d/%d, want 3/5", p.TotalCorrect, p.TotalAnswered)
	}
}

func TestProgress_ThreeWrong(t *testing.T) {
	p := record(false, false, false)
	if len(p.RecentAnswers) != 3 {
		t.Fatalf("window length = %d, want 3", len(p.RecentAnswers))
	}
	if p.IsPassed {
		t.Fatal("expected not passed")
	}
}

func TestProgress_NeverPassesBeforeFullWindow(t *testing.T) {
	for n := 0; n < Window; n++ {
		answers := make([]bool, n)
		for i := range answers {
			answers[i] = true
		}
		if record(answers...).IsPassed {
			t.Fatalf("passed with %d answers", n)
		}
	}
}

func TestProgress_WindowIsTrailingFive(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 200; trial++ {
		n := rng.Intn(15)
		answers := make([]bool, n)
		correct := 0
		for i := range answers {
			answers[i] = rng.Intn(2) == 0
			if answers[i] {
				correct++
			}
		}

		p := record(answers...)
		if p.TotalAnswered != n || p.TotalCorrect != correct {
			t.Fatalf("totals = %d/%d, want %d/%d", p.TotalCorrect, p.TotalAnswered, correct, n)
		}

		want := false
		if n >= Window {
			want = countTrue(answers[n-Window:]) >= PassThreshold
		}
		if p.IsPassed != want {
			t.Fatalf("answers %v: IsPassed = %v, want %v", answers, p.IsPassed, want)
		}
		if len(p.RecentAnswers) > Window {
			t.Fatalf("window length = %d", len(p.RecentAnswers))
		}
	}
}

func TestProgress_RecordDoesNotMutate(t *testing.T) {
	p := record(true, false)
	_ = p.Record(true)
	if len(p.RecentAnswers) != 2 || p.TotalAnswered != 2 {
		t.Fatalf("receiver changed: %+v", p)
	}
}

func TestProgress_Accuracy(t *testing.T) {
	if got := (Progress{}).Accuracy(); got != 0 {
		t.Fatalf("Accuracy() = %v, want 0", got)
	}
	p := record(true, false, true, true)
	if got := p.Accuracy(); got != 0.75 {
		t.Fatalf("Accuracy() = %v, want 0.75", got)
	}
	if got := p.RecentCorrect(); got != 3 {
		t.Fatalf("RecentCorrect() = %d, want 3", got)
	}
}
