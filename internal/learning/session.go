package learning

// Session is the state of one learning run. The Machine owns it; callers
// only see copies.
type Session struct {
	Phase         Phase
	OriginalTopic string
	CurrentTopic  string

	FoundationalTopics       []string
	CurrentFoundationalIndex int
	FoundationalProgress     []Progress

	NextStepTopics []string
	MainProgress   Progress

	// TopicHistory lists mastered topics, oldest first.
	TopicHistory []string
}

// CurrentFoundationalTopic returns the topic being assessed in the
// foundational phase, or "".
func (s *Session) CurrentFoundationalTopic() string {
	i := s.CurrentFoundationalIndex
	if i < 0 || i >= len(s.FoundationalTopics) {
		return ""
	}
	return s.FoundationalTopics[i]
}

// ActiveProgress returns the progress record of the topic under assessment.
func (s *Session) ActiveProgress() Progress {
	if s.Phase == PhaseFoundationalAssessment {
		i := s.CurrentFoundationalIndex
		if i >= 0 && i < len(s.FoundationalProgress) {
			return s.FoundationalProgress[i]
		}
		return Progress{}
	}
	return s.MainProgress
}

func (s Session) clone() Session {
	s.FoundationalTopics = append([]string(nil), s.FoundationalTopics...)
	s.NextStepTopics = append([]string(nil), s.NextStepTopics...)
	s.TopicHistory = append([]string(nil), s.TopicHistory...)
	if s.FoundationalProgress != nil {
		fp := make([]Progress, len(s.FoundationalProgress))
		for i, p := range s.FoundationalProgress {
			fp[i] = p.clone()
		}
		s.FoundationalProgress = fp
	}
	s.MainProgress = s.MainProgress.clone()
	return s
}

// AnswerResult describes the most recent answer.
type AnswerResult struct {
	Question     Question
	ExecutionID  string
	Chosen       int
	CorrectIndex int
	Correct      bool
}

// View is a snapshot for rendering.
type View struct {
	Session

	SessionID          string
	CurrentQuestion    *Question
	CurrentExecutionID string
	LastAnswer         *AnswerResult

	// IsLoading is true while the learner waits for content.
	IsLoading bool
	// Generating is true while a background question request is in flight.
	Generating bool
	Queued     int
	LastError  error
}
