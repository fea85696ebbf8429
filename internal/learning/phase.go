package learning

// Phase is a stage of the learning session.
type Phase int

const (
	PhaseTopicInput Phase = iota
	PhaseGeneratingFoundations
	PhaseFoundationalAssessment
	PhaseGeneratingMainTopic
	PhaseMainAssessment
	PhaseGeneratingNextSteps
	PhaseNextStepsSelection
)

var phaseNames = [...]string{
	PhaseTopicInput:             "TOPIC_INPUT",
	PhaseGeneratingFoundations:  "GENERATING_FOUNDATIONS",
	PhaseFoundationalAssessment: "FOUNDATIONAL_TOPIC_ASSESSMENT",
	PhaseGeneratingMainTopic:    "GENERATING_MAIN_TOPIC",
	PhaseMainAssessment:         "MAIN_TOPIC_ASSESSMENT",
	PhaseGeneratingNextSteps:    "GENERATING_NEXT_STEPS",
	PhaseNextStepsSelection:     "NEXT_STEPS_SELECTION",
}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "UNKNOWN"
	}
	return phaseNames[p]
}

// IsAssessment reports whether questions are served in this phase.
func (p Phase) IsAssessment() bool {
	return p == PhaseFoundationalAssessment || p == PhaseMainAssessment
}

// IsGenerating reports whether the phase waits on a structural request or
// the settle delay.
func (p Phase) IsGenerating() bool {
	switch p {
	case PhaseGeneratingFoundations, PhaseGeneratingMainTopic, PhaseGeneratingNextSteps:
		return true
	}
	return false
}
