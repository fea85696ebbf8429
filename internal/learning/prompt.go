package learning

import (
	"fmt"
	"strings"

	"github.com/abhisek/pathwise/internal/llm"
)

func foundationsPrompt(topic string) string {
	return fmt.Sprintf(`For the topic %q, identify 3 foundational topics that a learner should understand before mastering %q.

These should be prerequisite concepts that build toward understanding %s.`, topic, topic, topic)
}

func nextStepsPrompt(topic string) string {
	return fmt.Sprintf(`The learner has mastered %q. Suggest 3 logical next topics they should learn to advance their knowledge further.

These should be more advanced topics that build upon their mastery of %q.`, topic, topic)
}

func questionPrompt(req QuestionRequest) string {
	kind := "main topic"
	if req.Target.Kind == TargetFoundational {
		kind = "foundational topic"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Generate a multiple choice question about one of these %s: %s.\n\n", kind, strings.Join(req.Topics, ", "))
	b.WriteString("The question should:\n")
	b.WriteString("- Test understanding of key concepts\n")
	b.WriteString("- Have 3-5 clear answer options\n")
	b.WriteString("- Include one definitively correct answer\n")
	b.WriteString("- Provide a brief explanation\n")
	if len(req.Avoid) > 0 {
		b.WriteString("\nDo not repeat any of these questions:\n")
		for _, q := range req.Avoid {
			fmt.Fprintf(&b, "- %s\n", q)
		}
	}
	b.WriteString("\n")
	b.WriteString(llm.MathWithMarkdown)
	return b.String()
}
