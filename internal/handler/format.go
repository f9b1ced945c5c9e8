package handler

import (
	"fmt"
	"strconv"
	"strings"

	"farsiflash/internal/domain"
)

func itoa(n int) string {
	return strconv.Itoa(n)
}

func levelLabel(level, current int) string {
	if level == current {
		return "• " + itoa(level) + " •"
	}
	return itoa(level)
}

// formatPrompt renders the question for the current item of a session
func formatPrompt(state *domain.StateData) string {
	item := state.CurrentItem()
	if item == nil {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📝 Word %d/%d\n\n%s", state.Position+1, len(state.Session), item.Prompt)
	if item.Transliteration != "" {
		fmt.Fprintf(&b, "\n(%s)", item.Transliteration)
	}
	b.WriteString("\n\nType the translation:")
	return b.String()
}

// formatVerdict renders the answer check and asks for an assessment
func formatVerdict(item *domain.Item, correct bool) string {
	if correct {
		return fmt.Sprintf("✅ Correct: %s\n\nHow well did you remember it?", item.Translation)
	}
	return fmt.Sprintf("❌ The answer is: %s\n\nHow well did you remember it?", item.Translation)
}

// formatSummary renders the end-of-session message
func formatSummary(state *domain.StateData) string {
	total := len(state.Session)
	return fmt.Sprintf("🏁 Session complete!\n\nCorrect answers: %d/%d (%d%%)",
		state.Correct, total, domain.Accuracy(state.Correct, total-state.Correct))
}

// formatStats renders a learner summary
func formatStats(s domain.Stats, level int) string {
	return fmt.Sprintf("📊 Your progress\n\nLevel: %d\nWords studied: %d\nLearned: %d\nDue for review: %d\nStruggling: %d\nAccuracy: %d%%",
		level, s.Tracked, s.Learned, s.Due, s.Failed, s.Accuracy)
}

// parseLevelArg parses the argument of /level
func parseLevelArg(args []string) (int, bool) {
	if len(args) == 0 {
		return 0, false
	}
	level, err := strconv.Atoi(strings.TrimSpace(args[0]))
	if err != nil {
		return 0, false
	}
	return level, true
}
