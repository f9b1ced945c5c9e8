package handler

import (
	"testing"

	"farsiflash/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatPrompt(t *testing.T) {
	state := &domain.StateData{
		State: domain.StateWaitingAnswer,
		Session: []domain.Item{
			{ID: 1, Prompt: "کتاب", Translation: "book", Transliteration: "ketâb"},
			{ID: 2, Prompt: "آب", Translation: "water"},
		},
	}

	assert.Equal(t, "📝 Word 1/2\n\nکتاب\n(ketâb)\n\nType the translation:", formatPrompt(state))

	state.Position = 1
	assert.Equal(t, "📝 Word 2/2\n\nآب\n\nType the translation:", formatPrompt(state))

	state.Position = 2
	assert.Empty(t, formatPrompt(state))
}

func TestFormatVerdict(t *testing.T) {
	item := &domain.Item{Translation: "book"}

	assert.Contains(t, formatVerdict(item, true), "✅ Correct: book")
	assert.Contains(t, formatVerdict(item, false), "❌ The answer is: book")
}

func TestFormatSummary(t *testing.T) {
	state := &domain.StateData{
		Session: make([]domain.Item, 4),
		Correct: 3,
	}

	assert.Equal(t, "🏁 Session complete!\n\nCorrect answers: 3/4 (75%)", formatSummary(state))
}

func TestFormatStats(t *testing.T) {
	text := formatStats(domain.Stats{Tracked: 10, Learned: 2, Due: 3, Failed: 1, Accuracy: 87}, 2)

	assert.Contains(t, text, "Level: 2")
	assert.Contains(t, text, "Words studied: 10")
	assert.Contains(t, text, "Due for review: 3")
	assert.Contains(t, text, "Accuracy: 87%")
}

func TestParseLevelArg(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		wantLevel int
		wantOK    bool
	}{
		{name: "no args", args: nil, wantOK: false},
		{name: "number", args: []string{"3"}, wantLevel: 3, wantOK: true},
		{name: "out of range is parsed", args: []string{"9"}, wantLevel: 9, wantOK: true},
		{name: "not a number", args: []string{"three"}, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level, ok := parseLevelArg(tt.args)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantLevel, level)
		})
	}
}

func TestAssessmentMarkup(t *testing.T) {
	markup := assessmentMarkup()

	require.Len(t, markup.InlineKeyboard, 2)
	require.Len(t, markup.InlineKeyboard[0], len(domain.Assessments))
	for i, a := range domain.Assessments {
		assert.Equal(t, assessPrefix+string(a), markup.InlineKeyboard[0][i].Unique)
	}
	assert.Equal(t, btnCancel.Unique, markup.InlineKeyboard[1][0].Unique)
}

func TestLevelMarkup(t *testing.T) {
	markup := levelMarkup(2)

	require.Len(t, markup.InlineKeyboard[0], domain.MaxLevel-domain.MinLevel+1)
	assert.Equal(t, "1", markup.InlineKeyboard[0][0].Text)
	assert.Equal(t, "• 2 •", markup.InlineKeyboard[0][1].Text)
	assert.Equal(t, "level_5", markup.InlineKeyboard[0][4].Unique)
}
