package tokens

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatty/internal/domain"
)

func totalCount(messages []domain.ChatMessage) int {
	total := 0
	for _, m := range messages {
		total += Count(m.Content)
	}
	return total
}

func TestTrimToBudget_FitsUnchanged(t *testing.T) {
	messages := []domain.ChatMessage{
		{Role: domain.RoleSystem, Content: "You are helpful."},
		{Role: domain.RoleUser, Content: "Hello there."},
		{Role: domain.RoleAssistant, Content: "Hi, how can I help?"},
	}
	got := TrimToBudget(messages, 1000)
	assert.Equal(t, messages, got)
}

func TestTrimToBudget_KeepsSystemAndRecentTurns(t *testing.T) {
	messages := []domain.ChatMessage{
		{Role: domain.RoleSystem, Content: "S"},
		{Role: domain.RoleUser, Content: "A"},
		{Role: domain.RoleAssistant, Content: "B"},
		{Role: domain.RoleUser, Content: "C"},
	}
	// Each content is one token; budget fits system plus the last two.
	got := TrimToBudget(messages, 3)
	require.Equal(t, []domain.ChatMessage{
		{Role: domain.RoleSystem, Content: "S"},
		{Role: domain.RoleAssistant, Content: "B"},
		{Role: domain.RoleUser, Content: "C"},
	}, got)
}

func TestTrimToBudget_NeverDropsSystem(t *testing.T) {
	messages := []domain.ChatMessage{
		{Role: domain.RoleSystem, Content: "System instructions stay."},
		{Role: domain.RoleUser, Content: strings.Repeat("long user content ", 100)},
	}
	got := TrimToBudget(messages, 1)
	require.NotEmpty(t, got)
	assert.Equal(t, domain.RoleSystem, got[0].Role)
}

func TestTrimToBudget_NeverExceedsBudget(t *testing.T) {
	messages := []domain.ChatMessage{
		{Role: domain.RoleSystem, Content: "short system"},
		{Role: domain.RoleUser, Content: strings.Repeat("many words in this older message ", 80)},
		{Role: domain.RoleAssistant, Content: "brief answer"},
		{Role: domain.RoleUser, Content: "brief question"},
	}
	budget := 200
	got := TrimToBudget(messages, budget)
	assert.LessOrEqual(t, totalCount(got), budget)
}

func TestTrimToBudget_TruncatesFirstOverflowWhenBudgetRemains(t *testing.T) {
	long := strings.Repeat("alpha beta gamma delta ", 100)
	messages := []domain.ChatMessage{
		{Role: domain.RoleSystem, Content: "S"},
		{Role: domain.RoleUser, Content: long},
		{Role: domain.RoleUser, Content: "latest"},
	}
	budget := 150
	got := TrimToBudget(messages, budget)
	require.Len(t, got, 3)
	assert.Equal(t, "S", got[0].Content)
	assert.True(t, strings.HasPrefix(long, got[1].Content), "overflow message is prefix-truncated")
	assert.Less(t, len(got[1].Content), len(long))
	assert.Equal(t, "latest", got[2].Content)
	assert.LessOrEqual(t, totalCount(got), budget)
}

func TestTrimToBudget_DropsOverflowWhenBudgetTooSmall(t *testing.T) {
	long := strings.Repeat("alpha beta gamma delta ", 100)
	messages := []domain.ChatMessage{
		{Role: domain.RoleSystem, Content: "S"},
		{Role: domain.RoleUser, Content: "old and dropped"},
		{Role: domain.RoleUser, Content: long},
		{Role: domain.RoleUser, Content: "latest"},
	}
	// After system and the latest turn, fewer than the minimum truncation
	// budget remains, so the long message and everything older go away.
	got := TrimToBudget(messages, 50)
	require.Len(t, got, 2)
	assert.Equal(t, "S", got[0].Content)
	assert.Equal(t, "latest", got[1].Content)
}
