package tokens

import "chatty/internal/domain"

// minTruncateBudget is the smallest remaining budget worth filling with a
// truncated message; below it the overflowing message is dropped instead.
const minTruncateBudget = 100

// TrimToBudget fits a conversation into maxTokens. The first system
// message is always kept in full and counted first. The remaining
// messages are walked newest to oldest and kept whole while they fit,
// preserving chronological order among the kept ones. The first message
// that would overflow is included as a token-truncated copy when enough
// budget remains; everything older is dropped. Recency wins over
// completeness: the system prompt and the latest turns are never
// sacrificed for older history.
func TrimToBudget(messages []domain.ChatMessage, maxTokens int) []domain.ChatMessage {
	var system *domain.ChatMessage
	others := make([]domain.ChatMessage, 0, len(messages))
	for i := range messages {
		if messages[i].Role == domain.RoleSystem && system == nil {
			system = &messages[i]
		} else {
			others = append(others, messages[i])
		}
	}

	total := 0
	var head []domain.ChatMessage
	if system != nil {
		total = Count(system.Content)
		head = append(head, *system)
	}

	var tail []domain.ChatMessage
	for i := len(others) - 1; i >= 0; i-- {
		m := others[i]
		cost := Count(m.Content)
		if total+cost <= maxTokens {
			tail = append([]domain.ChatMessage{m}, tail...)
			total += cost
			continue
		}
		if cost > 0 && maxTokens-total > minTruncateBudget {
			truncated := domain.ChatMessage{
				Role:    m.Role,
				Content: Truncate(m.Content, maxTokens-total),
			}
			tail = append([]domain.ChatMessage{truncated}, tail...)
		}
		break
	}
	return append(head, tail...)
}
