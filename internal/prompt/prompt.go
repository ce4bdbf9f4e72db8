// Package prompt builds the message list sent to the completion service:
// the system instructions, the retrieved document context, the web search
// context and the augmented final user turn.
package prompt

import (
	"fmt"
	"strings"

	"chatty/internal/domain"
	"chatty/internal/retrieval"
)

const basePrompt = "You are Chatty, a friendly and helpful assistant. " +
	"If there is insufficient information to answer the user's question, state so and suggest uploading files or enabling web search. " +
	"Never produce links that are not for the homepage of a well-known source, but feel free to write links present in the context of this conversation. " +
	"Always direct your answer to the user."

// SystemPrompt builds the system message content. Each enabled context
// source appends its own fixed instruction clause.
func SystemPrompt(searchEnabled, docsEnabled bool) string {
	p := basePrompt
	if docsEnabled {
		p += " Use uploaded document context when relevant."
	}
	if searchEnabled {
		p += " Use web search when relevant."
		p += " Always cite sources in clickable markdown links: [source](https://example.com)."
	}
	return p
}

// DocsContext retrieves the chunks most relevant to the query and formats
// them as a citation-tagged context block. No documents or an empty query
// yields the empty string.
func DocsContext(query string, sess *retrieval.Session, topK int) (string, error) {
	if query == "" || sess.DocumentCount() == 0 {
		return "", nil
	}
	lines, _, err := sess.Search(query, topK)
	if err != nil {
		return "", err
	}
	if len(lines) == 0 {
		return "", nil
	}
	return "Retrieved Document Context:\n" + strings.Join(lines, "\n\n"), nil
}

const augmentTemplate = "Question:\n%s\n\n---\n\nContext:\nYour answer is only allowed to reference information in this context:\n%s\n\n---\n\nThe user cannot see the context. Cite and copy the exact link to the relevant documents in the context so the user can verify the answer."

// Assemble composes the final conversation: the system message, the prior
// history and the latest user turn. When any context block is present the
// user turn is rewritten to carry the question plus a delimited context
// section the model must restrict itself to; otherwise it passes through
// unmodified. prior must not include the turn being assembled.
func Assemble(prior []domain.ChatMessage, userInput, searchBlock, docsContext string, searchEnabled bool) []domain.ChatMessage {
	var sections []string
	if searchBlock != "" {
		sections = append(sections, searchBlock)
	}
	if docsContext != "" {
		sections = append(sections, "Uploaded Documents:\n"+docsContext)
	}
	contextPrefix := strings.TrimSpace(strings.Join(sections, "\n\n"))

	content := userInput
	if contextPrefix != "" {
		content = fmt.Sprintf(augmentTemplate, userInput, contextPrefix)
	}

	messages := make([]domain.ChatMessage, 0, len(prior)+2)
	messages = append(messages, domain.ChatMessage{
		Role:    domain.RoleSystem,
		Content: SystemPrompt(searchEnabled, docsContext != ""),
	})
	messages = append(messages, prior...)
	messages = append(messages, domain.ChatMessage{Role: domain.RoleUser, Content: content})
	return messages
}
