// Package chat orchestrates one conversation: history, uploaded
// documents, retrieval, web search, prompt assembly and the streaming
// completion call.
package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"chatty/internal/domain"
	"chatty/internal/extract"
	"chatty/internal/llm"
	"chatty/internal/prompt"
	"chatty/internal/retrieval"
	"chatty/internal/tokens"
	"chatty/internal/websearch"
)

// Completer is the completion service the session talks to.
type Completer interface {
	Complete(ctx context.Context, messages []domain.ChatMessage, model string, temperature float32) (string, error)
	Stream(ctx context.Context, messages []domain.ChatMessage, model string, temperature float32) (llm.Stream, error)
}

// Options tunes a chat session.
type Options struct {
	Model         domain.Model
	Temperature   float32
	TopK          int
	SearchResults int
}

// Session holds the state of one conversation. It is not safe for
// concurrent use: one turn is processed start to finish before the next
// begins.
type Session struct {
	completer  Completer
	provider   domain.SearchProvider
	summarizer domain.Summarizer
	retrieval  *retrieval.Session

	model         domain.Model
	temperature   float32
	topK          int
	searchResults int

	history []domain.ChatMessage
}

func NewSession(completer Completer, provider domain.SearchProvider, summarizer domain.Summarizer, rs *retrieval.Session, opts Options) *Session {
	if opts.TopK <= 0 {
		opts.TopK = 5
	}
	if opts.SearchResults <= 0 {
		opts.SearchResults = websearch.DefaultResults
	}
	return &Session{
		completer:     completer,
		provider:      provider,
		summarizer:    summarizer,
		retrieval:     rs,
		model:         opts.Model,
		temperature:   opts.Temperature,
		topK:          opts.TopK,
		searchResults: opts.SearchResults,
	}
}

// History returns a copy of the conversation so far.
func (s *Session) History() []domain.ChatMessage {
	return append([]domain.ChatMessage(nil), s.history...)
}

// Model returns the active completion model.
func (s *Session) Model() domain.Model { return s.model }

// SetModel switches the completion model for subsequent turns.
func (s *Session) SetModel(m domain.Model) { s.model = m }

// DocumentCount reports how many documents are attached.
func (s *Session) DocumentCount() int { return s.retrieval.DocumentCount() }

// Attach extracts text from an uploaded file and adds it to the document
// set. It returns a short summary of the attached text for display. Files
// with no extractable text are rejected with an error the caller should
// surface as a warning, leaving other documents untouched.
func (s *Session) Attach(name string, data []byte) (string, error) {
	text, err := extract.Read(name, data)
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", name, err)
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("no text extracted from %s", name)
	}
	s.retrieval.AddDocument(domain.Document{Name: name, Text: text})
	summary, err := s.summarizer.Summarize(text, 3)
	if err != nil || summary == "" {
		summary = fmt.Sprintf("%d characters of text", len(text))
	}
	return summary, nil
}

// ClearDocuments removes every attached document.
func (s *Session) ClearDocuments() { s.retrieval.Clear() }

// ClearHistory wipes the conversation.
func (s *Session) ClearHistory() { s.history = nil }

// Turn records the user message and starts a streaming completion for it.
// The caller pulls deltas from the stream and must call Finish with the
// final assistant text, error text included, so a turn is never dropped
// from the history. searchOverride, when non-empty, replaces the
// generated web search query.
func (s *Session) Turn(ctx context.Context, input string, searchEnabled bool, searchOverride string) (llm.Stream, error) {
	s.history = append(s.history, domain.ChatMessage{Role: domain.RoleUser, Content: input})

	searchBlock := ""
	if searchEnabled {
		searchBlock = s.searchContext(ctx, searchOverride)
	}
	docsContext, err := prompt.DocsContext(input, s.retrieval, s.topK)
	if err != nil {
		return nil, fmt.Errorf("build document context: %w", err)
	}

	prior := s.history[:len(s.history)-1]
	messages := prompt.Assemble(prior, input, searchBlock, docsContext, searchEnabled)
	messages = tokens.TrimToBudget(messages, s.model.ContextLength)

	return s.completer.Stream(ctx, messages, s.model.ID, s.temperature)
}

// Finish appends the assistant's final text for the current turn.
func (s *Session) Finish(text string) {
	s.history = append(s.history, domain.ChatMessage{Role: domain.RoleAssistant, Content: text})
}

const queryGenPrompt = "You are an internet query generator. This is a chat history between a chatbot and the user. You as the query generator must generate a search query based on the conversation history so far."

// searchContext produces the rendered web search block for this turn.
// Without an override the search query is generated from the conversation
// history by a non-streaming completion call. A failed generation degrades
// to no search context rather than failing the turn.
func (s *Session) searchContext(ctx context.Context, override string) string {
	query := override
	if query == "" {
		encoded, err := json.Marshal(s.history)
		if err != nil {
			return ""
		}
		generated, err := s.completer.Complete(ctx, []domain.ChatMessage{
			{Role: domain.RoleUser, Content: queryGenPrompt},
			{Role: domain.RoleUser, Content: string(encoded) + "\nCreate an internet search query based on the conversation history so far."},
		}, s.model.ID, s.temperature)
		if err != nil {
			log.Printf("search query generation failed: %v", err)
			return ""
		}
		query = strings.ReplaceAll(generated, `"`, "")
	}
	if strings.TrimSpace(query) == "" {
		return ""
	}
	results := s.provider.Search(ctx, query, s.searchResults)
	if len(results) == 0 {
		return ""
	}
	return "Web Search Results:\n" + websearch.RenderBlock(results)
}
