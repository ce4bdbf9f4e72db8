package domain

// Message roles understood by the completion service.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Document is a single uploaded text. Documents are identified by their
// 1-based position in the session's document set.
type Document struct {
	Name string
	Text string
}

// Chunk is a bounded slice of a document's text used as the unit of
// retrieval. Doc and Index are 1-based ordinals.
type Chunk struct {
	Text  string
	Doc   int
	Index int
}

// Ref points back at the chunk a retrieved context line was taken from.
type Ref struct {
	Doc   int
	Chunk int
}

// ChatMessage is one turn of the conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Model describes a completion model from the external catalog.
type Model struct {
	ID            string
	Name          string
	ContextLength int
}

// SearchResult is a single web search hit.
type SearchResult struct {
	Title   string
	URL     string
	Snippet string
}
