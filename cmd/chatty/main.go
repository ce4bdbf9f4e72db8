package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"chatty/internal/catalog"
	"chatty/internal/chat"
	"chatty/internal/chunker"
	"chatty/internal/config"
	"chatty/internal/domain"
	"chatty/internal/embedding/hashed"
	"chatty/internal/embedding/remote"
	"chatty/internal/llm"
	"chatty/internal/retrieval"
	"chatty/internal/summarizer"
	"chatty/internal/tui"
	"chatty/internal/websearch"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/chatty/config.yaml if not provided)")
	flag.Parse()

	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// The embedder is selected once and never changes for the lifetime of
	// the retrieval index; an unavailable remote backend falls back to the
	// hashed embedder instead of failing.
	var emb domain.Embedder
	switch cfg.Embedder.Type {
	case "hash", "":
		emb = hashed.New(cfg.Embedder.Dimension)
	case "openai":
		oa := cfg.Embedder.OpenAI
		if oa == nil {
			oa = &config.OpenAIEmbedderConfig{}
		}
		client, err := remote.New(remote.Config{
			BaseURL:   oa.BaseURL,
			APIKeyEnv: oa.APIKeyEnv,
			Model:     oa.Model,
			Timeout:   time.Duration(oa.TimeoutSecs) * time.Second,
		})
		if err != nil {
			log.Printf("remote embedder unavailable (%v); using hashed embedder", err)
			emb = hashed.New(cfg.Embedder.Dimension)
		} else {
			emb = client
		}
	default:
		log.Fatalf("unknown embedder: %s", cfg.Embedder.Type)
	}

	completer, err := llm.NewClient(llm.Config{
		BaseURL:   cfg.LLM.BaseURL,
		APIKeyEnv: cfg.LLM.APIKeyEnv,
		Timeout:   time.Duration(cfg.LLM.TimeoutSecs) * time.Second,
	})
	if err != nil {
		log.Fatalf("completion client init failed: %v", err)
	}

	cat := catalog.New(catalog.Config{
		BaseURL:            cfg.Catalog.BaseURL,
		FreePriceThreshold: cfg.Catalog.FreePriceThreshold,
		Timeout:            time.Duration(cfg.Catalog.TimeoutSecs) * time.Second,
	})
	models, err := cat.FreeModels(context.Background())
	if err != nil {
		log.Fatalf("failed to fetch models: %v", err)
	}
	if len(models) == 0 {
		log.Fatalf("no free models available")
	}
	model := models[0]
	if cfg.LLM.Model != "" {
		found := false
		for _, m := range models {
			if m.Name == cfg.LLM.Model || m.ID == cfg.LLM.Model {
				model = m
				found = true
				break
			}
		}
		if !found {
			log.Fatalf("unknown model: %s", cfg.LLM.Model)
		}
	}

	rs := retrieval.NewSession(emb, chunker.New(cfg.Chunker.ChunkSize, cfg.Chunker.Overlap))
	provider := websearch.NewDuckDuckGo(websearch.Config{Region: cfg.Search.Region})
	session := chat.NewSession(completer, provider, summarizer.NewFrequency(), rs, chat.Options{
		Model:         model,
		Temperature:   cfg.LLM.Temperature,
		TopK:          cfg.Chunker.TopK,
		SearchResults: cfg.Search.Results,
	})

	// Any positional arguments are attached as documents before the chat
	// starts.
	for _, path := range flag.Args() {
		data, err := os.ReadFile(path)
		if err != nil {
			log.Fatalf("failed to read %s: %v", path, err)
		}
		if _, err := session.Attach(path, data); err != nil {
			log.Printf("warning: %v", err)
			continue
		}
		fmt.Printf("Attached %s\n", path)
	}

	m := tui.New(session, models)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		log.Fatal(err)
	}
}
