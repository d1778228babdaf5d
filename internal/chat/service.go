// Package chat answers questions in a persona's voice, grounded in the
// persona's imported timeline via similarity search over the content store.
package chat

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/mrlokans/personachat/internal/entities"
	"github.com/mrlokans/personachat/internal/vectorstore"
)

const (
	searchResults  = 3
	relevanceFloor = 0.7
)

const promptTemplate = `Provide a direct response mimicking my style based on the timeline content:
%s

and include only the response itself without any additional text.


---

Answer the question based on the above context:  %s`

// Embedder turns texts into embedding vectors.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Completer produces a persona reply for a prompt.
type Completer interface {
	Reply(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// PersonaSource resolves persona names against the registry.
type PersonaSource interface {
	GetByName(name string) (*entities.Persona, error)
}

// Service renders retrieval-augmented chat replies.
type Service struct {
	personas  PersonaSource
	embedder  Embedder
	completer Completer
}

// NewService creates a chat service.
func NewService(personas PersonaSource, embedder Embedder, completer Completer) *Service {
	return &Service{
		personas:  personas,
		embedder:  embedder,
		completer: completer,
	}
}

// Ask answers a question as the named persona, grounding the reply in the
// most similar posts from the persona's content store.
func (s *Service) Ask(ctx context.Context, personaName, question string) (string, error) {
	persona, err := s.personas.GetByName(personaName)
	if err != nil {
		return "", err
	}

	prompt, err := s.buildPrompt(ctx, persona, question)
	if err != nil {
		return "", err
	}

	return s.completer.Reply(ctx, persona.Prompt, prompt)
}

func (s *Service) buildPrompt(ctx context.Context, persona *entities.Persona, question string) (string, error) {
	vectors, err := s.embedder.Embed(ctx, []string{question})
	if err != nil {
		return "", fmt.Errorf("embed question: %w", err)
	}

	store, err := vectorstore.Open(persona.StorePath)
	if err != nil {
		return "", fmt.Errorf("open content store: %w", err)
	}

	results := store.Search(vectors[0], searchResults)
	if len(results) == 0 || results[0].Score < relevanceFloor {
		log.Printf("No strong timeline matches for persona %s", persona.Name)
	}

	texts := make([]string, len(results))
	for i, result := range results {
		texts[i] = result.Document.Text
	}
	contextText := strings.Join(texts, "\n\n---\n\n")

	return fmt.Sprintf(promptTemplate, contextText, question), nil
}
