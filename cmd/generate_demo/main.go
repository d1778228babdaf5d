// Command generate_demo creates a demo database with ready-to-chat personas
// backed by pre-embedded sample timelines, so the chat API can be exercised
// without any Twitter or OpenAI credentials.
// Usage: go run cmd/generate_demo/main.go [-db path/to/demo.db] [-stores path/to/stores]
package main

import (
	"flag"
	"hash/fnv"
	"log"
	"math"
	"os"
	"strconv"

	"github.com/mrlokans/personachat/internal/database"
	"github.com/mrlokans/personachat/internal/database/personas"
	"github.com/mrlokans/personachat/internal/entities"
	"github.com/mrlokans/personachat/internal/vectorstore"
)

const (
	defaultDemoDatabasePath = "./demo/demo.db"
	defaultDemoStoreDir     = "./demo/stores"

	// Matches the dimensionality of the production embedding model so a demo
	// store stays queryable if real embeddings are mixed in later.
	embeddingDims = 1536
)

type demoPersona struct {
	persona entities.Persona
	posts   []string
}

func main() {
	dbPath := flag.String("db", defaultDemoDatabasePath, "path to the demo database file")
	storeDir := flag.String("stores", defaultDemoStoreDir, "path to the demo content stores")
	flag.Parse()

	log.Printf("Generating demo database at %s...", *dbPath)

	// Delete existing demo data to start fresh
	if err := os.Remove(*dbPath); err != nil && !os.IsNotExist(err) {
		log.Fatalf("Failed to remove existing demo database: %v", err)
	}
	if err := os.RemoveAll(*storeDir); err != nil {
		log.Fatalf("Failed to remove existing demo stores: %v", err)
	}

	db, err := database.NewDatabase(*dbPath, *storeDir)
	if err != nil {
		log.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	repo := personas.NewRepository(db.DB)

	for _, demo := range getDemoPersonas() {
		demo.persona.StorePath = database.StorePathFor(*storeDir, demo.persona.Name)
		demo.persona.Status = entities.StatusFullyImported

		if err := repo.Create(&demo.persona); err != nil {
			log.Printf("Failed to create persona %s: %v", demo.persona.Name, err)
			continue
		}

		if err := seedStore(demo.persona.StorePath, demo.persona.Name, demo.posts); err != nil {
			log.Fatalf("Failed to seed store for %s: %v", demo.persona.Name, err)
		}
		log.Printf("Created persona: %s (%d posts)", demo.persona.Name, len(demo.posts))
	}

	log.Printf("Demo database generated successfully")
}

func seedStore(storePath, personaName string, posts []string) error {
	store, err := vectorstore.Open(storePath)
	if err != nil {
		return err
	}

	docs := make([]vectorstore.Document, len(posts))
	for i, post := range posts {
		docs[i] = vectorstore.Document{
			ID:        demoID(personaName, i),
			Platform:  "twitter",
			Text:      post,
			Embedding: pseudoEmbedding(post),
		}
	}
	return store.Add(docs)
}

func demoID(personaName string, i int) string {
	h := fnv.New64a()
	h.Write([]byte(personaName))
	h.Write([]byte{byte(i)})
	return strconv.FormatUint(h.Sum64(), 10)
}

// pseudoEmbedding derives a deterministic unit vector from the text. Similar
// strings do not land near each other the way real embeddings would, but the
// search path behaves identically.
func pseudoEmbedding(text string) []float32 {
	vector := make([]float32, embeddingDims)

	seed := fnv.New64a()
	seed.Write([]byte(text))
	state := seed.Sum64()

	var norm float64
	for i := range vector {
		state = state*6364136223846793005 + 1442695040888963407
		vector[i] = float32(int64(state>>33))/float32(math.MaxInt32) - 0.5
		norm += float64(vector[i]) * float64(vector[i])
	}

	norm = math.Sqrt(norm)
	for i := range vector {
		vector[i] = float32(float64(vector[i]) / norm)
	}
	return vector
}

func getDemoPersonas() []demoPersona {
	return []demoPersona{
		{
			persona: entities.Persona{
				Name:          "Trump",
				Avatar:        "👩‍💼",
				Prompt:        "You are Donald Trump, 45th & 47th President of the United States of America. You are known for your brash personality, and your use of social media to communicate with the public.",
				PostURLPrefix: "https://x.com/realDonaldTrump",
				TwitterID:     "25073877",
			},
			posts: []string{
				"Just had a tremendous meeting. Nobody has meetings like we do. Everyone agrees!",
				"The Fake News Media will never report the incredible numbers we are seeing. Sad!",
				"We are going to win so much, you may even get tired of winning. Believe me.",
				"America is respected again like never before. Thank you!",
			},
		},
		{
			persona: entities.Persona{
				Name:          "Vitalik",
				Avatar:        "👨‍🔬",
				Prompt:        "You are Vitalik Buterin, the creator of Ethereum. You are known for your work in the blockchain space, and your support for the freedom of speech.",
				PostURLPrefix: "https://x.com/VitalikButerin",
				TwitterID:     "295218901",
			},
			posts: []string{
				"Layer 2 rollups are the most promising path to scaling Ethereum in the medium term.",
				"Public goods funding is an underrated coordination problem. Quadratic funding helps.",
				"Privacy is not about hiding wrongdoing, it is about preserving the space for normalcy.",
				"The best critiques of crypto come from people who understand it deeply.",
			},
		},
		{
			persona: entities.Persona{
				Name:          "Suji",
				Avatar:        "👨‍🎨",
				Prompt:        "You are Suji, founder of @realmasknetwork / @thefireflyapp $mask🐦 Maintain some fediverse instances sujiyan.eth",
				PostURLPrefix: "https://x.com/suji_yan",
				TwitterID:     "952921795316912133",
			},
			posts: []string{
				"The fediverse and web3 social will converge. Open protocols always win eventually.",
				"Running your own instance is the purest form of digital sovereignty.",
				"Firefly aggregates Lens, Farcaster and X so you never lose your social graph.",
			},
		},
	}
}
