// Package cli implements the command-line subcommands.
package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/mrlokans/personachat/internal/config"
	"github.com/mrlokans/personachat/internal/database"
	"github.com/mrlokans/personachat/internal/database/personas"
	"github.com/mrlokans/personachat/internal/entities"
	"github.com/mrlokans/personachat/internal/firefly"
	"github.com/mrlokans/personachat/internal/importer"
	"github.com/mrlokans/personachat/internal/llm"
	"github.com/mrlokans/personachat/internal/twitter"
)

// ImportPersonaCommand runs a persona import synchronously from the terminal.
type ImportPersonaCommand struct {
	Handle       string
	DatabasePath string
	StoreDir     string
	Refresh      bool
	Quiet        bool
}

func NewImportPersonaCommand() *ImportPersonaCommand {
	return &ImportPersonaCommand{}
}

func (cmd *ImportPersonaCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)

	fs.StringVar(&cmd.Handle, "handle", "", "Twitter handle of the persona to import (required)")
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the persona registry database")
	fs.StringVar(&cmd.StoreDir, "stores", config.DefaultStoreDir, "Root directory for per-persona content stores")
	fs.BoolVar(&cmd.Refresh, "refresh", false, "Re-import even if the persona is already fully imported")
	fs.BoolVar(&cmd.Quiet, "quiet", false, "Suppress per-page progress output")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s import -handle <handle> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Import a persona's timeline into its content store.\n\n")
		fmt.Fprintf(os.Stderr, "Requires RAPID_API_KEY and OPENAI_API_KEY in the environment;\n")
		fmt.Fprintf(os.Stderr, "FARCASTER_AUTH_TOKEN enables the linked Farcaster timeline.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s import -handle VitalikButerin\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s import -handle VitalikButerin -refresh\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.Handle == "" {
		return fmt.Errorf("required flag -handle not provided")
	}

	return nil
}

func (cmd *ImportPersonaCommand) Run() error {
	cfg := config.NewConfig()
	cfg.Database.Path = cmd.DatabasePath
	cfg.Store.Dir = cmd.StoreDir

	if cfg.Twitter.APIKey == "" {
		return fmt.Errorf("RAPID_API_KEY is not set")
	}
	if cfg.OpenAI.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is not set")
	}

	db, err := database.NewDatabase(cfg.Database.Path, cfg.Store.Dir)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	llmClient := llm.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.ChatModel)

	service := importer.NewService(
		personas.NewRepository(db.DB),
		cmd.progressPrinter(),
		twitter.NewClient(cfg.Twitter.APIKey),
		firefly.NewClient(cfg.Firefly.AuthToken),
		importer.NewSink(llmClient),
		importer.Config{
			MaxPages:  cfg.Import.MaxPages,
			PageSize:  cfg.Import.PageSize,
			RateDelay: cfg.Import.RateDelay,
			StoreDir:  cfg.Store.Dir,
		},
	)

	run := service.Import
	if cmd.Refresh {
		run = service.Refresh
	}

	result, err := run(context.Background(), cmd.Handle)
	if err != nil {
		return err
	}

	if result.AlreadyImported {
		fmt.Printf("Persona %s already exists and is fully imported\n", result.PersonaName)
		return nil
	}

	fmt.Printf("Persona %s successfully imported: %d new posts stored, %d duplicates skipped\n",
		result.PersonaName, result.Created, result.Skipped)
	if result.FarcasterLinked {
		fmt.Println("A linked Farcaster account was found and imported as well.")
	}
	return nil
}

func (cmd *ImportPersonaCommand) progressPrinter() importer.ProgressRecorder {
	if cmd.Quiet {
		return nil
	}
	return terminalProgress{}
}

// terminalProgress renders import progress as plain terminal lines.
type terminalProgress struct{}

func (terminalProgress) Start(personaName string, channel entities.ImportChannel) error {
	fmt.Printf("[%s] starting import for %s\n", channel, personaName)
	return nil
}

func (terminalProgress) Update(_ string, channel entities.ImportChannel, percent int, message string) error {
	fmt.Printf("[%s] %3d%% %s\n", channel, percent, message)
	return nil
}

func (terminalProgress) Complete(_ string, channel entities.ImportChannel, succeeded bool, errorMsg string) error {
	if succeeded {
		fmt.Printf("[%s] done\n", channel)
	} else {
		fmt.Printf("[%s] failed: %s\n", channel, errorMsg)
	}
	return nil
}
