package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/joho/godotenv"

	"token-research.backend/internal/config"
	"token-research.backend/internal/domain/repositories"
	"token-research.backend/internal/infrastructure/datasources"
	"token-research.backend/internal/infrastructure/persistence"
	"token-research.backend/internal/usecases"
	"token-research.backend/pkg/logger"
)

type slotInspectDeps struct {
	loadEnv func() error
	loadCfg func() *config.Config
	open    func(ctx context.Context, cfg *config.Config) (repositories.SlotStore, datasources.CloseFunc, error)
	out     io.Writer
}

func defaultSlotInspectDeps() slotInspectDeps {
	return slotInspectDeps{
		loadEnv: func() error { return godotenv.Load() },
		loadCfg: config.Load,
		open: func(ctx context.Context, cfg *config.Config) (repositories.SlotStore, datasources.CloseFunc, error) {
			return datasources.OpenSlotStore(ctx, cfg, logger.GetLogger())
		},
		out: os.Stdout,
	}
}

func runSlotInspect(args []string, deps slotInspectDeps) error {
	def := defaultSlotInspectDeps()
	if deps.loadEnv == nil {
		deps.loadEnv = def.loadEnv
	}
	if deps.loadCfg == nil {
		deps.loadCfg = def.loadCfg
	}
	if deps.open == nil {
		deps.open = def.open
	}
	if deps.out == nil {
		deps.out = def.out
	}

	fs := flag.NewFlagSet("slot-inspect", flag.ContinueOnError)
	fs.SetOutput(deps.out)
	resetFlag := fs.Bool("reset", false, "delete both slots so the next boot starts from the starter tokens")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := deps.loadEnv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := deps.loadCfg()
	ctx := context.Background()
	store, closeStore, err := deps.open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open %s slot store: %w", cfg.Storage.Backend, err)
	}
	defer func() { _ = closeStore() }()

	adapter := persistence.NewAdapter(store, cfg.Storage.Timeout)

	if *resetFlag {
		usecases.NewResearchStore(adapter).ResetDemoData(ctx)
		_, _ = fmt.Fprintf(deps.out, "cleared %s and %s\n",
			persistence.SlotKey(persistence.SlotTokens), persistence.SlotKey(persistence.SlotNotes))
		return nil
	}

	_, _ = fmt.Fprintf(deps.out, "backend=%s\n", cfg.Storage.Backend)

	tokens, ok := adapter.LoadTokens(ctx)
	if err := printSlot(deps.out, persistence.SlotTokens, tokens, ok); err != nil {
		return err
	}
	notes, ok := adapter.LoadNotes(ctx)
	return printSlot(deps.out, persistence.SlotNotes, notes, ok)
}

func printSlot(w io.Writer, slot string, value interface{}, ok bool) error {
	key := persistence.SlotKey(slot)
	if !ok {
		_, _ = fmt.Fprintf(w, "%s: absent\n", key)
		return nil
	}
	body, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	_, _ = fmt.Fprintf(w, "%s:\n%s\n", key, body)
	return nil
}

func main() {
	if err := runSlotInspect(os.Args[1:], defaultSlotInspectDeps()); err != nil {
		log.Fatal(err)
	}
}
