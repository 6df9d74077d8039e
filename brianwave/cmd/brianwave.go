// Command-line entrypoint for one-off operations against the configured
// store and completion provider.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joshua-sigston/brianwave/brianwave/config"
	"github.com/joshua-sigston/brianwave/brianwave/services/llm"
	"github.com/joshua-sigston/brianwave/brianwave/services/summary"
	"github.com/joshua-sigston/brianwave/brianwave/sources/psql"
	"github.com/joshua-sigston/brianwave/brianwave/sources/psql/dao"
	"github.com/joshua-sigston/brianwave/brianwave/utils/logging"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func main() {
	logging.InitLogger()

	args := os.Args[1:]
	if len(args) != 3 || args[0] != "summarize" {
		fmt.Println("brianwave CLI usage:")
		fmt.Println("  brianwave summarize <note-id> <user-id>   # summarize one note")
		os.Exit(1)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "configuration error:", err)
		os.Exit(1)
	}

	noteID, err := uuid.Parse(args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, "invalid note id:", args[1])
		os.Exit(1)
	}
	userID := args[2]

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	db, err := psql.NewDatabase(ctx, cfg)
	if err != nil {
		logging.ErrorLogger.Error("database connection error", zap.Error(err))
		os.Exit(1)
	}
	defer db.Close()

	var provider llm.Provider
	if cfg.OpenAIAPIKey != "" {
		provider = llm.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	}

	summarizer := summary.NewService(dao.NewNoteDAO(db.DB), provider, nil)
	text, out := summarizer.SummarizeNote(ctx, noteID, userID)
	if !out.OK() {
		fmt.Fprintln(os.Stderr, "summarize failed:", out.Error())
		os.Exit(1)
	}
	fmt.Println(text)
}
