// Command alchemy runs one content production request from the command line
// and prints the resulting envelope as JSON.
//
// Usage:
//
//	alchemy [-intent blog|linkedin|research|image|strategy] [-thread id] "query"
//
// Provider credentials are read from the environment (or a .env file):
// OPENAI_API_KEY, ANTHROPIC_API_KEY, GOOGLE_API_KEY, SERP_API_KEY. At least
// one text provider key is required.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/contentalchemy/alchemy/agents"
	"github.com/contentalchemy/alchemy/core/fallback"
	"github.com/contentalchemy/alchemy/core/router"
	"github.com/contentalchemy/alchemy/internal/utils"
	"github.com/contentalchemy/alchemy/providers/image/dalle"
	"github.com/contentalchemy/alchemy/providers/observability/slogobs"
	"github.com/contentalchemy/alchemy/providers/search/serpapi"
	"github.com/contentalchemy/alchemy/providers/search/webfetch"
	"github.com/contentalchemy/alchemy/workflow"
)

func main() {
	// A missing .env file is fine; the environment may already be set.
	_ = godotenv.Load()

	intentFlag := flag.String("intent", "", "force the content intent (blog, linkedin, research, image, strategy)")
	threadFlag := flag.String("thread", "", "thread ID for run state archiving")
	verboseFlag := flag.Bool("v", false, "enable debug logging")
	flag.Parse()

	query := strings.TrimSpace(strings.Join(flag.Args(), " "))
	if query == "" {
		fmt.Fprintln(os.Stderr, "usage: alchemy [-intent kind] [-thread id] \"query\"")
		os.Exit(2)
	}

	level := slog.LevelInfo
	if *verboseFlag {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	observer := slogobs.New(logger)

	orchestrator, err := fallback.NewFromEnv()
	if err != nil {
		logger.Error("No text provider available, set OPENAI_API_KEY, ANTHROPIC_API_KEY, or GOOGLE_API_KEY", "error", err)
		os.Exit(1)
	}
	logger.Info("Provider chain ready", "providers", strings.Join(orchestrator.Providers(), " -> "))

	searchClient := serpapi.New()
	imageClient := dalle.New()

	machine, err := workflow.NewContentMachine(workflow.Pipeline{
		Router:     router.New(orchestrator),
		Research:   agents.NewResearchAgent(orchestrator, searchClient, webfetch.New()),
		Blog:       agents.NewBlogAgent(orchestrator),
		LinkedIn:   agents.NewLinkedInAgent(orchestrator, imageClient),
		Image:      agents.NewImageAgent(orchestrator, imageClient),
		Strategist: agents.NewStrategistAgent(orchestrator),
	})
	if err != nil {
		logger.Error("Building content machine failed", "error", err)
		os.Exit(1)
	}

	runner := workflow.NewRunner(machine, workflow.NewSnapshotStore(), observer)

	var runContext map[string]any
	if *intentFlag != "" {
		runContext = map[string]any{"selected_intent": *intentFlag}
	}

	envelope := runner.Run(context.Background(), query, runContext, *threadFlag)
	fmt.Println(utils.JSONToString(envelope, true))

	if !envelope.Success {
		os.Exit(1)
	}
}
