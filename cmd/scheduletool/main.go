// Command scheduletool runs the schedule ingestion pipeline from the
// terminal: it parses a pasted schedule file with the interpreter, prints the
// proposed games for review, and optionally materializes them into events.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/stadiumhouse/blueline/internal/completion"
	"github.com/stadiumhouse/blueline/internal/schedule"
	"github.com/stadiumhouse/blueline/internal/service"
	"github.com/stadiumhouse/blueline/internal/store"
	"github.com/stadiumhouse/blueline/internal/store/repository"
)

const (
	appName    = "blueline-scheduletool"
	appVersion = "1.0.0"
)

func main() {
	log.Printf("=== %s v%s ===", appName, appVersion)

	var (
		dsn        = flag.String("dsn", os.Getenv("DATABASE_DSN"), "Postgres DSN")
		file       = flag.String("file", "", "Path to a text file with the pasted schedule")
		teamName   = flag.String("team", "", "Team name (must exist in the teams table)")
		featured   = flag.Bool("featured", false, "Mark every created event as featured")
		draft      = flag.Bool("draft", false, "Create events as drafts instead of published")
		idempotent = flag.Bool("idempotent", false, "Skip games already materialized (source keys)")
		timezone   = flag.String("tz", "America/Los_Angeles", "Timezone game times are interpreted in")
		dryRun     = flag.Bool("dry-run", false, "Parse and print only; do not create events")
	)

	flag.Parse()

	if *file == "" || *teamName == "" {
		log.Fatalf("Specify --file and --team")
	}
	if *dsn == "" {
		log.Fatalf("Specify --dsn or set DATABASE_DSN")
	}

	text, err := os.ReadFile(*file)
	if err != nil {
		log.Fatalf("read schedule file: %v", err)
	}

	loc, err := time.LoadLocation(*timezone)
	if err != nil {
		log.Fatalf("invalid timezone %q: %v", *timezone, err)
	}

	db, err := store.NewDatabase(*dsn)
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}
	defer db.Close()

	completer := completion.NewOpenAIClient(completion.Config{
		BaseURL: getEnv("INTERPRETER_BASE_URL", "https://api.openai.com"),
		APIKey:  os.Getenv("INTERPRETER_API_KEY"),
		Model:   getEnv("INTERPRETER_MODEL", "gpt-4o-mini"),
	})

	interpreter := schedule.NewTextInterpreter(completer, 0)
	scheduleService := service.NewScheduleService(db, service.NewEventService(db, nil, nil), interpreter)

	ctx := context.Background()

	result, err := scheduleService.Parse(ctx, string(text), *teamName)
	if err != nil {
		log.Fatalf("parse schedule: %v", err)
	}

	log.Printf("Parsed %d game(s):", len(result.Games))
	for i, game := range result.Games {
		clock := game.Time
		if clock == "" {
			clock = schedule.DefaultGameTime
		}
		log.Printf("  [%d] %s %s  %-4s  %s", i+1, game.Date, clock, game.Location, game.Title)
	}

	if *dryRun {
		log.Println("Dry-run mode: no events created")
		return
	}

	team, err := repository.NewTeamRepository(db).GetByName(ctx, *teamName)
	if err != nil {
		log.Fatalf("lookup team: %v", err)
	}

	res, err := scheduleService.Materialize(ctx, team.TeamID, result.Games, schedule.MaterializerConfig{
		IsFeatured:    *featured,
		SaveAsDraft:   *draft,
		Location:      loc,
		UseSourceKeys: *idempotent,
	})
	if err != nil {
		log.Fatalf("materialize schedule: %v", err)
	}

	log.Printf("✓ Done: %d created, %d failed, %d skipped", res.Success, res.Failed, res.Skipped)
	if res.Failed > 0 {
		os.Exit(1)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
