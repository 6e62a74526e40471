package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"horizon/internal/infrastructure/postgres"
	"horizon/internal/shared/config"
)

const usage = `Horizon Admin CLI - Management commands for the Horizon API

Usage:
  admin <command> [options]

Commands:
  orphan-report    List funding sources that were provisioned but never persisted
  orphan-resolve   Mark orphaned funding source records as resolved

Examples:
  # List every unresolved orphaned funding source
  admin orphan-report

  # List orphans for a specific user
  admin orphan-report --user-id=6f1c...

  # Resolve a record after cleaning it up at the payments processor
  admin orphan-resolve --id=9b42...

  # Resolve several records at once
  admin orphan-resolve --id=9b42...,c031...

  # Run with timeout
  admin orphan-report --timeout=1m
`

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "orphan-report":
		runOrphanReport(os.Args[2:])
	case "orphan-resolve":
		runOrphanResolve(os.Args[2:])
	case "help", "-h", "--help":
		fmt.Print(usage)
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		fmt.Print(usage)
		os.Exit(1)
	}
}

func runOrphanReport(args []string) {
	fs := flag.NewFlagSet("orphan-report", flag.ExitOnError)

	userID := fs.String("user-id", "", "Only show orphans for this user")
	timeoutStr := fs.String("timeout", "1m", "Timeout for the operation (e.g., 30s, 5m)")

	fs.Usage = func() {
		fmt.Println("Usage: admin orphan-report [options]")
		fmt.Println("\nOptions:")
		fs.PrintDefaults()
		fmt.Println("\nExamples:")
		fmt.Println("  admin orphan-report")
		fmt.Println("  admin orphan-report --user-id=6f1c...")
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	timeout, err := time.ParseDuration(*timeoutStr)
	if err != nil {
		log.Fatalf("Invalid timeout format: %v", err)
	}

	orphanRepo, cleanup := connect()
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	records, err := orphanRepo.ListUnresolved(ctx)
	if err != nil {
		log.Fatalf("Failed to list orphaned funding sources: %v", err)
	}

	if *userID != "" {
		filtered := records[:0]
		for _, r := range records {
			if r.UserID == *userID {
				filtered = append(filtered, r)
			}
		}
		records = filtered
	}

	if len(records) == 0 {
		fmt.Println("No unresolved orphaned funding sources")
		return
	}

	fmt.Printf("%d unresolved orphaned funding source(s):\n", len(records))
	for _, r := range records {
		fmt.Printf("\n=== %s ===\n", r.ID)
		fmt.Printf("  User:           %s\n", r.UserID)
		fmt.Printf("  Funding source: %s\n", r.FundingSourceURL)
		fmt.Printf("  Bank account:   %s / %s\n", r.BankID, r.AccountID)
		fmt.Printf("  Reason:         %s\n", r.Reason)
		fmt.Printf("  Recorded:       %s\n", r.CreatedAt.Format(time.RFC3339))
	}

	fmt.Println("\nRemove each funding source at the payments processor, then run:")
	fmt.Println("  admin orphan-resolve --id=<record-id>")
}

func runOrphanResolve(args []string) {
	fs := flag.NewFlagSet("orphan-resolve", flag.ExitOnError)

	idStr := fs.String("id", "", "Orphan record ID(s) to resolve (comma-separated for multiple)")
	timeoutStr := fs.String("timeout", "1m", "Timeout for the operation (e.g., 30s, 5m)")

	fs.Usage = func() {
		fmt.Println("Usage: admin orphan-resolve [options]")
		fmt.Println("\nOptions:")
		fs.PrintDefaults()
		fmt.Println("\nExamples:")
		fmt.Println("  admin orphan-resolve --id=9b42...")
		fmt.Println("  admin orphan-resolve --id=9b42...,c031...")
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if *idStr == "" {
		fmt.Println("Error: must specify --id")
		fs.Usage()
		os.Exit(1)
	}

	timeout, err := time.ParseDuration(*timeoutStr)
	if err != nil {
		log.Fatalf("Invalid timeout format: %v", err)
	}

	var ids []string
	for _, p := range strings.Split(*idStr, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			ids = append(ids, p)
		}
	}

	if len(ids) == 0 {
		log.Println("No records to resolve")
		return
	}

	orphanRepo, cleanup := connect()
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	resolved := 0
	for _, id := range ids {
		if err := orphanRepo.Resolve(ctx, id); err != nil {
			log.Printf("Failed to resolve %s: %v", id, err)
			continue
		}
		fmt.Printf("Resolved %s\n", id)
		resolved++
	}

	log.Printf("Resolved %d of %d record(s)", resolved, len(ids))
}

func connect() (*postgres.OrphanRepository, func()) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := postgres.New(cfg.Database.ConnectionString())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	return postgres.NewOrphanRepository(db), func() { db.Close() }
}
