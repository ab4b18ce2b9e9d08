package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"time"

	_ "modernc.org/sqlite"

	"github.com/maay-app/maay-api/internal/data"
)

var (
	dbURL  string
	target string
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
	defer cancel()

	if target == "" {
		fmt.Println("target file is required")
		os.Exit(1)
	}

	db, err := sql.Open("sqlite", dbURL)
	if err != nil {
		fmt.Printf("failed to connect to database: %v\n", err)
		os.Exit(2)
	}
	defer db.Close()

	snap, err := data.Dump(ctx, db)
	if err != nil {
		fmt.Printf("failed to dump database: %v\n", err)
		os.Exit(3)
	}

	if err = snap.WriteFile(target); err != nil {
		fmt.Printf("failed to write snapshot: %v\n", err)
		os.Exit(4)
	}

	fmt.Printf("exported %d users and %d progress records to %s\n", len(snap.Users), len(snap.Progress), target)
}

func init() {
	flag.StringVar(&dbURL, "db", "maay.db", "path to the sqlite database")
	flag.StringVar(&target, "target", "", "target snapshot file")
	flag.Parse()
}
