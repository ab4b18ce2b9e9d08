package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"time"

	_ "modernc.org/sqlite"

	sqlrepo "github.com/maay-app/maay-api/internal/dal/sql"
	"github.com/maay-app/maay-api/internal/data"
)

var (
	dbURL  string
	source string
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
	defer cancel()

	if source == "" {
		fmt.Println("source file is required")
		os.Exit(1)
	}

	snap, err := data.ReadFile(source)
	if err != nil {
		fmt.Printf("failed to read snapshot: %v\n", err)
		os.Exit(2)
	}

	db, err := sql.Open("sqlite", dbURL)
	if err != nil {
		fmt.Printf("failed to connect to database: %v\n", err)
		os.Exit(3)
	}
	defer db.Close()

	if err = sqlrepo.InitSchema(ctx, db); err != nil {
		fmt.Printf("failed to init schema: %v\n", err)
		os.Exit(3)
	}

	if err = data.Restore(ctx, db, snap); err != nil {
		fmt.Printf("failed to restore snapshot: %v\n", err)
		os.Exit(4)
	}

	fmt.Printf("imported %d users and %d progress records\n", len(snap.Users), len(snap.Progress))
}

func init() {
	flag.StringVar(&dbURL, "db", "maay.db", "path to the sqlite database")
	flag.StringVar(&source, "source", "", "source snapshot file")
	flag.Parse()
}
