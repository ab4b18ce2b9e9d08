package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"

	"github.com/maay-app/maay-api/internal/dal"
	sqlrepo "github.com/maay-app/maay-api/internal/dal/sql"
	"github.com/maay-app/maay-api/internal/progression"
)

var (
	dbURL    string
	email    string
	username string
	password string
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
	defer cancel()

	flag.StringVar(&dbURL, "db", "maay.db", "path to the sqlite database")
	flag.StringVar(&email, "email", "", "email of the user to create")
	flag.StringVar(&username, "username", "", "username of the user to create")
	flag.StringVar(&password, "password", "", "password of the user to create")
	flag.Parse()

	if email == "" || username == "" || password == "" {
		fmt.Println("email, username and password are required")
		os.Exit(1)
	}

	db, err := sql.Open("sqlite", dbURL)
	if err != nil {
		fmt.Printf("failed to connect to database: %v\n", err)
		os.Exit(2)
	}
	defer db.Close()

	if err = sqlrepo.InitSchema(ctx, db); err != nil {
		fmt.Printf("failed to init schema: %v\n", err)
		os.Exit(2)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		fmt.Printf("failed to hash password: %v\n", err)
		os.Exit(3)
	}

	now := time.Now().UTC()
	user := dal.User{
		ID:           uuid.NewString(),
		Email:        email,
		Username:     username,
		PasswordHash: string(hash),
		Lives:        progression.MaxLives,
		LastActivity: &now,
		CreatedAt:    now,
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))
	repo := sqlrepo.NewSQLiteRepository(db, log)
	if err = repo.InsertUser(ctx, user); err != nil {
		fmt.Printf("failed to insert user: %v\n", err)
		os.Exit(4)
	}

	fmt.Printf("created user %s (%s)\n", username, user.ID)
}
