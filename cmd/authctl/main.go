// Command authctl bootstraps an admin account directly against the
// database. It exists so a fresh deployment has a first admin without
// exposing role assignment on the public registration endpoint.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"
	"golang.org/x/term"

	"authcore/internal/server/auth"
	"authcore/internal/server/db"
	"authcore/internal/server/models"
)

func main() {
	var (
		dsn   string
		email string
		cost  int
	)
	flag.StringVar(&dsn, "d", "", "PostgreSQL DSN")
	flag.StringVar(&email, "e", "", "admin email")
	flag.IntVar(&cost, "o", auth.DefaultHashCost, "bcrypt cost factor")
	flag.Parse()

	if dsn == "" || email == "" {
		fmt.Fprintln(os.Stderr, "usage: authctl -d <dsn> -e <email>")
		os.Exit(2)
	}

	password, err := readPassword()
	if err != nil {
		fmt.Fprintf(os.Stderr, "reading password: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	dbm, err := db.NewPostgresManager(ctx, dsn)
	if err != nil {
		fmt.Fprintf(os.Stderr, "db init error: %v\n", err)
		os.Exit(1)
	}
	defer dbm.Close()

	hasher := auth.NewHasher(cost, 1)
	hashed, err := hasher.Hash(ctx, string(password))
	if err != nil {
		fmt.Fprintf(os.Stderr, "hashing error: %v\n", err)
		os.Exit(1)
	}

	account := &models.Account{
		ID:       uuid.NewString(),
		Email:    models.NormalizeEmail(email),
		Secret:   hashed,
		Role:     models.RoleAdmin,
		Verified: true,
	}

	if _, err := dbm.Accounts().Create(ctx, account); err != nil {
		fmt.Fprintf(os.Stderr, "creating account: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("created admin %s (id=%s)\n", account.Email, account.ID)
}

// readPassword prompts twice on the user's terminal without echo.
func readPassword() ([]byte, error) {
	fmt.Print("Enter password: ")
	pw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return nil, err
	}

	fmt.Print("Repeat password: ")
	again, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return nil, err
	}

	if string(pw) != string(again) {
		return nil, fmt.Errorf("passwords do not match")
	}
	if len(pw) == 0 {
		return nil, fmt.Errorf("empty password")
	}

	return pw, nil
}
