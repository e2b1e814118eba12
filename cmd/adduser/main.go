package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"finance-server/confs"
	"finance-server/db"
	"finance-server/repositories"
	"finance-server/usecases"

	"golang.org/x/term"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("adduser", flag.ContinueOnError)
	fs.SetOutput(stderr)

	username := fs.String("user", "", "Username")
	email := fs.String("email", "", "Email address (required for new users)")
	name := fs.String("name", "", "Display name")
	passwordFlag := fs.String("password", "", "Password (optional, will prompt if omitted)")
	dbPath := fs.String("db", "", "Path to a SQLite database file (defaults to the server's DB_* settings)")
	reset := fs.Bool("reset", false, "Set the password of an existing user instead of creating one")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *username == "" || (!*reset && *email == "") {
		fmt.Fprintln(stdout, "Usage: adduser -user <username> -email <email> [-name <name>] [-password <password>] [-db <db_path>] [-reset]")
		fs.PrintDefaults()
		if *username == "" {
			return fmt.Errorf("missing required flags: user")
		}
		return fmt.Errorf("missing required flags: email")
	}

	password := *passwordFlag
	if password == "" {
		fmt.Fprint(stdout, "Password: ")
		var err error
		password, err = readPassword(stdin)
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		fmt.Fprintln(stdout)
	}

	if strings.TrimSpace(password) == "" {
		return fmt.Errorf("password cannot be empty")
	}

	database, err := openDatabase(*dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	// tokens are never issued from here, so the issuer only needs to exist
	auth := usecases.NewAuthUseCase(
		repositories.NewUserPgRepository(database),
		usecases.NewTokenIssuer("adduser", 0),
		nil,
	)
	ctx := context.Background()

	if *reset {
		user, err := auth.GetUserByUsername(ctx, *username)
		if err != nil {
			return fmt.Errorf("failed to find user %s: %w", *username, err)
		}
		if err := auth.SetPassword(ctx, user.ID, password); err != nil {
			return fmt.Errorf("failed to set password: %w", err)
		}
		fmt.Fprintf(stdout, "Password for %s updated\n", user.Username)
		return nil
	}

	user, err := auth.Register(ctx, usecases.RegisterInput{
		Username: *username,
		Email:    *email,
		Password: password,
		Name:     *name,
	})
	if err != nil {
		if errors.Is(err, usecases.ErrConflict) {
			return fmt.Errorf("user %s already exists", *username)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	fmt.Fprintf(stdout, "User %s created successfully with ID %d\n", user.Username, user.ID)
	return nil
}

func openDatabase(sqlitePath string) (db.Database, error) {
	if sqlitePath != "" {
		return db.OpenSQLite(sqlitePath)
	}
	cfg, err := confs.LoadConfig()
	if err != nil {
		return nil, err
	}
	return db.Connect(cfg.Database, cfg.Server.Production)
}

func readPassword(stdin io.Reader) (string, error) {
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		bytePassword, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(bytePassword), nil
	}

	// pipes and tests
	scanner := bufio.NewScanner(stdin)
	if scanner.Scan() {
		return scanner.Text(), nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}
