package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_Success(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "success.db")
	stdout, stderr := new(bytes.Buffer), new(bytes.Buffer)

	args := []string{"-user", "alice", "-email", "Alice@Example.com", "-name", "Alice", "-password", "secret", "-db", dbPath}
	require.NoError(t, run(args, new(bytes.Buffer), stdout, stderr))

	assert.Contains(t, stdout.String(), "User alice created successfully")
}

func TestRun_DuplicateUser(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "duplicate.db")
	args := []string{"-user", "alice", "-email", "alice@example.com", "-password", "secret", "-db", dbPath}

	require.NoError(t, run(args, new(bytes.Buffer), new(bytes.Buffer), new(bytes.Buffer)))

	err := run(args, new(bytes.Buffer), new(bytes.Buffer), new(bytes.Buffer))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestRun_MissingFlags(t *testing.T) {
	stdout := new(bytes.Buffer)
	err := run([]string{"-password", "secret"}, new(bytes.Buffer), stdout, new(bytes.Buffer))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required flags: user")
	assert.Contains(t, stdout.String(), "Usage:")

	err = run([]string{"-user", "bob", "-password", "secret"}, new(bytes.Buffer), new(bytes.Buffer), new(bytes.Buffer))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required flags: email")
}

func TestRun_InteractivePassword(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "interactive.db")
	stdout := new(bytes.Buffer)

	args := []string{"-user", "carol", "-email", "carol@example.com", "-db", dbPath}
	require.NoError(t, run(args, bytes.NewBufferString("typed_secret\n"), stdout, new(bytes.Buffer)))

	assert.Contains(t, stdout.String(), "Password: ")
	assert.Contains(t, stdout.String(), "User carol created successfully")
}

func TestRun_InteractivePassword_Empty(t *testing.T) {
	args := []string{"-user", "dave", "-email", "dave@example.com"}
	err := run(args, bytes.NewBufferString("\n"), new(bytes.Buffer), new(bytes.Buffer))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "password cannot be empty")
}

func TestRun_ResetPassword(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "reset.db")
	create := []string{"-user", "erin", "-email", "erin@example.com", "-password", "old", "-db", dbPath}
	require.NoError(t, run(create, new(bytes.Buffer), new(bytes.Buffer), new(bytes.Buffer)))

	stdout := new(bytes.Buffer)
	reset := []string{"-user", "erin", "-password", "new", "-db", dbPath, "-reset"}
	require.NoError(t, run(reset, new(bytes.Buffer), stdout, new(bytes.Buffer)))
	assert.Contains(t, stdout.String(), "Password for erin updated")

	err := run([]string{"-user", "nobody", "-password", "x", "-db", dbPath, "-reset"}, new(bytes.Buffer), new(bytes.Buffer), new(bytes.Buffer))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "user not found")
}

func TestRun_InvalidFlag(t *testing.T) {
	err := run([]string{"-invalid"}, new(bytes.Buffer), new(bytes.Buffer), new(bytes.Buffer))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "flag provided but not defined")
}
