//go:build unit

package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCredit(t *testing.T) {
	t.Setenv("STORE_DRIVER", "bolt")
	t.Setenv("BOLT_PATH", filepath.Join(t.TempDir(), "autoshop.db"))
	t.Setenv("AUTOSHOP_INITIAL_COINS", "1000")
	t.Setenv("LOG_LEVEL", "error")

	userID := uuid.New().String()

	out, err := execute(t, "credit", "--user", userID, "--amount", "250")
	require.NoError(t, err)
	assert.Contains(t, out, "available 1250")

	out, err = execute(t, "credit", "--user", userID, "--amount", "50")
	require.NoError(t, err)
	assert.Contains(t, out, "available 1300")

	_, err = execute(t, "credit", "--user", "not-a-uuid", "--amount", "50")
	assert.ErrorContains(t, err, "invalid --user")

	_, err = execute(t, "credit", "--user", userID, "--amount", "0")
	assert.Error(t, err)
}

func TestMigrateRequiresPostgres(t *testing.T) {
	t.Setenv("STORE_DRIVER", "bolt")
	t.Setenv("BOLT_PATH", filepath.Join(t.TempDir(), "autoshop.db"))

	_, err := execute(t, "migrate")
	assert.ErrorContains(t, err, "STORE_DRIVER=postgres")
}
