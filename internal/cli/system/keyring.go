package system

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/julianstephens/hearth/internal/cli"
	"github.com/julianstephens/hearth/internal/keyring"
	"github.com/julianstephens/hearth/internal/storage/postgres"
)

// KeyringSetCmd stores the PostgreSQL connection string in the OS keyring.
type KeyringSetCmd struct {
	ConnectionString string `arg:"" help:"PostgreSQL connection string to store in the keyring."`
}

func (cmd *KeyringSetCmd) Run(_ *cli.Context) error {
	connStr := strings.TrimSpace(cmd.ConnectionString)
	if !postgres.IsURL(connStr) && !strings.Contains(connStr, "host=") {
		return errors.New("connection string must be a postgres:// URL or a key=value DSN with host=")
	}

	if err := postgres.ValidateConnString(connStr); err != nil {
		if !errors.Is(err, postgres.ErrEmbeddedCredentials) {
			return fmt.Errorf("invalid connection string: %w", err)
		}
		// The keyring is encrypted, so a password is acceptable here.
		fmt.Println(cli.WarnStyle.Render("⚠ Connection string contains a password; it will be stored in the OS keyring."))
	}

	if err := keyring.SetConnectionString(connStr); err != nil {
		return err
	}
	fmt.Println(cli.SuccessStyle.Render("✓ Connection string stored in OS keyring"))
	fmt.Println("  Set database.driver = \"postgres\" in your config to use it.")
	return nil
}

type KeyringGetCmd struct{}

func (cmd *KeyringGetCmd) Run(_ *cli.Context) error {
	connStr, err := keyring.GetConnectionString()
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no connection string found in keyring, use 'hearth keyring set' to store one")
		}
		return err
	}
	fmt.Println(maskPassword(connStr))
	return nil
}

type KeyringDeleteCmd struct{}

func (cmd *KeyringDeleteCmd) Run(_ *cli.Context) error {
	if err := keyring.DeleteConnectionString(); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no connection string found in keyring")
		}
		return err
	}
	fmt.Println(cli.SuccessStyle.Render("✓ Connection string deleted from OS keyring"))
	return nil
}

type KeyringStatusCmd struct{}

func (cmd *KeyringStatusCmd) Run(_ *cli.Context) error {
	if !keyring.IsAvailable() {
		fmt.Println(cli.ErrorStyle.Render("❌ OS keyring is not available on this system"))
		return keyring.ErrKeyringUnavailable
	}
	fmt.Println(cli.SuccessStyle.Render("✓ OS keyring is available"))

	_, err := keyring.GetConnectionString()
	switch {
	case err == nil:
		fmt.Println(cli.SuccessStyle.Render("✓ Connection string is stored in keyring"))
	case errors.Is(err, keyring.ErrNotFound):
		fmt.Println("ℹ No connection string stored in keyring")
	default:
		return err
	}
	return nil
}

// maskPassword hides the password in a URL or DSN connection string.
func maskPassword(connStr string) string {
	if postgres.IsURL(connStr) {
		u, err := url.Parse(connStr)
		if err != nil {
			return connStr
		}
		if _, ok := u.User.Password(); ok {
			u.User = url.UserPassword(u.User.Username(), "****")
			// url.String escapes the asterisks.
			return strings.Replace(u.String(), "%2A%2A%2A%2A", "****", 1)
		}
		return connStr
	}

	parts := strings.Fields(connStr)
	for i, part := range parts {
		if k, _, ok := strings.Cut(part, "="); ok && strings.EqualFold(k, "password") {
			parts[i] = k + "=****"
		}
	}
	return strings.Join(parts, " ")
}
