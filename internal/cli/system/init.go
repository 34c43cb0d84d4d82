package system

import (
	"fmt"
	"os"

	"github.com/julianstephens/hearth/internal/cli"
)

type InitCmd struct {
	Force bool `help:"Delete an existing SQLite database before initializing."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if s := ctx.SQLiteStore(); s != nil {
			path := s.GetConfigPath()
			if _, err := os.Stat(path); err == nil {
				if err := ctx.Store.Close(); err != nil {
					return fmt.Errorf("failed to close existing database: %w", err)
				}
				if err := os.Remove(path); err != nil {
					return fmt.Errorf("failed to delete existing database: %w", err)
				}
				fmt.Printf("Deleted existing database at: %s\n", path)
			} else if !os.IsNotExist(err) {
				return fmt.Errorf("failed to access existing database: %w", err)
			}
		} else {
			return fmt.Errorf("--force is only supported for SQLite databases")
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	fmt.Printf("Initialized hearth storage at: %s\n", ctx.Store.GetConfigPath())
	if ctx.Config.Family == "" {
		fmt.Println("Next: create a household with 'hearth family create <name> --owner <your name>'")
	}
	return nil
}
