package manage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"inkwell/app/config"
	"inkwell/app/repositories"
)

var errNotBadger = errors.New("db commands only apply to the badger driver")

func badgerConfig() (*config.DBConfig, error) {
	cfg, err := config.LoadDatabase()
	if err != nil {
		return nil, err
	}
	if cfg.Driver != config.DriverBadger || cfg.BadgerInMemory {
		return nil, errNotBadger
	}
	return cfg, nil
}

// initDB creates a new empty database.
func (c *CLI) initDB() error {
	cfg, err := badgerConfig()
	if err != nil {
		return err
	}
	if _, err := os.Stat(cfg.BadgerPath); err == nil {
		fmt.Fprintln(c.Out, "Database already exists. Use 'db clean' first if you want to reinitialize.")
		return nil
	}

	if err := os.MkdirAll(cfg.BadgerPath, 0o755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}
	db, err := repositories.OpenBadger(cfg.BadgerPath, false)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	if err := db.Close(); err != nil {
		return err
	}

	fmt.Fprintln(c.Out, "Database initialized successfully")
	return nil
}

// cleanDB removes the database after confirmation.
func (c *CLI) cleanDB() error {
	cfg, err := badgerConfig()
	if err != nil {
		return err
	}
	if _, err := os.Stat(cfg.BadgerPath); os.IsNotExist(err) {
		fmt.Fprintln(c.Out, "Database is already clean (does not exist)")
		return nil
	}

	if !c.confirm("Are you sure you want to clean the database? This cannot be undone.") {
		fmt.Fprintln(c.Out, "Operation cancelled")
		return nil
	}
	if err := os.RemoveAll(cfg.BadgerPath); err != nil {
		return fmt.Errorf("failed to clean database: %w", err)
	}
	fmt.Fprintln(c.Out, "Database cleaned successfully")
	return nil
}

// backupDB writes a full backup into the backup directory and returns its path.
func (c *CLI) backupDB() (string, error) {
	cfg, err := badgerConfig()
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(cfg.BadgerPath); os.IsNotExist(err) {
		fmt.Fprintln(c.Out, "No database exists to backup")
		return "", nil
	}

	if err := os.MkdirAll(cfg.BackupDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}
	db, err := repositories.OpenBadger(cfg.BadgerPath, false)
	if err != nil {
		return "", fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	backupFile := filepath.Join(cfg.BackupDir, fmt.Sprintf("backup_%d.db", time.Now().UnixNano()))
	f, err := os.Create(backupFile)
	if err != nil {
		return "", fmt.Errorf("failed to create backup file: %w", err)
	}
	defer f.Close()

	if _, err := db.Backup(f, 0); err != nil {
		return "", fmt.Errorf("failed to backup database: %w", err)
	}
	fmt.Fprintf(c.Out, "Database backed up successfully to %s\n", backupFile)
	return backupFile, nil
}

// restoreDB replaces the database with the contents of backupFile.
func (c *CLI) restoreDB(backupFile string) error {
	cfg, err := badgerConfig()
	if err != nil {
		return err
	}
	if _, err := os.Stat(backupFile); os.IsNotExist(err) {
		return fmt.Errorf("backup file does not exist: %s", backupFile)
	}

	if _, err := os.Stat(cfg.BadgerPath); err == nil {
		if !c.confirm("Existing database found. Do you want to replace it?") {
			fmt.Fprintln(c.Out, "Operation cancelled")
			return nil
		}
		if err := os.RemoveAll(cfg.BadgerPath); err != nil {
			return fmt.Errorf("failed to remove existing database: %w", err)
		}
	}

	if err := os.MkdirAll(cfg.BadgerPath, 0o755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}
	db, err := repositories.OpenBadger(cfg.BadgerPath, false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	f, err := os.Open(backupFile)
	if err != nil {
		return fmt.Errorf("failed to open backup file: %w", err)
	}
	defer f.Close()

	if err := db.Load(f, 4); err != nil {
		return fmt.Errorf("failed to restore database: %w", err)
	}
	fmt.Fprintln(c.Out, "Database restored successfully")
	return nil
}
