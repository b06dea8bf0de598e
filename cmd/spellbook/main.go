// Package main is the entry point for the spellbook migration CLI
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/spellbook/internal/errors"
)

var dbPath string

var rootCmd = &cobra.Command{
	Use:   "spellbook",
	Short: "Spellbook canonical migration tooling",
	Long:  `Spellbook converts legacy free-text spell records into canonical hashed JSON and manages the migration lifecycle: backfill, integrity checks, collision detection, backups, and reports.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", errors.GetMessage(err))
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "spells.db", "Path to the legacy spell database")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(recomputeCmd)
	rootCmd.AddCommand(integrityCmd)
	rootCmd.AddCommand(collisionsCmd)
	rootCmd.AddCommand(syncCheckCmd)
	rootCmd.AddCommand(backupsCmd)
	rootCmd.AddCommand(reportCmd)
}
