package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/spellbook/internal/services/migration"
)

var backupsCmd = &cobra.Command{
	Use:   "backups",
	Short: "Manage database backups",
}

var backupsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List known backups, newest first",
	RunE:  runBackupsList,
}

var backupsRestoreCmd = &cobra.Command{
	Use:   "restore <name>",
	Short: "Restore a named backup over the live database",
	Args:  cobra.ExactArgs(1),
	RunE:  runBackupsRestore,
}

var backupsRollbackCmd = &cobra.Command{
	Use:   "rollback",
	Short: "Restore the most recent backup",
	RunE:  runBackupsRollback,
}

func init() {
	backupsCmd.AddCommand(backupsListCmd)
	backupsCmd.AddCommand(backupsRestoreCmd)
	backupsCmd.AddCommand(backupsRollbackCmd)
}

func runBackupsList(cmd *cobra.Command, args []string) error {
	repo, manager, err := newManager()
	if err != nil {
		return err
	}
	defer func() { _ = repo.Close() }()

	out, err := manager.ListBackups(cmd.Context(), nil)
	if err != nil {
		return err
	}
	if len(out.Backups) == 0 {
		fmt.Println("No backups found.")
		return nil
	}
	for _, backup := range out.Backups {
		fmt.Printf("%s  %d bytes  %s\n", backup.Name, backup.SizeBytes, backup.CreatedAt)
	}
	return nil
}

func runBackupsRestore(cmd *cobra.Command, args []string) error {
	repo, manager, err := newManager()
	if err != nil {
		return err
	}
	defer func() { _ = repo.Close() }()

	out, err := manager.RestoreBackup(cmd.Context(), &migration.RestoreBackupInput{Name: args[0]})
	if err != nil {
		return err
	}
	fmt.Printf("Restored from %s\n", out.Path)
	return nil
}

func runBackupsRollback(cmd *cobra.Command, args []string) error {
	repo, manager, err := newManager()
	if err != nil {
		return err
	}
	defer func() { _ = repo.Close() }()

	out, err := manager.RollbackToLatest(cmd.Context(), nil)
	if err != nil {
		return err
	}
	fmt.Printf("Rolled back to %s\n", out.Path)
	return nil
}
