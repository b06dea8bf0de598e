package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Backfill canonical data and content hashes",
	Long:  `Convert every legacy row still missing a content hash into canonical JSON, behind a verified backup. All writes happen in one transaction; a duplicate hash rolls the whole batch back.`,
	RunE:  runMigrate,
}

func runMigrate(cmd *cobra.Command, args []string) error {
	repo, manager, err := newManager()
	if err != nil {
		return err
	}
	defer func() { _ = repo.Close() }()

	out, err := manager.RunBackfill(cmd.Context(), nil)
	if err != nil {
		return err
	}

	if out.TotalRows == 0 {
		fmt.Println("Nothing to migrate: every row already has a content hash.")
		return nil
	}
	fmt.Printf("Migrated %d of %d rows (%d skipped).\n", out.Migrated, out.TotalRows, out.Skipped)
	fmt.Printf("Backup: %s\n", out.BackupPath)

	if len(out.FallbackCounts) > 0 {
		fmt.Println("Parse fallbacks:")
		domains := make([]string, 0, len(out.FallbackCounts))
		for domain := range out.FallbackCounts {
			domains = append(domains, domain)
		}
		sort.Strings(domains)
		for _, domain := range domains {
			count := out.FallbackCounts[domain]
			fmt.Printf("  %-18s %d (%.1f%%)\n", domain, count,
				100*float64(count)/float64(out.TotalRows))
		}
	}
	return nil
}
