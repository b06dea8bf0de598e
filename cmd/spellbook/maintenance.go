package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var recomputeCmd = &cobra.Command{
	Use:   "recompute",
	Short: "Re-derive every row's content hash",
	RunE:  runRecompute,
}

func runRecompute(cmd *cobra.Command, args []string) error {
	repo, manager, err := newManager()
	if err != nil {
		return err
	}
	defer func() { _ = repo.Close() }()

	out, err := manager.RecomputeAllHashes(cmd.Context(), nil)
	if err != nil {
		return err
	}
	fmt.Printf("Recomputed %d rows, %d hashes changed.\n", out.TotalRows, len(out.Changed))
	for _, change := range out.Changed {
		fmt.Printf("  spell %d: %s -> %s\n", change.SpellID, change.OldHash, change.NewHash)
	}
	return nil
}

var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Check hash coverage and consistency without mutating",
	RunE:  runIntegrity,
}

func runIntegrity(cmd *cobra.Command, args []string) error {
	repo, manager, err := newManager()
	if err != nil {
		return err
	}
	defer func() { _ = repo.Close() }()

	out, err := manager.CheckIntegrity(cmd.Context(), nil)
	if err != nil {
		return err
	}
	fmt.Printf("Rows without hash:        %d\n", out.NullHashes)
	fmt.Printf("Hash mismatches:          %d\n", out.MismatchTotal)
	fmt.Printf("Orphaned class refs:      %d\n", out.OrphanedClassRefs)
	fmt.Printf("Duplicate hash groups:    %d\n", out.DuplicateGroups)
	for _, mismatch := range out.Mismatches {
		fmt.Printf("  spell %d: stored %s, actual %s\n",
			mismatch.SpellID, mismatch.StoredHash, mismatch.ActualHash)
	}
	return nil
}

var collisionsCmd = &cobra.Command{
	Use:   "collisions",
	Short: "Classify rows that share a content hash",
	RunE:  runCollisions,
}

func runCollisions(cmd *cobra.Command, args []string) error {
	repo, manager, err := newManager()
	if err != nil {
		return err
	}
	defer func() { _ = repo.Close() }()

	out, err := manager.DetectCollisions(cmd.Context(), nil)
	if err != nil {
		return err
	}
	if len(out.Collisions) == 0 {
		fmt.Println("No shared content hashes found.")
		return nil
	}
	for _, collision := range out.Collisions {
		fmt.Printf("%s (%s): spells %v\n",
			collision.ContentHash, collision.Classification, collision.SpellIDs)
	}
	return nil
}

var syncCheckCmd = &cobra.Command{
	Use:   "sync-check",
	Short: "Compare legacy columns against stored canonical JSON",
	RunE:  runSyncCheck,
}

func runSyncCheck(cmd *cobra.Command, args []string) error {
	repo, manager, err := newManager()
	if err != nil {
		return err
	}
	defer func() { _ = repo.Close() }()

	out, err := manager.SyncCheck(cmd.Context(), nil)
	if err != nil {
		return err
	}
	fmt.Printf("Checked %d rows, %d drifting fields.\n", out.RowsChecked, len(out.Drift))
	for _, drift := range out.Drift {
		fmt.Printf("  spell %d %s: legacy=%q canonical=%q\n",
			drift.SpellID, drift.Field, drift.LegacyValue, drift.CanonicalValue)
	}
	return nil
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Export the migration log as a JSON report",
	RunE:  runReport,
}

func runReport(cmd *cobra.Command, args []string) error {
	repo, manager, err := newManager()
	if err != nil {
		return err
	}
	defer func() { _ = repo.Close() }()

	out, err := manager.ExportMigrationReport(cmd.Context(), nil)
	if err != nil {
		return err
	}
	fmt.Printf("Report written to %s\n", out.Path)
	return nil
}
