package main

import (
	"context"
	"fmt"
	"log"
	"os"

	spellrepo "github.com/KirkDiggler/spellbook/internal/repositories/spell"
	"github.com/KirkDiggler/spellbook/internal/testutils/builders"
)

// Seeds a legacy spell database with sample rows so the migrate and
// integrity commands have something to chew on. Intended for local
// smoke testing only.
func main() {
	path := os.Getenv("SPELLBOOK_DB")
	if path == "" {
		path = "spells.db"
	}

	repo, err := spellrepo.NewSQLiteRepository(&spellrepo.Config{Path: path})
	if err != nil {
		log.Fatal("Failed to open database:", err)
	}
	defer func() { _ = repo.Close() }()

	ctx := context.Background()

	rows := []*builders.LegacySpellRowBuilder{
		builders.NewLegacySpellRowBuilder(),
		builders.NewLegacySpellRowBuilder().
			WithName("Fireball").
			WithLevel(3).
			WithRange("10 yards + 10 yards/level").
			WithArea("20 ft radius").
			WithDamage("1d6/level (max 10d6) fire damage").
			WithSavingThrow("Half"),
		builders.NewLegacySpellRowBuilder().
			WithName("Cure Light Wounds").
			WithSchool("Necromancy").
			WithSphere("Healing").
			WithRange("Touch").
			WithComponents("V, S").
			WithReversible(1),
		builders.NewLegacySpellRowBuilder().
			WithName("Wish").
			WithLevel(9).
			WithSchool("Conjuration/Summoning").
			WithComponents("V, XP").
			WithExperienceCost("5,000 XP"),
	}

	fmt.Println("Seeding", path)
	var inserted int
	for _, b := range rows {
		row := b.Build()
		out, err := repo.InsertRow(ctx, spellrepo.InsertRowInput{Row: row})
		if err != nil {
			fmt.Printf("✗ %s: %v\n", row.Name, err)
			continue
		}
		fmt.Printf("  + %s (id %d)\n", row.Name, out.ID)
		inserted++
	}

	fmt.Printf("\nInserted %d of %d rows\n", inserted, len(rows))
}
