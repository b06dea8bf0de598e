package main

import (
	spellrepo "github.com/KirkDiggler/spellbook/internal/repositories/spell"
	"github.com/KirkDiggler/spellbook/internal/services/migration"
)

// newManager wires a SQLite repository and the migration manager for
// one command invocation. The caller closes the returned repository.
func newManager() (spellrepo.Repository, *migration.Manager, error) {
	repo, err := spellrepo.NewSQLiteRepository(&spellrepo.Config{Path: dbPath})
	if err != nil {
		return nil, nil, err
	}
	manager, err := migration.New(&migration.Config{Repo: repo})
	if err != nil {
		_ = repo.Close()
		return nil, nil, err
	}
	return repo, manager, nil
}
