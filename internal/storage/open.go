package storage

import "fmt"

// Open connects to the repository backend named by driver and creates its
// tables.
func Open(driver, url string) (Repository, error) {
	var (
		repo Repository
		err  error
	)

	switch driver {
	case "postgres":
		repo, err = NewPostgresStore(url)
	case "sqlite", "":
		repo, err = NewSQLiteStore(url)
	case "memory":
		repo = NewMemoryStore()
	default:
		return nil, fmt.Errorf("unknown database driver %q", driver)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s repository: %w", driver, err)
	}

	if err := repo.Initialize(); err != nil {
		repo.Close()
		return nil, fmt.Errorf("failed to initialize %s repository: %w", driver, err)
	}
	return repo, nil
}
