package database

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"
)

//go:embed migrations/*.sql
var EmbeddedMigrationsFS embed.FS

// MigrationType represents the type of database that migrations apply to
type MigrationType string

const (
	MigrationTypeMain MigrationType = "main"
)

// MigrationFile represents a migration file with its metadata
type MigrationFile struct {
	FileName    string
	Version     int
	Type        MigrationType
	Description string
	FilePath    string
}

// getEmbeddedMigrationFiles lists the embedded migrations ordered by version
func getEmbeddedMigrationFiles() ([]*MigrationFile, error) {
	files, err := fs.ReadDir(EmbeddedMigrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded migrations directory: %w", err)
	}

	var migrations []*MigrationFile
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".sql") {
			continue
		}
		migration, err := parseMigrationFileName(f.Name())
		if err != nil {
			return nil, err
		}
		migrations = append(migrations, migration)
	}
	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})
	return migrations, nil
}

// parseMigrationFileName parses a migration file name to extract metadata
func parseMigrationFileName(fileName string) (*MigrationFile, error) {
	if !strings.HasSuffix(fileName, ".sql") {
		return nil, fmt.Errorf("migration file must have .sql extension: %s", fileName)
	}
	base := strings.TrimSuffix(fileName, ".sql")
	parts := strings.SplitN(base, "_", 3)
	if len(parts) < 3 {
		return nil, fmt.Errorf("invalid migration filename format: %s (expected format: NNNN_type_description.sql)", fileName)
	}

	version, err := strconv.Atoi(parts[0])
	if err != nil {
		return nil, fmt.Errorf("invalid version number in filename %s: %w", fileName, err)
	}

	var migrationType MigrationType
	switch parts[1] {
	case "main":
		migrationType = MigrationTypeMain
	default:
		return nil, fmt.Errorf("unknown migration type in filename %s: %s", fileName, parts[1])
	}

	return &MigrationFile{
		FileName:    fileName,
		Version:     version,
		Type:        migrationType,
		Description: parts[2],
		FilePath:    path.Join("migrations", fileName),
	}, nil
}

// readEmbeddedMigrationContent reads the content of an embedded migration file
func readEmbeddedMigrationContent(migration *MigrationFile) (string, error) {
	content, err := fs.ReadFile(EmbeddedMigrationsFS, migration.FilePath)
	if err != nil {
		return "", fmt.Errorf("failed to read embedded migration file %s: %w", migration.FilePath, err)
	}
	return string(content), nil
}
