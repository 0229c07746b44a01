package migration

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// migrationFilePattern matches {version}_{description}.sql.
var migrationFilePattern = regexp.MustCompile(`^(\d+)_([a-zA-Z0-9_-]+)\.sql$`)

type fileScanner struct{}

// NewFileScanner returns a FileScanner reading the root of an fs.FS.
func NewFileScanner() FileScanner {
	return fileScanner{}
}

// ScanMigrations reads every .sql file at the root of fsys.
func (s fileScanner) ScanMigrations(fsys fs.FS) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, NewFileSystemError(".", "read directory", err)
	}

	var migrations []Migration
	versions := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		migration, err := s.parseMigrationFile(fsys, entry.Name())
		if err != nil {
			return nil, err
		}
		if existing, ok := versions[migration.Version]; ok {
			return nil, NewMigrationError(migration.Version, entry.Name(), "check duplicates",
				fmt.Errorf("%w: version %s found in both %s and %s",
					ErrDuplicateVersion, migration.Version, existing, entry.Name()))
		}
		versions[migration.Version] = entry.Name()
		migrations = append(migrations, migration)
	}

	sortMigrations(migrations)
	return migrations, nil
}

// ValidateFileName checks if a migration file follows the naming convention.
func (fileScanner) ValidateFileName(filename string) error {
	matches := migrationFilePattern.FindStringSubmatch(filename)
	if matches == nil {
		return fmt.Errorf("%w: filename '%s' does not match pattern '{version}_{description}.sql'",
			ErrInvalidMigrationFile, filename)
	}
	if _, err := strconv.Atoi(matches[1]); err != nil {
		return fmt.Errorf("%w: version '%s' in filename '%s' is not a valid number",
			ErrInvalidVersion, matches[1], filename)
	}
	return nil
}

func (s fileScanner) parseMigrationFile(fsys fs.FS, name string) (Migration, error) {
	if err := s.ValidateFileName(name); err != nil {
		return Migration{}, NewMigrationError("", name, "validate filename", err)
	}
	matches := migrationFilePattern.FindStringSubmatch(name)
	version := matches[1]

	content, err := fs.ReadFile(fsys, name)
	if err != nil {
		return Migration{}, NewFileSystemError(name, "read file", err)
	}
	sql := string(content)
	if len(splitStatements(sql)) == 0 {
		return Migration{}, NewMigrationError(version, name, "validate content",
			fmt.Errorf("%w: no SQL statements found", ErrInvalidMigrationFile))
	}
	if err := checkBalanced(sql); err != nil {
		return Migration{}, NewMigrationError(version, name, "validate SQL syntax", err)
	}

	description := descriptionFromContent(sql)
	if description == "" {
		description = strings.ReplaceAll(matches[2], "_", " ")
	}
	sum := sha256.Sum256(content)

	return Migration{
		Version:     version,
		Description: description,
		SQL:         sql,
		FilePath:    name,
		Checksum:    hex.EncodeToString(sum[:]),
	}, nil
}

// checkBalanced rejects unmatched parentheses and unterminated string
// literals outside of comments.
func checkBalanced(sql string) error {
	depth := 0
	var quote rune
	for _, line := range strings.Split(sql, "\n") {
		if quote == 0 {
			if i := strings.Index(line, "--"); i >= 0 {
				line = line[:i]
			}
		}
		for _, r := range line {
			switch {
			case quote != 0:
				if r == quote {
					quote = 0
				}
			case r == '\'' || r == '"':
				quote = r
			case r == '(':
				depth++
			case r == ')':
				depth--
				if depth < 0 {
					return fmt.Errorf("%w: unmatched closing parenthesis", ErrInvalidMigrationFile)
				}
			}
		}
	}
	if quote != 0 {
		return fmt.Errorf("%w: unterminated string literal", ErrInvalidMigrationFile)
	}
	if depth != 0 {
		return fmt.Errorf("%w: unmatched opening parenthesis", ErrInvalidMigrationFile)
	}
	return nil
}

// descriptionFromContent returns the "-- Description:" header line, if the
// file starts with one among its leading comments.
func descriptionFromContent(content string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, "--") {
			break
		}
		if rest, ok := strings.CutPrefix(line, "-- Description:"); ok {
			if description := strings.TrimSpace(rest); description != "" {
				return description
			}
		}
	}
	return ""
}

func sortMigrations(migrations []Migration) {
	sort.Slice(migrations, func(i, j int) bool {
		vi, _ := strconv.Atoi(migrations[i].Version)
		vj, _ := strconv.Atoi(migrations[j].Version)
		return vi < vj
	})
}
