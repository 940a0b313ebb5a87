package utils

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/pterm/pterm"
)

// RepoTarget is one line of a repository list. Dest is the optional second
// column naming the destination repository of a copy.
type RepoTarget struct {
	Name string
	Dest string
}

// ReadRepositoriesFromCSV reads repository names from a CSV file, one per
// line in the first column
func ReadRepositoriesFromCSV(filePath string) ([]string, error) {
	targets, err := ReadRepoTargetsFromCSV(filePath)
	if err != nil {
		return nil, err
	}
	repos := make([]string, 0, len(targets))
	for _, target := range targets {
		repos = append(repos, target.Name)
	}
	return repos, nil
}

// ReadRepoTargetsFromCSV reads repository names from the first column of a
// CSV file and destination names from the second column when present
func ReadRepoTargetsFromCSV(filePath string) ([]RepoTarget, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.Comment = '#'
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}

	seen := make(map[string]bool)
	var targets []RepoTarget
	for i, record := range records {
		if len(record) == 0 {
			continue
		}
		repoName := strings.TrimSpace(record[0])
		if repoName == "" {
			continue
		}
		if err := ValidateRepositoryName(repoName); err != nil {
			pterm.Warning.Printf("Line %d: %v, skipping\n", i+1, err)
			continue
		}

		var dest string
		if len(record) > 1 {
			dest = strings.TrimSpace(record[1])
		}
		if dest != "" {
			if err := ValidateRepositoryName(dest); err != nil {
				pterm.Warning.Printf("Line %d: %v, skipping\n", i+1, err)
				continue
			}
		}

		if seen[repoName] {
			continue
		}
		seen[repoName] = true
		targets = append(targets, RepoTarget{Name: repoName, Dest: dest})
	}

	return targets, nil
}
