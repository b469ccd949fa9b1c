package config

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// StateFileName is the remembered-selection file written next to a project
// config.
const StateFileName = ".treelist-state.json"

// StatePath returns where the remembered selection lives: next to the
// project config when there is one, otherwise in StateDir.
func StatePath(projectConfig string) string {
	if projectConfig != "" {
		return filepath.Join(filepath.Dir(projectConfig), StateFileName)
	}
	dir := StateDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, StateFileName)
}

// EnsureStateIgnored adds the state file to the project's .gitignore.
//
// It is idempotent: an existing entry (or a pattern covering it) leaves the
// file untouched. A missing .gitignore is created.
func EnsureStateIgnored(projectDir string) error {
	if projectDir == "" {
		var err error
		projectDir, err = os.Getwd()
		if err != nil {
			return err
		}
	}

	gitignorePath := filepath.Join(projectDir, ".gitignore")

	present, err := isStateIgnored(gitignorePath)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	if present {
		return nil
	}

	return appendToGitignore(gitignorePath, StateFileName)
}

func isStateIgnored(path string) (bool, error) {
	file, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if matchesStatePattern(line) {
			return true, nil
		}
	}

	return false, scanner.Err()
}

// matchesStatePattern reports whether a gitignore line covers the state file.
func matchesStatePattern(line string) bool {
	normalized := strings.TrimPrefix(line, "/")

	switch normalized {
	case StateFileName, ".treelist-*", ".treelist-state*", "*.json":
		return true
	}
	return false
}

// appendToGitignore appends pattern under a comment, creating the file if
// needed and keeping one blank line between sections.
func appendToGitignore(path string, pattern string) error {
	content, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	const header = "# treelist remembered selection\n"
	var toWrite string
	if len(content) == 0 {
		toWrite = header + pattern + "\n"
	} else {
		if content[len(content)-1] != '\n' {
			toWrite = "\n"
		}
		toWrite += "\n" + header + pattern + "\n"
	}

	_, err = file.WriteString(toWrite)
	return err
}
