package prompt

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"stock_research/pkg/core/utils"
)

// LoadFromDirectory loads all prompt templates from a directory structure:
//
//	baseDir/
//	  prompts/
//	    report/
//	      financial_analysis.json
//	    polish/
//	      focus.json
func LoadFromDirectory(baseDir string) error {
	registry := Get()

	promptDir := filepath.Join(baseDir, "prompts")
	if _, err := os.Stat(promptDir); os.IsNotExist(err) {
		return fmt.Errorf("prompts directory not found: %s", promptDir)
	}

	err := filepath.Walk(promptDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || filepath.Ext(path) != ".json" {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		// Template files are hand written; tolerate comments and
		// trailing commas.
		var t Template
		if err := utils.LenientUnmarshal(data, &t); err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}

		if t.ID == "" {
			t.ID = idFromPath(path, promptDir)
		}
		if t.Category == "" {
			t.Category = categoryFromPath(path, promptDir)
		}

		if err := registry.Register(&t); err != nil {
			return fmt.Errorf("failed to register %s: %w", t.ID, err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to load prompts: %w", err)
	}

	fmt.Printf("[prompt.Loader] Loaded %d prompts from %s\n", registry.Count(), baseDir)
	return nil
}

// idFromPath creates a prompt ID from the file path,
// e.g. "prompts/report/financial_analysis.json" -> "report.financial_analysis"
func idFromPath(path string, baseDir string) string {
	relPath, _ := filepath.Rel(baseDir, path)
	relPath = strings.TrimSuffix(relPath, ".json")
	relPath = strings.ReplaceAll(relPath, string(filepath.Separator), ".")
	return relPath
}

// categoryFromPath extracts the category from the folder structure
func categoryFromPath(path string, baseDir string) string {
	relPath, _ := filepath.Rel(baseDir, path)
	parts := strings.Split(relPath, string(filepath.Separator))
	if len(parts) > 1 {
		return parts[0]
	}
	return "default"
}
