package di

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mikey/moodiary/internal/config"
	"github.com/mikey/moodiary/internal/core"
	"github.com/mikey/moodiary/internal/strategy"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestBuildContainerResolvesService(t *testing.T) {
	path := writeConfig(t, `
analysis:
  strategy: rule
store:
  type: memory
logging:
  level: error
`)

	container, err := BuildContainer(Options{ConfigFile: path})
	if err != nil {
		t.Fatalf("failed to build container: %v", err)
	}

	err = container.Invoke(func(svc *core.JournalService, selector *strategy.Selector, repo core.EntryRepository) {
		if svc == nil || repo == nil {
			t.Fatal("expected service and repository")
		}
		if selector.Mode() != strategy.ModeRule {
			t.Fatalf("expected rule mode, got %s", selector.Mode())
		}
	})
	if err != nil {
		t.Fatalf("failed to resolve dependencies: %v", err)
	}
}

func TestBuildContainerSQLiteStore(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "data", "moodiary.db")
	path := writeConfig(t, "store:\n  type: sqlite\n  sqlite_path: "+dbPath+"\n")

	container, err := BuildContainer(Options{ConfigFile: path})
	if err != nil {
		t.Fatalf("failed to build container: %v", err)
	}

	err = container.Invoke(func(repo core.EntryRepository, cfg *config.Config) {
		if _, err := os.Stat(dbPath); err != nil {
			t.Fatalf("expected database file to be created: %v", err)
		}
		if cfg.GetStore().Type != "sqlite" {
			t.Fatalf("unexpected store type %q", cfg.GetStore().Type)
		}
	})
	if err != nil {
		t.Fatalf("failed to resolve dependencies: %v", err)
	}
}

func TestBuildContainerRejectsUnknownStrategy(t *testing.T) {
	path := writeConfig(t, "analysis:\n  strategy: psychic\n")

	container, err := BuildContainer(Options{ConfigFile: path})
	if err != nil {
		t.Fatalf("failed to build container: %v", err)
	}

	if err := container.Invoke(func(*core.JournalService) {}); err == nil {
		t.Fatal("expected an error for an unknown analysis strategy")
	}
}
