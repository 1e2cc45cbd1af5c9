package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, k := range []string{"PLANTA_WINDOW_WIDTH", "PLANTA_STORE_DRIVER", "PLANTA_S3_PATH_STYLE", "PLANTA_SQLITE_PATH", "PORT"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	if cfg.WindowWidth != 1024 || cfg.WindowHeight != 768 {
		t.Errorf("window = %dx%d, want 1024x768", cfg.WindowWidth, cfg.WindowHeight)
	}
	if cfg.Store.Driver != "fs" {
		t.Errorf("driver = %q, want fs", cfg.Store.Driver)
	}
	if cfg.Store.S3PathStyle {
		t.Error("path style should default to false")
	}
	if cfg.Store.SQLitePath != "./projects/planta.db" {
		t.Errorf("sqlite path = %q", cfg.Store.SQLitePath)
	}
	if cfg.Port != "3000" {
		t.Errorf("port = %q, want 3000", cfg.Port)
	}
}

func TestLoadEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PLANTA_WINDOW_WIDTH", "800")
	t.Setenv("PLANTA_WINDOW_HEIGHT", "not-a-number")
	t.Setenv("PLANTA_STORE_DRIVER", "s3")
	t.Setenv("PLANTA_S3_BUCKET", "plans")
	t.Setenv("PLANTA_S3_PATH_STYLE", "true")

	cfg := Load()
	if cfg.WindowWidth != 800 {
		t.Errorf("width = %d, want 800", cfg.WindowWidth)
	}
	if cfg.WindowHeight != 768 {
		t.Errorf("invalid height should fall back, got %d", cfg.WindowHeight)
	}
	if cfg.Store.Driver != "s3" || cfg.Store.S3Bucket != "plans" || !cfg.Store.S3PathStyle {
		t.Errorf("unexpected store config %+v", cfg.Store)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	// t.Setenv restores the variable afterwards; it must be truly unset for
	// godotenv to fill it in
	t.Setenv("PLANTA_PROJECT_KEY", "")
	os.Unsetenv("PLANTA_PROJECT_KEY")
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("PLANTA_PROJECT_KEY=house.json\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := Load()
	if cfg.ProjectKey != "house.json" {
		t.Errorf("project key = %q, want house.json", cfg.ProjectKey)
	}
}
