package diagnostics

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"EnigmaNetz/Enigma-Capture-Console/internal/logger"
)

func zipEntries(t *testing.T, zipName string) map[string]string {
	t.Helper()
	r, err := zip.OpenReader(zipName)
	if err != nil {
		t.Fatalf("Failed to open zip: %v", err)
	}
	defer r.Close()

	files := map[string]string{}
	for _, f := range r.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("Failed to open %s: %v", f.Name, err)
		}
		data, _ := io.ReadAll(rc)
		rc.Close()
		files[strings.ReplaceAll(f.Name, "\\", "/")] = string(data)
	}
	return files
}

func TestCollect_CreatesZipWithExpectedFiles(t *testing.T) {
	dir := t.TempDir()
	logDir := filepath.Join(dir, "logs")
	os.Mkdir(logDir, 0755)
	os.WriteFile(filepath.Join(logDir, "console.log"), []byte("logdata"), 0644)
	os.WriteFile(filepath.Join(logDir, "console-2024-05-01T10-00-00.000.log.gz"), []byte("old"), 0644)
	os.WriteFile(filepath.Join(logDir, "other.log"), []byte("unrelated"), 0644)
	os.WriteFile(filepath.Join(dir, "config.json"), []byte(`{"logging": {}}`), 0644)
	os.WriteFile(filepath.Join(dir, "capture_templates.json"), []byte(`[]`), 0644)

	zipName := filepath.Join(dir, DefaultZipName(time.Now()))
	err := Collect(zipName, Bundle{
		LogFile:       filepath.Join(logDir, "console.log"),
		ConfigFile:    filepath.Join(dir, "config.json"),
		TemplatesFile: filepath.Join(dir, "capture_templates.json"),
		Interfaces:    "eth0 Uplink\n",
	}, nil)
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}

	files := zipEntries(t, zipName)
	for _, want := range []string{
		"logs/console.log",
		"logs/console-2024-05-01T10-00-00.000.log.gz",
		"config/config.json",
		"templates/capture_templates.json",
		"interfaces.txt",
		"version.txt",
		"system-info.txt",
	} {
		if _, ok := files[want]; !ok {
			t.Errorf("Expected %s in zip, not found", want)
		}
	}
	if _, ok := files["logs/other.log"]; ok {
		t.Errorf("Unrelated log file should not be bundled")
	}
	if files["logs/console.log"] != "logdata" {
		t.Errorf("Unexpected log content %q", files["logs/console.log"])
	}
	if !strings.Contains(files["system-info.txt"], "OS: ") {
		t.Errorf("system-info.txt missing OS line: %q", files["system-info.txt"])
	}
}

func TestCollect_MissingInputsAreSkipped(t *testing.T) {
	dir := t.TempDir()
	zipName := filepath.Join(dir, "bundle.zip")

	var logs bytes.Buffer
	err := Collect(zipName, Bundle{
		LogFile:    filepath.Join(dir, "nope", "console.log"),
		ConfigFile: filepath.Join(dir, "missing.json"),
	}, logger.NewWithWriter(&logs, logger.Warn))
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}

	files := zipEntries(t, zipName)
	if len(files) != 2 {
		t.Errorf("Expected only version.txt and system-info.txt, got %v", files)
	}

	out := logs.String()
	for _, want := range []string{"logs/console.log", "config/missing.json", "2 missing entries"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected warning mentioning %q, got:\n%s", want, out)
		}
	}
}

func TestCollect_UnwritableDestination(t *testing.T) {
	err := Collect(filepath.Join(t.TempDir(), "missing-dir", "bundle.zip"), Bundle{}, nil)
	if err == nil {
		t.Fatal("Expected error for unwritable destination")
	}
}

func TestDefaultZipName(t *testing.T) {
	name := DefaultZipName(time.Date(2024, 5, 1, 13, 4, 5, 0, time.UTC))
	if name != "capture-console-logs-20240501-130405.zip" {
		t.Errorf("unexpected name %q", name)
	}
}
