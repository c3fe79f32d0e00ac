// Package diagnostics bundles logs, configuration and host details into a
// zip archive for troubleshooting.
package diagnostics

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"EnigmaNetz/Enigma-Capture-Console/internal/logger"
	"EnigmaNetz/Enigma-Capture-Console/internal/version"
)

// Bundle lists what goes into the archive. Empty paths are skipped.
type Bundle struct {
	// LogFile is the active log; rotated siblings next to it are included
	LogFile string
	// ConfigFile is the loaded config file
	ConfigFile string
	// TemplatesFile is the user template store
	TemplatesFile string
	// Interfaces is a rendered interface listing
	Interfaces string
	// CaptureInterface is reported first in the host address list
	CaptureInterface string
}

// DefaultZipName returns a timestamped archive name.
func DefaultZipName(now time.Time) string {
	return fmt.Sprintf("capture-console-logs-%s.zip", now.Format("20060102-150405"))
}

// Collect writes the archive to zipName. Inputs that cannot be added are
// logged and skipped; only failing to create the archive itself is an error.
func Collect(zipName string, b Bundle, log *logger.Logger) error {
	if log == nil {
		log = logger.Discard()
	}

	zipFile, err := os.Create(zipName)
	if err != nil {
		return fmt.Errorf("failed to create zip: %w", err)
	}
	defer zipFile.Close()

	zipWriter := zip.NewWriter(zipFile)
	skipped := 0
	check := func(entry string, err error) {
		if err != nil {
			skipped++
			log.Warn("Diagnostics bundle is missing %s: %v", entry, err)
		}
	}

	if b.LogFile != "" {
		paths := logFiles(b.LogFile)
		if len(paths) == 0 {
			check("logs/"+filepath.Base(b.LogFile), os.ErrNotExist)
		}
		for _, path := range paths {
			entry := "logs/" + filepath.Base(path)
			check(entry, addFileToZip(zipWriter, path, entry))
		}
	}
	if b.ConfigFile != "" {
		entry := "config/" + filepath.Base(b.ConfigFile)
		check(entry, addFileToZip(zipWriter, b.ConfigFile, entry))
	}
	if b.TemplatesFile != "" {
		entry := "templates/" + filepath.Base(b.TemplatesFile)
		check(entry, addFileToZip(zipWriter, b.TemplatesFile, entry))
	}
	if b.Interfaces != "" {
		check("interfaces.txt", addStringToZip(zipWriter, "interfaces.txt", b.Interfaces))
	}

	check("version.txt", addStringToZip(zipWriter, "version.txt", version.Version+"\n"))
	check("system-info.txt", addStringToZip(zipWriter, "system-info.txt", systemInfo(b.CaptureInterface)))

	if err := zipWriter.Close(); err != nil {
		return fmt.Errorf("failed to finalize zip: %w", err)
	}
	if skipped > 0 {
		log.Warn("Diagnostics bundle %s written with %d missing entries", zipName, skipped)
	}
	return nil
}

// logFiles returns the log file and the rotated backups lumberjack keeps
// beside it (name-<timestamp>.ext, optionally gzipped).
func logFiles(logFile string) []string {
	dir := filepath.Dir(logFile)
	ext := filepath.Ext(logFile)
	prefix := strings.TrimSuffix(filepath.Base(logFile), ext) + "-"

	files := []string{}
	if _, err := os.Stat(logFile); err == nil {
		files = append(files, logFile)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return files
	}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, prefix) {
			continue
		}
		files = append(files, filepath.Join(dir, name))
	}
	return files
}

func addFileToZip(zipWriter *zip.Writer, filename, entry string) error {
	file, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	w, err := zipWriter.Create(entry)
	if err != nil {
		return err
	}
	_, err = io.Copy(w, file)
	return err
}

func addStringToZip(zipWriter *zip.Writer, filename, content string) error {
	w, err := zipWriter.Create(filename)
	if err != nil {
		return err
	}
	_, err = w.Write([]byte(content))
	return err
}
