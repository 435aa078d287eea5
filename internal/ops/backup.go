// Package ops backs up and restores the save data directory. Archives
// carry only save artifacts plus a manifest, so a backup can be checked
// slot-by-slot instead of trusting a byte copy of the whole directory.
package ops

import (
	"archive/tar"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/CultivationChroniclesV1/ronnetsv12-sub000/internal/state"
)

const (
	slotDirName  = "saves"
	dbFileName   = "saves.db"
	manifestName = "manifest.json"
)

// Manifest records what a backup archive holds.
type Manifest struct {
	CreatedAt time.Time `json:"created_at"`
	Slots     []string  `json:"slots"`
	Database  bool      `json:"database"`
}

// BackupSaves archives the save artifacts under dataDir into a tar.gz:
// the per-slot JSON saves under saves/ and the sqlite database file.
// Logs, scratch files, and anything else in the data dir stay out. The
// returned manifest is also the first entry of the archive.
func BackupSaves(dataDir, archivePath string) (Manifest, error) {
	var m Manifest

	dataDir = filepath.Clean(strings.TrimSpace(dataDir))
	archivePath = filepath.Clean(strings.TrimSpace(archivePath))
	if dataDir == "" || archivePath == "" {
		return m, fmt.Errorf("dataDir and archivePath are required")
	}
	info, err := os.Stat(dataDir)
	if err != nil {
		return m, err
	}
	if !info.IsDir() {
		return m, fmt.Errorf("data dir is not a directory: %s", dataDir)
	}

	slotFiles, err := filepath.Glob(filepath.Join(dataDir, slotDirName, "*.json"))
	if err != nil {
		return m, err
	}
	sort.Strings(slotFiles)

	m.CreatedAt = time.Now().UTC()
	for _, p := range slotFiles {
		m.Slots = append(m.Slots, strings.TrimSuffix(filepath.Base(p), ".json"))
	}
	if _, err := os.Stat(filepath.Join(dataDir, dbFileName)); err == nil {
		m.Database = true
	}
	if len(m.Slots) == 0 && !m.Database {
		return m, fmt.Errorf("no save artifacts under %s", dataDir)
	}

	if err := os.MkdirAll(filepath.Dir(archivePath), 0o755); err != nil {
		return m, err
	}
	f, err := os.Create(archivePath)
	if err != nil {
		return m, err
	}
	defer f.Close()

	gz := gzip.NewWriter(f)
	tw := tar.NewWriter(gz)

	mb, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return m, err
	}
	if err := addEntry(tw, manifestName, mb, m.CreatedAt); err != nil {
		return m, err
	}
	for _, p := range slotFiles {
		b, err := os.ReadFile(p)
		if err != nil {
			return m, err
		}
		name := slotDirName + "/" + filepath.Base(p)
		if err := addEntry(tw, name, b, m.CreatedAt); err != nil {
			return m, err
		}
	}
	if m.Database {
		b, err := os.ReadFile(filepath.Join(dataDir, dbFileName))
		if err != nil {
			return m, err
		}
		if err := addEntry(tw, dbFileName, b, m.CreatedAt); err != nil {
			return m, err
		}
	}

	if err := tw.Close(); err != nil {
		return m, err
	}
	if err := gz.Close(); err != nil {
		return m, err
	}
	return m, f.Close()
}

func addEntry(tw *tar.Writer, name string, b []byte, at time.Time) error {
	hdr := &tar.Header{
		Name:    name,
		Mode:    0o644,
		Size:    int64(len(b)),
		ModTime: at,
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}
	_, err := tw.Write(b)
	return err
}

// RestoreSaves extracts a backup archive into targetDir. Only entries
// matching the save layout are accepted; anything else, path traversal
// included, fails the restore.
func RestoreSaves(archivePath, targetDir string) (Manifest, error) {
	var m Manifest

	archivePath = filepath.Clean(strings.TrimSpace(archivePath))
	targetDir = filepath.Clean(strings.TrimSpace(targetDir))
	if archivePath == "" || targetDir == "" {
		return m, fmt.Errorf("archivePath and targetDir are required")
	}
	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return m, err
	}

	f, err := os.Open(archivePath)
	if err != nil {
		return m, err
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return m, err
	}
	defer gz.Close()

	seenManifest := false
	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return m, err
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}

		name, err := saveEntryPath(hdr.Name)
		if err != nil {
			return m, err
		}

		if name == manifestName {
			if err := json.NewDecoder(tr).Decode(&m); err != nil {
				return m, fmt.Errorf("decode manifest: %w", err)
			}
			seenManifest = true
			continue
		}

		outPath := filepath.Join(targetDir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
			return m, err
		}
		dst, err := os.OpenFile(outPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
		if err != nil {
			return m, err
		}
		if _, err := io.Copy(dst, tr); err != nil {
			_ = dst.Close()
			return m, err
		}
		if err := dst.Close(); err != nil {
			return m, err
		}
	}

	if !seenManifest {
		return m, fmt.Errorf("archive has no manifest")
	}
	return m, nil
}

// saveEntryPath validates an archive entry name against the save
// layout: the manifest, the database file, or saves/<slot>.json.
func saveEntryPath(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || path.Clean(name) != name {
		return "", fmt.Errorf("invalid archive entry path: %q", name)
	}
	if name == manifestName || name == dbFileName {
		return name, nil
	}
	dir, base := path.Split(name)
	if dir == slotDirName+"/" && strings.HasSuffix(base, ".json") && base != ".json" {
		return name, nil
	}
	return "", fmt.Errorf("unexpected archive entry: %q", name)
}

// VerifySaves decodes every slot save under dir and runs the schema
// check, returning the slot names in sorted order. Used by the restore
// drill to prove a backup holds loadable saves, not just bytes.
func VerifySaves(dir string) ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(dir, slotDirName, "*.json"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	slots := []string{}
	for _, p := range paths {
		b, err := os.ReadFile(p)
		if err != nil {
			return nil, err
		}
		var gs state.GameState
		if err := json.Unmarshal(b, &gs); err != nil {
			return nil, fmt.Errorf("decode save %s: %w", filepath.Base(p), err)
		}
		gs.Normalize()
		if err := gs.Validate(); err != nil {
			return nil, fmt.Errorf("invalid save %s: %w", filepath.Base(p), err)
		}
		slots = append(slots, strings.TrimSuffix(filepath.Base(p), ".json"))
	}
	return slots, nil
}
