package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/CultivationChroniclesV1/ronnetsv12-sub000/internal/ops"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "backup":
		if err := cmdBackup(os.Args[2:]); err != nil {
			fmt.Fprintln(os.Stderr, "backup failed:", err)
			os.Exit(1)
		}
	case "restore":
		if err := cmdRestore(os.Args[2:]); err != nil {
			fmt.Fprintln(os.Stderr, "restore failed:", err)
			os.Exit(1)
		}
	case "drill":
		if err := cmdDrill(os.Args[2:]); err != nil {
			fmt.Fprintln(os.Stderr, "drill failed:", err)
			os.Exit(1)
		}
	default:
		printUsage()
		os.Exit(2)
	}
}

func cmdBackup(args []string) error {
	fs := flag.NewFlagSet("backup", flag.ContinueOnError)
	dataDir := fs.String("data-dir", "data", "path to data directory")
	out := fs.String("out", "", "output archive path (.tar.gz)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *out == "" {
		ts := time.Now().UTC().Format("20060102T150405Z")
		*out = filepath.Join("backups", "cultivation-"+ts+".tar.gz")
	}

	m, err := ops.BackupSaves(*dataDir, *out)
	if err != nil {
		return err
	}
	fmt.Println("archive:", *out)
	fmt.Println("slots:  ", strings.Join(m.Slots, ", "))
	fmt.Println("db:     ", m.Database)
	return nil
}

func cmdRestore(args []string) error {
	fs := flag.NewFlagSet("restore", flag.ContinueOnError)
	archive := fs.String("archive", "", "input backup archive (.tar.gz)")
	target := fs.String("target-dir", "data-restored", "restore target directory")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *archive == "" {
		return fmt.Errorf("archive is required")
	}

	m, err := ops.RestoreSaves(*archive, *target)
	if err != nil {
		return err
	}
	fmt.Println("restored:", *target)
	fmt.Println("slots:   ", strings.Join(m.Slots, ", "))
	return nil
}

// cmdDrill backs up, restores into a scratch dir, and then proves every
// restored slot still decodes and validates as a playable save.
func cmdDrill(args []string) error {
	fs := flag.NewFlagSet("drill", flag.ContinueOnError)
	dataDir := fs.String("data-dir", "data", "path to data directory")
	workDir := fs.String("work-dir", os.TempDir(), "temporary workspace for drill artifacts")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := os.MkdirAll(*workDir, 0o755); err != nil {
		return err
	}
	ts := time.Now().UTC().Format("20060102T150405Z")
	archive := filepath.Join(*workDir, "cultivation-drill-"+ts+".tar.gz")
	restoreDir := filepath.Join(*workDir, "cultivation-drill-restore-"+ts)

	backed, err := ops.BackupSaves(*dataDir, archive)
	if err != nil {
		return err
	}
	if _, err := ops.RestoreSaves(archive, restoreDir); err != nil {
		return err
	}

	verified, err := ops.VerifySaves(restoreDir)
	if err != nil {
		return err
	}
	want := append([]string(nil), backed.Slots...)
	sort.Strings(want)
	if strings.Join(verified, ",") != strings.Join(want, ",") {
		return fmt.Errorf("slot mismatch after restore: backed up %v, verified %v", want, verified)
	}

	fmt.Println("backup:  ", archive)
	fmt.Println("restored:", restoreDir)
	fmt.Println("verified:", strings.Join(verified, ", "))
	return nil
}

func printUsage() {
	fmt.Println("usage:")
	fmt.Println("  cultivation-ops backup  --data-dir data --out backups/backup.tar.gz")
	fmt.Println("  cultivation-ops restore --archive backups/backup.tar.gz --target-dir data-restored")
	fmt.Println("  cultivation-ops drill   --data-dir data --work-dir /tmp")
}
