package logger

import (
	"os"
	"path/filepath"
	"time"
)

// CleanupStats summarizes a log retention pass.
type CleanupStats struct {
	DeletedDirs int
	FreedBytes  int64
}

// Cleanup removes day-level run folders under base older than retentionDays,
// then prunes emptied month and year folders. Folder names follow the layout
// produced by RunFolder. Unparseable directory names are left alone.
func Cleanup(base string, retentionDays int, dryRun bool) CleanupStats {
	stats := CleanupStats{}
	cutoff := time.Now().AddDate(0, 0, -retentionDays)

	yearDirs, err := os.ReadDir(base)
	if err != nil {
		Log.Warnf("Logs directory not readable: %s: %v", base, err)
		return stats
	}

	for _, yearDir := range yearDirs {
		if !yearDir.IsDir() {
			continue
		}
		yearPath := filepath.Join(base, yearDir.Name())
		monthDirs, err := os.ReadDir(yearPath)
		if err != nil {
			continue
		}
		for _, monthDir := range monthDirs {
			if !monthDir.IsDir() {
				continue
			}
			monthPath := filepath.Join(yearPath, monthDir.Name())
			dayDirs, err := os.ReadDir(monthPath)
			if err != nil {
				continue
			}
			for _, dayDir := range dayDirs {
				if !dayDir.IsDir() {
					continue
				}
				dayDate, err := time.Parse("2006 01 02", dayDir.Name())
				if err != nil {
					continue
				}
				if !dayDate.Before(cutoff) {
					continue
				}
				dayPath := filepath.Join(monthPath, dayDir.Name())
				size := dirSize(dayPath)
				if dryRun {
					Log.Infof("[dry run] would delete %s (%.2f MB)", dayPath, float64(size)/1024/1024)
				} else if err := os.RemoveAll(dayPath); err != nil {
					Log.Errorf("Failed to delete %s: %v", dayPath, err)
					continue
				} else {
					Log.Infof("Deleted %s (%.2f MB)", dayPath, float64(size)/1024/1024)
				}
				stats.DeletedDirs++
				stats.FreedBytes += size
			}
			if !dryRun {
				removeIfEmpty(monthPath)
			}
		}
		if !dryRun {
			removeIfEmpty(yearPath)
		}
	}

	return stats
}

func dirSize(path string) int64 {
	var total int64
	_ = filepath.Walk(path, func(_ string, info os.FileInfo, err error) error {
		if err == nil && !info.IsDir() {
			total += info.Size()
		}
		return nil
	})
	return total
}

func removeIfEmpty(path string) {
	entries, err := os.ReadDir(path)
	if err == nil && len(entries) == 0 {
		_ = os.Remove(path)
	}
}
