// Package logutil locates the files written by the logging file sink.
package logutil

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/grovetools/hydrate/logging"
	"github.com/grovetools/hydrate/util/pathutil"
)

// LogFile is a log file and the component that owns it.
type LogFile struct {
	Component string `json:"component"`
	Path      string `json:"path"`
}

// FindLogFiles returns the files holding logs for date (YYYY-MM-DD) in dir,
// sorted by path. An empty component matches every component. When
// logging.file.path is set it names the only file, shared by every
// component, and is returned if it exists.
func FindLogFiles(cfg logging.Config, dir, component, date string) ([]LogFile, error) {
	if cfg.File.Path != "" {
		path := pathutil.MustExpand(cfg.File.Path)
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				return nil, nil
			}
			return nil, err
		}
		return []LogFile{{Component: component, Path: path}}, nil
	}

	if dir == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("could not read log directory %s: %w", dir, err)
	}

	suffix := "-" + date + ".log"
	var files []LogFile
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, suffix) {
			continue
		}
		owner := strings.TrimSuffix(name, suffix)
		if component != "" && owner != component {
			continue
		}
		files = append(files, LogFile{Component: owner, Path: filepath.Join(dir, name)})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}
