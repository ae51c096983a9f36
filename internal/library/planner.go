package library

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"mediasort/internal/config"
	"mediasort/internal/identify"
)

// Plan is a destination for one classified file.
type Plan struct {
	Root string // library root the file belongs under
	Dir  string // directory path relative to Root
	File string // final file name, extension included
}

// FullPath joins the plan into an absolute destination path.
func (p Plan) FullPath() string {
	return filepath.Join(p.Root, p.Dir, p.File)
}

// Planner builds destination plans from decisions.
type Planner struct {
	paths config.Paths
}

// NewPlanner creates a planner over the configured library roots.
func NewPlanner(paths config.Paths) *Planner {
	return &Planner{paths: paths}
}

// Plan maps a decision to its destination. ext is the source file's
// extension including the dot; empty defaults to ".mkv".
func (pl *Planner) Plan(d identify.Decision, ext string) (Plan, error) {
	if strings.TrimSpace(d.Title) == "" && d.Confident() {
		return Plan{}, errors.New("decision has no title")
	}
	if ext == "" {
		ext = ".mkv"
	}

	switch {
	case d.IsMovie():
		root := pl.paths.MoviesDir
		if d.Kids && pl.paths.KidsMoviesDir != "" {
			root = pl.paths.KidsMoviesDir
		}
		folder := d.Title
		if d.Year != 0 {
			folder = fmt.Sprintf("%s (%d)", d.Title, d.Year)
		}
		return Plan{Root: root, Dir: folder, File: folder + ext}, nil

	case d.IsTV():
		root := pl.paths.TVDir
		if d.Kids && pl.paths.KidsTVDir != "" {
			root = pl.paths.KidsTVDir
		}
		season, episode := d.Season, d.Episode
		if season <= 0 {
			season = 1
		}
		if episode <= 0 {
			episode = 1
		}
		dir := filepath.Join(d.Title, fmt.Sprintf("Season %02d", season))
		file := fmt.Sprintf("%s - S%02dE%02d%s", d.Title, season, episode, ext)
		return Plan{Root: root, Dir: dir, File: file}, nil

	default:
		return Plan{
			Root: filepath.Join(pl.paths.StateDir, "unclassified"),
			File: sanitizeFallbackName(d, ext),
		}, nil
	}
}

// EnsureAvailable returns path, or the first " (2)", " (3)"... variant that
// does not already exist on disk.
func EnsureAvailable(path string) (string, error) {
	const maxAttempts = 1000

	if !exists(path) {
		return path, nil
	}
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	for n := 2; n < maxAttempts; n++ {
		candidate := fmt.Sprintf("%s (%d)%s", base, n, ext)
		if !exists(candidate) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("exhausted destination slots for %s", path)
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, os.ErrNotExist)
}

func sanitizeFallbackName(d identify.Decision, ext string) string {
	name := strings.TrimSpace(d.Title)
	if name == "" {
		name = "unidentified"
	}
	return name + ext
}
