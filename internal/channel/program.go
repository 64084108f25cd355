package channel

import (
	"math/rand"
	"os"
	"path/filepath"
	"strings"
)

// SupportedExtensions is the minimum set spec.md §4.D requires. It is a fixed
// set; no configuration input changes it.
var SupportedExtensions = map[string]bool{
	".mp4":  true,
	".mkv":  true,
	".mov":  true,
	".avi":  true,
	".m4v":  true,
	".webm": true,
	".ts":   true,
}

// Program is the in-memory ordered sequence of source-item paths for one
// channel, built from its Definition.
type Program struct {
	Slug  string
	Name  string
	Queue []string
}

// shuffleSource is process-wide so that each channel build draws from an
// independently advancing stream, matching "deterministic-per-process random
// permutation established at channel build time" (spec.md §3).
var shuffleSource = rand.New(rand.NewSource(rand.Int63()))

// BuildProgram walks every root path in def, recursively, retaining regular
// files whose extension is in extensions, then orders the result per def's
// Type. A root path that does not exist or contains no supported files
// yields an empty (not missing) queue; the caller should log this and
// continue (spec.md §7).
func BuildProgram(def Definition, extensions map[string]bool) Program {
	var queue []string
	for _, root := range def.Paths {
		queue = append(queue, walk(root, extensions)...)
	}

	if def.Type == TypeShuffle {
		shuffleSource.Shuffle(len(queue), func(i, j int) {
			queue[i], queue[j] = queue[j], queue[i]
		})
	}

	return Program{Slug: def.Slug, Name: def.Name, Queue: queue}
}

func walk(root string, extensions map[string]bool) []string {
	var files []string
	_ = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if extensions[ext] {
			files = append(files, path)
		}
		return nil
	})
	return files
}
