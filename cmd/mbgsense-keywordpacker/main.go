// Command mbgsense-keywordpacker merges keyword fragments into the table embedded by internal/core/keywords
//
// Layout of a source directory
//
//	keywords/<n>/core.json        {"version":1,"meta":{...}}
//	keywords/<n>/**/<name>.json   {"category":"marah","priority":1,"phrases":[...]}
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"mbgsense/internal/core/keywords"
)

type coreFile struct {
	Version int            `json:"version"`
	Meta    map[string]any `json:"meta"`
}

type fragmentFile struct {
	Category string   `json:"category"`
	Priority int      `json:"priority"`
	Phrases  []string `json:"phrases"`
}

type outList struct {
	Category string   `json:"category"`
	Priority int      `json:"priority"`
	Phrases  []string `json:"phrases"`
}

type outDoc struct {
	Version int            `json:"version"`
	Meta    map[string]any `json:"meta,omitempty"`
	Lists   []outList      `json:"lists"`
}

func decodeFile[T any](path string, into *T) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, into); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// exitOn stops the packer on the first error
func exitOn(err error) {
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func fragmentPaths(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if rel, _ := filepath.Rel(root, path); strings.HasPrefix(rel, "schema") {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Base(path) == "core.json" && filepath.Dir(path) == root {
			return nil
		}
		if strings.HasSuffix(strings.ToLower(path), ".json") {
			files = append(files, path)
		}
		return nil
	})
	sort.Strings(files)
	return files, err
}

func hasCoreFile(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, "core.json"))
	return err == nil
}

func latestVersionDir(dir string) (string, bool) {
	ents, err := os.ReadDir(dir)
	if err != nil {
		return "", false
	}
	best := -1
	for _, e := range ents {
		if !e.IsDir() {
			continue
		}
		n, err := strconv.Atoi(e.Name())
		if err != nil || n <= best {
			continue
		}
		if hasCoreFile(filepath.Join(dir, e.Name())) {
			best = n
		}
	}
	if best < 0 {
		return "", false
	}
	return filepath.Join(dir, strconv.Itoa(best)), true
}

// resolveRoot tries the flag, then MBGSENSE_KEYWORDS_ROOT, then common locations.
// A parent directory resolves to its latest numeric version holding a core.json
func resolveRoot(flagRoot string) (string, []string, error) {
	var attempts []string
	try := func(p string) (string, bool) {
		if p == "" {
			return "", false
		}
		attempts = append(attempts, p)
		if hasCoreFile(p) {
			return p, true
		}
		if sub, ok := latestVersionDir(p); ok {
			attempts = append(attempts, sub)
			return sub, true
		}
		return "", false
	}

	if root, ok := try(flagRoot); ok {
		return root, attempts, nil
	}
	if env := strings.TrimSpace(os.Getenv("MBGSENSE_KEYWORDS_ROOT")); env != "" {
		if root, ok := try(env); ok {
			return root, attempts, nil
		}
	}
	for _, c := range []string{"./keywords/1", "./keywords", "/app/keywords/1", "/app/keywords"} {
		if root, ok := try(c); ok {
			return root, attempts, nil
		}
	}
	return "", attempts, errors.New("core.json not found in any known location")
}

// assemble merges fragments by category. Fragments of one category may split its
// phrases across files but must agree on the priority, or leave it zero
func assemble(root string) (*keywords.Table, error) {
	var core coreFile
	if err := decodeFile(filepath.Join(root, "core.json"), &core); err != nil {
		return nil, fmt.Errorf("read core.json: %w", err)
	}
	if core.Version != keywords.SupportedVersion {
		_, _ = fmt.Fprintf(os.Stderr, "warning: core.json version=%d (expected %d)\n", core.Version, keywords.SupportedVersion)
	}

	paths, err := fragmentPaths(root)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, errors.New("no fragment files found under " + root)
	}

	byCat := map[string]*outList{}
	var order []string
	for _, p := range paths {
		var fr fragmentFile
		if err := decodeFile(p, &fr); err != nil {
			return nil, err
		}
		cat := strings.ToLower(strings.TrimSpace(fr.Category))
		if cat == "" {
			return nil, fmt.Errorf("fragment missing category: %s", p)
		}
		l, ok := byCat[cat]
		if !ok {
			l = &outList{Category: cat}
			byCat[cat] = l
			order = append(order, cat)
		}
		switch {
		case fr.Priority == 0:
		case l.Priority == 0:
			l.Priority = fr.Priority
		case l.Priority != fr.Priority:
			return nil, fmt.Errorf("%s: category %q priority %d conflicts with %d", p, cat, fr.Priority, l.Priority)
		}
		l.Phrases = append(l.Phrases, fr.Phrases...)
	}

	doc := outDoc{Version: keywords.SupportedVersion, Meta: core.Meta}
	for _, cat := range order {
		doc.Lists = append(doc.Lists, *byCat[cat])
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	// Parse applies the same rules the service applies at startup
	return keywords.Parse(b)
}

func main() {
	var (
		flagRoot = flag.String("root", "", "path to keywords version directory (e.g., ./keywords/1 or ./keywords). If empty, auto-discover") //nolint:lll
		out      = flag.String("out", "./internal/core/keywords/keywords.json", "output path or '-' for stdout")
		verbose  = flag.Bool("v", false, "verbose logging")
	)
	flag.Parse()

	root, attempts, err := resolveRoot(strings.TrimSpace(*flagRoot))
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "failed to locate keywords root (looked in):\n")
		for _, a := range attempts {
			_, _ = fmt.Fprintf(os.Stderr, "  - %s\n", a)
		}
		_, _ = fmt.Fprintf(os.Stderr, "hint: pass -root or set MBGSENSE_KEYWORDS_ROOT\n")
		exitOn(err)
	}
	if *verbose {
		_, _ = fmt.Fprintf(os.Stderr, "using keywords root: %s\n", root)
	}

	table, err := assemble(root)
	exitOn(err)
	enc, err := table.Marshal()
	exitOn(err)

	if *out == "-" {
		if _, err := os.Stdout.Write(append(enc, '\n')); err != nil {
			exitOn(err)
		}
		return
	}

	exitOn(os.MkdirAll(filepath.Dir(*out), 0o755))
	exitOn(os.WriteFile(*out, append(enc, '\n'), 0o644))
	if *verbose {
		_, _ = fmt.Fprintf(os.Stderr, "wrote %s (%d lists, %d phrases)\n", *out, len(table.Lists), table.PhraseCount())
	}
}
