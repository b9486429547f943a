package cache

import (
	"encoding/gob"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Selection maps gene symbol -> selected transcript ID.
type Selection map[string]string

// SelectionCache manages a gob-serialized gene -> transcript selection on disk:
//
//	selection.gob       (serialized selection)
//	selection.gob.meta  (fingerprints of the files it was computed from, and
//	                     the settings it was computed with)
type SelectionCache struct {
	path string
}

// NewSelectionCache creates a selection cache stored at path.
func NewSelectionCache(path string) *SelectionCache {
	return &SelectionCache{path: path}
}

// Path returns the path of the serialized selection.
func (sc *SelectionCache) Path() string {
	return sc.path
}

func (sc *SelectionCache) metaPath() string {
	return sc.path + ".meta"
}

// Settings are the options that shape a selection beyond its input files,
// such as the counting mode. Values must not contain newlines.
type Settings map[string]string

// Valid checks whether the cached selection was computed from exactly these
// inputs and settings.
func (sc *SelectionCache) Valid(inputs []FileFingerprint, settings Settings) bool {
	meta, err := sc.readMeta()
	if err != nil {
		return false
	}

	if meta["inputs"] != strconv.Itoa(len(inputs)) {
		return false
	}
	for i, fp := range inputs {
		if meta[inputKey(i)] != formatFingerprint(fp) {
			return false
		}
	}

	stored := 0
	for k := range meta {
		if strings.HasPrefix(k, settingPrefix) {
			stored++
		}
	}
	if stored != len(settings) {
		return false
	}
	for k, v := range settings {
		if got, ok := meta[settingPrefix+k]; !ok || got != v {
			return false
		}
	}

	// Verify gob file exists
	if _, err := os.Stat(sc.path); err != nil {
		return false
	}
	return true
}

// Load reads the serialized selection from disk.
func (sc *SelectionCache) Load() (Selection, error) {
	f, err := os.Open(sc.path)
	if err != nil {
		return nil, fmt.Errorf("open selection: %w", err)
	}
	defer f.Close()

	var sel Selection
	if err := gob.NewDecoder(f).Decode(&sel); err != nil {
		return nil, fmt.Errorf("decode selection: %w", err)
	}
	if sel == nil {
		sel = make(Selection)
	}
	return sel, nil
}

// Write serializes the selection to disk along with the input fingerprints
// and settings.
func (sc *SelectionCache) Write(sel Selection, inputs []FileFingerprint, settings Settings) error {
	f, err := os.Create(sc.path)
	if err != nil {
		return fmt.Errorf("create selection: %w", err)
	}

	if err := gob.NewEncoder(f).Encode(sel); err != nil {
		f.Close()
		os.Remove(sc.path)
		return fmt.Errorf("encode selection: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close selection: %w", err)
	}

	return sc.writeMeta(inputs, settings)
}

// Clear removes the cached selection files.
func (sc *SelectionCache) Clear() {
	os.Remove(sc.path)
	os.Remove(sc.metaPath())
}

const settingPrefix = "setting."

func inputKey(i int) string {
	return "input_" + strconv.Itoa(i)
}

func formatFingerprint(fp FileFingerprint) string {
	return fp.Path + "|" + strconv.FormatInt(fp.Size, 10) + "|" + fp.ModTime.UTC().Format(time.RFC3339Nano)
}

func (sc *SelectionCache) writeMeta(inputs []FileFingerprint, settings Settings) error {
	lines := []string{"inputs=" + strconv.Itoa(len(inputs))}
	for i, fp := range inputs {
		lines = append(lines, inputKey(i)+"="+formatFingerprint(fp))
	}
	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		lines = append(lines, settingPrefix+k+"="+settings[k])
	}
	lines = append(lines, "created_at="+time.Now().UTC().Format(time.RFC3339), "")
	return os.WriteFile(sc.metaPath(), []byte(strings.Join(lines, "\n")), 0644)
}

func (sc *SelectionCache) readMeta() (map[string]string, error) {
	data, err := os.ReadFile(sc.metaPath())
	if err != nil {
		return nil, err
	}

	meta := make(map[string]string)
	for _, line := range strings.Split(string(data), "\n") {
		if k, v, ok := strings.Cut(line, "="); ok {
			meta[k] = v
		}
	}
	return meta, nil
}
