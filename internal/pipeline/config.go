package pipeline

import (
	"bufio"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// RunConfig holds the validated parameters for a single pipeline run.
// It is created once per run and never mutated afterwards.
type RunConfig struct {
	Seed    int64
	Window  int
	Version string
}

// PartialConfig carries whatever fields were successfully parsed before a
// configuration failure, so the orchestrator can still stamp a version on
// the error report.
type PartialConfig struct {
	Version string
}

// configValue is a parsed config value: either an integer or a string,
// depending on how the raw text coerced.
type configValue struct {
	str   string
	num   int64
	isNum bool
}

// requiredConfigKeys lists the keys a run configuration must define.
var requiredConfigKeys = []string{"seed", "window", "version"}

// LoadRunConfig reads the restricted key/value configuration at path and
// validates it into a RunConfig. The returned PartialConfig is populated on
// a best-effort basis even when the load fails.
func LoadRunConfig(path string) (*RunConfig, PartialConfig, error) {
	var partial PartialConfig

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, partial, configErrorf(ConfigNotFound, "configuration file not found: %s", filepath.Base(path))
		}
		return nil, partial, configErrorf(ConfigIOError, "unable to read configuration file: %s", filepath.Base(path))
	}
	defer f.Close()

	values, parseErr := parseRunConfig(f)

	// Recover the version even from a partially parsed file.
	if v, ok := values["version"]; ok && !v.isNum && v.str != "" {
		partial.Version = v.str
	}
	if parseErr != nil {
		return nil, partial, parseErr
	}

	var missing []string
	for _, key := range requiredConfigKeys {
		if _, ok := values[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, partial, configErrorf(ConfigMissingKeys,
			"invalid configuration: missing keys [%s]", strings.Join(missing, ", "))
	}

	seed := values["seed"]
	if !seed.isNum {
		return nil, partial, configErrorf(ConfigInvalidSeed, "'seed' must be an integer")
	}
	window := values["window"]
	if !window.isNum || window.num <= 0 {
		return nil, partial, configErrorf(ConfigInvalidWindow, "'window' must be a positive integer")
	}
	version := values["version"]
	if version.isNum || version.str == "" {
		return nil, partial, configErrorf(ConfigInvalidVersion, "'version' must be a non-empty string")
	}

	return &RunConfig{
		Seed:    seed.num,
		Window:  int(window.num),
		Version: version.str,
	}, partial, nil
}

// parseRunConfig reads line-oriented "key: value" text. Blank lines and
// #-comments are skipped. Every other line must contain a colon; the split
// happens on the first one. Values coerce in priority order: quoted string,
// integer, raw string. On a bad line the entries parsed so far are still
// returned alongside the error.
func parseRunConfig(r io.Reader) (map[string]configValue, error) {
	values := make(map[string]configValue)

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, rawValue, found := strings.Cut(line, ":")
		if !found {
			return values, configErrorf(ConfigParseError,
				"invalid configuration file structure: line %d has no ':'", lineNo)
		}
		values[strings.TrimSpace(key)] = coerceConfigValue(strings.TrimSpace(rawValue))
	}
	if err := scanner.Err(); err != nil {
		return values, configErrorf(ConfigIOError, "unable to read configuration file: %v", err)
	}
	return values, nil
}

func coerceConfigValue(raw string) configValue {
	if quoted(raw) {
		return configValue{str: raw[1 : len(raw)-1]}
	}
	if n, ok := parseConfigInt(raw); ok {
		return configValue{num: n, isNum: true}
	}
	return configValue{str: raw}
}

// quoted reports whether raw is wrapped in a matching pair of quote
// characters. The quotes are not part of the value.
func quoted(raw string) bool {
	if len(raw) < 2 {
		return false
	}
	first, last := raw[0], raw[len(raw)-1]
	return first == last && (first == '"' || first == '\'')
}

// parseConfigInt accepts an optional leading '-' followed only by digits.
func parseConfigInt(raw string) (int64, bool) {
	digits := raw
	if strings.HasPrefix(digits, "-") {
		digits = digits[1:]
	}
	if digits == "" {
		return 0, false
	}
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
