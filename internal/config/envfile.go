package config

import (
	"bufio"
	"os"
	"strings"

	"github.com/dmitrijs2005/stockjournal/internal/flagx"
)

// defaultEnvFile is loaded when no -c/-config flag is given. A missing
// default file is fine; a missing explicitly named file is not.
const defaultEnvFile = ".env"

// settingsKeys maps env-file / environment keys onto Config fields.
var settingsKeys = map[string]func(*Config, string){
	"JOURNAL_ADDR":   func(c *Config, v string) { c.JournalAddr = v },
	"NOTES_ADDR":     func(c *Config, v string) { c.NotesAddr = v },
	"DATABASE_DSN":   func(c *Config, v string) { c.DatabaseDSN = v },
	"S3_ACCESS_KEY":  func(c *Config, v string) { c.S3AccessKey = v },
	"S3_SECRET_KEY":  func(c *Config, v string) { c.S3SecretKey = v },
	"S3_BUCKET":      func(c *Config, v string) { c.S3Bucket = v },
	"S3_REGION":      func(c *Config, v string) { c.S3Region = v },
	"S3_ENDPOINT":    func(c *Config, v string) { c.S3BaseEndpoint = v },
	"S3_PUBLIC_URL":  func(c *Config, v string) { c.S3PublicBaseURL = v },
	"QUOTE_BASE_URL": func(c *Config, v string) { c.QuoteBaseURL = v },
}

// ParseEnvFile reads a simple KEY=VALUE settings file. Blank lines,
// #-prefixed lines and lines without '=' are ignored; values are split on
// the first '=' and trimmed.
func ParseEnvFile(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	vars := map[string]string{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || !strings.Contains(line, "=") {
			continue
		}
		kv := strings.SplitN(line, "=", 2)
		vars[strings.TrimSpace(kv[0])] = strings.TrimSpace(kv[1])
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return vars, nil
}

func applyVars(cfg *Config, lookup func(string) (string, bool)) {
	for key, set := range settingsKeys {
		if v, ok := lookup(key); ok && v != "" {
			set(cfg, v)
		}
	}
}

func parseEnvFile(cfg *Config) {
	path := flagx.EnvFileFlags()
	explicit := path != ""
	if !explicit {
		path = defaultEnvFile
	}

	vars, err := ParseEnvFile(path)
	if err != nil {
		if explicit {
			panic(err)
		}
		return
	}

	applyVars(cfg, func(k string) (string, bool) {
		v, ok := vars[k]
		return v, ok
	})
}

func parseEnv(cfg *Config) {
	applyVars(cfg, os.LookupEnv)
}
