// Package credentials loads OpenAI API keys and hands them out round-robin.
package credentials

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/joho/godotenv"
)

// Environment variables consulted when no keys file is given.
const (
	EnvKeys = "OPENAI_API_KEYS" // comma separated
	EnvKey  = "OPENAI_API_KEY"
)

// ErrNoKeys is returned when no source yields a key.
var ErrNoKeys = errors.New("no OpenAI API keys configured")

// KeyRing rotates through a fixed set of API keys. It is safe for
// concurrent use.
type KeyRing struct {
	mu   sync.Mutex
	keys []string
	next int
}

// NewKeyRing builds a ring from keys, dropping blank entries.
func NewKeyRing(keys []string) (*KeyRing, error) {
	var clean []string
	for _, k := range keys {
		if k = strings.TrimSpace(k); k != "" {
			clean = append(clean, k)
		}
	}
	if len(clean) == 0 {
		return nil, ErrNoKeys
	}
	return &KeyRing{keys: clean}, nil
}

// Next returns the current key and advances the ring.
func (r *KeyRing) Next() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := r.keys[r.next]
	r.next = (r.next + 1) % len(r.keys)
	return k
}

// Len returns the number of keys in the ring.
func (r *KeyRing) Len() int { return len(r.keys) }

// FromFile reads one key per line.
func FromFile(path string) (*KeyRing, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open keys file: %w", err)
	}
	defer f.Close()

	var keys []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		keys = append(keys, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read keys file: %w", err)
	}

	ring, err := NewKeyRing(keys)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ring, nil
}

// FromEnv looks for keys in envFile (when it exists) and then in the
// process environment via getenv. OPENAI_API_KEYS wins over OPENAI_API_KEY.
func FromEnv(envFile string, getenv func(string) string) (*KeyRing, error) {
	lookup := func(name string) string { return getenv(name) }

	if envFile != "" {
		values, err := godotenv.Read(envFile)
		switch {
		case err == nil:
			lookup = func(name string) string {
				if v := values[name]; v != "" {
					return v
				}
				return getenv(name)
			}
		case !errors.Is(err, os.ErrNotExist):
			return nil, fmt.Errorf("read %s: %w", envFile, err)
		}
	}

	if v := lookup(EnvKeys); v != "" {
		return NewKeyRing(strings.Split(v, ","))
	}
	return NewKeyRing([]string{lookup(EnvKey)})
}

// Load prefers keysFile when set, otherwise falls back to FromEnv with the
// process environment.
func Load(keysFile, envFile string) (*KeyRing, error) {
	if keysFile != "" {
		return FromFile(keysFile)
	}
	return FromEnv(envFile, os.Getenv)
}
