// Package domain locates PDDL benchmark domains and their tasks on disk.
//
// Each domain lives in <root>/<name>/ and contains:
//
//	domain.pddl                  formal domain
//	domain.nl                    natural-language rules (optional)
//	p_example.{nl,pddl,sol}      the in-context example
//	pNN.nl + pNN.pddl            tasks
package domain

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/CodexForgeBR/llm-planner/internal/search"
)

// Name identifies a supported benchmark domain.
type Name string

const (
	Barman       Name = "barman"
	Blocksworld  Name = "blocksworld"
	Floortile    Name = "floortile"
	Grippers     Name = "grippers"
	Storage      Name = "storage"
	Termes       Name = "termes"
	Tyreworld    Name = "tyreworld"
	Manipulation Name = "manipulation"
)

// ErrUnknownDomain is returned by ParseName for unsupported names.
var ErrUnknownDomain = errors.New("unknown domain")

// ErrTaskIndex is returned when a task index is out of range.
var ErrTaskIndex = errors.New("task index out of range")

// catalog maps each supported domain to its directory under the domains root.
var catalog = map[Name]string{
	Barman:       "barman",
	Blocksworld:  "blocksworld",
	Floortile:    "floortile",
	Grippers:     "grippers",
	Storage:      "storage",
	Termes:       "termes",
	Tyreworld:    "tyreworld",
	Manipulation: "manipulation",
}

// Names returns every supported domain in alphabetical order.
func Names() []Name {
	names := make([]Name, 0, len(catalog))
	for n := range catalog {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// ParseName resolves a domain name, case-insensitively.
func ParseName(s string) (Name, error) {
	n := Name(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := catalog[n]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownDomain, s)
	}
	return n, nil
}

const (
	exampleStem    = "p_example"
	domainStem     = "domain"
	missingRulesNL = "Nothing"
)

// Domain is a benchmark domain rooted at a directory.
type Domain struct {
	Name Name
	Dir  string

	tasks []string // NL file names, sorted
}

// Open resolves name under root and discovers its tasks.
func Open(root string, name Name) (*Domain, error) {
	sub, ok := catalog[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDomain, name)
	}
	d := &Domain{Name: name, Dir: filepath.Join(root, sub)}
	if err := d.discover(); err != nil {
		return nil, err
	}
	return d, nil
}

// discover lists *.nl files that are neither the domain description nor the
// in-context example and that have a matching .pddl file.
func (d *Domain) discover() error {
	matches, err := filepath.Glob(filepath.Join(d.Dir, "*.nl"))
	if err != nil {
		return fmt.Errorf("glob tasks: %w", err)
	}
	var tasks []string
	for _, m := range matches {
		base := filepath.Base(m)
		if strings.Contains(base, domainStem) || strings.Contains(base, exampleStem) {
			continue
		}
		if _, err := os.Stat(strings.TrimSuffix(m, ".nl") + ".pddl"); err != nil {
			continue
		}
		tasks = append(tasks, base)
	}
	sort.Strings(tasks)
	d.tasks = tasks
	return nil
}

// Len returns the number of tasks.
func (d *Domain) Len() int { return len(d.tasks) }

func (d *Domain) task(i int) (string, error) {
	if i < 0 || i >= len(d.tasks) {
		return "", fmt.Errorf("%w: %d (domain %s has %d tasks)", ErrTaskIndex, i, d.Name, len(d.tasks))
	}
	return d.tasks[i], nil
}

func pddlName(nl string) string { return strings.TrimSuffix(nl, ".nl") + ".pddl" }

// TaskSuffix returns "<domain>/<task>.pddl", the relative path used for
// every per-task artifact.
func (d *Domain) TaskSuffix(i int) (string, error) {
	nl, err := d.task(i)
	if err != nil {
		return "", err
	}
	return string(d.Name) + "/" + pddlName(nl), nil
}

// TaskFiles returns the NL and PDDL paths of task i.
func (d *Domain) TaskFiles(i int) (nlPath, pddlPath string, err error) {
	nl, err := d.task(i)
	if err != nil {
		return "", "", err
	}
	return filepath.Join(d.Dir, nl), filepath.Join(d.Dir, pddlName(nl)), nil
}

// Task returns the trimmed NL description and ground-truth PDDL of task i.
func (d *Domain) Task(i int) (nl, pddl string, err error) {
	nlPath, pddlPath, err := d.TaskFiles(i)
	if err != nil {
		return "", "", err
	}
	if nl, err = readTrimmed(nlPath); err != nil {
		return "", "", err
	}
	if pddl, err = readTrimmed(pddlPath); err != nil {
		return "", "", err
	}
	return nl, pddl, nil
}

// Context returns the in-context example.
func (d *Domain) Context() (search.Example, error) {
	var ex search.Example
	var err error
	if ex.Description, err = readTrimmed(filepath.Join(d.Dir, exampleStem+".nl")); err != nil {
		return ex, err
	}
	if ex.PDDL, err = readTrimmed(filepath.Join(d.Dir, exampleStem+".pddl")); err != nil {
		return ex, err
	}
	if ex.Solution, err = readTrimmed(filepath.Join(d.Dir, exampleStem+".sol")); err != nil {
		return ex, err
	}
	return ex, nil
}

// DomainPDDLFile returns the path of domain.pddl.
func (d *Domain) DomainPDDLFile() string {
	return filepath.Join(d.Dir, domainStem+".pddl")
}

// DomainPDDL returns the trimmed contents of domain.pddl.
func (d *Domain) DomainPDDL() (string, error) {
	return readTrimmed(d.DomainPDDLFile())
}

// DomainNL returns the natural-language rules, or "Nothing" when the domain
// ships without domain.nl.
func (d *Domain) DomainNL() string {
	s, err := readTrimmed(filepath.Join(d.Dir, domainStem+".nl"))
	if err != nil {
		return missingRulesNL
	}
	return s
}

func readTrimmed(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	return strings.TrimSpace(string(data)), nil
}
