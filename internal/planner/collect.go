package planner

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/CodexForgeBR/llm-planner/internal/parser"
)

// ErrNoPlan is returned when the planner left no readable plan file.
var ErrNoPlan = errors.New("no plan found")

// Best is the cheapest plan among a planner's outputs.
type Best struct {
	Plan string
	Cost float64
	File string
}

// planFiles lists planFile and its anytime-search siblings planFile.1,
// planFile.2, ... in suffix order. Other suffixes (.sas, .log) are ignored.
func planFiles(planFile string) ([]string, error) {
	var files []string
	if _, err := os.Stat(planFile); err == nil {
		files = append(files, planFile)
	}

	matches, err := filepath.Glob(planFile + ".*")
	if err != nil {
		return nil, err
	}
	type numbered struct {
		n    int
		path string
	}
	var siblings []numbered
	for _, m := range matches {
		n, err := strconv.Atoi(strings.TrimPrefix(m, planFile+"."))
		if err != nil {
			continue
		}
		siblings = append(siblings, numbered{n, m})
	}
	sort.Slice(siblings, func(i, j int) bool { return siblings[i].n < siblings[j].n })
	for _, s := range siblings {
		files = append(files, s.path)
	}
	return files, nil
}

// CollectBest reads every plan written for planFile and returns the one with
// the lowest cost. The last line of each file carries the cost; the other
// lines are the plan body.
func CollectBest(planFile string) (Best, error) {
	files, err := planFiles(planFile)
	if err != nil {
		return Best{}, err
	}

	var best Best
	found := false
	for _, fn := range files {
		data, err := os.ReadFile(fn)
		if err != nil {
			continue
		}
		text := strings.TrimRight(string(data), "\n")
		if text == "" {
			continue
		}
		lines := strings.Split(text, "\n")
		cost := parser.ParseCost(lines[len(lines)-1])
		if found && cost >= best.Cost {
			continue
		}

		body := make([]string, 0, len(lines)-1)
		for _, l := range lines[:len(lines)-1] {
			body = append(body, strings.TrimSpace(l))
		}
		best = Best{Plan: strings.Join(body, "\n"), Cost: cost, File: fn}
		found = true
	}

	if !found {
		return Best{}, ErrNoPlan
	}
	return best, nil
}
