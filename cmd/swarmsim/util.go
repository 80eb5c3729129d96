package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/san-kum/swarmsim/internal/sweep"
)

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// parseAxis reads name=lo:hi:n.
func parseAxis(spec string) (sweep.Axis, error) {
	name, rng, ok := strings.Cut(spec, "=")
	if !ok {
		return sweep.Axis{}, fmt.Errorf("axis %q: want name=lo:hi:n", spec)
	}
	parts := strings.Split(rng, ":")
	if len(parts) != 3 {
		return sweep.Axis{}, fmt.Errorf("axis %q: want name=lo:hi:n", spec)
	}
	lo, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return sweep.Axis{}, fmt.Errorf("axis %q: %w", spec, err)
	}
	hi, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return sweep.Axis{}, fmt.Errorf("axis %q: %w", spec, err)
	}
	n, err := strconv.Atoi(parts[2])
	if err != nil || n < 1 {
		return sweep.Axis{}, fmt.Errorf("axis %q: bad point count %q", spec, parts[2])
	}
	return sweep.Axis{Name: strings.TrimSpace(name), Values: sweep.Linspace(lo, hi, n)}, nil
}
