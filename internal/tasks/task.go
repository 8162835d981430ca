// Package tasks owns the task list, its filter, and the cycle that
// persists and re-renders the list after every change.
package tasks

import (
	"fmt"
	"math"
	"strings"
)

const DefaultCategory = "General"

// Task is one user-entered item. Field names match the persisted JSON.
type Task struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
	Category  string `json:"category"`
}

type Filter int

const (
	FilterAll Filter = iota
	FilterActive
	FilterCompleted
)

var filterNames = [...]string{"all", "active", "completed"}

func (f Filter) String() string {
	if f < 0 || int(f) >= len(filterNames) {
		return fmt.Sprintf("Filter(%d)", int(f))
	}
	return filterNames[f]
}

// Next cycles all -> active -> completed -> all.
func (f Filter) Next() Filter {
	return (f + 1) % Filter(len(filterNames))
}

func Filters() []Filter {
	return []Filter{FilterAll, FilterActive, FilterCompleted}
}

func ParseFilter(s string) (Filter, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range filterNames {
		if s == name {
			return Filter(i), nil
		}
	}
	return FilterAll, fmt.Errorf("unknown filter %q", s)
}

func (f Filter) match(t Task) bool {
	switch f {
	case FilterActive:
		return !t.Completed
	case FilterCompleted:
		return t.Completed
	default:
		return true
	}
}

// VisibleTasks returns the tasks selected by f in their original order.
func VisibleTasks(list []Task, f Filter) []Task {
	out := make([]Task, 0, len(list))
	for _, t := range list {
		if f.match(t) {
			out = append(out, t)
		}
	}
	return out
}

type Progress struct {
	Completed  int
	Total      int
	Percentage int
}

func ComputeProgress(list []Task) Progress {
	p := Progress{Total: len(list)}
	for _, t := range list {
		if t.Completed {
			p.Completed++
		}
	}
	if p.Total > 0 {
		p.Percentage = int(math.Round(float64(p.Completed) / float64(p.Total) * 100))
	}
	return p
}

// Ratio is Percentage as a fraction in [0, 1].
func (p Progress) Ratio() float64 {
	return float64(p.Percentage) / 100
}

func (p Progress) String() string {
	return fmt.Sprintf("Progress: %d/%d (%d%%) Mastered", p.Completed, p.Total, p.Percentage)
}
