// Package matrix expands a job template across variant axes into the set
// of independent job instances the workflow runs.
package matrix

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fyrsmithlabs/gatehouse/internal/config"
	"github.com/fyrsmithlabs/gatehouse/internal/job"
)

// ErrEmptyAxis marks a degenerate axis with zero values. A matrix that
// would silently run no jobs is an error, not a no-op.
var ErrEmptyAxis = errors.New("matrix: axis has no values")

// Axis is a named ordered sequence of variant values.
type Axis struct {
	Name   string
	Values []string
}

// AxesFromConfig converts configured axes to the runtime model.
func AxesFromConfig(axes []config.AxisConfig) []Axis {
	out := make([]Axis, len(axes))
	for i, a := range axes {
		out[i] = Axis{Name: a.Name, Values: a.Values}
	}
	return out
}

// Template is the per-variant job definition the expander stamps out.
type Template struct {
	Steps   []job.Step
	Workdir string
}

// Expand computes the cross-product of all axes in declared order; each
// combination yields one job instance whose label joins the chosen values.
//
// Iteration is lexicographic over declared axis order (first axis
// outermost), so labels and report ordering are reproducible across runs.
// With no axes at all, a single "default" instance is produced. Any axis
// with zero values fails expansion.
func Expand(axes []Axis, tmpl Template) ([]*job.Instance, error) {
	for _, a := range axes {
		if len(a.Values) == 0 {
			return nil, fmt.Errorf("%w: %q", ErrEmptyAxis, a.Name)
		}
	}

	if len(axes) == 0 {
		return []*job.Instance{newInstance("default", nil, tmpl)}, nil
	}

	total := 1
	for _, a := range axes {
		total *= len(a.Values)
	}

	instances := make([]*job.Instance, 0, total)
	combo := make([]int, len(axes))
	for {
		values := make([]string, len(axes))
		variants := make(map[string]string, len(axes))
		for i, a := range axes {
			values[i] = a.Values[combo[i]]
			variants[a.Name] = a.Values[combo[i]]
		}
		instances = append(instances, newInstance(strings.Join(values, "-"), variants, tmpl))

		// Odometer increment, last axis fastest.
		i := len(axes) - 1
		for ; i >= 0; i-- {
			combo[i]++
			if combo[i] < len(axes[i].Values) {
				break
			}
			combo[i] = 0
		}
		if i < 0 {
			break
		}
	}

	return instances, nil
}

func newInstance(label string, variants map[string]string, tmpl Template) *job.Instance {
	// Each instance gets its own copy of the step list; instances are
	// mutated independently by their runners.
	steps := make([]job.Step, len(tmpl.Steps))
	copy(steps, tmpl.Steps)

	return &job.Instance{
		Label:    label,
		Variants: variants,
		Steps:    steps,
		State:    job.StatePending,
		Workdir:  tmpl.Workdir,
	}
}
