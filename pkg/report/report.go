// Package report collects the outcome of solving a batch of instances
// and renders it as JSON, YAML or a Markdown table.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/mitchellh/hashstructure"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/operator-framework/setcover/pkg/cover"
)

// Case is the outcome of solving one instance. Runtimes are in
// seconds.
type Case struct {
	Name        string      `json:"name" yaml:"name"`
	Runtime     float64     `json:"runtime" yaml:"runtime"`
	SetCount    int         `json:"set_count" yaml:"set_count"`
	SetIndices  []cover.ID  `json:"set_indices" yaml:"set_indices"`
	Feasible    bool        `json:"feasible" yaml:"feasible"`
	Optimal     bool        `json:"optimal" yaml:"optimal"`
	Fingerprint string      `json:"fingerprint" yaml:"fingerprint"`
	Stats       cover.Stats `json:"stats" yaml:"stats"`
}

// NewCase summarises r, the result of solving in.
func NewCase(name string, in *cover.Instance, r *cover.Result, runtime time.Duration) (Case, error) {
	fp, err := Fingerprint(in)
	if err != nil {
		return Case{}, err
	}
	return Case{
		Name:        name,
		Runtime:     runtime.Seconds(),
		SetCount:    len(r.Cover),
		SetIndices:  r.Cover,
		Feasible:    r.Feasible,
		Optimal:     r.Optimal,
		Fingerprint: fp,
		Stats:       r.Stats,
	}, nil
}

func (c Case) status() string {
	switch {
	case !c.Optimal:
		return "incomplete"
	case !c.Feasible:
		return "infeasible"
	}
	return "optimal"
}

type Report struct {
	RunID        string  `json:"run_id" yaml:"run_id"`
	Version      string  `json:"version" yaml:"version"`
	TotalRuntime float64 `json:"total_runtime" yaml:"total_runtime"`
	Cases        []Case  `json:"testcase_outputs" yaml:"testcase_outputs"`
}

// New returns an empty Report with a fresh run ID.
func New(version string) *Report {
	return &Report{
		RunID:   uuid.New().String(),
		Version: version,
		Cases:   []Case{},
	}
}

func (r *Report) Add(c Case) {
	r.Cases = append(r.Cases, c)
	r.TotalRuntime += c.Runtime
}

func (r *Report) WriteJSON(w io.Writer) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding report")
	}
	_, err = w.Write(append(data, '\n'))
	return errors.Wrap(err, "writing report")
}

func (r *Report) WriteYAML(w io.Writer) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return errors.Wrap(err, "encoding report")
	}
	_, err = w.Write(data)
	return errors.Wrap(err, "writing report")
}

// WriteMarkdown renders one row per Case followed by a Total row, with
// every column padded to a common width.
func (r *Report) WriteMarkdown(w io.Writer) error {
	rows := [][]string{{"Test Case", "Sets", "Runtime", "Status"}}
	for _, c := range r.Cases {
		sets := "-"
		if c.Feasible {
			sets = strconv.Itoa(c.SetCount)
		}
		rows = append(rows, []string{c.Name, sets, FormatRuntime(c.Runtime), c.status()})
	}
	rows = append(rows, []string{"Total", "", FormatRuntime(r.TotalRuntime), ""})

	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], utf8.RuneCountInString(cell))
		}
	}

	var b strings.Builder
	line := func(row []string) {
		b.WriteString("|")
		for i, cell := range row {
			fmt.Fprintf(&b, " %s%s |", cell, strings.Repeat(" ", widths[i]-utf8.RuneCountInString(cell)))
		}
		b.WriteString("\n")
	}
	line(rows[0])
	b.WriteString("|")
	for _, width := range widths {
		b.WriteString(strings.Repeat("-", width+2))
		b.WriteString("|")
	}
	b.WriteString("\n")
	for _, row := range rows[1:] {
		line(row)
	}

	_, err := io.WriteString(w, b.String())
	return errors.Wrap(err, "writing report")
}

// FormatRuntime formats a duration in seconds with an SI prefix and
// two decimals, for example "1.23 ms".
func FormatRuntime(seconds float64) string {
	return humanize.SIWithDigits(seconds, 2, "s")
}

type fingerprintSet struct {
	ID       int
	Elements []uint
}

type fingerprint struct {
	Universe uint
	Sets     []fingerprintSet
}

// Fingerprint returns a stable hash of the contents of in, so that
// reports from different runs can be matched case by case.
func Fingerprint(in *cover.Instance) (string, error) {
	fp := fingerprint{Universe: in.Universe()}
	for _, s := range in.Sets() {
		fp.Sets = append(fp.Sets, fingerprintSet{ID: int(s.ID), Elements: s.Elements.Slice()})
	}
	h, err := hashstructure.Hash(fp, nil)
	if err != nil {
		return "", errors.Wrap(err, "hashing instance")
	}
	return fmt.Sprintf("%016x", h), nil
}
