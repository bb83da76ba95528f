// Package instance reads and writes set cover instances in the plain
// text format used by the benchmark test cases:
//
//	N
//	M
//	e e e ...
//
// N is the number of elements and M the number of sets. Each of the
// following M lines lists the elements of one set, separated by white
// space. Elements are 1-based unless WithBase says otherwise.
package instance

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/operator-framework/setcover/pkg/cover"
	"github.com/operator-framework/setcover/pkg/lib/bitset"
)

// maxLineSize bounds the length of a single set line.
const maxLineSize = 64 << 20

// ErrMissingHeader is wrapped in a ParseError when the input ends
// before both header lines have been read.
var ErrMissingHeader = errors.New("missing header")

// ParseError reports a malformed line.
type ParseError struct {
	Line  int
	Token string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("line %d: invalid token %q: %v", e.Line, e.Token, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// RangeError reports an element that lies outside the universe.
type RangeError struct {
	Line  int
	Value int
	// Max is the largest element accepted in the input's numbering.
	Max int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("line %d: element %d is out of range (max %d)", e.Line, e.Value, e.Max)
}

// ConsistencyError reports a header that disagrees with the body.
type ConsistencyError struct {
	Declared int
	Actual   int
	What     string
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("header declares %d %s but %d were found", e.Declared, e.What, e.Actual)
}

type reader struct {
	base int
}

type Option func(r *reader) error

// WithBase sets the number of the first element, which must be 0 or
// 1. The default is 1.
func WithBase(base int) Option {
	return func(r *reader) error {
		if base != 0 && base != 1 {
			return fmt.Errorf("element base must be 0 or 1, got %d", base)
		}
		r.base = base
		return nil
	}
}

func newReader(options ...Option) (*reader, error) {
	r := reader{base: 1}
	for _, option := range options {
		if err := option(&r); err != nil {
			return nil, err
		}
	}
	return &r, nil
}

// Load reads the instance stored in the file at path.
func Load(path string, options ...Option) (*cover.Instance, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening instance %s", path)
	}
	defer f.Close()

	in, err := Read(f, options...)
	if err != nil {
		return nil, errors.Wrapf(err, "loading instance %s", path)
	}
	return in, nil
}

// Read parses an instance from r. Set IDs are assigned from the
// position of each set line, starting at zero. An empty line is an
// empty set, except that blank lines at the end of the input beyond
// the declared set count are ignored.
func Read(r io.Reader, options ...Option) (*cover.Instance, error) {
	opts, err := newReader(options...)
	if err != nil {
		return nil, err
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	line := 0

	header := func() (int, error) {
		for scanner.Scan() {
			line++
			token := strings.TrimSpace(scanner.Text())
			if token == "" {
				continue
			}
			n, err := strconv.ParseUint(token, 10, 31)
			if err != nil {
				return 0, &ParseError{Line: line, Token: token, Err: err}
			}
			return int(n), nil
		}
		if err := scanner.Err(); err != nil {
			return 0, errors.Wrap(err, "reading header")
		}
		return 0, &ParseError{Line: line + 1, Err: ErrMissingHeader}
	}

	universe, err := header()
	if err != nil {
		return nil, err
	}
	declared, err := header()
	if err != nil {
		return nil, err
	}

	sets := make([]cover.Set, 0, declared)
	blank := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			blank++
			continue
		}
		for ; blank > 0; blank-- {
			sets = append(sets, cover.Set{ID: cover.ID(len(sets)), Elements: bitset.New(uint(universe))})
		}

		elements := bitset.New(uint(universe))
		for _, token := range fields {
			v, err := strconv.Atoi(token)
			if err != nil {
				return nil, &ParseError{Line: line, Token: token, Err: err}
			}
			if v < opts.base || v >= universe+opts.base {
				return nil, &RangeError{Line: line, Value: v, Max: universe - 1 + opts.base}
			}
			elements.SetTo(uint(v-opts.base), true)
		}
		sets = append(sets, cover.Set{ID: cover.ID(len(sets)), Elements: elements})
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "reading line %d", line+1)
	}
	// Trailing blank lines still count as empty sets up to the declared
	// number.
	for ; blank > 0 && len(sets) < declared; blank-- {
		sets = append(sets, cover.Set{ID: cover.ID(len(sets)), Elements: bitset.New(uint(universe))})
	}

	if len(sets) != declared {
		return nil, &ConsistencyError{Declared: declared, Actual: len(sets), What: "sets"}
	}
	return cover.NewInstance(uint(universe), sets), nil
}

// Write encodes in using 1-based elements. Sets are written in the
// order of in.Sets(); their IDs are not preserved.
func Write(w io.Writer, in *cover.Instance) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d\n%d\n", in.Universe(), in.Len())

	var buf []byte
	for _, set := range in.Sets() {
		buf = buf[:0]
		for e := range set.Elements.Ones() {
			if len(buf) > 0 {
				buf = append(buf, ' ')
			}
			buf = strconv.AppendUint(buf, uint64(e)+1, 10)
		}
		buf = append(buf, '\n')
		if _, err := bw.Write(buf); err != nil {
			return errors.Wrap(err, "writing instance")
		}
	}
	return errors.Wrap(bw.Flush(), "writing instance")
}
