package instance

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/pkg/errors"

	"github.com/operator-framework/setcover/pkg/cover"
)

func elements(in *cover.Instance) [][]uint {
	var result [][]uint
	for _, s := range in.Sets() {
		result = append(result, s.Elements.Slice())
	}
	return result
}

var _ = Describe("Read", func() {
	It("translates 1-based elements", func() {
		in, err := Read(strings.NewReader("4\n3\n1 2\n2 3\n3 4\n"))
		Expect(err).ToNot(HaveOccurred())
		Expect(in.Universe()).To(Equal(uint(4)))
		Expect(in.Len()).To(Equal(3))
		Expect(elements(in)).To(Equal([][]uint{{0, 1}, {1, 2}, {2, 3}}))
	})

	It("assigns IDs by line position", func() {
		in, err := Read(strings.NewReader("2\n2\n2\n1\n"))
		Expect(err).ToNot(HaveOccurred())
		for i, s := range in.Sets() {
			Expect(s.ID).To(Equal(cover.ID(i)))
		}
	})

	It("accepts 0-based elements", func() {
		in, err := Read(strings.NewReader("3\n1\n0 2\n"), WithBase(0))
		Expect(err).ToNot(HaveOccurred())
		Expect(elements(in)).To(Equal([][]uint{{0, 2}}))
	})

	It("rejects other bases", func() {
		_, err := Read(strings.NewReader("1\n1\n1\n"), WithBase(2))
		Expect(err).To(MatchError(ContainSubstring("must be 0 or 1")))
	})

	It("accepts a missing final newline", func() {
		in, err := Read(strings.NewReader("2\n1\n1 2"))
		Expect(err).ToNot(HaveOccurred())
		Expect(elements(in)).To(Equal([][]uint{{0, 1}}))
	})

	It("tolerates repeated elements and extra white space", func() {
		in, err := Read(strings.NewReader(" 3 \n1\n\t3  1 3 \n"))
		Expect(err).ToNot(HaveOccurred())
		Expect(elements(in)).To(Equal([][]uint{{0, 2}}))
	})

	It("reads empty lines as empty sets", func() {
		in, err := Read(strings.NewReader("2\n3\n\n1 2\n\n"))
		Expect(err).ToNot(HaveOccurred())
		Expect(elements(in)).To(Equal([][]uint{{}, {0, 1}, {}}))
	})

	It("ignores trailing blank lines", func() {
		in, err := Read(strings.NewReader("2\n1\n1 2\n\n\n"))
		Expect(err).ToNot(HaveOccurred())
		Expect(in.Len()).To(Equal(1))
	})

	It("reads an empty universe", func() {
		in, err := Read(strings.NewReader("0\n0\n"))
		Expect(err).ToNot(HaveOccurred())
		Expect(in.Universe()).To(BeZero())
		Expect(in.Len()).To(BeZero())
	})

	DescribeTable("malformed headers",
		func(input string, line int) {
			_, err := Read(strings.NewReader(input))
			var perr *ParseError
			Expect(errors.As(err, &perr)).To(BeTrue())
			Expect(perr.Line).To(Equal(line))
		},
		Entry("empty input", "", 1),
		Entry("missing set count", "3\n", 2),
		Entry("non-numeric element count", "three\n1\n1\n", 1),
		Entry("negative set count", "3\n-1\n", 2),
	)

	It("reports missing headers", func() {
		_, err := Read(strings.NewReader("3"))
		Expect(errors.Is(err, ErrMissingHeader)).To(BeTrue())
	})

	It("reports the offending token", func() {
		_, err := Read(strings.NewReader("3\n2\n1 2\n2 x\n"))
		var perr *ParseError
		Expect(errors.As(err, &perr)).To(BeTrue())
		Expect(perr.Line).To(Equal(4))
		Expect(perr.Token).To(Equal("x"))
		Expect(errors.Is(err, strconv.ErrSyntax)).To(BeTrue())
		Expect(err).To(MatchError(`line 4: invalid token "x": strconv.Atoi: parsing "x": invalid syntax`))
	})

	DescribeTable("elements outside the universe",
		func(input string, base int, value, max int) {
			_, err := Read(strings.NewReader(input), WithBase(base))
			var rerr *RangeError
			Expect(errors.As(err, &rerr)).To(BeTrue())
			Expect(rerr.Line).To(Equal(3))
			Expect(rerr.Value).To(Equal(value))
			Expect(rerr.Max).To(Equal(max))
		},
		Entry("zero with base 1", "3\n1\n0 1\n", 1, 0, 3),
		Entry("past the end with base 1", "3\n1\n1 4\n", 1, 4, 3),
		Entry("past the end with base 0", "3\n1\n3\n", 0, 3, 2),
		Entry("negative", "3\n1\n-1\n", 0, -1, 2),
	)

	DescribeTable("set count mismatches",
		func(input string, declared, actual int) {
			_, err := Read(strings.NewReader(input))
			var cerr *ConsistencyError
			Expect(errors.As(err, &cerr)).To(BeTrue())
			Expect(cerr.Declared).To(Equal(declared))
			Expect(cerr.Actual).To(Equal(actual))
			Expect(cerr.What).To(Equal("sets"))
		},
		Entry("too few", "2\n3\n1\n2\n", 3, 2),
		Entry("too many", "2\n1\n1\n2\n", 1, 2),
	)
})

var _ = Describe("Load", func() {
	var dir string

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
	})

	It("reads a file", func() {
		path := filepath.Join(dir, "s-c-3-2.txt")
		Expect(os.WriteFile(path, []byte("3\n2\n1 2\n3"), 0o644)).To(Succeed())
		in, err := Load(path)
		Expect(err).ToNot(HaveOccurred())
		Expect(elements(in)).To(Equal([][]uint{{0, 1}, {2}}))
	})

	It("names the file when it cannot be opened", func() {
		_, err := Load(filepath.Join(dir, "missing.txt"))
		Expect(err).To(MatchError(ContainSubstring("missing.txt")))
		Expect(errors.Is(err, os.ErrNotExist)).To(BeTrue())
	})

	It("keeps typed errors reachable", func() {
		path := filepath.Join(dir, "bad.txt")
		Expect(os.WriteFile(path, []byte("2\n1\n5\n"), 0o644)).To(Succeed())
		_, err := Load(path)
		var rerr *RangeError
		Expect(errors.As(err, &rerr)).To(BeTrue())
		Expect(err).To(MatchError(ContainSubstring("bad.txt")))
	})
})

var _ = Describe("Write", func() {
	It("produces what Read accepts", func() {
		const input = "5\n4\n1 3\n\n2 4 5\n5\n"
		in, err := Read(strings.NewReader(input))
		Expect(err).ToNot(HaveOccurred())

		var buf bytes.Buffer
		Expect(Write(&buf, in)).To(Succeed())
		Expect(buf.String()).To(Equal(input))

		again, err := Read(&buf)
		Expect(err).ToNot(HaveOccurred())
		Expect(elements(again)).To(Equal(elements(in)))
	})

	It("keeps trailing empty sets", func() {
		in, err := Read(strings.NewReader("2\n2\n1 2\n\n"))
		Expect(err).ToNot(HaveOccurred())
		Expect(in.Len()).To(Equal(2))

		var buf bytes.Buffer
		Expect(Write(&buf, in)).To(Succeed())
		again, err := Read(&buf)
		Expect(err).ToNot(HaveOccurred())
		Expect(again.Len()).To(Equal(2))
	})
})
