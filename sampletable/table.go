// Package sampletable streams a wide, tab-separated sample-by-taxon count
// matrix, providing random access to one row at a time by sample ordinal
// without materializing the whole matrix in memory.
package sampletable

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/evolbioinfo/ebd/ebderr"
	"github.com/rs/zerolog"
)

// Table indexes a sample-count stream: taxon names from the header, and the
// byte offset of every subsequent row, so Row(i) can seek directly to it.
type Table struct {
	taxa    []string
	samples []string
	offsets []int64

	src io.ReaderAt
	log zerolog.Logger
}

// Open reads the header from r (an io.Reader that is also positioned at the
// start of the stream) and indexes every subsequent row's byte offset. src
// must support random access (ReadAt) for later Row calls; typically both r
// and src wrap the same *os.File.
func Open(r io.Reader, src io.ReaderAt, log zerolog.Logger) (*Table, error) {
	br := bufio.NewReader(r)

	headerLine, err := readLine(br)
	if err != nil {
		return nil, ebderr.Wrap(ebderr.IO, err, "reading header line")
	}
	cells := strings.Split(headerLine, "\t")
	if len(cells) < 2 {
		return nil, ebderr.New(ebderr.InputFormat, "header line has no taxon columns")
	}
	taxa := make([]string, 0, len(cells)-1)
	seen := make(map[string]bool, len(cells)-1)
	for _, c := range cells[1:] {
		name := strings.TrimSpace(c)
		if seen[name] {
			return nil, ebderr.Newf(ebderr.InputFormat, "duplicate taxon name %q in header", name)
		}
		seen[name] = true
		taxa = append(taxa, name)
	}

	t := &Table{taxa: taxa, src: src, log: log}

	var offset int64 = int64(len(headerLine))
	for {
		line, err := readLine(br)
		if err == io.EOF && line == "" {
			break
		}
		if err != nil && err != io.EOF {
			return nil, ebderr.Wrap(ebderr.IO, err, "reading row line")
		}
		trimmed := strings.TrimRight(line, "\r\n")
		if strings.TrimSpace(trimmed) != "" {
			name, _, found := strings.Cut(trimmed, "\t")
			if !found {
				return nil, ebderr.Newf(ebderr.InputFormat, "row %q has no taxon values", trimmed)
			}
			t.samples = append(t.samples, name)
			t.offsets = append(t.offsets, offset)
		}
		offset += int64(len(line))
		if err == io.EOF {
			break
		}
	}
	return t, nil
}

// readLine returns the next line including its trailing '\n' (if any), and
// io.EOF once the stream is exhausted (with any final partial line
// returned alongside it).
func readLine(br *bufio.Reader) (string, error) {
	line, err := br.ReadString('\n')
	return line, err
}

// Taxa returns the ordered taxon names discovered from the header.
func (t *Table) Taxa() []string { return t.taxa }

// NumSamples returns the number of indexed rows.
func (t *Table) NumSamples() int { return len(t.samples) }

// SampleName returns the name of sample i.
func (t *Table) SampleName(i int) string { return t.samples[i] }

// SampleNames returns every sample name, in row order.
func (t *Table) SampleNames() []string { return append([]string(nil), t.samples...) }

// Row reads sample i's count vector, aligned with Taxa() order, and its
// total count. Reading the same row twice returns identical data.
func (t *Table) Row(i int) ([]float64, float64, error) {
	line, err := t.readRowLine(i)
	if err != nil {
		return nil, 0, err
	}
	return t.parseRow(line)
}

func (t *Table) readRowLine(i int) (string, error) {
	if i < 0 || i >= len(t.offsets) {
		return "", ebderr.Newf(ebderr.Config, "sample ordinal %d out of range [0,%d)", i, len(t.offsets))
	}
	// Grow the read window until a newline is found or the stream ends;
	// this keeps a single seek+read in the common case while still
	// coping with arbitrarily wide rows.
	size := 1 << 16
	for {
		buf := make([]byte, size)
		n, err := t.src.ReadAt(buf, t.offsets[i])
		if err != nil && err != io.EOF {
			return "", ebderr.Wrap(ebderr.IO, err, "reading row bytes")
		}
		data := buf[:n]
		if nl := indexByte(data, '\n'); nl >= 0 {
			return strings.TrimRight(string(data[:nl]), "\r"), nil
		}
		if err == io.EOF {
			return strings.TrimRight(string(data), "\r"), nil
		}
		size *= 2
	}
}

func indexByte(b []byte, c byte) int {
	for i, v := range b {
		if v == c {
			return i
		}
	}
	return -1
}

func (t *Table) parseRow(line string) ([]float64, float64, error) {
	cells := strings.Split(line, "\t")
	if len(cells) != len(t.taxa)+1 {
		return nil, 0, ebderr.Newf(ebderr.InputFormat, "row has %d columns, expected %d", len(cells), len(t.taxa)+1)
	}
	counts := make([]float64, len(t.taxa))
	var total float64
	for i, c := range cells[1:] {
		v, err := strconv.ParseFloat(strings.TrimSpace(c), 64)
		if err != nil {
			return nil, 0, ebderr.Wrapf(ebderr.InputFormat, err, "parsing value %q", c)
		}
		counts[i] = v
		total += v
	}
	return counts, total, nil
}

// TaxonIndex returns the column index of name, or -1 if absent.
func (t *Table) TaxonIndex(name string) int {
	for idx, n := range t.taxa {
		if n == name {
			return idx
		}
	}
	return -1
}
