package harmonics

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
)

// csvHeader is the fixed column layout of the coefficient interchange
// format. The magnitude column is redundant — always recomputable from
// real/imag — and is carried for human inspection only.
var csvHeader = []string{"l", "m", "real", "imag", "magnitude"}

// WriteCSV writes the coefficient set in the tabular interchange format,
// sorted by degree then order. Floats are formatted with full precision so
// that a read-back reproduces the exact same bits.
func WriteCSV(w io.Writer, c CoefficientSet) error {
	indices := make([]Index, 0, len(c))
	for idx := range c {
		indices = append(indices, idx)
	}
	sort.Slice(indices, func(i, j int) bool {
		if indices[i].L != indices[j].L {
			return indices[i].L < indices[j].L
		}
		return indices[i].M < indices[j].M
	})

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("harmonics: write csv header: %w", err)
	}
	for _, idx := range indices {
		v := c[idx]
		row := []string{
			strconv.Itoa(idx.L),
			strconv.Itoa(idx.M),
			strconv.FormatFloat(real(v), 'g', -1, 64),
			strconv.FormatFloat(imag(v), 'g', -1, 64),
			strconv.FormatFloat(math.Hypot(real(v), imag(v)), 'g', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("harmonics: write csv row (l=%d m=%d): %w", idx.L, idx.M, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses the tabular interchange format back into a coefficient set.
// Coefficients are reconstructed from the real/imag columns; the magnitude
// column is cross-checked but never used as a value source.
func ReadCSV(r io.Reader) (CoefficientSet, error) {
	cr := csv.NewReader(r)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("harmonics: read coefficient csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: empty file", ErrBadCoefficientRow)
	}

	out := make(CoefficientSet, len(records)-1)
	for n, rec := range records[1:] {
		if len(rec) != len(csvHeader) {
			return nil, fmt.Errorf("%w: line %d has %d columns", ErrBadCoefficientRow, n+2, len(rec))
		}
		l, err := strconv.Atoi(rec[0])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: bad degree %q", ErrBadCoefficientRow, n+2, rec[0])
		}
		m, err := strconv.Atoi(rec[1])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: bad order %q", ErrBadCoefficientRow, n+2, rec[1])
		}
		re, err := strconv.ParseFloat(rec[2], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: bad real part %q", ErrBadCoefficientRow, n+2, rec[2])
		}
		im, err := strconv.ParseFloat(rec[3], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: bad imaginary part %q", ErrBadCoefficientRow, n+2, rec[3])
		}
		mag, err := strconv.ParseFloat(rec[4], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: bad magnitude %q", ErrBadCoefficientRow, n+2, rec[4])
		}
		if want := math.Hypot(re, im); !magnitudeConsistent(mag, want) {
			return nil, fmt.Errorf("%w: line %d: magnitude %g inconsistent with real/imag (%g)",
				ErrBadCoefficientRow, n+2, mag, want)
		}
		if l < 0 || m < -l || m > l {
			return nil, fmt.Errorf("%w: line %d: (l=%d, m=%d) out of range", ErrBadCoefficientRow, n+2, l, m)
		}
		out[Index{L: l, M: m}] = complex(re, im)
	}
	return out, nil
}

func magnitudeConsistent(got, want float64) bool {
	if want == 0 {
		return got == 0
	}
	return math.Abs(got-want) <= 1e-6*want
}

// SaveCSV writes the set to path atomically (temp file plus rename), so a
// reader never observes a half-written table.
func SaveCSV(path string, c CoefficientSet) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("harmonics: create temp coefficient file: %w", err)
	}
	if err := WriteCSV(tmp, c); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("harmonics: close temp coefficient file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("harmonics: replace coefficient file: %w", err)
	}
	return nil
}

// LoadCSV reads a coefficient set from path.
func LoadCSV(path string) (CoefficientSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("harmonics: open coefficient file: %w", err)
	}
	defer f.Close()
	return ReadCSV(f)
}

// DegreeSaver returns a Progress callback that rewrites path after every
// completed degree. Combined with Options.Resume on the set loaded from that
// file, an interrupted decomposition picks up at the first unfinished degree.
func DegreeSaver(path string) Progress {
	return func(l int, coeffs CoefficientSet) error {
		return SaveCSV(path, coeffs)
	}
}
