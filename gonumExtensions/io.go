package gonumExtensions

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// ReadDense parses a text matrix: one row per line, values separated by
// whitespace or commas. Empty lines and lines starting with '#' are skipped.
// All rows must have the same number of values.
func ReadDense(r io.Reader) (*mat.Dense, error) {
	var (
		data []float64
		rows int
		cols = -1
		line int
	)
	scanner := bufio.NewScanner(r)
	// Basis files easily exceed the default token size
	scanner.Buffer(make([]byte, 0, 1<<16), 1<<28)
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.FieldsFunc(text, func(c rune) bool {
			return c == ',' || c == ' ' || c == '\t'
		})
		if cols == -1 {
			cols = len(fields)
		} else if len(fields) != cols {
			return nil, errors.Errorf("line %d: expected %d values, got %d", line, cols, len(fields))
		}
		for _, field := range fields {
			value, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "line %d", line)
			}
			data = append(data, value)
		}
		rows++
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "read matrix")
	}
	if rows == 0 || cols == 0 {
		return nil, errors.New("empty matrix")
	}
	return mat.NewDense(rows, cols, data), nil
}

// ReadDenseFile opens filename and parses it with ReadDense.
func ReadDenseFile(filename string) (*mat.Dense, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := ReadDense(f)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", filename)
	}
	return m, nil
}

// WriteDense writes matrix in the format read by ReadDense.
func WriteDense(w io.Writer, matrix mat.Matrix) error {
	bw := bufio.NewWriter(w)
	m, n := matrix.Dims()
	for row := 0; row < m; row++ {
		for col := 0; col < n; col++ {
			if col > 0 {
				if err := bw.WriteByte(' '); err != nil {
					return err
				}
			}
			if _, err := bw.WriteString(strconv.FormatFloat(matrix.At(row, col), 'g', -1, 64)); err != nil {
				return err
			}
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteDenseFile writes matrix to filename, truncating it if it exists.
func WriteDenseFile(filename string, matrix mat.Matrix) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := WriteDense(f, matrix); err != nil {
		f.Close()
		return errors.Wrapf(err, "write %s", filename)
	}
	return f.Close()
}
