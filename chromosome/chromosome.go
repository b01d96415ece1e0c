// chromosome decodes the best agent's chromosome, a gonum dense matrix
// serialized by the trainer with mat.Dense.MarshalBinary.
package chromosome

import (
	"bufio"
	"fmt"
	"os"

	"gonum.org/v1/gonum/mat"
)

// DefaultPath is where the trainer saves the best agent's chromosome.
const DefaultPath = "data/bestAgentChromosome.bin"

// Load decodes the matrix stored at @path.
// A missing file yields an error satisfying errors.Is(err, fs.ErrNotExist).
func Load(path string) (*mat.Dense, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("chromosome: %w", err)
	}
	defer f.Close()

	m := &mat.Dense{}
	if _, err = m.UnmarshalBinaryFrom(bufio.NewReader(f)); err != nil {
		return nil, fmt.Errorf("chromosome: decode %s: %w", path, err)
	}
	return m, nil
}

// Save writes @m at @path in the same binary format Load reads.
func Save(path string, m *mat.Dense) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("chromosome: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	w := bufio.NewWriter(f)
	if _, err = m.MarshalBinaryTo(w); err != nil {
		return fmt.Errorf("chromosome: encode %s: %w", path, err)
	}
	return w.Flush()
}

// Format renders @m for the console, one matrix row per line.
func Format(m mat.Matrix) string {
	return fmt.Sprintf("%v", mat.Formatted(m, mat.Squeeze()))
}
