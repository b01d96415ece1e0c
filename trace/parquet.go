// trace reads and writes simulation traces stored as parquet, one row per frame.
package trace

import (
	"fmt"
	"os"

	"github.com/Otago-Computing-Students-Society/FoosballGeneticLearning/models"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/reader"
	"github.com/xitongsys/parquet-go/writer"
)

// DefaultPath is where the trainer writes the best agent's simulation.
const DefaultPath = "data/BestAgentSimulation.pq"

// Row is the on-disk schema written by the trainer's simulation collector.
type Row struct {
	StateIndex  int32     `parquet:"name=StateIndex, type=INT32"`
	StateVector []float64 `parquet:"name=StateVector, type=DOUBLE, repetitiontype=REPEATED"`
}

// Parallelism of the parquet column readers and writers.
const np = 4

// Load reads every row of the parquet file at @path, in file order, into a trace
// of the given arity. A missing file yields an error satisfying errors.Is(err, fs.ErrNotExist).
func Load(path string, arity int) (*models.Trace, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("trace: %w", err)
	}

	fr, err := local.NewLocalFileReader(path)
	if err != nil {
		return nil, fmt.Errorf("trace: open %s: %w", path, err)
	}
	defer fr.Close()

	pr, err := reader.NewParquetReader(fr, new(Row), np)
	if err != nil {
		return nil, fmt.Errorf("trace: read footer of %s: %w", path, err)
	}
	defer pr.ReadStop()

	rows := make([]Row, int(pr.GetNumRows()))
	if err = pr.Read(&rows); err != nil {
		return nil, fmt.Errorf("trace: read rows of %s: %w", path, err)
	}

	records := make([]models.StateVector, len(rows))
	for i, row := range rows {
		records[i] = row.StateVector
	}

	trace, err := models.NewTrace(records, arity)
	if err != nil {
		return nil, fmt.Errorf("trace: %s: %w", path, err)
	}
	return trace, nil
}

// Write stores @records at @path with the trainer's schema, replacing any existing file.
// Playback never writes traces; this exists to produce fixtures and sample data.
func Write(path string, records []models.StateVector) (err error) {
	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return fmt.Errorf("trace: create %s: %w", path, err)
	}
	defer func() {
		if closeErr := fw.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	pw, err := writer.NewParquetWriter(fw, new(Row), np)
	if err != nil {
		return fmt.Errorf("trace: schema: %w", err)
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	for i, record := range records {
		if err = pw.Write(Row{StateIndex: int32(i), StateVector: record}); err != nil {
			return fmt.Errorf("trace: write row %d: %w", i, err)
		}
	}

	if err = pw.WriteStop(); err != nil {
		return fmt.Errorf("trace: flush %s: %w", path, err)
	}
	return nil
}
