package models

import (
	"errors"
	"fmt"
)

// StateVector is one frame's physical state as recorded by the simulator.
// Field meaning depends on the system that produced the trace; see Layout.
type StateVector []float64

// Trace is the recorded sequence of state vectors, indexed 0..N-1 with no gaps.
// Every record has the same arity. A trace is immutable once constructed.
type Trace struct {
	records []StateVector
	arity   int
}

// ErrArityMismatch is returned when a record does not have the trace's arity.
var ErrArityMismatch error = errors.New("state vector arity mismatch")

// ErrIndexOutOfRange is returned when a record is requested beyond the trace length.
var ErrIndexOutOfRange error = errors.New("frame index out of range")

// NewTrace builds a trace from the passed records, which must all have @arity fields.
// The records are copied, so later changes by the caller are not observed.
func NewTrace(records []StateVector, arity int) (*Trace, error) {
	copied := make([]StateVector, len(records))
	for i, record := range records {
		if len(record) != arity {
			return nil, fmt.Errorf("record %d has %d fields, expected %d: %w",
				i, len(record), arity, ErrArityMismatch)
		}
		copied[i] = append(StateVector(nil), record...)
	}

	return &Trace{
		records: copied,
		arity:   arity,
	}, nil
}

// Len returns the number of records, N.
func (tr *Trace) Len() int {
	return len(tr.records)
}

// Arity returns the fixed number of fields per record.
func (tr *Trace) Arity() int {
	return tr.arity
}

// At returns the record at @index. The returned vector must not be modified.
func (tr *Trace) At(index int) (StateVector, error) {
	if index < 0 || index >= len(tr.records) {
		return nil, fmt.Errorf("index %d, trace length %d: %w", index, len(tr.records), ErrIndexOutOfRange)
	}
	return tr.records[index], nil
}

// Column returns every record's value for field @field, in index order.
func (tr *Trace) Column(field int) (values []float64) {
	values = make([]float64, len(tr.records))
	for i, record := range tr.records {
		values[i] = record[field]
	}
	return
}
