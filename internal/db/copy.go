package db

import (
	"github.com/jackc/pgx/v5"

	"github.com/bscode-watanabejun/nasreco-visiting-nursing-sub003/internal/model"
)

// CopyRow is a value that can be COPY-loaded; CopyValues must follow the
// column order handed to CopyFrom.
type CopyRow interface {
	CopyValues() []any
}

// ChannelSource implements pgx.CopyFromSource by reading rows from a channel
// fed by a producer goroutine. The channel's buffer bounds how far the
// producer runs ahead of the COPY stream.
type ChannelSource[T CopyRow] struct {
	ch      <-chan T
	current T
	rows    int64
}

// NewChannelSource creates a CopyFromSource backed by ch.
func NewChannelSource[T CopyRow](ch <-chan T) *ChannelSource[T] {
	return &ChannelSource[T]{ch: ch}
}

// Next advances to the next row. Returns false when the channel is closed.
func (s *ChannelSource[T]) Next() bool {
	row, ok := <-s.ch
	if !ok {
		return false
	}
	s.current = row
	s.rows++
	return true
}

// Values returns the current row's values in COPY column order.
func (s *ChannelSource[T]) Values() ([]any, error) {
	return s.current.CopyValues(), nil
}

// Err is always nil; producer failures travel on the producer's own channel.
func (s *ChannelSource[T]) Err() error {
	return nil
}

// Rows reports how many rows have been handed to COPY so far.
func (s *ChannelSource[T]) Rows() int64 {
	return s.rows
}

var _ pgx.CopyFromSource = (*ChannelSource[*model.ExportLine])(nil)
