package db

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/bscode-watanabejun/nasreco-visiting-nursing-sub003/internal/model"
)

func TestChannelSource(t *testing.T) {
	id := uuid.New()
	ch := make(chan *model.ExportLine, 2)
	ch <- &model.ExportLine{ExportID: id, LineNumber: 1, RecordKind: "HM", Content: "HM,1\r\n"}
	ch <- &model.ExportLine{ExportID: id, LineNumber: 2, RecordKind: "GO", Content: "GO\r\n"}
	close(ch)

	src := NewChannelSource[*model.ExportLine](ch)
	var got [][]any
	for src.Next() {
		v, err := src.Values()
		assert.NoError(t, err)
		got = append(got, v)
	}
	assert.NoError(t, src.Err())
	assert.Equal(t, int64(2), src.Rows())
	assert.Equal(t, []any{id, int64(2), "GO", "GO\r\n"}, got[1])
}

func TestMigrationNames(t *testing.T) {
	names, err := MigrationNames()
	assert.NoError(t, err)
	assert.Equal(t, []string{"001_export_history.sql", "002_export_period_index.sql"}, names)
}
