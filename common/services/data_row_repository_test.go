package services

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/LexiconIndonesia/datasource-catalog-service/common/csvparser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRowParams(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	records := []csvparser.Record{
		{"name": "Alice", "age": "30"},
		{"name": "Bob", "age": ""},
	}

	params, err := BuildRowParams("src-1", 100, records, now)
	require.NoError(t, err)
	require.Len(t, params, 2)

	ids := map[string]bool{}
	for i, p := range params {
		assert.Equal(t, "src-1", p.DataSourceID)
		assert.Equal(t, int64(100+i), p.RowNumber)
		assert.Equal(t, now, p.CreatedAt)
		assert.NotEmpty(t, p.ID)
		ids[p.ID] = true

		var decoded map[string]string
		require.NoError(t, json.Unmarshal(p.JsonData, &decoded))
		assert.Equal(t, map[string]string(records[i]), decoded)
	}
	assert.Len(t, ids, 2)
}

func TestBuildRowParamsEmpty(t *testing.T) {
	params, err := BuildRowParams("src-1", 0, nil, time.Now())
	require.NoError(t, err)
	assert.Empty(t, params)
}

func TestBuildRowParamsPastInt32(t *testing.T) {
	records := []csvparser.Record{{"a": "1"}, {"a": "2"}}

	params, err := BuildRowParams("src-1", math.MaxInt32, records, time.Now())
	require.NoError(t, err)
	require.Len(t, params, 2)
	assert.Equal(t, int64(math.MaxInt32), params[0].RowNumber)
	assert.Equal(t, int64(math.MaxInt32)+1, params[1].RowNumber)
}
