package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, "2024-02-29", d.String())

	_, err = ParseDate("29/02/2024")
	assert.Error(t, err)

	_, err = ParseDate("2023-02-29")
	assert.Error(t, err)
}

func TestDate_Scan(t *testing.T) {
	var d Date

	require.NoError(t, d.Scan("2024-03-01"))
	assert.Equal(t, NewDate(2024, time.March, 1), d)

	require.NoError(t, d.Scan([]byte("2024-03-02")))
	assert.Equal(t, "2024-03-02", d.String())

	require.NoError(t, d.Scan(time.Date(2024, time.March, 3, 15, 4, 5, 0, time.UTC)))
	assert.Equal(t, "2024-03-03", d.String())

	require.NoError(t, d.Scan("2024-03-04T00:00:00Z"))
	assert.Equal(t, "2024-03-04", d.String())

	require.NoError(t, d.Scan(nil))
	assert.True(t, d.IsZero())

	assert.Error(t, d.Scan(42))
}

func TestDate_JSON(t *testing.T) {
	type payload struct {
		Date Date `json:"date"`
	}

	b, err := json.Marshal(payload{Date: NewDate(2024, time.January, 5)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"2024-01-05"}`, string(b))

	var p payload
	require.NoError(t, json.Unmarshal([]byte(`{"date":"2024-12-31"}`), &p))
	assert.Equal(t, "2024-12-31", p.Date.String())

	assert.Error(t, json.Unmarshal([]byte(`{"date":"31-12-2024"}`), &p))
}
