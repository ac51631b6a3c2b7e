package weather

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCurrent(t *testing.T) {
	payload := json.RawMessage(`{"name":"Lagos","rain":{"1h":3.2,"3h":7.1},"main":{"temp":27.4}}`)

	r, err := ReadCurrent(payload)
	require.NoError(t, err)
	assert.Equal(t, "Lagos", r.Name)
	assert.InDelta(t, 3.2, r.Rain.OneHour, 1e-9)
}

func TestReadCurrentWithoutRain(t *testing.T) {
	r, err := ReadCurrent(json.RawMessage(`{"name":"Cairo"}`))
	require.NoError(t, err)
	assert.Zero(t, r.Rain.OneHour)
}

func TestReadCurrentMalformed(t *testing.T) {
	_, err := ReadCurrent(json.RawMessage(`not json`))
	assert.Error(t, err)
}

func TestCacheKey(t *testing.T) {
	c := Coordinates{Lat: "6.5", Lon: "3.3"}
	assert.Equal(t, "current:6.5:3.3", CacheKey(QueryCurrent, c))
	assert.Equal(t, "forecast:6.5:3.3", CacheKey(QueryForecast, c))
}
