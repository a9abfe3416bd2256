package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDurationUnmarshal(t *testing.T) {
	t.Run("integer minutes", func(t *testing.T) {
		var d Duration
		require.NoError(t, json.Unmarshal([]byte(`125`), &d))
		assert.True(t, d.IsInt)
		assert.Equal(t, 125, d.Minutes)
	})

	t.Run("free-form string", func(t *testing.T) {
		var d Duration
		require.NoError(t, json.Unmarshal([]byte(`"不详"`), &d))
		assert.False(t, d.IsInt)
		assert.Equal(t, "不详", d.Raw)
	})

	t.Run("null", func(t *testing.T) {
		var d Duration
		require.NoError(t, json.Unmarshal([]byte(`null`), &d))
		assert.False(t, d.IsInt)
		assert.Empty(t, d.Raw)
	})

	t.Run("wrong type", func(t *testing.T) {
		var d Duration
		assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &d))
	})
}

func TestDirectorUnmarshal(t *testing.T) {
	t.Run("object", func(t *testing.T) {
		var d Director
		require.NoError(t, json.Unmarshal([]byte(`{"id":"d1","name":"Some Director"}`), &d))
		assert.Equal(t, "Some Director", d.Name)
	})

	t.Run("plain string", func(t *testing.T) {
		var d Director
		require.NoError(t, json.Unmarshal([]byte(`"Another Director"`), &d))
		assert.Equal(t, "Another Director", d.Name)
	})

	t.Run("null", func(t *testing.T) {
		var d Director
		require.NoError(t, json.Unmarshal([]byte(`null`), &d))
		assert.Empty(t, d.Name)
	})
}

func TestMovieDetailDecode(t *testing.T) {
	body := `{
		"id":"ABC-123","title":"First Movie","date":"2023-01-01","tags":["tag1"],
		"img":"https://www.javbus.com/pics/cover/abc123.jpg",
		"videoLength":125,
		"director":{"name":"Some Director"},
		"stars":[{"id":"s1","name":"Star One"}],
		"gid":"gid-1","uc":"uc-1"}`

	var detail MovieDetail
	require.NoError(t, json.Unmarshal([]byte(body), &detail))
	assert.Equal(t, "ABC-123", detail.ID)
	assert.True(t, detail.HasMagnetSession())
	assert.Equal(t, 125, detail.VideoLength.Minutes)
	assert.Equal(t, "Some Director", detail.Director.Name)
	require.Len(t, detail.Stars, 1)
	assert.Equal(t, "s1", detail.Stars[0].ID)
}

func TestMovieDetailWithoutMagnetSession(t *testing.T) {
	var detail MovieDetail
	require.NoError(t, json.Unmarshal([]byte(`{"id":"DEF-456","gid":"only-gid"}`), &detail))
	assert.False(t, detail.HasMagnetSession())
}
