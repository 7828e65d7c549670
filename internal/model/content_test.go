package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentRequest_PostCount(t *testing.T) {
	var req ContentRequest
	assert.Equal(t, DefaultPostCount, req.PostCount())

	n := 3
	req.NumberOfPosts = &n
	assert.Equal(t, 3, req.PostCount())
}

func TestStringList_ValueScanRoundTrip(t *testing.T) {
	in := StringList{"growth", "local"}

	v, err := in.Value()
	require.NoError(t, err)

	var out StringList
	require.NoError(t, out.Scan(v))
	assert.Equal(t, in, out)
}

func TestStringList_NilHandling(t *testing.T) {
	var nilList StringList
	v, err := nilList.Value()
	require.NoError(t, err)
	assert.Equal(t, []byte("[]"), v)

	var out StringList
	require.NoError(t, out.Scan(nil))
	assert.Equal(t, StringList{}, out)
}
