package weights

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darknet-ml/darknet/internal/graph"
)

const codecNet = `
[net]
width=4
height=4
channels=3
[convolutional]
filters=2
size=1
activation=linear
[maxpool]
size=2
stride=2
`

// createTestWeights builds a valid weight buffer for codecNet by hand:
// header, conv bias[2], conv kernel[2*3*1*1].
func createTestWeights(t *testing.T, seen int64) ([]byte, []float32) {
	t.Helper()
	buf := new(bytes.Buffer)
	order := binary.LittleEndian

	for _, v := range []int32{0, 2, 0} { // major, minor, revision
		require.NoError(t, binary.Write(buf, order, v))
	}
	require.NoError(t, binary.Write(buf, order, seen))

	values := []float32{0.5, -0.5, 1, 2, 3, 4, 5, 6}
	for _, v := range values {
		require.NoError(t, binary.Write(buf, order, math.Float32bits(v)))
	}
	return buf.Bytes(), values
}

func codecGraph(t *testing.T) *graph.Graph {
	t.Helper()
	return shapedGraph(t, codecNet)
}

func TestDecode(t *testing.T) {
	g := codecGraph(t)
	raw, values := createTestWeights(t, 32013)

	file, err := Decode(bytes.NewReader(raw), g)
	require.NoError(t, err)

	assert.Equal(t, int32(0), file.Header.Major)
	assert.Equal(t, int32(2), file.Header.Minor)
	assert.Equal(t, int64(32013), file.Header.Seen)
	assert.Zero(t, file.Trailing)

	assert.Equal(t, values[:2], file.Params.Get(0, SegmentBias))
	assert.Equal(t, values[2:], file.Params.Get(0, SegmentWeight))
	assert.Nil(t, file.Params.Get(1, SegmentBias)) // maxpool has none
}

func TestDecodeLegacyHeader(t *testing.T) {
	g := codecGraph(t)
	buf := new(bytes.Buffer)
	order := binary.LittleEndian

	// Version 0.1: seen is 32-bit.
	for _, v := range []int32{0, 1, 0, 12345} {
		require.NoError(t, binary.Write(buf, order, v))
	}
	for i := 0; i < 8; i++ {
		require.NoError(t, binary.Write(buf, order, float32(i)))
	}

	file, err := Decode(bytes.NewReader(buf.Bytes()), g)
	require.NoError(t, err)
	assert.Equal(t, int64(12345), file.Header.Seen)
}

func TestDecodeTruncated(t *testing.T) {
	g := codecGraph(t)
	raw, _ := createTestWeights(t, 0)

	// Drop the last two floats: the kernel segment comes up short.
	_, err := Decode(bytes.NewReader(raw[:len(raw)-8]), g)
	var terr *TruncatedError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, 0, terr.Node)
	assert.Equal(t, SegmentWeight, terr.Segment)
	assert.Equal(t, 24, terr.Want)
	assert.Equal(t, 16, terr.Got)
}

func TestDecodeTruncatedHeader(t *testing.T) {
	g := codecGraph(t)
	_, err := Decode(bytes.NewReader([]byte{1, 2, 3}), g)
	var terr *TruncatedError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, "header", terr.Segment)
}

func TestDecodeTrailingBytes(t *testing.T) {
	g := codecGraph(t)
	raw, _ := createTestWeights(t, 0)
	raw = append(raw, 0xDE, 0xAD, 0xBE, 0xEF, 0x00)

	file, err := Decode(bytes.NewReader(raw), g)
	require.NoError(t, err) // trailing bytes are non-fatal
	assert.Equal(t, 5, file.Trailing)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	g := codecGraph(t)
	params := make(Params)
	params.Set(0, SegmentBias, []float32{0.25, -0.25})
	params.Set(0, SegmentWeight, []float32{1, -2, 3, -4, 5, -6})

	header := Header{Major: DefaultMajor, Minor: DefaultMinor, Seen: 64000}
	buf := new(bytes.Buffer)
	require.NoError(t, Encode(buf, g, header, params))

	file, err := Decode(bytes.NewReader(buf.Bytes()), g)
	require.NoError(t, err)
	assert.Equal(t, header, file.Header)
	assert.Zero(t, file.Trailing)
	assert.Equal(t, params.Get(0, SegmentBias), file.Params.Get(0, SegmentBias))
	assert.Equal(t, params.Get(0, SegmentWeight), file.Params.Get(0, SegmentWeight))
}

func TestEncodeLegacyRoundTrip(t *testing.T) {
	g := codecGraph(t)
	params := make(Params)
	params.Set(0, SegmentBias, []float32{1, 2})
	params.Set(0, SegmentWeight, []float32{1, 2, 3, 4, 5, 6})

	header := Header{Major: 0, Minor: 1, Seen: 777}
	buf := new(bytes.Buffer)
	require.NoError(t, Encode(buf, g, header, params))

	file, err := Decode(bytes.NewReader(buf.Bytes()), g)
	require.NoError(t, err)
	assert.Equal(t, int64(777), file.Header.Seen)
	assert.Zero(t, file.Trailing)
}

func TestEncodeMissingParameter(t *testing.T) {
	g := codecGraph(t)
	params := make(Params)
	params.Set(0, SegmentBias, []float32{1, 2})

	err := Encode(new(bytes.Buffer), g, Header{Minor: 2}, params)
	var merr *MissingParameterError
	require.ErrorAs(t, err, &merr)
	assert.Equal(t, 0, merr.Node)
	assert.Equal(t, SegmentWeight, merr.Segment)
}

func TestEncodeSizeMismatch(t *testing.T) {
	g := codecGraph(t)
	params := make(Params)
	params.Set(0, SegmentBias, []float32{1, 2, 3}) // want 2
	params.Set(0, SegmentWeight, make([]float32, 6))

	err := Encode(new(bytes.Buffer), g, Header{Minor: 2}, params)
	var serr *SizeMismatchError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, SegmentBias, serr.Segment)
	assert.Equal(t, 2, serr.Want)
	assert.Equal(t, 3, serr.Got)
}

func TestEncodeValidatesBeforeWriting(t *testing.T) {
	g := codecGraph(t)
	buf := new(bytes.Buffer)
	err := Encode(buf, g, Header{Minor: 2}, make(Params))
	require.Error(t, err)
	assert.Zero(t, buf.Len())
}
