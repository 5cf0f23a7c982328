package layer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darknet-ml/darknet/internal/cfg"
)

func mapText(t *testing.T, text string, opts Options) ([]Config, error) {
	t.Helper()
	sections, err := cfg.DecodeString(text)
	require.NoError(t, err)
	return Map(sections, opts)
}

func TestMapNet(t *testing.T) {
	configs, err := mapText(t, `
[net]
batch=64
subdivisions=16
width=416
height=416
channels=3
momentum=0.949
decay=0.0005
learning_rate=0.001
max_batches=500500
burn_in=1000
policy=steps
steps=400000,450000
`, Options{})
	require.NoError(t, err)
	require.Len(t, configs, 1)

	net, ok := configs[0].(*Net)
	require.True(t, ok)
	assert.Equal(t, KindNet, net.Kind())
	assert.Equal(t, 0, net.Index())
	assert.Equal(t, 416, net.Width)
	assert.Equal(t, 416, net.Height)
	assert.Equal(t, 3, net.Channels)
	assert.Equal(t, 64, net.Batch)
	assert.Equal(t, 0.949, net.Momentum)
	assert.Equal(t, 500500, net.MaxBatches)

	// Uninterpreted keys survive verbatim.
	assert.Equal(t, "steps", net.Extra["policy"])
	assert.Equal(t, "400000,450000", net.Extra["steps"])
}

func TestMapNetFlatInputs(t *testing.T) {
	configs, err := mapText(t, "[net]\ninputs=784\n", Options{})
	require.NoError(t, err)
	net := configs[0].(*Net)
	assert.Equal(t, 784, net.Channels)
	assert.Equal(t, 1, net.Height)
	assert.Equal(t, 1, net.Width)
}

func TestMapNetMissingShape(t *testing.T) {
	_, err := mapText(t, "[net]\nbatch=1\n", Options{})
	var ferr *InvalidFieldError
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, 0, ferr.Block)
}

func TestMapConvolutional(t *testing.T) {
	configs, err := mapText(t, `
[net]
width=416
height=416
channels=3
[convolutional]
batch_normalize=1
filters=32
size=3
stride=1
pad=1
activation=leaky
`, Options{})
	require.NoError(t, err)
	require.Len(t, configs, 2)

	conv, ok := configs[1].(*Convolutional)
	require.True(t, ok)
	assert.Equal(t, 1, conv.Index())
	assert.Equal(t, 32, conv.Filters)
	assert.Equal(t, 3, conv.Size)
	assert.Equal(t, 1, conv.Stride)
	assert.Equal(t, 1, conv.Padding) // pad=1 -> size/2
	assert.Equal(t, 1, conv.Groups)
	assert.True(t, conv.BatchNormalize)
	assert.Equal(t, ActivationLeaky, conv.Activation)
}

func TestMapConvolutionalExplicitPadding(t *testing.T) {
	configs, err := mapText(t, "[convolutional]\nfilters=8\nsize=3\npadding=2\nactivation=linear\n", Options{})
	require.NoError(t, err)
	conv := configs[0].(*Convolutional)
	assert.Equal(t, 2, conv.Padding)
}

func TestMapConvolutionalInvalid(t *testing.T) {
	tests := []struct {
		name string
		text string
		key  string
	}{
		{"missing filters", "[convolutional]\nsize=3\n", "filters"},
		{"negative size", "[convolutional]\nfilters=8\nsize=-3\n", "size"},
		{"bad integer", "[convolutional]\nfilters=eight\nsize=3\n", "filters"},
		{"bad activation", "[convolutional]\nfilters=8\nsize=3\nactivation=warp\n", "activation"},
		{"bad bool", "[convolutional]\nfilters=8\nsize=3\nbatch_normalize=yes\n", "batch_normalize"},
		{"dilation with size 1", "[convolutional]\nfilters=8\nsize=1\ndilation=2\n", "dilation"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := mapText(t, tt.text, Options{})
			var ferr *InvalidFieldError
			require.ErrorAs(t, err, &ferr)
			assert.Equal(t, tt.key, ferr.Key)
		})
	}
}

func TestMapMaxPoolDefaults(t *testing.T) {
	configs, err := mapText(t, "[maxpool]\nstride=2\n", Options{})
	require.NoError(t, err)
	mp := configs[0].(*MaxPool)
	assert.Equal(t, 2, mp.Stride)
	assert.Equal(t, 2, mp.Size)    // size defaults to stride
	assert.Equal(t, 1, mp.Padding) // padding defaults to size-1
}

func TestMapRoute(t *testing.T) {
	configs, err := mapText(t, "[route]\nlayers=-1, 8\n", Options{})
	require.NoError(t, err)
	rt := configs[0].(*Route)
	assert.Equal(t, []int{-1, 8}, rt.Layers)
	assert.Equal(t, 1, rt.Groups)
	assert.Equal(t, 0, rt.GroupID)
}

func TestMapRouteInvalid(t *testing.T) {
	_, err := mapText(t, "[route]\n", Options{})
	var ferr *InvalidFieldError
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, "layers", ferr.Key)

	_, err = mapText(t, "[route]\nlayers=-1\ngroups=2\ngroup_id=2\n", Options{})
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, "group_id", ferr.Key)
}

func TestMapShortcut(t *testing.T) {
	configs, err := mapText(t, "[shortcut]\nfrom=-3\nactivation=linear\n", Options{})
	require.NoError(t, err)
	sc := configs[0].(*Shortcut)
	assert.Equal(t, -3, sc.From)
	assert.Equal(t, ShortcutWeightsNone, sc.WeightsType)
}

func TestMapShortcutMultipleFrom(t *testing.T) {
	_, err := mapText(t, "[shortcut]\nfrom=-3,-5\n", Options{})
	var ferr *InvalidFieldError
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, "from", ferr.Key)
}

func TestMapUpsample(t *testing.T) {
	configs, err := mapText(t, "[upsample]\nstride=2\n", Options{})
	require.NoError(t, err)
	up := configs[0].(*Upsample)
	assert.Equal(t, 2, up.Stride)
	assert.False(t, up.Reverse)
}

func TestMapYolo(t *testing.T) {
	configs, err := mapText(t, `
[yolo]
mask=0,1,2
anchors=10,13, 16,30, 33,23, 30,61, 62,45, 59,119, 116,90, 156,198, 373,326
classes=80
num=9
jitter=.3
ignore_thresh=.7
`, Options{})
	require.NoError(t, err)
	y := configs[0].(*Yolo)
	assert.Equal(t, 80, y.Classes)
	assert.Equal(t, 9, y.Num)
	assert.Equal(t, []int{0, 1, 2}, y.Mask)
	require.Len(t, y.Anchors, 9)
	assert.Equal(t, [2]int{10, 13}, y.Anchors[0])
	assert.Equal(t, [2]int{373, 326}, y.Anchors[8])
	assert.InDelta(t, 0.7, y.IgnoreThresh, 1e-9)
}

func TestMapYoloOddAnchors(t *testing.T) {
	_, err := mapText(t, "[yolo]\nanchors=10,13,16\n", Options{})
	var ferr *InvalidFieldError
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, "anchors", ferr.Key)
}

func TestMapUnknownKind(t *testing.T) {
	configs, err := mapText(t, "[gaussian_yolo]\nclasses=80\nsigma=0.5\n", Options{})
	require.NoError(t, err)
	u, ok := configs[0].(*Unknown)
	require.True(t, ok)
	assert.Equal(t, KindUnknown, u.Kind())
	assert.Equal(t, "gaussian_yolo", u.Name)
	require.Len(t, u.Fields, 2)
	assert.Equal(t, "sigma", u.Fields[1].Key)
	assert.Equal(t, "0.5", u.Fields[1].Value)
}

func TestMapUnknownKindInvalidCommonOption(t *testing.T) {
	// Common options are validated even on pass-through sections.
	_, err := mapText(t, "[gaussian_yolo]\nclasses=80\ndontload=2\n", Options{})
	var ferr *InvalidFieldError
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, "dontload", ferr.Key)
	assert.Equal(t, 0, ferr.Block)
}

func TestMapUnknownKindStrict(t *testing.T) {
	_, err := mapText(t, "[gaussian_yolo]\nclasses=80\n", Options{Strict: true})
	var kerr *UnknownKindError
	require.ErrorAs(t, err, &kerr)
	assert.Equal(t, "gaussian_yolo", kerr.Name)
	assert.Equal(t, 0, kerr.Block)
}

func TestMapCommonOptions(t *testing.T) {
	configs, err := mapText(t, "[convolutional]\nfilters=8\nsize=1\ndontload=1\ndontloadscales=1\nstopbackward=1\n", Options{})
	require.NoError(t, err)
	common := configs[0].Options()
	assert.True(t, common.DontLoad)
	assert.True(t, common.DontLoadScales)
	assert.True(t, common.StopBackward)
	assert.Equal(t, 1.0, common.LearningRateScale)
}
