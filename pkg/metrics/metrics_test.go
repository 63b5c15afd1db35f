package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterTwice(t *testing.T) {
	r := prometheus.NewRegistry()
	assert.NotPanics(t, func() {
		Register(r)
		Register(r)
	})
	assert.Equal(t, r, GetRegisterer())
}

func TestObserve(t *testing.T) {
	bytesBefore := testutil.ToFloat64(CodecBytes.WithLabelValues(DirectionEncode, "real-f32"))
	elemsBefore := testutil.ToFloat64(CodecElements.WithLabelValues(DirectionEncode, "real-f32"))
	failBefore := testutil.ToFloat64(CodecFailures.WithLabelValues(DirectionDecode, "complex-f64", "1200"))

	ObserveSuccess(DirectionEncode, "real-f32", 20, 5, time.Millisecond)
	ObserveFailure(DirectionDecode, "complex-f64", 1200)

	assert.Equal(t, bytesBefore+20, testutil.ToFloat64(CodecBytes.WithLabelValues(DirectionEncode, "real-f32")))
	assert.Equal(t, elemsBefore+5, testutil.ToFloat64(CodecElements.WithLabelValues(DirectionEncode, "real-f32")))
	assert.Equal(t, failBefore+1, testutil.ToFloat64(CodecFailures.WithLabelValues(DirectionDecode, "complex-f64", "1200")))
}

func TestWriteTextfile(t *testing.T) {
	r := prometheus.NewRegistry()
	Register(r)
	ObserveSuccess(DirectionDecode, "real-f64", 40, 5, 2*time.Millisecond)

	path := filepath.Join(t.TempDir(), "vecconv.prom")
	require.NoError(t, WriteTextfile(path, r))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `vecconv_codec_bytes_total{direction="decode",shape="real-f64"}`)
	assert.Contains(t, string(data), "vecconv_codec_duration_milliseconds_bucket")
}

func TestWriteTextfileBadDir(t *testing.T) {
	r := prometheus.NewRegistry()
	err := WriteTextfile(filepath.Join(t.TempDir(), "missing", "vecconv.prom"), r)
	assert.Error(t, err)
}
