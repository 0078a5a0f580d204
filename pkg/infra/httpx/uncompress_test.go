package httpx

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"compress/zlib"
	"testing"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gzipCompress(data []byte) []byte {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, _ = gz.Write(data)
	_ = gz.Close()
	return buf.Bytes()
}

func brCompress(data []byte) []byte {
	var buf bytes.Buffer
	br := brotli.NewWriter(&buf)
	_, _ = br.Write(data)
	_ = br.Close()
	return buf.Bytes()
}

func zstdCompress(data []byte) []byte {
	var buf bytes.Buffer
	zw, _ := zstd.NewWriter(&buf) //nolint:errcheck
	_, _ = zw.Write(data)
	_ = zw.Close()
	return buf.Bytes()
}

func zlibCompress(data []byte) []byte {
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	_, _ = zw.Write(data)
	_ = zw.Close()
	return buf.Bytes()
}

func rawDeflateCompress(data []byte) []byte {
	var buf bytes.Buffer
	dw, _ := flate.NewWriter(&buf, flate.DefaultCompression) //nolint:errcheck
	_, _ = dw.Write(data)
	_ = dw.Close()
	return buf.Bytes()
}

func TestDecodeBody(t *testing.T) {
	plain := []byte(`{"classification":"BOT"}`)

	tests := []struct {
		name        string
		encoding    string
		body        []byte
		wantChanged bool
	}{
		{name: "no encoding", encoding: "", body: plain},
		{name: "identity", encoding: "identity", body: plain},
		{name: "gzip", encoding: "gzip", body: gzipCompress(plain), wantChanged: true},
		{name: "brotli", encoding: "br", body: brCompress(plain), wantChanged: true},
		{name: "zstd", encoding: "zstd", body: zstdCompress(plain), wantChanged: true},
		{name: "deflate zlib wrapped", encoding: "deflate", body: zlibCompress(plain), wantChanged: true},
		{name: "deflate raw", encoding: "deflate", body: rawDeflateCompress(plain), wantChanged: true},
		{name: "chained gzip then br", encoding: "gzip, br", body: brCompress(gzipCompress(plain)), wantChanged: true},
		{name: "case and whitespace", encoding: "  GZip  ", body: gzipCompress(plain), wantChanged: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decoded, changed, err := DecodeBody(tt.encoding, tt.body)
			require.NoError(t, err)
			assert.Equal(t, tt.wantChanged, changed)
			assert.Equal(t, plain, decoded)
		})
	}
}

func TestDecodeBody_UnknownEncoding(t *testing.T) {
	_, _, err := DecodeBody("foo", []byte("abc"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported content-encoding")
}

func TestDecodeBody_CorruptGzip(t *testing.T) {
	_, _, err := DecodeBody("gzip", []byte("not gzip"))
	assert.Error(t, err)
}
