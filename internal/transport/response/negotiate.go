package response

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
)

// Content codings known to the negotiator.
const (
	EncodingIdentity = "identity"
	EncodingGzip     = "gzip"
	EncodingDeflate  = "deflate"
	EncodingCompress = "compress"
	EncodingBrotli   = "br"
)

// serverCodings lists every coding a client may ask for and whether the
// server can produce it.
var serverCodings = map[string]bool{
	EncodingIdentity: true,
	EncodingGzip:     true,
	EncodingDeflate:  true,
	EncodingCompress: false,
	EncodingBrotli:   false,
}

var gzipWriterPool = sync.Pool{
	New: func() any {
		return gzip.NewWriter(nil)
	},
}

var zlibWriterPool = sync.Pool{
	New: func() any {
		return zlib.NewWriter(nil)
	},
}

type codingWeight struct {
	name   string
	weight float64
}

// parseAcceptEncoding splits an Accept-Encoding value into codings ordered
// by descending weight. A repeated coding keeps its first position but takes
// the weight of its last occurrence. Missing or malformed q values count as
// 1.0, as do NaN and infinities; weights are clamped to [0, 1].
func parseAcceptEncoding(header string) []codingWeight {
	var candidates []codingWeight
	index := make(map[string]int)

	for _, token := range strings.Split(header, ",") {
		name, params, _ := strings.Cut(token, ";")
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}

		weight := 1.0
		for _, param := range strings.Split(params, ";") {
			key, value, ok := strings.Cut(strings.TrimSpace(param), "=")
			if !ok || !strings.EqualFold(strings.TrimSpace(key), "q") {
				continue
			}
			q, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
			if err == nil && !math.IsNaN(q) && !math.IsInf(q, 0) {
				weight = min(max(q, 0), 1)
			}
		}

		if i, seen := index[name]; seen {
			candidates[i].weight = weight
			continue
		}
		index[name] = len(candidates)
		candidates = append(candidates, codingWeight{name: name, weight: weight})
	}

	slices.SortStableFunc(candidates, func(a, b codingWeight) int {
		switch {
		case a.weight > b.weight:
			return -1
		case a.weight < b.weight:
			return 1
		}
		return 0
	})
	return candidates
}

// selectEncoding picks the first server-supported coding with a non-zero
// weight, or identity.
func selectEncoding(header string) string {
	for _, c := range parseAcceptEncoding(header) {
		if c.weight > 0 && serverCodings[c.name] {
			return c.name
		}
	}
	return EncodingIdentity
}

// negotiate compresses body with the coding selected from header. When the
// compressed form is not smaller than body, or compression fails, body is
// returned unchanged with identity. The error is informational: the
// returned body and coding are always usable.
func negotiate(header string, body []byte) ([]byte, string, error) {
	method := selectEncoding(header)
	if method == EncodingIdentity {
		return body, EncodingIdentity, nil
	}

	compressed, err := compressBody(method, body)
	if err != nil {
		return body, EncodingIdentity, err
	}
	if len(compressed) >= len(body) {
		return body, EncodingIdentity, nil
	}
	return compressed, method, nil
}

// compressBody is swapped in tests to exercise the failure path.
var compressBody = compress

func compress(method string, body []byte) ([]byte, error) {
	var buf bytes.Buffer

	var w io.WriteCloser
	switch method {
	case EncodingGzip:
		gz := gzipWriterPool.Get().(*gzip.Writer)
		defer gzipWriterPool.Put(gz)
		gz.Reset(&buf)
		w = gz
	case EncodingDeflate:
		zw := zlibWriterPool.Get().(*zlib.Writer)
		defer zlibWriterPool.Put(zw)
		zw.Reset(&buf)
		w = zw
	default:
		return nil, fmt.Errorf("unsupported content coding %q", method)
	}

	if _, err := w.Write(body); err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}
	return buf.Bytes(), nil
}
