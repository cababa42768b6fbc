package http

import (
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
)

var gzipReaderPool = sync.Pool{
	New: func() any {
		return new(gzip.Reader)
	},
}

// withDecompress transparently decodes gzip and deflate (zlib) request
// bodies. Response compression is negotiated by the response builder.
func (h *Handler) withDecompress(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		contentEncoding := strings.ToLower(strings.TrimSpace(req.Header.Get("Content-Encoding")))
		if contentEncoding == "" || contentEncoding == "identity" || req.Body == nil || req.Body == http.NoBody {
			next.ServeHTTP(w, req)
			return
		}

		var body io.ReadCloser
		switch contentEncoding {
		case "gzip", "x-gzip":
			gzipReader := gzipReaderPool.Get().(*gzip.Reader)
			if err := gzipReader.Reset(req.Body); err != nil {
				gzipReaderPool.Put(gzipReader)
				h.rejectEncoding(w, req, ErrInvalidRequestEncoding)
				return
			}
			body = &wrappedReadCloser{
				Reader: gzipReader,
				OnClose: func() {
					_ = gzipReader.Close()
					gzipReaderPool.Put(gzipReader)
				},
			}
		case "deflate":
			zlibReader, err := zlib.NewReader(req.Body)
			if err != nil {
				h.rejectEncoding(w, req, ErrInvalidRequestEncoding)
				return
			}
			body = zlibReader
		default:
			h.rejectEncoding(w, req, ErrUnsupportedRequestEncoding)
			return
		}

		req.Body = body
		req.Header.Del("Content-Encoding")
		req.Header.Del("Content-Length")
		req.ContentLength = -1

		next.ServeHTTP(w, req)
	})
}

func (h *Handler) rejectEncoding(w http.ResponseWriter, r *http.Request, err error) {
	r.Body = http.NoBody
	ex, _ := h.begin(w, r)
	ex.fail(err)
}

type wrappedReadCloser struct {
	io.Reader
	OnClose func()
}

func (w *wrappedReadCloser) Close() error {
	if w.OnClose != nil {
		w.OnClose()
	}
	return nil
}
