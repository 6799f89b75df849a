// Package responsewriter wraps http.ResponseWriter to observe what a handler
// sent: the status code and the body size, for access logs and metrics.
package responsewriter

import "net/http"

// ResponseWriter records the status and size of a response.
type ResponseWriter struct {
	http.ResponseWriter
	status  int
	bytes   int
	written bool
}

// Wrap returns w unchanged when it is already a *ResponseWriter, so stacked
// middleware share one recorder.
func Wrap(w http.ResponseWriter) *ResponseWriter {
	if rw, ok := w.(*ResponseWriter); ok {
		return rw
	}
	return &ResponseWriter{ResponseWriter: w, status: http.StatusOK}
}

// WriteHeader forwards the first status only.
func (w *ResponseWriter) WriteHeader(statusCode int) {
	if w.written {
		return
	}
	w.status = statusCode
	w.written = true
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *ResponseWriter) Write(b []byte) (int, error) {
	if !w.written {
		w.WriteHeader(http.StatusOK)
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// Flush forwards to the underlying writer when it supports flushing.
func (w *ResponseWriter) Flush() {
	if !w.written {
		w.WriteHeader(http.StatusOK)
	}
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// StatusCode is the status sent, 200 if the handler never chose one.
func (w *ResponseWriter) StatusCode() int { return w.status }

// BytesWritten is the body size sent so far.
func (w *ResponseWriter) BytesWritten() int { return w.bytes }

// Written reports whether the header has gone out.
func (w *ResponseWriter) Written() bool { return w.written }

// Unwrap exposes the wrapped writer to http.ResponseController.
func (w *ResponseWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }
