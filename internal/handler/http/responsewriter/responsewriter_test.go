package responsewriter

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap_Defaults(t *testing.T) {
	rw := Wrap(httptest.NewRecorder())
	assert.Equal(t, http.StatusOK, rw.StatusCode())
	assert.Zero(t, rw.BytesWritten())
	assert.False(t, rw.Written())
}

func TestWrap_Idempotent(t *testing.T) {
	rw := Wrap(httptest.NewRecorder())
	assert.Same(t, rw, Wrap(rw))
}

func TestWriteHeader_FirstWins(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := Wrap(rec)

	rw.WriteHeader(http.StatusCreated)
	rw.WriteHeader(http.StatusInternalServerError)

	assert.Equal(t, http.StatusCreated, rw.StatusCode())
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, rw.Written())
}

func TestWrite_CountsBytesAndImplies200(t *testing.T) {
	tests := []struct {
		name   string
		chunks []string
		want   int
	}{
		{name: "single", chunks: []string{`{"id":1}`}, want: 8},
		{name: "multiple", chunks: []string{"[", `{"id":1}`, "]"}, want: 10},
		{name: "empty", chunks: []string{""}, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			rw := Wrap(rec)
			for _, c := range tt.chunks {
				_, err := rw.Write([]byte(c))
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, rw.BytesWritten())
			assert.Equal(t, http.StatusOK, rw.StatusCode())
			assert.True(t, rw.Written())
		})
	}
}

func TestFlush(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := Wrap(rec)
	rw.Flush()
	assert.True(t, rec.Flushed)
	assert.True(t, rw.Written())
}

func TestUnwrap_ResponseController(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := Wrap(rec)
	assert.Same(t, rec, rw.Unwrap())
	require.NoError(t, http.NewResponseController(rw).Flush())
	assert.True(t, rec.Flushed)
}
