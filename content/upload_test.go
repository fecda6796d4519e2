package content

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pandey "github.com/aagatsharma/pandey-computer"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func multipartRequest(t *testing.T, field, filename string, data []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	part, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)

	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	r := httptest.NewRequest("POST", "/api/uploads/image", &body)
	r.Header.Set("Content-Type", mw.FormDataContentType())

	return r
}

func newUploadHandler(maxBytes int64) *uploadHandler {
	return &uploadHandler{
		maxBytes: maxBytes,
		logger:   pandey.NewLoggerFrom(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}
}

func TestUploadImage(t *testing.T) {
	w := httptest.NewRecorder()
	newUploadHandler(1024).image(w, multipartRequest(t, "image", "logo.png", pngHeader))

	require.Equal(t, http.StatusOK, w.Code)

	var res UploadResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))

	assert.True(t, strings.HasPrefix(res.DataURI, "data:image/png;base64,"))
	assert.Equal(t, int64(len(pngHeader)), res.Size)
}

func TestUploadImageRejects(t *testing.T) {
	tests := []struct {
		name string
		req  func(t *testing.T) *http.Request
	}{
		{"wrong field", func(t *testing.T) *http.Request {
			return multipartRequest(t, "file", "logo.png", pngHeader)
		}},
		{"not an image", func(t *testing.T) *http.Request {
			return multipartRequest(t, "image", "notes.txt", []byte("just some text"))
		}},
		{"too large", func(t *testing.T) *http.Request {
			return multipartRequest(t, "image", "big.png", append(append([]byte{}, pngHeader...), make([]byte, 64)...))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			newUploadHandler(32).image(w, tt.req(t))

			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}
