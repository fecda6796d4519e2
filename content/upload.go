package content

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	pandey "github.com/aagatsharma/pandey-computer"
	"github.com/aagatsharma/pandey-computer/internal/media"
)

// multipartOverhead leaves room for the form boundaries around the file.
const multipartOverhead = 64 << 10

type UploadResponse struct {
	DataURI string `json:"dataUri"`
	Size    int64  `json:"size"`
}

func (res *UploadResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

type uploadHandler struct {
	maxBytes int64
	logger   pandey.LoggerService
}

// image turns a multipart "image" file into a data URI the admin panel can
// store on any document.
func (h *uploadHandler) image(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+multipartOverhead)

	file, header, err := r.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			render.Render(w, r, pandey.ErrInvalidRequest(pandey.Invalid("image", media.ErrTooLarge.Error())))
			return
		}

		render.Render(w, r, pandey.ErrInvalidRequest(pandey.Invalid("image", "an image file is required")))
		return
	}
	defer file.Close()

	dataURI, err := media.Encode(file, h.maxBytes)
	if err != nil {
		if errors.Is(err, media.ErrTooLarge) || errors.Is(err, media.ErrUnsupportedType) || errors.Is(err, media.ErrEmpty) {
			render.Render(w, r, pandey.ErrInvalidRequest(pandey.Invalid("image", err.Error())))
			return
		}

		pandey.RenderError(w, r, h.logger, "failed to encode image", err)
		return
	}

	h.logger.Debug("Encoded image upload", "filename", header.Filename, "size", header.Size)

	render.Render(w, r, &UploadResponse{DataURI: dataURI, Size: header.Size})
}
