package v1

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"jobspace-backend/internal/delivery/http/middleware"
	"jobspace-backend/internal/delivery/http/response"
	"jobspace-backend/internal/domain"
	"jobspace-backend/pkg/apperror"
	"jobspace-backend/pkg/security"

	"github.com/gin-gonic/gin"
)

// multipartOverhead leaves room for boundaries and part headers on top of
// the file payloads.
const multipartOverhead = 1 << 20

type UploadHandler struct {
	uploadUC domain.UploadUsecase
	maxBytes int64
}

func NewUploadHandler(r *gin.RouterGroup, uploadUC domain.UploadUsecase, limiter *security.UploadLimiter, maxBytes int64) *UploadHandler {
	handler := &UploadHandler{uploadUC: uploadUC, maxBytes: maxBytes}

	bodyLimit := int64(len(domain.UploadFields))*maxBytes + multipartOverhead
	r.POST("/upload",
		middleware.UploadLimitMiddleware(limiter),
		middleware.MaxBodySize(bodyLimit),
		handler.Upload,
	)
	return handler
}

// Upload godoc
// @Summary      Upload candidacy documents
// @Description  Accepts up to one file per field. The response only lists the fields that were sent.
// @Tags         upload
// @Accept       multipart/form-data
// @Produce      json
// @Param        cv       formData  file  false  "Curriculum vitae"
// @Param        diplome  formData  file  false  "Diploma"
// @Param        lettre   formData  file  false  "Cover letter"
// @Success      200      {object}  map[string]string
// @Failure      400      {object}  response.ErrorBody
// @Failure      413      {object}  response.ErrorBody
// @Failure      429      {object}  response.ErrorBody
// @Failure      500      {object}  response.ErrorBody
// @Router       /upload [post]
func (h *UploadHandler) Upload(c *gin.Context) {
	if err := c.Request.ParseMultipartForm(32 << 20); err != nil {
		c.Error(multipartError(err))
		return
	}
	form := c.Request.MultipartForm
	defer form.RemoveAll()

	var files []domain.UploadedFile
	for _, field := range domain.UploadFields {
		headers := form.File[field]
		if len(headers) == 0 {
			continue
		}
		fh := headers[0]
		if fh.Size > h.maxBytes {
			c.Error(apperror.TooLarge(fmt.Sprintf("Fichier trop volumineux (%d Mo maximum)", h.maxBytes>>20)))
			return
		}
		data, err := readPart(fh, h.maxBytes)
		if err != nil {
			c.Error(apperror.Internal("Erreur lors de l'upload des fichiers", err))
			return
		}
		files = append(files, domain.UploadedFile{Field: field, Filename: fh.Filename, Data: data})
	}

	paths, err := h.uploadUC.StoreFiles(c.Request.Context(), files)
	if err != nil {
		c.Error(err)
		return
	}
	response.JSON(c, http.StatusOK, paths)
}

// Redirect godoc
// @Summary      Download a stored document
// @Description  Redirects to a short-lived link when files live in object storage.
// @Tags         upload
// @Param        name  path  string  true  "Stored file name"
// @Success      302
// @Failure      404  {object}  response.ErrorBody
// @Router       /uploads/{name} [get]
func (h *UploadHandler) Redirect(c *gin.Context) {
	url, err := h.uploadUC.ResolveURL(c.Request.Context(), c.Param("name"))
	if err != nil {
		c.Error(err)
		return
	}
	c.Redirect(http.StatusFound, url)
}

func readPart(fh *multipart.FileHeader, limit int64) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(io.LimitReader(f, limit+1))
}

func multipartError(err error) error {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return apperror.TooLarge("Requête trop volumineuse")
	case errors.Is(err, http.ErrNotMultipart), errors.Is(err, http.ErrMissingBoundary):
		return apperror.BadRequest("Requête multipart/form-data attendue")
	}
	return apperror.Internal("Erreur lors de l'upload des fichiers", err)
}
