package handler

import (
	"mime"
	"net/http"
	"path"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appErrors "github.com/noah-isme/school-portal-api/pkg/errors"
	"github.com/noah-isme/school-portal-api/pkg/response"
	"github.com/noah-isme/school-portal-api/pkg/storage"
)

type tokenResolver interface {
	Resolve(token string) (*storage.SignedObject, error)
}

// FilesHandler serves objects behind links issued by the local storage backend.
type FilesHandler struct {
	resolver tokenResolver
	store    *storage.LocalStorage
	logger   *zap.Logger
}

// NewFilesHandler constructs FilesHandler.
func NewFilesHandler(resolver tokenResolver, store *storage.LocalStorage, logger *zap.Logger) *FilesHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FilesHandler{resolver: resolver, store: store, logger: logger}
}

// Download godoc
// @Summary Download a signed object
// @Tags Files
// @Param token path string true "Signed token"
// @Success 200 {file} file
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /files/{token} [get]
func (h *FilesHandler) Download(c *gin.Context) {
	obj, err := h.resolver.Resolve(c.Param("token"))
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrForbidden.Code, appErrors.ErrForbidden.Status, "link expired or invalid"))
		return
	}

	file, err := h.store.Open(obj.Bucket, obj.Path)
	if err != nil {
		h.logger.Warn("signed object missing", zap.String("bucket", obj.Bucket), zap.String("path", obj.Path), zap.Error(err))
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "file not found"))
		return
	}
	defer file.Close() //nolint:errcheck

	info, err := file.Stat()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read file"))
		return
	}

	contentType := mime.TypeByExtension(path.Ext(obj.Path))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	disposition := "inline"
	if obj.Download {
		disposition = "attachment"
	}
	if header := mime.FormatMediaType(disposition, map[string]string{"filename": path.Base(obj.Path)}); header != "" {
		disposition = header
	}
	c.Header("Content-Disposition", disposition)
	c.Header("Cache-Control", "private, no-store")
	c.DataFromReader(http.StatusOK, info.Size(), contentType, file, nil)
}
