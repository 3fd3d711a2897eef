package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lenscraft/internal/service"
)

// UploadImage 处理图片上传请求，返回可写入资源字段的 URL
func (a *API) UploadImage(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			writeError(c, &service.UploadRejectedError{Reason: "No file provided"})
			return
		}
		respondError(c, http.StatusBadRequest, "Invalid upload request")
		return
	}

	src, err := file.Open()
	if err != nil {
		writeError(c, err)
		return
	}
	defer src.Close()

	result, err := a.uploads.Store(file.Filename, file.Header.Get("Content-Type"), file.Size, src)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}
