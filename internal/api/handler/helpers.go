package handler

import (
	"errors"
	"net/http"
	"strconv"

	"vidshare/internal/api/response"
	"vidshare/internal/service"

	"github.com/gin-gonic/gin"
)

func parseInt64Param(c *gin.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}

// formMediaFile 读取 multipart 文件字段，字段缺失时返回 nil
func formMediaFile(c *gin.Context, field string) (*service.MediaFile, func(), error) {
	noop := func() {}

	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, noop, nil
		}
		return nil, noop, err
	}

	f, err := fh.Open()
	if err != nil {
		return nil, noop, err
	}

	return &service.MediaFile{
		Reader:      f,
		Size:        fh.Size,
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
	}, func() { _ = f.Close() }, nil
}

// handleMediaError 处理上传相关错误，已处理返回 true
func handleMediaError(c *gin.Context, err error) bool {
	switch {
	case errors.Is(err, service.ErrMissingFile),
		errors.Is(err, service.ErrUnsupportedFile),
		errors.Is(err, service.ErrFileTooLarge):
		response.BadRequest(c, err.Error())
	case errors.Is(err, service.ErrBlobUpload):
		response.BadGateway(c, service.ErrBlobUpload.Error())
	default:
		return false
	}
	return true
}
