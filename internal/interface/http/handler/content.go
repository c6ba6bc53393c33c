package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/fernandezlibros/ebookstore/internal/application/content"
	"github.com/fernandezlibros/ebookstore/pkg/response"
)

// ContentHandler 站点静态内容HTTP处理器
type ContentHandler struct {
	contentUseCase *content.ContentUseCase
}

// NewContentHandler 创建内容处理器
func NewContentHandler(contentUseCase *content.ContentUseCase) *ContentHandler {
	return &ContentHandler{
		contentUseCase: contentUseCase,
	}
}

// GetAuthor 作者介绍
// @Summary      作者介绍
// @Tags         内容
// @Produce      json
// @Success      200 {object} response.Response{data=content.AuthorInfo}
// @Router       /api/v1/content/author [get]
func (h *ContentHandler) GetAuthor(c *gin.Context) {
	response.Success(c, h.contentUseCase.GetAuthor(c.Request.Context()))
}

// GetTestimonials 读者评价
// @Summary      读者评价
// @Tags         内容
// @Produce      json
// @Success      200 {object} response.Response{data=[]content.Testimonial}
// @Router       /api/v1/content/testimonials [get]
func (h *ContentHandler) GetTestimonials(c *gin.Context) {
	response.Success(c, h.contentUseCase.GetTestimonials(c.Request.Context()))
}

// GetStats 站点统计
// @Summary      站点统计数字
// @Tags         内容
// @Produce      json
// @Success      200 {object} response.Response{data=content.SiteStats}
// @Router       /api/v1/content/stats [get]
func (h *ContentHandler) GetStats(c *gin.Context) {
	response.Success(c, h.contentUseCase.GetStats(c.Request.Context()))
}
