package controller

import (
	"devpath_backend/internal/model"
	"devpath_backend/internal/service"
	"devpath_backend/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
)

type ContentController struct {
	ContentService *service.ContentService
}

func NewContentController(contentService *service.ContentService) *ContentController {
	return &ContentController{ContentService: contentService}
}

// @Summary 主题列表
// @Description 列出内容目录的主题元信息，可按分类或标签筛选
// @Tags 内容
// @Produce json
// @Param category query string false "分类"
// @Param tag query string false "标签"
// @Success 200 {object} util.Response
// @Router /api/topics [get]
func (c *ContentController) GetTopics(ctx *gin.Context) {
	topics, err := c.ContentService.GetTopics(ctx.Request.Context(), ctx.Query("category"), ctx.Query("tag"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	metas := make([]model.TopicMeta, len(topics))
	for i := range topics {
		metas[i] = topics[i].Meta()
	}

	util.Success(ctx, metas)
}

// @Summary 主题详情
// @Description 返回完整主题：分层课文与示例代码
// @Tags 内容
// @Produce json
// @Param slug path string true "主题slug"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/topics/{slug} [get]
func (c *ContentController) GetTopic(ctx *gin.Context) {
	topic, err := c.ContentService.GetTopicBySlug(ctx.Request.Context(), ctx.Param("slug"))
	if err != nil {
		if errors.Is(err, util.ErrTopicNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, topic)
}

// @Summary 创建或更新主题
// @Description 内容维护接口，按slug做upsert
// @Tags 内容
// @Accept json
// @Produce json
// @Param body body model.Topic true "主题"
// @Success 201 {object} util.Response
// @Failure 400 {object} util.Response
// @Router /api/admin/topics [post]
func (c *ContentController) UpsertTopic(ctx *gin.Context) {
	var topic model.Topic
	if err := ctx.ShouldBindJSON(&topic); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if topic.Slug == "" || topic.Title == "" {
		util.BadRequest(ctx, "slug and title are required")
		return
	}

	if err := c.ContentService.UpsertTopic(ctx.Request.Context(), &topic); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, topic)
}

// @Summary 上传主题附件
// @Description 上传示意图或示例文件并回写主题的资源URL
// @Tags 内容
// @Accept multipart/form-data
// @Produce json
// @Param slug path string true "主题slug"
// @Param file formData file true "附件"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/admin/topics/{slug}/asset [post]
func (c *ContentController) UploadTopicAsset(ctx *gin.Context) {
	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	url, err := c.ContentService.UploadTopicAsset(ctx.Request.Context(), ctx.Param("slug"), file)
	if err != nil {
		if errors.Is(err, util.ErrTopicNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"url": url})
}
