package controller

import (
	"devpath_backend/internal/model"
	"devpath_backend/internal/service"
	"devpath_backend/internal/util"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

type LearnerController struct {
	LearnerService *service.LearnerService
}

func NewLearnerController(learnerService *service.LearnerService) *LearnerController {
	return &LearnerController{LearnerService: learnerService}
}

// respondLearnerError 把引擎错误族映射到HTTP状态码。
// 乐观并发冲突以409透出，客户端自行重试。
func respondLearnerError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrLearnerNotFound):
		util.NotFound(ctx)
	case errors.Is(err, model.ErrInvalidXPDelta):
		util.BadRequest(ctx, err.Error())
	case errors.Is(err, util.ErrVersionConflict):
		util.Conflict(ctx, err.Error())
	case errors.Is(err, util.ErrEmailRegistered):
		util.BadRequest(ctx, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}

// @Summary 注册学习者
// @Description 创建新的学习者账号及其进度聚合
// @Tags 学习者
// @Accept json
// @Produce json
// @Param body body service.RegisterRequest true "注册信息"
// @Success 201 {object} util.Response
// @Failure 400 {object} util.Response
// @Router /api/learners [post]
func (c *LearnerController) Register(ctx *gin.Context) {
	var req service.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	learner, err := c.LearnerService.Register(req)
	if err != nil {
		respondLearnerError(ctx, err)
		return
	}

	util.Created(ctx, service.NewLearnerView(learner))
}

// @Summary 获取学习者
// @Description 返回完整的学习者聚合（等级为派生值）
// @Tags 学习者
// @Produce json
// @Param id path string true "学习者ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/learners/{id} [get]
func (c *LearnerController) GetLearner(ctx *gin.Context) {
	learner, err := c.LearnerService.GetLearner(ctx.Param("id"))
	if err != nil {
		respondLearnerError(ctx, err)
		return
	}

	util.Success(ctx, service.NewLearnerView(learner))
}

// @Summary 排行榜
// @Description 按XP降序列出学习者
// @Tags 学习者
// @Produce json
// @Param limit query int false "条目数上限" default(10)
// @Success 200 {object} util.Response
// @Router /api/leaderboard [get]
func (c *LearnerController) GetLeaderboard(ctx *gin.Context) {
	limit, err := strconv.Atoi(ctx.DefaultQuery("limit", "10"))
	if err != nil || limit <= 0 {
		limit = 10
	}

	leaderboard, err := c.LearnerService.GetLeaderboard(limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, leaderboard)
}
