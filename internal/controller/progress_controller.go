package controller

import (
	"devpath_backend/internal/service"
	"devpath_backend/internal/util"
	"devpath_backend/pkg/monitoring"
	"errors"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	ProgressService *service.ProgressService
}

func NewProgressController(progressService *service.ProgressService) *ProgressController {
	return &ProgressController{ProgressService: progressService}
}

// @Summary 应用进度更新
// @Description 对学习者聚合应用一次学习事件：主题进度、测验分数、XP增量，并记录当日活跃
// @Tags 进度
// @Accept json
// @Produce json
// @Param id path string true "学习者ID"
// @Param body body service.ProgressUpdateRequest true "进度增量"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /api/learners/{id}/progress [post]
func (c *ProgressController) UpdateProgress(ctx *gin.Context) {
	var req service.ProgressUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	learner, err := c.ProgressService.ApplyUpdate(ctx.Param("id"), req)
	if err != nil {
		monitoring.ProgressUpdateCounter.WithLabelValues(updateOutcome(err)).Inc()
		respondLearnerError(ctx, err)
		return
	}

	monitoring.ProgressUpdateCounter.WithLabelValues("applied").Inc()
	util.Success(ctx, service.NewLearnerView(learner))
}

func updateOutcome(err error) string {
	switch {
	case errors.Is(err, util.ErrVersionConflict):
		return "conflict"
	default:
		return "rejected"
	}
}

// @Summary 学习仪表盘
// @Description 只读路径：游戏化状态、主题进度和渲染好的53周活跃网格；不记录活跃
// @Tags 进度
// @Produce json
// @Param id path string true "学习者ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/learners/{id}/dashboard [get]
func (c *ProgressController) GetDashboard(ctx *gin.Context) {
	dashboard, err := c.ProgressService.ReadForDisplay(ctx.Param("id"))
	if err != nil {
		respondLearnerError(ctx, err)
		return
	}

	util.Success(ctx, dashboard)
}

// @Summary 每日打卡
// @Description 当日重复打卡幂等；连续打卡递增streak，中断后重置为1
// @Tags 进度
// @Produce json
// @Param id path string true "学习者ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/learners/{id}/checkin [post]
func (c *ProgressController) Checkin(ctx *gin.Context) {
	learner, err := c.ProgressService.Checkin(ctx.Param("id"))
	if err != nil {
		respondLearnerError(ctx, err)
		return
	}

	util.Success(ctx, service.NewLearnerView(learner))
}

// @Summary 授予徽章
// @Description 按名称追加徽章，允许重复
// @Tags 进度
// @Accept json
// @Produce json
// @Param id path string true "学习者ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/learners/{id}/badges [post]
func (c *ProgressController) GrantBadge(ctx *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	learner, err := c.ProgressService.GrantBadge(ctx.Param("id"), req.Name)
	if err != nil {
		respondLearnerError(ctx, err)
		return
	}

	util.Success(ctx, service.NewLearnerView(learner))
}
