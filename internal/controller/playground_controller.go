package controller

import (
	"devpath_backend/internal/service"
	"devpath_backend/internal/util"
	"devpath_backend/pkg/monitoring"
	"errors"

	"github.com/gin-gonic/gin"
)

type PlaygroundController struct {
	PlaygroundService *service.PlaygroundService
}

func NewPlaygroundController(playgroundService *service.PlaygroundService) *PlaygroundController {
	return &PlaygroundController{PlaygroundService: playgroundService}
}

// @Summary 可用运行时
// @Description 游乐场支持的语言与运行时版本（静态表）
// @Tags 游乐场
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/playground/runtimes [get]
func (c *PlaygroundController) GetRuntimes(ctx *gin.Context) {
	util.Success(ctx, c.PlaygroundService.Runtimes())
}

// @Summary 执行代码
// @Description 把提交的源码转发到沙箱执行服务并中继 stdout/stderr/退出码
// @Tags 游乐场
// @Accept json
// @Produce json
// @Param body body service.ExecuteRequest true "执行请求"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Failure 502 {object} util.Response
// @Router /api/playground/execute [post]
func (c *PlaygroundController) Execute(ctx *gin.Context) {
	var req service.ExecuteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.PlaygroundService.Execute(ctx.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrUnsupportedLanguage):
			monitoring.PlaygroundRunCounter.WithLabelValues(req.Language, "rejected").Inc()
			util.BadRequest(ctx, err.Error())
		case errors.Is(err, util.ErrRunnerUnavailable):
			monitoring.PlaygroundRunCounter.WithLabelValues(req.Language, "upstream_error").Inc()
			util.BadGateway(ctx, err.Error())
		default:
			monitoring.PlaygroundRunCounter.WithLabelValues(req.Language, "error").Inc()
			util.LogInternalError(ctx, err)
		}
		return
	}

	monitoring.PlaygroundRunCounter.WithLabelValues(req.Language, "ok").Inc()
	util.Success(ctx, result)
}
