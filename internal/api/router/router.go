package router

import (
	"context"
	"strconv"
	"strings"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"job-hunter-go/internal/api/handler"
	"job-hunter-go/internal/scraper"
	"job-hunter-go/internal/types"
)

// RegisterRoutes 注册 API 路由
func RegisterRoutes(h *server.Hertz, resumeHandler *handler.ResumeHandler, profileHandler *handler.ProfileHandler, jobHandler *handler.JobHandler) {
	api := h.Group("/api/v1")

	api.POST("/resume/upload", func(c context.Context, ctx *app.RequestContext) {
		fileHeader, err := ctx.FormFile("file")
		if err != nil {
			ctx.JSON(consts.StatusBadRequest, utils.H{"error": "文件未找到"})
			return
		}

		mode := ctx.PostForm("mode")
		// use_ai 默认开，显式传false才关闭
		useAI := !strings.EqualFold(ctx.PostForm("use_ai"), "false")

		file, err := fileHeader.Open()
		if err != nil {
			ctx.JSON(consts.StatusInternalServerError, utils.H{"error": "打开文件失败"})
			return
		}
		defer file.Close()

		resp, err := resumeHandler.HandleResumeUpload(c, file, fileHeader.Size, fileHeader.Filename, mode, useAI)
		if err != nil {
			ctx.JSON(consts.StatusBadRequest, utils.H{"error": err.Error()})
			return
		}
		ctx.JSON(consts.StatusOK, resp)
	})

	api.GET("/profile", func(c context.Context, ctx *app.RequestContext) {
		profile, err := profileHandler.GetProfile(c)
		if err != nil {
			ctx.JSON(consts.StatusInternalServerError, utils.H{"error": err.Error()})
			return
		}
		if profile == nil {
			ctx.JSON(consts.StatusNotFound, utils.H{"error": "主档案尚未建立"})
			return
		}
		ctx.JSON(consts.StatusOK, profile)
	})

	api.PUT("/profile/personal", func(c context.Context, ctx *app.RequestContext) {
		var update types.PersonalInfo
		if err := ctx.BindAndValidate(&update); err != nil {
			ctx.JSON(consts.StatusBadRequest, utils.H{"error": "请求体无效"})
			return
		}
		profile, err := profileHandler.UpdatePersonal(c, update)
		if err != nil {
			ctx.JSON(consts.StatusBadRequest, utils.H{"error": err.Error()})
			return
		}
		ctx.JSON(consts.StatusOK, profile)
	})

	api.POST("/jobs/search", func(c context.Context, ctx *app.RequestContext) {
		var req scraper.SearchRequest
		if err := ctx.BindAndValidate(&req); err != nil {
			ctx.JSON(consts.StatusBadRequest, utils.H{"error": "请求体无效"})
			return
		}
		resp, err := jobHandler.SearchJobs(c, req)
		if err != nil {
			ctx.JSON(consts.StatusBadGateway, utils.H{"error": err.Error()})
			return
		}
		ctx.JSON(consts.StatusOK, resp)
	})

	api.GET("/jobs", func(c context.Context, ctx *app.RequestContext) {
		limit := 0
		if raw := ctx.Query("limit"); raw != "" {
			if n, err := strconv.Atoi(raw); err == nil {
				limit = n
			}
		}
		jobs, err := jobHandler.ListJobs(c, ctx.Query("status"), ctx.Query("keyword"), limit)
		if err != nil {
			ctx.JSON(consts.StatusInternalServerError, utils.H{"error": err.Error()})
			return
		}
		ctx.JSON(consts.StatusOK, utils.H{"jobs": jobs, "total": len(jobs)})
	})

	api.GET("/jobs/stats", func(c context.Context, ctx *app.RequestContext) {
		stats, err := jobHandler.JobStats(c)
		if err != nil {
			ctx.JSON(consts.StatusInternalServerError, utils.H{"error": err.Error()})
			return
		}
		ctx.JSON(consts.StatusOK, stats)
	})

	api.GET("/jobs/:id", func(c context.Context, ctx *app.RequestContext) {
		job, err := jobHandler.GetJob(c, ctx.Param("id"))
		if err != nil {
			ctx.JSON(consts.StatusInternalServerError, utils.H{"error": err.Error()})
			return
		}
		if job == nil {
			ctx.JSON(consts.StatusNotFound, utils.H{"error": "岗位不存在"})
			return
		}
		ctx.JSON(consts.StatusOK, job)
	})

	api.POST("/jobs/:id/status", func(c context.Context, ctx *app.RequestContext) {
		var req struct {
			Status string `json:"status"`
			Notes  string `json:"notes"`
		}
		if err := ctx.BindAndValidate(&req); err != nil {
			ctx.JSON(consts.StatusBadRequest, utils.H{"error": "请求体无效"})
			return
		}
		if err := jobHandler.UpdateJobStatus(c, ctx.Param("id"), req.Status, req.Notes); err != nil {
			ctx.JSON(consts.StatusBadRequest, utils.H{"error": err.Error()})
			return
		}
		ctx.JSON(consts.StatusOK, utils.H{"status": "ok"})
	})

	api.POST("/jobs/:id/tailor", func(c context.Context, ctx *app.RequestContext) {
		resume, err := jobHandler.TailorResume(c, ctx.Param("id"))
		if err != nil {
			ctx.JSON(consts.StatusBadRequest, utils.H{"error": err.Error()})
			return
		}
		ctx.JSON(consts.StatusOK, resume)
	})

	api.POST("/jobs/:id/pdf", func(c context.Context, ctx *app.RequestContext) {
		pdfPath, err := jobHandler.TypesetResume(c, ctx.Param("id"))
		if err != nil {
			ctx.JSON(consts.StatusBadRequest, utils.H{"error": err.Error()})
			return
		}
		ctx.JSON(consts.StatusOK, utils.H{"status": "ok", "pdf": pdfPath})
	})

	// 健康检查
	h.GET("/health", func(c context.Context, ctx *app.RequestContext) {
		ctx.JSON(consts.StatusOK, utils.H{"status": "ok"})
	})
}
