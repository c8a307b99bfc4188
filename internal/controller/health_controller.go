package controller

import (
	"net/http"

	"take_exam_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

type HealthController struct {
	DB    *gorm.DB
	Redis *redis.Client
}

func NewHealthController(db *gorm.DB, rdb *redis.Client) *HealthController {
	return &HealthController{DB: db, Redis: rdb}
}

// @Summary 健康检查
// @Description 检查数据库与 Redis 状态；数据库不可用返回 503，Redis 不可用
// @Description 仅降级（进度缓存失效，读写仍走数据库）
// @Tags 系统
// @Produce json
// @Success 200 {object} util.Response
// @Router /health [get]
func (c *HealthController) HealthCheck(ctx *gin.Context) {
	sqlDB, err := c.DB.DB()
	if err != nil {
		util.InternalServerError(ctx)
		return
	}

	if err := sqlDB.Ping(); err != nil {
		util.Error(ctx, http.StatusServiceUnavailable, "Database unavailable")
		return
	}

	status := "ok"
	redisState := "up"
	if c.Redis != nil {
		if err := c.Redis.Ping(ctx.Request.Context()).Err(); err != nil {
			// 缓存层缺失不算不可用，进度读写会直接落到数据库
			status = "degraded"
			redisState = "down"
		}
	}

	util.Success(ctx, gin.H{
		"status": status,
		"components": gin.H{
			"database": "up",
			"redis":    redisState,
		},
	})
}
