package controller

import (
	"quizhub_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

type HealthController struct {
	db  *gorm.DB
	rdb *redis.Client
}

func NewHealthController(db *gorm.DB, rdb *redis.Client) *HealthController {
	return &HealthController{db: db, rdb: rdb}
}

// Health 健康检查
// @Summary 健康检查
// @Tags health
// @Produce json
// @Success 200 {object} util.Response
// @Router /health [get]
func (ctrl *HealthController) Health(c *gin.Context) {
	status := gin.H{"status": "ok"}

	sqlDB, err := ctrl.db.DB()
	if err != nil || sqlDB.Ping() != nil {
		status["database"] = "down"
		status["status"] = "degraded"
	} else {
		status["database"] = "up"
	}

	if ctrl.rdb != nil {
		if err := ctrl.rdb.Ping(c.Request.Context()).Err(); err != nil {
			status["redis"] = "down"
			status["status"] = "degraded"
		} else {
			status["redis"] = "up"
		}
	}

	util.Success(c, status)
}
