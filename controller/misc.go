package controller

import (
	"github.com/gin-gonic/gin"

	"github.com/widgetly/chat-api/common"
	"github.com/widgetly/chat-api/common/helper"
)

func GetStatus(c *gin.Context) {
	helper.RespondData(c, gin.H{
		"version":    common.Version,
		"start_time": common.StartTime,
	})
}
