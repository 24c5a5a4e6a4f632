package controller

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/widgetly/chat-api/common/ctxkey"
	"github.com/widgetly/chat-api/common/helper"
	"github.com/widgetly/chat-api/model"
)

// GetPublishedNews is the public listing: only published items, no auth.
func GetPublishedNews(c *gin.Context) {
	startIdx, num := paginationParams(c)
	news, err := model.GetPublishedNews(startIdx, num)
	if err != nil {
		helper.RespondError(c, err)
		return
	}
	helper.RespondData(c, news)
}

func GetAllNews(c *gin.Context) {
	startIdx, num := paginationParams(c)
	news, err := model.GetAllNews(startIdx, num)
	if err != nil {
		helper.RespondError(c, err)
		return
	}
	helper.RespondData(c, news)
}

func GetNews(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		helper.RespondBadRequest(c, "invalid news id")
		return
	}
	news, err := model.GetNewsById(id)
	if err != nil {
		helper.RespondError(c, err)
		return
	}
	helper.RespondData(c, news)
}

func AddNews(c *gin.Context) {
	var news model.News
	if err := c.ShouldBindJSON(&news); err != nil {
		helper.RespondBadRequest(c, "invalid news payload: %s", err.Error())
		return
	}
	if news.Title == "" {
		helper.RespondBadRequest(c, "news title is required")
		return
	}
	news.Id = 0
	news.CreatedBy = c.GetInt(ctxkey.Id)
	if err := news.Insert(); err != nil {
		helper.RespondError(c, err)
		return
	}
	helper.RespondData(c, news)
}

func UpdateNews(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		helper.RespondBadRequest(c, "invalid news id")
		return
	}
	if _, err := model.GetNewsById(id); err != nil {
		helper.RespondError(c, err)
		return
	}
	var payload model.News
	if err := c.ShouldBindJSON(&payload); err != nil {
		helper.RespondBadRequest(c, "invalid news payload: %s", err.Error())
		return
	}
	payload.Id = id
	if err := payload.Update(); err != nil {
		helper.RespondError(c, err)
		return
	}
	helper.RespondData(c, payload)
}

func DeleteNews(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		helper.RespondBadRequest(c, "invalid news id")
		return
	}
	news, err := model.GetNewsById(id)
	if err != nil {
		helper.RespondError(c, err)
		return
	}
	if err := news.Delete(); err != nil {
		helper.RespondError(c, err)
		return
	}
	helper.RespondData(c, nil)
}
