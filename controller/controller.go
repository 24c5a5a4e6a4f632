package controller

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/widgetly/chat-api/common/config"
	"github.com/widgetly/chat-api/relay"
	"github.com/widgetly/chat-api/stats"
)

// Package-level service handles, injected once from main before the router
// starts serving.
var (
	statsService *stats.Service
	answerGen    *relay.AnswerGenerator
)

// InitServices wires the statistics engine and the answer generator into the
// handler set.
func InitServices(svc *stats.Service, gen *relay.AnswerGenerator) {
	statsService = svc
	answerGen = gen
}

// paginationParams reads the p/size query pair and converts it to an
// offset/limit within the configured bounds.
func paginationParams(c *gin.Context) (startIdx int, num int) {
	p, _ := strconv.Atoi(c.Query("p"))
	if p < 0 {
		p = 0
	}
	size, _ := strconv.Atoi(c.Query("size"))
	if size <= 0 {
		size = config.DefaultItemsPerPage
	}
	if size > config.MaxItemsPerPage {
		size = config.MaxItemsPerPage
	}
	return p * size, size
}
