package helper

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// RespondError writes the standard failure envelope. The error message is
// surfaced verbatim; callers must not wrap secrets into errors they pass here.
func RespondError(c *gin.Context, err error) {
	c.JSON(http.StatusOK, gin.H{
		"success": false,
		"message": err.Error(),
	})
}

// RespondData writes the standard success envelope around data.
func RespondData(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "",
		"data":    data,
	})
}

// RespondBadRequest rejects malformed input before any storage work happens.
func RespondBadRequest(c *gin.Context, format string, args ...any) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"message": fmt.Sprintf(format, args...),
	})
}
