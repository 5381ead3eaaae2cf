package middleware

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// Classifier maps a handler error to a status code and client message
type Classifier func(err error) (int, string)

// ErrorHandler renders the last error a handler attached with c.Error as a
// JSON ErrorResponse, and turns panics into a 500 response.
func ErrorHandler(classify Classifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("Error: %v", r)
				c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal Server Error"})
			}
		}()

		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		status, msg := classify(err)
		if status >= http.StatusInternalServerError {
			log.Printf("Error: %s %s: %v", c.Request.Method, c.FullPath(), err)
		}
		c.JSON(status, ErrorResponse{Error: msg})
	}
}
