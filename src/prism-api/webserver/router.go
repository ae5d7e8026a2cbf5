package webserver

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/prism-labs/prism-backend/src/prism-api/components/analyzer"
)

func attachRoutes(r *gin.Engine, az *analyzer.Analyzer) {
	// Chrome extensions call from chrome-extension://<id> origins; localhost
	// covers local development of the extension popup.
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return strings.HasPrefix(origin, "chrome-extension://") ||
				strings.HasPrefix(origin, "http://localhost")
		},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))
	r.Use(requestID())

	h := NewAnalyze(az)
	r.POST("/analyze/image", h.Image)
	r.POST("/analyze/text", h.Text)
	r.POST("/analyze/post", h.Post)
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := uuid.NewString()
		c.Set("request_id", id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}
