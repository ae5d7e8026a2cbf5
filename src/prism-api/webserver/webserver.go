// Package webserver exposes the three analysis operations over HTTP for
// the Prism browser extension.
package webserver

import (
	"github.com/gin-gonic/gin"

	"github.com/prism-labs/prism-backend/src/prism-api/components/analyzer"
)

func New(az *analyzer.Analyzer) *gin.Engine {
	g := gin.New()
	g.Use(gin.Logger(), gin.Recovery())
	attachRoutes(g, az)
	return g
}
