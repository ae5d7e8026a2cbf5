package webserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/prism-labs/prism-backend/src/prism-api/components/analyzer"
	"github.com/prism-labs/prism-backend/src/prism-api/faults"
)

type Analyze struct {
	az *analyzer.Analyzer
}

func NewAnalyze(az *analyzer.Analyzer) *Analyze {
	return &Analyze{az: az}
}

type imageRequest struct {
	ImageURL string `json:"image_url" binding:"required"`
}

// Text may be empty; an empty claim short-circuits to the canned neutral
// verdict instead of failing validation.
type textRequest struct {
	Text string `json:"text"`
}

type postRequest struct {
	ImageURL string `json:"image_url"`
	Text     string `json:"text"`
	Author   string `json:"author"`
}

func (h *Analyze) Image(c *gin.Context) {
	var req imageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image_url is required"})
		return
	}
	prov, err := h.az.AnalyzeImage(c.Request.Context(), req.ImageURL)
	if err != nil {
		abortWithFault(c, err, "analyze_image")
		return
	}
	c.JSON(http.StatusOK, prov)
}

func (h *Analyze) Text(c *gin.Context) {
	var req textRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	v, err := h.az.AnalyzeText(c.Request.Context(), req.Text)
	if err != nil {
		abortWithFault(c, err, "analyze_text")
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *Analyze) Post(c *gin.Context) {
	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	result, err := h.az.AnalyzePost(c.Request.Context(), req.ImageURL, req.Text, req.Author)
	if err != nil {
		abortWithFault(c, err, "analyze_post")
		return
	}
	c.JSON(http.StatusOK, result)
}

// abortWithFault maps the error taxonomy onto HTTP statuses: any classified
// upstream failure becomes 502 with its message, anything unclassified
// becomes a generic 500 so internals never leak.
func abortWithFault(c *gin.Context, err error, op string) {
	id := c.GetString("request_id")
	if faults.IsUpstream(err) {
		log.Error().Err(err).Str("request_id", id).Str("op", op).
			Str("kind", faults.KindOf(err).String()).Msg("upstream failure")
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "kind": "upstream"})
		return
	}
	log.Error().Err(err).Str("request_id", id).Str("op", op).Msg("internal error")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error", "kind": "internal"})
}
