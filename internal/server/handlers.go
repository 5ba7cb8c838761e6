package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/cardioscan/heartrisk/constants"
	"github.com/cardioscan/heartrisk/internal/common"
	"github.com/cardioscan/heartrisk/internal/schema"
)

func (s *Server) handlePredict(c *gin.Context) {
	var in schema.FeatureInput
	if err := c.ShouldBindJSON(&in); err != nil {
		s.writeError(c, common.ValidationError("request body is not a valid feature payload"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.cfg.RequestTimeout)
	defer cancel()

	pred, err := s.svc.Predict(ctx, in)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, pred)
}

// uploadResponse mirrors the upload contract: extraction is advisory, so an
// unreadable document degrades to success=false with guidance instead of an
// error status.
type uploadResponse struct {
	Success       bool            `json:"success"`
	Message       string          `json:"message"`
	ExtractedData *schema.Partial `json:"extracted_data"`
	Confidence    float64         `json:"confidence"`
	MissingFields []string        `json:"missing_fields,omitempty"`
}

func (s *Server) handleUpload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.cfg.MaxUploadBytes)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, errorBody{
				Error: "uploaded file exceeds the size limit",
				Code:  common.CodeValidation,
			})
			return
		}
		s.writeError(c, common.ValidationError("multipart field 'file' is required"))
		return
	}
	if fileHeader.Size > s.cfg.MaxUploadBytes {
		c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, errorBody{
			Error: "uploaded file exceeds the size limit",
			Code:  common.CodeValidation,
		})
		return
	}

	if constants.MapExtToFormat(filepath.Ext(fileHeader.Filename)) == "" {
		s.writeError(c, common.UnsupportedFormatError(
			"unsupported file extension; supported: .pdf, .jpg, .jpeg, .png"))
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		s.writeError(c, common.ExtractionError("could not read uploaded file", err))
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		s.writeError(c, common.ExtractionError("could not read uploaded file", err))
		return
	}

	declaredType := fileHeader.Header.Get("Content-Type")

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.cfg.RequestTimeout)
	defer cancel()

	res, err := s.svc.ExtractDocument(ctx, data, declaredType)
	if err != nil {
		s.writeError(c, err)
		return
	}

	if res.Confidence == 0 {
		c.JSON(http.StatusOK, uploadResponse{
			Success:    false,
			Message:    "Could not extract health data from the uploaded file. Please try manual entry.",
			Confidence: 0,
		})
		return
	}

	c.JSON(http.StatusOK, uploadResponse{
		Success:       true,
		Message:       "Health data extracted. Please review, complete any missing fields and submit for prediction.",
		ExtractedData: &res.Fields,
		Confidence:    res.Confidence,
		MissingFields: res.Fields.Missing(),
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	status := "healthy"
	if !s.svc.Healthy() {
		status = "degraded"
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  status,
		"service": "heart-risk-predictor",
	})
}

func (s *Server) handleModelInfo(c *gin.Context) {
	c.JSON(http.StatusOK, s.svc.ModelInfo())
}
