package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Expenditure-Tracking-App/Expenditure-Tracking-Service/internal/usecase"
)

// PredictHandler handles classification requests
type PredictHandler struct {
	predictUC usecase.PredictUsecase
}

// NewPredictHandler creates a new predict handler
func NewPredictHandler(predictUC usecase.PredictUsecase) *PredictHandler {
	UseJSONFieldNames()
	return &PredictHandler{predictUC: predictUC}
}

// Predict handles POST /predict
func (h *PredictHandler) Predict(c *gin.Context) {
	var input usecase.PredictInput
	if err := c.ShouldBindJSON(&input); err != nil {
		HandleBindingError(c, err)
		return
	}

	output, err := h.predictUC.Predict(c.Request.Context(), &input)
	if err != nil {
		_ = c.Error(err)
		HandleUsecaseError(c, err)
		return
	}

	c.JSON(http.StatusOK, output)
}
