package handler

import (
	"context"
	"errors"
	"net/http"

	"gigmatch/internal/app/bot/entity"
	"gigmatch/internal/app/bot/repository"
	"gigmatch/internal/app/bot/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MatchingServiceInterface interface {
	GetJob(ctx context.Context, id primitive.ObjectID, expand ...string) (*entity.Job, error)
	FreelancersForJob(ctx context.Context, jobID primitive.ObjectID) ([]entity.User, error)
}

type MatchingHandler struct {
	matchingService MatchingServiceInterface
}

func NewMatchingHandler(matchingService MatchingServiceInterface) *MatchingHandler {
	return &MatchingHandler{
		matchingService: matchingService,
	}
}

func (h *MatchingHandler) GetJob(c *gin.Context) {
	jobID, err := primitive.ObjectIDFromHex(c.Param("job_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid job ID"})
		return
	}

	job, err := h.matchingService.GetJob(c.Request.Context(), jobID,
		repository.ExpandCategory, repository.ExpandClient)
	if err != nil {
		if errors.Is(err, service.ErrJobNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get job"})
		return
	}

	c.JSON(http.StatusOK, job)
}

func (h *MatchingHandler) GetFreelancersForJob(c *gin.Context) {
	jobID, err := primitive.ObjectIDFromHex(c.Param("job_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid job ID"})
		return
	}

	freelancers, err := h.matchingService.FreelancersForJob(c.Request.Context(), jobID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to match freelancers"})
		return
	}

	response := entity.FreelancerListResponse{
		Freelancers: freelancers,
		Total:       len(freelancers),
	}

	c.JSON(http.StatusOK, response)
}
