package dto

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	DetailActivityNotFound = "Activity not found"
	DetailAlreadySignedUp  = "Student is already signed up"
	DetailActivityFull     = "Activity is full"
	DetailNotRegistered    = "Student is not signed up for this activity"
	DetailInternalError    = "Service is currently unavailable. Please try again later."
)

type ActivityResponse struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Schedule        string   `json:"schedule"`
	MaxParticipants int      `json:"max_participants"`
	Participants    []string `json:"participants"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Detail string `json:"detail"`
}

type SignupRequest struct {
	ActivityName string `validate:"required"`
	Email        string `validate:"required"`
}

func BadRequestError(c *gin.Context, detail string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Detail: detail})
}

func ActivityNotFoundError(c *gin.Context) {
	c.JSON(http.StatusNotFound, ErrorResponse{Detail: DetailActivityNotFound})
}

func AlreadySignedUpError(c *gin.Context) {
	BadRequestError(c, DetailAlreadySignedUp)
}

func ActivityFullError(c *gin.Context) {
	BadRequestError(c, DetailActivityFull)
}

func NotRegisteredError(c *gin.Context) {
	BadRequestError(c, DetailNotRegistered)
}

func InternalServerError(c *gin.Context) {
	c.JSON(http.StatusInternalServerError, ErrorResponse{Detail: DetailInternalError})
}

func SuccessMessage(c *gin.Context, message string) {
	c.JSON(http.StatusOK, MessageResponse{Message: message})
}
