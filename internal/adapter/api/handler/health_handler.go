package handler

import (
	"net/http"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/labstack/echo/v4"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type HealthHandler struct {
	firestoreClient *firestore.Client
}

var healthHandler *HealthHandler

func NewHealthHandler(firestoreClient *firestore.Client) *HealthHandler {
	return &HealthHandler{
		firestoreClient: firestoreClient,
	}
}

func SetupHealthHandler(firestoreClient *firestore.Client) {
	healthHandler = NewHealthHandler(firestoreClient)
}

func GetHealthHandler() *HealthHandler {
	return healthHandler
}

func (h *HealthHandler) CheckHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "Server is running",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// CheckStoreHealth issues a cheap read against the document store. A
// missing ping document still proves connectivity.
func (h *HealthHandler) CheckStoreHealth(c echo.Context) error {
	_, err := h.firestoreClient.Collection("health").Doc("ping").Get(c.Request().Context())
	if err != nil && status.Code(err) != codes.NotFound {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"status": "Document store connection failed",
			"error":  err.Error(),
		})
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status": "Document store connected successfully",
	})
}
