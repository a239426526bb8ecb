package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/adrian9211/private-coach/analysis"
	"github.com/adrian9211/private-coach/fit"
	"github.com/adrian9211/private-coach/internal/log"
	"github.com/adrian9211/private-coach/internal/storage"
)

// Downloader fetches uploaded activity files by key.
type Downloader interface {
	Download(ctx context.Context, key string) ([]byte, error)
}

// ActivityCache stores decoded activities between requests.
type ActivityCache interface {
	Get(ctx context.Context, id string) (*fit.Activity, error)
	Set(ctx context.Context, id string, act *fit.Activity) error
}

// Service decodes FIT files on request, reading them from object
// storage or straight from an upload.
type Service struct {
	storage  Downloader
	cache    ActivityCache
	log      *log.Logger
	maxBytes int64
}

func NewService(store Downloader, activityCache ActivityCache, logger *log.Logger, maxBytes int64) *Service {
	return &Service{
		storage:  store,
		cache:    activityCache,
		log:      logger,
		maxBytes: maxBytes,
	}
}

// response is the envelope every processing endpoint answers with.
type response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message"`
}

// processResult is the data payload for a decoded activity.
type processResult struct {
	ActivityID string        `json:"activityId"`
	Metadata   fit.Metadata  `json:"metadata"`
	Records    []fit.Record  `json:"records"`
	Laps       []fit.Lap     `json:"laps"`
	Sessions   []fit.Session `json:"sessions"`
	Warnings   []fit.Warning `json:"warnings"`
}

func RegisterRoutes(r fiber.Router, svc *Service) {
	r.Post("/process-fit", svc.handleProcessFit)
	r.Post("/process-upload", svc.handleProcessUpload)
}

func (s *Service) handleProcessFit(c *fiber.Ctx) error {
	var body struct {
		ActivityID string `json:"activityId"`
		FileName   string `json:"fileName"`
		FileSize   int64  `json:"fileSize"`
	}
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if body.ActivityID == "" || body.FileName == "" {
		return fiber.NewError(fiber.StatusBadRequest, "activityId and fileName are required")
	}
	if !isFitFile(body.FileName) {
		return fiber.NewError(fiber.StatusBadRequest, "File must be a .fit file")
	}
	if body.FileSize > s.maxBytes {
		return fiber.NewError(fiber.StatusRequestEntityTooLarge,
			fmt.Sprintf("File size %d exceeds the %d byte limit", body.FileSize, s.maxBytes))
	}

	ctx := c.Context()
	if s.cache != nil {
		act, err := s.cache.Get(ctx, body.ActivityID)
		if err != nil {
			s.log.Warn("cache lookup failed", map[string]any{
				"activityId": body.ActivityID,
				"error":      err.Error(),
			})
		} else if act != nil {
			return c.JSON(processResponse(body.ActivityID, act, "FIT file processed successfully"))
		}
	}

	if s.storage == nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "storage is not configured")
	}
	data, err := s.storage.Download(ctx, body.ActivityID+"/"+body.FileName)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "FIT file not found")
		}
		s.log.Error("storage download failed", map[string]any{
			"activityId": body.ActivityID,
			"fileName":   body.FileName,
			"error":      err.Error(),
		})
		return fiber.NewError(fiber.StatusBadGateway, "Failed to download FIT file")
	}

	act, err := s.decode(data)
	if err != nil {
		return err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, body.ActivityID, act); err != nil {
			s.log.Warn("cache store failed", map[string]any{
				"activityId": body.ActivityID,
				"error":      err.Error(),
			})
		}
	}

	s.log.Info("processed activity", map[string]any{
		"activityId": body.ActivityID,
		"records":    len(act.Records),
		"warnings":   len(act.Warnings),
	})
	return c.JSON(processResponse(body.ActivityID, act, "FIT file processed successfully"))
}

func (s *Service) handleProcessUpload(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Request must include a file upload")
	}
	if !isFitFile(fileHeader.Filename) {
		return fiber.NewError(fiber.StatusBadRequest, "File must be a .fit file")
	}

	f, err := fileHeader.Open()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Unreadable file upload")
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Unreadable file upload")
	}

	act, err := s.decode(data)
	if err != nil {
		return err
	}

	uploadID := uuid.NewString()
	s.log.Info("processed upload", map[string]any{
		"uploadId": uploadID,
		"fileName": fileHeader.Filename,
		"records":  len(act.Records),
	})
	return c.JSON(processResponse(uploadID, act, "File processed successfully"))
}

// decode parses and enriches one FIT payload, mapping parse failures
// to 422 so callers can tell a bad file from a bad request.
func (s *Service) decode(data []byte) (*fit.Activity, error) {
	act, err := fit.Decode(data)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusUnprocessableEntity, "Error processing FIT file: "+err.Error())
	}
	analysis.Enrich(act)
	return act, nil
}

func processResponse(id string, act *fit.Activity, message string) response {
	data := processResult{
		ActivityID: id,
		Metadata:   act.Metadata,
		Records:    act.Records,
		Laps:       act.Laps,
		Sessions:   act.Sessions,
		Warnings:   act.Warnings,
	}
	if data.Records == nil {
		data.Records = []fit.Record{}
	}
	if data.Laps == nil {
		data.Laps = []fit.Lap{}
	}
	if data.Sessions == nil {
		data.Sessions = []fit.Session{}
	}
	if data.Warnings == nil {
		data.Warnings = []fit.Warning{}
	}
	return response{Success: true, Data: data, Message: message}
}

func isFitFile(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".fit")
}
