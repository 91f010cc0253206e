package handlers

import (
	"errors"
	"log"

	"notification-webhook-service/internal/models"

	"github.com/gofiber/fiber/v3"
)

func ErrorHandler(c fiber.Ctx, err error) error {
	if dispatchErr, ok := models.AsDispatchError(err); ok {
		return c.Status(dispatchStatus(dispatchErr.Kind)).JSON(
			models.CreateErrorResponse(string(dispatchErr.Kind), dispatchErr.Message, dispatchErr.Detail))
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(
			models.CreateErrorResponse(statusCode(fiberErr.Code), fiberErr.Message, nil))
	}

	log.Printf("unhandled error on %s %s: %v", c.Method(), c.Path(), err)
	return c.Status(fiber.StatusInternalServerError).JSON(
		models.CreateErrorResponse("INTERNAL_ERROR", err.Error(), nil))
}

func dispatchStatus(kind models.ErrorKind) int {
	switch kind {
	case models.KindLookup:
		return fiber.StatusNotFound
	case models.KindCredential, models.KindDelivery:
		return fiber.StatusBadGateway
	}
	return fiber.StatusInternalServerError
}

func statusCode(status int) string {
	switch status {
	case fiber.StatusBadRequest:
		return "BAD_REQUEST"
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	}
	return "INTERNAL_ERROR"
}
