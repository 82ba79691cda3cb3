package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"firebase-web/internal/shared/errors"
	"firebase-web/internal/shared/logger"

	"github.com/gofiber/fiber/v2"
)

// respondError writes err as {"error", "message", "code"} with the status HTTPStatus maps it to.
func respondError(c *fiber.Ctx, log logger.Logger, err error) error {
	status := errors.HTTPStatus(err)
	body := fiber.Map{
		"error":   string(errors.ErrorTypeInternal),
		"message": err.Error(),
		"code":    status,
	}
	var appErr *errors.AppError
	if errors.As(err, &appErr) {
		body["error"] = string(appErr.Type)
		body["message"] = appErr.Message
		if len(appErr.Details) > 0 {
			body["details"] = appErr.Details
		}
	}
	if status >= fiber.StatusInternalServerError {
		log.WithContext(c.UserContext()).WithFields(map[string]interface{}{
			"path":  c.Path(),
			"error": err,
		}).Error("Request failed")
	}
	return c.Status(status).JSON(body)
}

// decodeStrict parses exactly one JSON object into v. Unknown fields are rejected so that
// a body of another message type does not pass as an empty one.
func decodeStrict(body []byte, v interface{}) error {
	if len(bytes.TrimSpace(body)) == 0 {
		return errors.NewValidationError("request body is empty").WithCause(errors.ErrInvalidInput)
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.NewValidationError(fmt.Sprintf("malformed request body: %v", err)).WithCause(errors.ErrInvalidInput)
	}
	if _, err := dec.Token(); err != io.EOF {
		return errors.NewValidationError("request body must hold a single JSON object").WithCause(errors.ErrInvalidInput)
	}
	return nil
}

// writeOnce sends a result that serializes itself with a single write.
func writeOnce(c *fiber.Ctx, w io.WriterTo) error {
	c.Status(fiber.StatusOK)
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
	_, err := w.WriteTo(c.Response().BodyWriter())
	return err
}
