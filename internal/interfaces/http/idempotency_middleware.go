package http

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/seller-catalog-api/internal/application/dto"
	"github.com/jhoicas/seller-catalog-api/internal/domain/entity"
	"github.com/jhoicas/seller-catalog-api/internal/domain/repository"
	"github.com/jhoicas/seller-catalog-api/pkg/logger"
)

const (
	// HeaderIdempotencyKey cabecera enviada por el cliente para reintentos seguros.
	HeaderIdempotencyKey = "Idempotency-Key"
	// HeaderIdempotentReplay marca las respuestas repetidas desde el store.
	HeaderIdempotentReplay = "Idempotent-Replayed"
)

// Idempotency repite la respuesta guardada cuando llega otra vez la misma Idempotency-Key
// (por usuario, método y ruta) con el mismo cuerpo; con otro cuerpo responde 422.
// Sin cabecera la petición sigue normal. Respuestas 5xx no se guardan.
// Si el store no responde la petición también sigue normal.
func Idempotency(store repository.IdempotencyStore, ttl time.Duration, log *logger.Logger) fiber.Handler {
	if log == nil {
		log = logger.Nop()
	}
	return func(c *fiber.Ctx) error {
		key := c.Get(HeaderIdempotencyKey)
		if key == "" || store == nil {
			return c.Next()
		}
		ctx := c.UserContext()
		scoped := GetUserID(c) + ":" + c.Method() + ":" + c.Path() + ":" + key
		fingerprint := bodyFingerprint(c.Body())

		reserved, err := store.Reserve(ctx, scoped, fingerprint, ttl)
		if err != nil {
			log.Warn().Err(err).Str("idempotency_key", key).Msg("store de idempotencia no disponible")
			return c.Next()
		}
		if !reserved {
			saved, pending, err := store.Lookup(ctx, scoped)
			if err != nil {
				log.Warn().Err(err).Str("idempotency_key", key).Msg("leer respuesta guardada")
				return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "IDEMPOTENCY_UNAVAILABLE", Message: "reintente más tarde"})
			}
			if saved != nil && saved.Fingerprint != "" && saved.Fingerprint != fingerprint {
				return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
					Code:    "IDEMPOTENCY_KEY_REUSED",
					Message: "la Idempotency-Key ya se usó con otro cuerpo",
				})
			}
			if pending || saved == nil {
				return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
					Code:    "IDEMPOTENCY_IN_PROGRESS",
					Message: "una petición con esta Idempotency-Key está en curso",
				})
			}
			c.Set(HeaderIdempotentReplay, "true")
			c.Set(fiber.HeaderContentType, saved.ContentType)
			return c.Status(saved.Status).Send(saved.Body)
		}

		if err := c.Next(); err != nil {
			_ = store.Release(ctx, scoped)
			return err
		}
		status := c.Response().StatusCode()
		if status >= fiber.StatusInternalServerError {
			if err := store.Release(ctx, scoped); err != nil {
				log.Warn().Err(err).Str("idempotency_key", key).Msg("liberar clave")
			}
			return nil
		}
		resp := &entity.IdempotentResponse{
			Fingerprint: fingerprint,
			Status:      status,
			ContentType: string(c.Response().Header.ContentType()),
			Body:        append([]byte(nil), c.Response().Body()...),
		}
		if err := store.Complete(ctx, scoped, resp, ttl); err != nil {
			log.Warn().Err(err).Str("idempotency_key", key).Msg("guardar respuesta idempotente")
			_ = store.Release(ctx, scoped)
		}
		return nil
	}
}

// bodyFingerprint SHA-256 del cuerpo en hex.
func bodyFingerprint(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}
