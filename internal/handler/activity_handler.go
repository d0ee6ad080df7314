package handler

import (
	"os"

	"notekeeper-be/internal/dto"
	"notekeeper-be/internal/pkg/logger"
	"notekeeper-be/internal/pkg/serverutils"
	"notekeeper-be/internal/service"
	internalWS "notekeeper-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ActivityHandler serves the audit feed: listings, read flags, deletion and
// the live websocket stream.
type ActivityHandler struct {
	service service.IActivityService
	hub     *internalWS.Hub
	logger  logger.ILogger
}

func NewActivityHandler(service service.IActivityService, hub *internalWS.Hub, log logger.ILogger) *ActivityHandler {
	return &ActivityHandler{
		service: service,
		hub:     hub,
		logger:  log,
	}
}

func (h *ActivityHandler) RegisterRoutes(router fiber.Router) {
	activities := router.Group("/activities")
	activities.Use(serverutils.JwtMiddleware)
	activities.Get("", h.List)
	activities.Get("/unread-count", h.UnreadCount)
	activities.Patch("/read-all", h.MarkAllRead)
	activities.Patch("/:id/read", h.MarkRead)
	activities.Delete("/:id", h.Delete)
	activities.Delete("", h.DeleteAll)

	// WebSocket authenticates inside ServeWs, token may arrive as a query
	// param which JwtMiddleware does not accept.
	router.Get("/ws", h.ServeWs)
}

// ServeWs handles websocket requests from the peer.
func (h *ActivityHandler) ServeWs(c *fiber.Ctx) error {
	// Browsers cannot set headers on websocket dials, so the token comes as a
	// query param first, Authorization header second.
	tokenStr := c.Query("token")
	if tokenStr == "" {
		authHeader := c.Get("Authorization")
		if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			tokenStr = authHeader[7:]
		}
	}
	if tokenStr == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(fiber.StatusUnauthorized, "Missing token"))
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.ErrUnauthorized
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		return c.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(fiber.StatusUnauthorized, "Invalid token"))
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(fiber.StatusUnauthorized, "Invalid claims"))
	}
	userIDStr, _ := claims["user_id"].(string)
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(fiber.StatusUnauthorized, "Token missing user_id"))
	}

	if websocket.IsWebSocketUpgrade(c) {
		return websocket.New(func(conn *websocket.Conn) {
			h.logger.Info("ActivityHandler", "Starting WebSocket session", map[string]interface{}{"user_id": userID})
			internalWS.ServeWs(h.hub, conn, userID)
			h.logger.Info("ActivityHandler", "WebSocket session ended", map[string]interface{}{"user_id": userID})
		})(c)
	}
	return fiber.ErrUpgradeRequired
}

func (h *ActivityHandler) List(c *fiber.Ctx) error {
	userId := callerUserId(c)

	req := dto.ListActivitiesRequest{
		Page:       c.QueryInt("page", 1),
		Limit:      c.QueryInt("limit", 10),
		UnreadOnly: c.QueryBool("unreadOnly", false),
	}

	res, pagination, err := h.service.List(c.Context(), userId, &req)
	if err != nil {
		return err
	}

	return c.JSON(serverutils.PaginatedResponse("Success list activities", res, pagination))
}

func (h *ActivityHandler) UnreadCount(c *fiber.Ctx) error {
	userId := callerUserId(c)

	count, err := h.service.UnreadCount(c.Context(), userId)
	if err != nil {
		return err
	}

	return c.JSON(serverutils.SuccessResponse("Success get unread count", fiber.Map{"unreadCount": count}))
}

func (h *ActivityHandler) MarkRead(c *fiber.Ctx) error {
	userId := callerUserId(c)
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return serverutils.NewValidationError("invalid activity id")
	}

	res, err := h.service.MarkRead(c.Context(), userId, id)
	if err != nil {
		return err
	}

	return c.JSON(serverutils.SuccessResponse("Success mark activity as read", res))
}

func (h *ActivityHandler) MarkAllRead(c *fiber.Ctx) error {
	userId := callerUserId(c)

	res, err := h.service.MarkAllRead(c.Context(), userId)
	if err != nil {
		return err
	}

	return c.JSON(serverutils.SuccessResponse("Success mark all activities as read", res))
}

func (h *ActivityHandler) Delete(c *fiber.Ctx) error {
	userId := callerUserId(c)
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return serverutils.NewValidationError("invalid activity id")
	}

	if err := h.service.Delete(c.Context(), userId, id); err != nil {
		return err
	}

	return c.JSON(serverutils.SuccessResponse[any]("Success delete activity", nil))
}

func (h *ActivityHandler) DeleteAll(c *fiber.Ctx) error {
	userId := callerUserId(c)

	res, err := h.service.DeleteAll(c.Context(), userId)
	if err != nil {
		return err
	}

	return c.JSON(serverutils.SuccessResponse("Success delete all activities", res))
}

func callerUserId(c *fiber.Ctx) uuid.UUID {
	userIdStr, _ := c.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)
	return userId
}
