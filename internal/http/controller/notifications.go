package controller

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"wallet_live/internal/auth"
	"wallet_live/internal/config"
	"wallet_live/internal/domain"
	"wallet_live/internal/http/dto"
	"wallet_live/internal/http/resp"
	"wallet_live/internal/model"
	"wallet_live/internal/queue"
	"wallet_live/internal/service/notify"
	"wallet_live/internal/sse"
)

type Handler struct {
	cfg    *config.Config
	svc    *notify.Service
	hub    *sse.Hub
	tokens *auth.TokenManager
	log    *zap.Logger
	pub    queue.Publisher
}

func NewHandler(cfg *config.Config, svc *notify.Service, hub *sse.Hub, tokens *auth.TokenManager, logger *zap.Logger, publisher queue.Publisher) *Handler {
	return &Handler{cfg: cfg, svc: svc, hub: hub, tokens: tokens, log: logger, pub: publisher}
}

func (h *Handler) CreateNotification(c *gin.Context) {
	var req dto.CreateNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: resp.CodeBadRequest, Message: "invalid json"})
		return
	}
	if req.NotificationType == "" || req.Message == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: resp.CodeBadRequest, Message: "notificationType and message are required"})
		return
	}
	created, err := h.svc.Create(c.Request.Context(), model.PushMessage{
		UserID:           req.UserID,
		EventID:          req.EventID,
		EventType:        req.EventType,
		NotificationType: req.NotificationType,
		Title:            req.Title,
		Message:          req.Message,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidNotificationType) {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: resp.CodeBadRequest, Message: "notificationType must be one of: success, error, info"})
			return
		}
		h.log.Error("create notification failed",
			zap.Int64("user_id", req.UserID),
			zap.String("notification_type", req.NotificationType),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Code: resp.CodeInternalError, Message: "failed to create notification"})
		return
	}
	c.JSON(http.StatusCreated, created)
}

// PublishEvent queues a simulated wallet event; the consumer turns it into
// a notification.
func (h *Handler) PublishEvent(c *gin.Context) {
	var req dto.PublishEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: resp.CodeBadRequest, Message: "invalid json"})
		return
	}
	if !domain.IsValidEventType(req.EventType) {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: resp.CodeBadRequest, Message: "eventType must be one of: CHARGE_COMPLETED, SPEND_COMPLETED, REVERSAL_COMPLETED"})
		return
	}

	ev := model.WalletEvent{
		EventID:     req.EventID,
		EventType:   req.EventType,
		UserID:      req.UserID,
		Amount:      req.Amount,
		NewBalance:  req.NewBalance,
		Description: req.Description,
		Reason:      req.Reason,
		OccurredAt:  time.Now().UTC(),
	}
	if ev.EventID == "" {
		ev.EventID = uuid.NewString()
	}
	if req.OccurredAt != nil {
		ev.OccurredAt = req.OccurredAt.UTC()
	}

	if err := h.pub.PublishWalletEvent(c.Request.Context(), ev); err != nil {
		h.log.Error("publish wallet event failed",
			zap.String("event_id", ev.EventID),
			zap.String("event_type", ev.EventType),
			zap.Int64("user_id", ev.UserID),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Code: resp.CodeInternalError, Message: "failed to publish event"})
		return
	}

	c.JSON(http.StatusAccepted, dto.StatusResponse{Code: resp.CodeQueued, Message: ev.EventID})
}

func (h *Handler) ConnectedCount(c *gin.Context) {
	c.JSON(http.StatusOK, dto.ConnectedCountResponse{Count: h.svc.ConnectedCount()})
}

// Stream opens the push channel. Browsers cannot set headers on an
// EventSource, so the access token arrives in the token query parameter.
func (h *Handler) Stream(c *gin.Context) {
	claims, err := h.tokens.ValidateToken(c.Query("token"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Code: resp.CodeUnauthorized, Message: "invalid or missing token"})
		return
	}
	userID := claims.UserID

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		h.log.Error("streaming unsupported", zap.Int64("user_id", userID))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Code: resp.CodeInternalError, Message: "streaming unsupported"})
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	sub := sse.NewSubscriber(userID)
	h.hub.Register(sub)
	defer h.hub.Unregister(sub)

	if _, err := fmt.Fprint(c.Writer, "event: connected\ndata: {\"message\":\"connected\"}\n\n"); err != nil {
		h.log.Error("handshake write failed", zap.Int64("user_id", userID), zap.Error(err))
		return
	}
	flusher.Flush()
	h.log.Info("push channel opened", zap.Int64("user_id", userID), zap.Int("connected", h.hub.ConnectedCount()))

	limit := h.cfg.HistoryLimit
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			limit = n
		}
	}
	if limit > 0 {
		history, err := h.svc.ListHistory(c.Request.Context(), userID, limit)
		if err != nil {
			h.log.Error("list history failed", zap.Int64("user_id", userID), zap.Int("limit", limit), zap.Error(err))
		} else {
			for i := len(history) - 1; i >= 0; i-- {
				if err := writeNotification(c.Writer, history[i]); err != nil {
					h.log.Error("write history notification failed", zap.Int64("user_id", userID), zap.Error(err))
					return
				}
			}
			flusher.Flush()
		}
	}

	interval := h.cfg.SSEHeartbeat
	if interval <= 0 {
		interval = 15 * time.Second
	}
	heartbeat := time.NewTicker(interval)
	defer heartbeat.Stop()

	for {
		select {
		case <-c.Request.Context().Done():
			h.log.Info("push channel closed", zap.Int64("user_id", userID))
			return
		case <-heartbeat.C:
			if _, err := fmt.Fprint(c.Writer, "event: heartbeat\ndata: ping\n\n"); err != nil {
				h.log.Error("heartbeat write failed", zap.Int64("user_id", userID), zap.Error(err))
				return
			}
			flusher.Flush()
		case msg, ok := <-sub.Ch:
			if !ok {
				h.log.Info("push channel replaced by newer subscription", zap.Int64("user_id", userID))
				return
			}
			if err := writeNotification(c.Writer, msg); err != nil {
				h.log.Error("write notification failed", zap.Int64("user_id", userID), zap.Error(err))
				return
			}
			flusher.Flush()
		}
	}
}

func writeNotification(w http.ResponseWriter, msg model.PushMessage) error {
	payload, err := sonic.ConfigStd.Marshal(msg)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "id: %s\nevent: notification\ndata: %s\n\n", msg.EventID, payload)
	return err
}
