package web

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/example/callsched/internal/calls"
	"github.com/example/callsched/internal/internaltypes"
	"github.com/example/callsched/internal/vapi"
)

type HealthResponse struct {
	Status      string            `json:"status"`
	Service     string            `json:"service"`
	Timestamp   string            `json:"timestamp"`
	Environment map[string]string `json:"environment"`
}

func presence(ok bool) string {
	if ok {
		return "Present"
	}
	return "Missing"
}

func (s *Server) handleHealth(c echo.Context) error {
	cr := s.cfg.Credentials
	return c.JSON(http.StatusOK, HealthResponse{
		Status:    "healthy",
		Service:   serviceName,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Environment: map[string]string{
			"vapiKey":       presence(cr.VapiKey),
			"vapiPhone":     presence(cr.VapiPhone),
			"vapiAssistant": presence(cr.VapiAssistant),
			"pokeKey":       presence(cr.PokeKey),
		},
	})
}

type activeCall struct {
	CallID    string    `json:"callId"`
	UserName  string    `json:"userName"`
	StartedAt time.Time `json:"startedAt"`
}

type DebugResponse struct {
	Server      string       `json:"server"`
	Version     string       `json:"version"`
	Endpoints   []string     `json:"endpoints"`
	ActiveCalls []activeCall `json:"activeCalls"`
	Timestamp   string       `json:"timestamp"`
}

func (s *Server) handleDebug(c echo.Context) error {
	active := []activeCall{}
	if s.monitors != nil {
		for _, e := range s.monitors.Active() {
			active = append(active, activeCall{CallID: e.CallID, UserName: e.UserName, StartedAt: e.StartedAt})
		}
	}
	endpoints := []string{"/health", "/debug", "/metrics", "/api/v1/requests", "/call-status/:callId"}
	if s.mcp != nil {
		endpoints = append([]string{"/mcp"}, endpoints...)
	}
	return c.JSON(http.StatusOK, DebugResponse{
		Server:      serviceName,
		Version:     s.cfg.Version,
		Endpoints:   endpoints,
		ActiveCalls: active,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	})
}

// InboundRequest is the body an automation platform posts.
type InboundRequest struct {
	Body string      `json:"body"`
	User InboundUser `json:"user"`
}

type InboundUser struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Timezone string `json:"timezone"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func (s *Server) handleRequest(c echo.Context) error {
	var req InboundRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}
	if strings.TrimSpace(req.Body) == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "No request body provided"})
	}

	userName := req.User.Name
	if userName == "" {
		userName = req.User.Email
	}
	res, err := s.calls.PlaceCall(c.Request().Context(), calls.Input{
		Request:   req.Body,
		UserName:  userName,
		UserEmail: req.User.Email,
		UserPhone: req.User.Phone,
		TimeZone:  req.User.Timezone,
	})
	switch {
	case errors.Is(err, calls.ErrNoPhoneNumber):
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "No valid phone number found in request",
			Message: `Please include a phone number in your request (e.g., "Call 555-123-4567 to book...")`,
		})
	case err != nil:
		s.logger.Error("request failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "Failed to process reservation request",
			Message: err.Error(),
		})
	}
	return c.JSON(http.StatusOK, res)
}

type CallStatusResponse struct {
	ID                string      `json:"id"`
	Status            vapi.Status `json:"status"`
	Duration          int         `json:"duration"`
	EndedReason       *string     `json:"endedReason,omitempty"`
	Transcript        *string     `json:"transcript,omitempty"`
	Summary           *string     `json:"summary,omitempty"`
	SuccessEvaluation *string     `json:"successEvaluation,omitempty"`
	CreatedAt         *time.Time  `json:"createdAt,omitempty"`
	EndedAt           *time.Time  `json:"endedAt,omitempty"`
}

func (s *Server) handleCallStatus(c echo.Context) error {
	id := c.Param("callId")
	rec, err := s.calls.CallStatus(c.Request().Context(), id)
	switch {
	case errors.Is(err, internaltypes.ErrNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "call not found"})
	case err != nil:
		s.logger.Error("call status failed", zap.String("call_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "Failed to get call status",
			Message: err.Error(),
		})
	}
	return c.JSON(http.StatusOK, CallStatusResponse{
		ID:                rec.ID,
		Status:            rec.Status,
		Duration:          rec.DurationSeconds,
		EndedReason:       rec.EndedReason,
		Transcript:        rec.Transcript,
		Summary:           rec.Summary,
		SuccessEvaluation: rec.SuccessEvaluation,
		CreatedAt:         rec.CreatedAt,
		EndedAt:           rec.EndedAt,
	})
}
