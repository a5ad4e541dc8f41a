package calls

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/example/callsched/internal/internaltypes"
	"github.com/example/callsched/internal/reservation"
	"github.com/example/callsched/internal/vapi"
)

const (
	DefaultTimeZone = "America/New_York"
	StatusInitiated = "initiated"
	defaultVenue    = "restaurant"
)

var ErrNoPhoneNumber = errors.New("no phone number in request")

// CallAPI is the part of the calling service the orchestrator needs.
type CallAPI interface {
	CreateCall(ctx context.Context, req vapi.CreateCallRequest) (string, error)
	GetCall(ctx context.Context, id string) (vapi.CallRecord, error)
}

// Starter hands a placed call to background monitoring.
type Starter interface {
	Start(callID, userName string) error
}

type Credentials struct {
	APIKey      string
	PhoneID     string
	AssistantID string
}

func (c Credentials) complete() bool {
	return c.APIKey != "" && c.PhoneID != "" && c.AssistantID != ""
}

// Service places calls for free-text requests.
type Service struct {
	API             CallAPI
	Monitor         Starter
	Creds           Credentials
	DefaultTimeZone string
	Log             *zap.Logger
}

type Input struct {
	// PhoneNumber is used when the request text has no number in it.
	PhoneNumber string
	Request     string
	UserName    string

	UserEmail string
	UserPhone string
	TimeZone  string
}

type Details struct {
	Venue         string  `json:"venue"`
	PartySize     *int    `json:"partySize"`
	RequestedDate *string `json:"requestedDate"`
	RequestedTime *string `json:"requestedTime"`
	Phone         string  `json:"phone"`
}

type Result struct {
	Success bool    `json:"success"`
	Message string  `json:"message"`
	CallID  string  `json:"callId"`
	Status  string  `json:"status"`
	Details Details `json:"details"`
}

func (s *Service) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}

// PlaceCall parses in.Request, places the call and starts monitoring it.
// Placement is never retried.
func (s *Service) PlaceCall(ctx context.Context, in Input) (Result, error) {
	if s.API == nil {
		return Result{}, fmt.Errorf("call api is nil")
	}
	if !s.Creds.complete() {
		Placements.WithLabelValues("config_error").Inc()
		return Result{}, internaltypes.ErrConfigIncomplete
	}
	req := reservation.Parse(in.Request, in.UserName)
	phone := req.Phone()
	if phone == "" {
		phone = fallbackPhone(in.PhoneNumber)
	}
	if phone == "" {
		Placements.WithLabelValues("invalid").Inc()
		return Result{}, ErrNoPhoneNumber
	}

	vars := s.variables(req, in)
	s.logger().Info("placing call",
		zap.String("user", req.UserName),
		zap.String("phone", phone),
		zap.String("venue", req.Venue()),
	)

	id, err := s.API.CreateCall(ctx, vapi.CreateCallRequest{
		PhoneNumberID:      s.Creds.PhoneID,
		AssistantID:        s.Creds.AssistantID,
		Customer:           vapi.Customer{Number: phone},
		AssistantOverrides: vapi.AssistantOverrides{VariableValues: vars},
	})
	if err != nil {
		Placements.WithLabelValues("error").Inc()
		s.logger().Error("call placement failed", zap.Error(err))
		return Result{}, err
	}
	Placements.WithLabelValues("placed").Inc()
	s.logger().Info("call placed", zap.String("call_id", id))

	if s.Monitor != nil {
		if err := s.Monitor.Start(id, req.UserName); err != nil {
			s.logger().Warn("monitoring not started", zap.String("call_id", id), zap.Error(err))
		}
	}

	venue := req.Venue()
	if venue == "" {
		venue = defaultVenue
	}
	return Result{
		Success: true,
		Message: fmt.Sprintf("📞 Calling %s to make your reservation...", phone),
		CallID:  id,
		Status:  StatusInitiated,
		Details: Details{
			Venue:         venue,
			PartySize:     req.PartySize,
			RequestedDate: req.Date,
			RequestedTime: req.Time,
			Phone:         phone,
		},
	}, nil
}

func (s *Service) variables(req reservation.Request, in Input) map[string]string {
	tz := in.TimeZone
	if tz == "" {
		tz = s.DefaultTimeZone
	}
	if tz == "" {
		tz = DefaultTimeZone
	}
	userPhone := in.UserPhone
	if userPhone == "" {
		userPhone = in.PhoneNumber
	}
	party := ""
	if req.PartySize != nil {
		party = strconv.Itoa(*req.PartySize)
	}
	return map[string]string{
		"USER_NAME":       req.UserName,
		"USER_PHONE":      userPhone,
		"USER_EMAIL":      in.UserEmail,
		"USER_TZ":         tz,
		"REQUEST_CONTEXT": req.OriginalText,
		"VENUE_NAME":      req.Venue(),
		"PARTY_SIZE":      party,
		"DATE_PREFS":      req.DateText(),
		"TIME_WINDOW":     req.TimeText(),
	}
}

// fallbackPhone normalizes an explicitly supplied number when it looks like
// one, otherwise it is passed through as given.
func fallbackPhone(s string) string {
	if p, ok := reservation.ExtractPhoneNumber(s); ok {
		return p
	}
	return strings.TrimSpace(s)
}

// CallStatus returns the current record for a call.
func (s *Service) CallStatus(ctx context.Context, id string) (vapi.CallRecord, error) {
	if s.API == nil {
		return vapi.CallRecord{}, fmt.Errorf("call api is nil")
	}
	if !s.Creds.complete() {
		return vapi.CallRecord{}, internaltypes.ErrConfigIncomplete
	}
	return s.API.GetCall(ctx, id)
}
