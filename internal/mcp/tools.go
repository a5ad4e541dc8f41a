package mcp

import (
	"context"
	"errors"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/example/callsched/internal/calls"
)

type makePhoneCallInput struct {
	PhoneNumber    string `json:"phone_number" jsonschema:"Phone number to call, e.g. 619-853-2051 or +1-619-853-2051"`
	RequestMessage string `json:"request_message" jsonschema:"What to schedule, e.g. book a table for 2 at Luigi's tonight at 7:30 PM"`
	UserName       string `json:"user_name,omitempty" jsonschema:"Name of the person making the appointment (default Customer)"`
}

type callDetails struct {
	Venue         string  `json:"venue"`
	PartySize     *int    `json:"partySize,omitempty"`
	RequestedDate *string `json:"requestedDate,omitempty"`
	RequestedTime *string `json:"requestedTime,omitempty"`
	Phone         string  `json:"phone"`
}

type makePhoneCallOutput struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	CallID  string      `json:"callId"`
	Status  string      `json:"status"`
	Details callDetails `json:"details"`
}

type serverInfoInput struct{}

type serverInfoOutput struct {
	Name         string   `json:"name"`
	Version      string   `json:"version"`
	Description  string   `json:"description"`
	Capabilities []string `json:"capabilities"`
	Status       string   `json:"status"`
	Timestamp    string   `json:"timestamp"`
}

func (s *Server) registerTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "make_phone_call",
		Description: "Make a phone call to schedule appointments at restaurants, medical offices, salons, or any business",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args makePhoneCallInput) (*mcp.CallToolResult, makePhoneCallOutput, error) {
		if args.RequestMessage == "" {
			return nil, makePhoneCallOutput{}, errors.New("request_message is required")
		}
		if s.placer == nil {
			return nil, makePhoneCallOutput{}, errors.New("call placement is not configured")
		}
		res, err := s.placer.PlaceCall(ctx, calls.Input{
			PhoneNumber: args.PhoneNumber,
			Request:     args.RequestMessage,
			UserName:    args.UserName,
		})
		if err != nil {
			s.logger.Error("make_phone_call failed", zap.Error(err))
			return nil, makePhoneCallOutput{}, err
		}
		return nil, makePhoneCallOutput{
			Success: res.Success,
			Message: res.Message,
			CallID:  res.CallID,
			Status:  res.Status,
			Details: callDetails{
				Venue:         res.Details.Venue,
				PartySize:     res.Details.PartySize,
				RequestedDate: res.Details.RequestedDate,
				RequestedTime: res.Details.RequestedTime,
				Phone:         res.Details.Phone,
			},
		}, nil
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_server_info",
		Description: "Get information about this scheduling server",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args serverInfoInput) (*mcp.CallToolResult, serverInfoOutput, error) {
		return nil, s.info(), nil
	})
}

func (s *Server) info() serverInfoOutput {
	return serverInfoOutput{
		Name:         ServerName,
		Version:      s.version,
		Description:  ServerDescription,
		Capabilities: Capabilities,
		Status:       "active",
		Timestamp:    s.now().UTC().Format(time.RFC3339),
	}
}
