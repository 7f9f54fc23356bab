package mcumgrclient

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shaharia-lab/goai/mcp"
	"github.com/shaharia-lab/goai/observability"
	"go.opentelemetry.io/otel/attribute"
)

const McuMgrToolName = "mcumgr_device"

// McuMgr exposes a Session's device management operations as an MCP tool.
type McuMgr struct {
	logger  observability.Logger
	session *Session
}

// NewMcuMgr creates and returns a new instance of the McuMgr tool
// wrapper around the provided session.
func NewMcuMgr(logger observability.Logger, session *Session) *McuMgr {
	return &McuMgr{
		logger:  logger,
		session: session,
	}
}

// McuMgrAllInOneTool returns a mcp.Tool that can perform the device
// management operations: list, upload, reset and echo.
func (m *McuMgr) McuMgrAllInOneTool() mcp.Tool {
	return mcp.Tool{
		Name:        McuMgrToolName,
		Description: "Manages firmware images on an MCUmgr device reachable over a serial port",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"operation": {
					"type": "string",
					"enum": ["list", "upload", "reset", "echo"],
					"description": "Device operation to perform"
				},
				"device": {
					"type": "string",
					"description": "Serial device name (/dev/ttyUSBx, COMx)"
				},
				"baudrate": {
					"type": "integer",
					"description": "Baudrate of the serial device"
				},
				"slot": {
					"type": "integer",
					"description": "Image slot number"
				},
				"image": {
					"type": "string",
					"description": "Path of the firmware image to upload"
				},
				"message": {
					"type": "string",
					"description": "Message to echo through the device"
				}
			},
			"required": ["operation"]
		}`),
		Handler: func(ctx context.Context, params mcp.CallToolParams) (mcp.CallToolResult, error) {
			ctx, span := observability.StartSpan(ctx, fmt.Sprintf("%s.Handler", params.Name))
			span.SetAttributes(
				attribute.String("tool_name", params.Name),
				attribute.String("tool_argument", string(params.Arguments)),
			)
			defer span.End()

			m.logger.WithFields(map[string]interface{}{
				"tool_name": params.Name,
				"arguments": string(params.Arguments),
			}).Info("Starting mcumgr operation")

			var input struct {
				Operation string `json:"operation"`
				Device    string `json:"device"`
				Baudrate  int    `json:"baudrate"`
				Slot      int    `json:"slot"`
				Image     string `json:"image"`
				Message   string `json:"message"`
			}

			if err := json.Unmarshal(params.Arguments, &input); err != nil {
				m.logger.WithFields(map[string]interface{}{
					observability.ErrorLogField: err,
					"raw_input":                 string(params.Arguments),
				}).Error("Failed to unmarshal input parameters")

				span.RecordError(err)
				return mcp.CallToolResult{}, fmt.Errorf("failed to unmarshal input: %w", err)
			}

			opts := Options{}
			if input.Device != "" {
				opts["device"] = input.Device
			}
			if input.Baudrate != 0 {
				opts["baudrate"] = input.Baudrate
			}
			if input.Slot != 0 {
				opts["slot"] = input.Slot
			}

			text, err := m.dispatch(ctx, input.Operation, input.Image, input.Message, opts)
			if err != nil {
				m.logger.WithFields(map[string]interface{}{
					observability.ErrorLogField: err,
					"operation":                 input.Operation,
				}).Error("mcumgr operation failed")

				span.RecordError(err)
				return returnErrorOutput(err), nil
			}

			return mcp.CallToolResult{
				Content: []mcp.ToolResultContent{{
					Type: "text",
					Text: text,
				}},
			}, nil
		},
	}
}

func (m *McuMgr) dispatch(ctx context.Context, operation, image, message string, opts Options) (string, error) {
	switch operation {
	case "list":
		resp, err := m.session.List(ctx, opts)
		if err != nil {
			return "", err
		}
		encoded, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			return "", err
		}
		return string(encoded), nil
	case "upload":
		if image == "" {
			return "", fmt.Errorf("image is required for upload")
		}
		if err := m.session.Upload(ctx, image, opts); err != nil {
			return "", err
		}
		return fmt.Sprintf("uploaded %s", image), nil
	case "reset":
		if err := m.session.Reset(ctx, opts); err != nil {
			return "", err
		}
		return "device reset", nil
	case "echo":
		if err := m.session.Echo(ctx, message, opts); err != nil {
			return "", err
		}
		return fmt.Sprintf("echoed %q", message), nil
	default:
		return "", fmt.Errorf("unknown operation: %q", operation)
	}
}

func returnErrorOutput(err error) mcp.CallToolResult {
	return mcp.CallToolResult{
		Content: []mcp.ToolResultContent{
			{
				Type: "text",
				Text: err.Error(),
			},
		},
		IsError: true,
	}
}
