package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mechforge/mechforge/internal/archive"
	"github.com/mechforge/mechforge/internal/platform/timeouts"
)

// ReportGetInput represents the MCP tool input for fetching an archived
// report.
type ReportGetInput struct {
	ReportID string `json:"report_id" jsonschema:"archived report identifier"`
}

// ReportGetResult represents the MCP tool output for fetching an
// archived report.
type ReportGetResult struct {
	Found  bool           `json:"found" jsonschema:"whether the report exists"`
	Report *ReportPayload `json:"report,omitempty" jsonschema:"archived validation report"`
}

// ReportGetTool defines the MCP tool schema for fetching an archived
// report.
func ReportGetTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "report_get",
		Description: "Fetches an archived validation report by id.",
	}
}

// ReportGetHandler serves archived report lookups.
func ReportGetHandler(reports archive.Store) mcp.ToolHandlerFor[ReportGetInput, ReportGetResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ReportGetInput) (*mcp.CallToolResult, ReportGetResult, error) {
		if strings.TrimSpace(input.ReportID) == "" {
			return nil, ReportGetResult{}, fmt.Errorf("report_id is required")
		}

		runCtx, cancel := context.WithTimeout(ctx, timeouts.StoreCall)
		defer cancel()
		report, err := reports.GetReport(runCtx, input.ReportID)
		if err != nil {
			if errors.Is(err, archive.ErrNotFound) {
				return nil, ReportGetResult{Found: false}, nil
			}
			return nil, ReportGetResult{}, fmt.Errorf("get report %s: %w", input.ReportID, err)
		}

		payload := reportToPayload(report)
		return nil, ReportGetResult{Found: true, Report: &payload}, nil
	}
}

// ReportListInput represents the MCP tool input for listing a unit's
// archived reports.
type ReportListInput struct {
	UnitID string `json:"unit_id" jsonschema:"unit whose reports to list"`
}

// ReportListResult represents the MCP tool output for listing a unit's
// archived reports.
type ReportListResult struct {
	Reports []ReportPayload `json:"reports" jsonschema:"archived validation reports for the unit"`
}

// ReportListTool defines the MCP tool schema for listing a unit's
// archived reports.
func ReportListTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "report_list",
		Description: "Lists archived validation reports for a unit.",
	}
}

// ReportListHandler serves archived report listings.
func ReportListHandler(reports archive.Store) mcp.ToolHandlerFor[ReportListInput, ReportListResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ReportListInput) (*mcp.CallToolResult, ReportListResult, error) {
		if strings.TrimSpace(input.UnitID) == "" {
			return nil, ReportListResult{}, fmt.Errorf("unit_id is required")
		}

		runCtx, cancel := context.WithTimeout(ctx, timeouts.StoreCall)
		defer cancel()
		archived, err := reports.ListReportsByUnit(runCtx, input.UnitID)
		if err != nil {
			return nil, ReportListResult{}, fmt.Errorf("list reports for %s: %w", input.UnitID, err)
		}

		payloads := make([]ReportPayload, 0, len(archived))
		for _, report := range archived {
			payloads = append(payloads, reportToPayload(report))
		}
		return nil, ReportListResult{Reports: payloads}, nil
	}
}
