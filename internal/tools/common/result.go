package common

import (
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// JSONResult renders v as an indented JSON text result.
func JSONResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// Result statuses of a per-contact batch.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// ContactResult is the outcome of one contact in a batch.
type ContactResult struct {
	Contact string `json:"contact"`
	Status  string `json:"status"`
	Result  any    `json:"result,omitempty"`
	Error   string `json:"error,omitempty"`
}

// BatchResult aggregates the per-contact results of a batch.
type BatchResult struct {
	Success    bool            `json:"success"`
	Total      int             `json:"total"`
	Successful int             `json:"successful"`
	Failed     int             `json:"failed"`
	Results    []ContactResult `json:"results"`
}

// ProcessContacts runs fn for each contact and collects the outcomes. A
// failing contact does not stop the batch.
func ProcessContacts(contacts []string, fn func(contact string) (any, error)) BatchResult {
	br := BatchResult{Total: len(contacts), Results: make([]ContactResult, 0, len(contacts))}
	for _, c := range contacts {
		r := ContactResult{Contact: c}
		if res, err := fn(c); err != nil {
			r.Status = StatusError
			r.Error = err.Error()
			br.Failed++
		} else {
			r.Status = StatusSuccess
			r.Result = res
			br.Successful++
		}
		br.Results = append(br.Results, r)
	}
	br.Success = br.Failed == 0
	return br
}
