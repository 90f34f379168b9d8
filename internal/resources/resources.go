package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/optimeet/internal/server"
	"github.com/teemow/optimeet/internal/tools/common"
)

// Resource URIs.
const (
	ProfileURI  = "optimeet://profile"
	ContactsURI = "optimeet://contacts"
	MeetingsURI = "optimeet://meetings"
)

// Profile describes the principal and the configured calendar backends.
type Profile struct {
	Name           string `json:"name"`
	CalendarID     string `json:"calendar_id,omitempty"`
	Email          string `json:"email,omitempty"`
	GoogleCalendar bool   `json:"google_calendar"`
	ReadOnly       bool   `json:"read_only"`
	TimeZone       string `json:"time_zone"`
}

// ContactView is a directory entry as exposed to clients.
type ContactView struct {
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	Calendar bool   `json:"has_calendar"`
}

// RegisterResources registers the profile, contacts and meetings resources.
func RegisterResources(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	profileResource := mcp.NewResource(
		ProfileURI,
		"User Profile",
		mcp.WithResourceDescription("The user the meetings are scheduled for and the calendars in use"),
		mcp.WithMIMEType("application/json"),
	)
	s.AddResource(profileResource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return jsonContents(request, profile(sc))
	})

	contactsResource := mcp.NewResource(
		ContactsURI,
		"Contacts",
		mcp.WithResourceDescription("Contacts that meetings can be scheduled with"),
		mcp.WithMIMEType("application/json"),
	)
	s.AddResource(contactsResource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return jsonContents(request, contactViews(sc))
	})

	meetingsResource := mcp.NewResource(
		MeetingsURI,
		"Meetings",
		mcp.WithResourceDescription("Meetings on the local calendar, including their notes and agendas"),
		mcp.WithMIMEType("application/json"),
	)
	s.AddResource(meetingsResource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		meetings := sc.Calendar().Meetings()
		views := make([]common.MeetingView, 0, len(meetings))
		for _, m := range meetings {
			views = append(views, common.NewMeetingView(m))
		}
		return jsonContents(request, views)
	})

	return nil
}

func profile(sc *server.ServerContext) Profile {
	p := sc.Directory().Principal()
	return Profile{
		Name:           p.Name,
		CalendarID:     p.CalendarID,
		Email:          p.Email,
		GoogleCalendar: sc.Google() != nil,
		ReadOnly:       sc.ReadOnly(),
		TimeZone:       sc.Location().String(),
	}
}

func contactViews(sc *server.ServerContext) []ContactView {
	all := sc.Directory().Contacts()
	views := make([]ContactView, 0, len(all))
	for _, c := range all {
		views = append(views, ContactView{Name: c.Name, Email: c.Address(), Calendar: c.CalendarID != ""})
	}
	return views
}

func jsonContents(request mcp.ReadResourceRequest, v any) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal resource: %w", err)
	}

	return []mcp.ResourceContents{
		&mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
