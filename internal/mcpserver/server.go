// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the video catalog to LLM clients via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/exvids/internal/apperr"
	"github.com/starford/exvids/internal/models"
	"github.com/starford/exvids/internal/videoref"
	"github.com/starford/exvids/internal/videoservice"
)

// Server wraps the MCP server with catalog tools.
type Server struct {
	mcp *server.MCPServer
	svc *videoservice.Service
}

// New creates a new MCP server with all catalog tools registered.
func New(svc *videoservice.Service, version string) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Exercise Videos",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("add_video",
		mcp.WithDescription("Add an exercise video to the catalog. "+
			"The url must be a YouTube watch link; read "+URLFormatURI+" for the exact rules."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Display name, at most 200 characters")),
		mcp.WithString("url", mcp.Required(), mcp.Description("YouTube watch URL, e.g. "+videoref.Example)),
		mcp.WithString("notes", mcp.Description("Optional free-text notes")),
	), s.addVideo)

	s.mcp.AddTool(mcp.NewTool("list_videos",
		mcp.WithDescription("List videos ordered by name, optionally filtered by a case-insensitive name substring."),
		mcp.WithString("search", mcp.Description("Optional name substring")),
	), s.listVideos)

	s.mcp.AddTool(mcp.NewTool("get_video",
		mcp.WithDescription("Get a single video by its catalog id."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Catalog id returned by add_video or list_videos")),
	), s.getVideo)

	s.mcp.AddTool(mcp.NewTool("check_url",
		mcp.WithDescription("Check whether a URL would be accepted and return its video identifier or rejection reason."),
		mcp.WithString("url", mcp.Required(), mcp.Description("URL to check")),
	), s.checkURL)

	s.mcp.AddResource(
		mcp.NewResource(URLFormatURI, "Accepted URL format",
			mcp.WithResourceDescription("Which YouTube links the catalog accepts and why others are rejected."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readURLFormat,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

type checkResult struct {
	Valid   bool   `json:"valid"`
	VideoID string `json:"video_id,omitempty"`
	Reason  string `json:"reason,omitempty"`
	Message string `json:"message,omitempty"`
}

func (s *Server) addVideo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	rawURL, err := req.RequireString("url")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	v, err := s.svc.Add(ctx, models.NewVideo{
		Name:  name,
		URL:   rawURL,
		Notes: req.GetString("notes", ""),
	})
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(v)
}

func (s *Server) listVideos(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	videos, err := s.svc.List(ctx, req.GetString("search", ""))
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(videos)
}

func (s *Server) getVideo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := req.RequireFloat("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	id, ok := wholeID(raw)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("id must be a positive integer, got %v", raw)), nil
	}
	v, err := s.svc.Get(ctx, id)
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(v)
}

// wholeID converts a JSON number to a catalog id. Fractions, values below 1
// and values beyond int64 are refused.
func wholeID(f float64) (int64, bool) {
	if f != math.Trunc(f) || f < 1 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

func (s *Server) checkURL(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rawURL, err := req.RequireString("url")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	id, err := s.svc.Check(rawURL)
	if err != nil {
		reason, _ := videoref.ReasonOf(err)
		return jsonResult(checkResult{
			Reason:  reason.String(),
			Message: videoservice.ReasonMessage(reason),
		})
	}
	return jsonResult(checkResult{Valid: true, VideoID: id})
}

func (s *Server) readURLFormat(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      URLFormatURI,
			MIMEType: "text/markdown",
			Text:     URLFormat,
		},
	}, nil
}

// toolError reports err with its user-facing message. Rejections also carry
// the reason tag so clients can branch on it.
func toolError(err error) *mcp.CallToolResult {
	msg := videoservice.Message(err)
	if reason, ok := videoref.ReasonOf(err); ok {
		msg = fmt.Sprintf("%s (%s)", msg, reason)
	} else if errors.Is(err, apperr.ErrInvalid) {
		msg = fmt.Sprintf("%s: %v", msg, err)
	}
	return mcp.NewToolResultError(msg)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(out)), nil
}
