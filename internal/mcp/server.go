// Package mcp exposes the operations as a stdio JSON-RPC tool server.
// The process speaks "tools/list" and "tools/call"; every call result
// is a uniform {status, ...} envelope and no internal failure ever
// crosses the stdio boundary as anything but a structured error.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/linkout/linkout/internal/browser"
	"github.com/linkout/linkout/internal/logger"
	"github.com/linkout/linkout/internal/ops"
	"github.com/linkout/linkout/pkg/linkedin"
)

// Operations is the facade the server dispatches to. It is an
// interface so handler behavior can be tested without a browser.
type Operations interface {
	Login(ctx context.Context) (*ops.LoginResult, error)
	BrowseFeed(ctx context.Context, req ops.FeedRequest) (*ops.FeedResult, error)
	SearchProfiles(ctx context.Context, req ops.SearchRequest) (*ops.ProfileSearchResult, error)
	SearchPosts(ctx context.Context, req ops.SearchRequest) (*ops.PostSearchResult, error)
	ViewProfile(ctx context.Context, req ops.ProfileRequest) (*ops.ProfileResult, error)
	InteractPost(ctx context.Context, req ops.PostRequest) (*ops.PostResult, error)
}

// ToolDesc describes a single tool, including its input schema.
type ToolDesc struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

// Server runs the stdio loop and dispatches tool calls.
type Server struct {
	ops         Operations
	callTimeout time.Duration
	tools       []ToolDesc
}

// New wires a server over the given operations. callTimeout bounds a
// single tools/call; zero means the login bound plus slack, since
// login is the longest-running operation.
func New(o Operations, callTimeout time.Duration) *Server {
	if callTimeout == 0 {
		callTimeout = 6 * time.Minute
	}
	s := &Server{ops: o, callTimeout: callTimeout}
	s.initTools()
	return s
}

func (s *Server) initTools() {
	count := map[string]any{"type": "integer", "default": ops.DefaultCount}
	s.tools = []ToolDesc{
		{
			Name:        "login_linkedin",
			Description: "Open LinkedIn login page in browser for manual login.",
			InputSchema: map[string]any{"type": "object", "properties": map[string]any{}, "required": []string{}},
		},
		{
			Name:        "browse_linkedin_feed",
			Description: "Browse LinkedIn feed and return recent posts",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"count": count,
				},
				"required": []string{},
			},
		},
		{
			Name:        "search_linkedin_profiles",
			Description: "Search for LinkedIn profiles matching a query",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"query": map[string]any{"type": "string", "description": "Search query"},
					"count": count,
				},
				"required": []string{"query"},
			},
		},
		{
			Name:        "search_linkedin_posts",
			Description: "Search for LinkedIn posts by keywords",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"query": map[string]any{"type": "string", "description": "Search keywords"},
					"count": count,
				},
				"required": []string{"query"},
			},
		},
		{
			Name:        "view_linkedin_profile",
			Description: "Visit and extract data from a LinkedIn profile URL",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"profile_url": map[string]any{"type": "string", "description": "LinkedIn profile URL"},
				},
				"required": []string{"profile_url"},
			},
		},
		{
			Name:        "interact_with_linkedin_post",
			Description: "Interact with a LinkedIn post (like, comment, or read)",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"post_url": map[string]any{"type": "string", "description": "LinkedIn post URL"},
					"action":   map[string]any{"type": "string", "enum": []string{"like", "comment", "read"}, "default": "read"},
					"comment":  map[string]any{"type": "string", "description": "Comment text (required if action is 'comment')"},
				},
				"required": []string{"post_url"},
			},
		},
	}
}

// Tools returns the advertised tool list.
func (s *Server) Tools() []ToolDesc { return s.tools }

// callTool dispatches one tool invocation and wraps its outcome into
// the uniform envelope.
func (s *Server) callTool(ctx context.Context, name string, args map[string]any) map[string]any {
	payload, err := s.dispatch(ctx, name, args)
	if err != nil {
		logger.Error("tool call failed", "tool", name, "error", err)
		return errorEnvelope(err)
	}
	return successEnvelope(payload)
}

func (s *Server) dispatch(ctx context.Context, name string, args map[string]any) (any, error) {
	switch name {
	case "login_linkedin":
		return s.ops.Login(ctx)
	case "browse_linkedin_feed":
		var req ops.FeedRequest
		if err := decodeArgs(args, &req); err != nil {
			return nil, err
		}
		return s.ops.BrowseFeed(ctx, req)
	case "search_linkedin_profiles":
		var req ops.SearchRequest
		if err := decodeArgs(args, &req); err != nil {
			return nil, err
		}
		return s.ops.SearchProfiles(ctx, req)
	case "search_linkedin_posts":
		var req ops.SearchRequest
		if err := decodeArgs(args, &req); err != nil {
			return nil, err
		}
		return s.ops.SearchPosts(ctx, req)
	case "view_linkedin_profile":
		var req ops.ProfileRequest
		if err := decodeArgs(args, &req); err != nil {
			return nil, err
		}
		return s.ops.ViewProfile(ctx, req)
	case "interact_with_linkedin_post":
		var req ops.PostRequest
		if err := decodeArgs(args, &req); err != nil {
			return nil, err
		}
		return s.ops.InteractPost(ctx, req)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// decodeArgs maps loosely-typed JSON-RPC arguments onto a request
// struct.
func decodeArgs(args map[string]any, req any) error {
	raw, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	if err := json.Unmarshal(raw, req); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

// successEnvelope flattens the payload's fields next to the status key.
func successEnvelope(payload any) map[string]any {
	envelope := map[string]any{"status": "success"}
	raw, err := json.Marshal(payload)
	if err != nil {
		return envelope
	}
	fields := map[string]any{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return envelope
	}
	for k, v := range fields {
		envelope[k] = v
	}
	envelope["status"] = "success"
	return envelope
}

// errorEnvelope converts a failure into the structured error shape,
// mapping known sentinels onto stable user-facing messages.
func errorEnvelope(err error) map[string]any {
	message := err.Error()
	switch {
	case errors.Is(err, browser.ErrNotAuthenticated):
		message = "Not logged in"
	case errors.Is(err, browser.ErrLoginTimeout):
		message = "Login timeout"
	case errors.Is(err, linkedin.ErrInvalidProfileURL):
		message = "Invalid LinkedIn profile URL"
	case errors.Is(err, linkedin.ErrInvalidPostURL):
		message = "Invalid LinkedIn post URL"
	}
	return map[string]any{"status": "error", "message": message}
}
