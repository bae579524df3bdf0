package mcpserver

import (
	"context"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/exvids/internal/models"
	"github.com/starford/exvids/internal/testutil"
	"github.com/starford/exvids/internal/videoservice"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	db := testutil.TestDB(t)
	return New(videoservice.NewService(db, nil), "test")
}

func callTool(t *testing.T, srv *Server, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	var result *mcp.CallToolResult
	var err error

	switch name {
	case "add_video":
		result, err = srv.addVideo(ctx, req)
	case "list_videos":
		result, err = srv.listVideos(ctx, req)
	case "get_video":
		result, err = srv.getVideo(ctx, req)
	case "check_url":
		result, err = srv.checkURL(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func decode[T any](t *testing.T, r *mcp.CallToolResult) T {
	t.Helper()
	var out T
	if err := json.Unmarshal([]byte(resultText(r)), &out); err != nil {
		t.Fatalf("decode %q: %v", resultText(r), err)
	}
	return out
}

func TestAddAndGetVideo(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "add_video", map[string]any{
		"name":  "bedtime yoga",
		"url":   "https://www.youtube.com/watch?v=6CueZ4zujMk",
		"notes": "slow",
	})
	if r.IsError {
		t.Fatalf("add failed: %s", resultText(r))
	}
	added := decode[models.Video](t, r)
	if added.VideoID != "6CueZ4zujMk" || added.ID == 0 {
		t.Fatalf("added = %+v", added)
	}

	r = callTool(t, srv, "get_video", map[string]any{"id": float64(added.ID)})
	if r.IsError {
		t.Fatalf("get failed: %s", resultText(r))
	}
	got := decode[models.Video](t, r)
	if got.Name != "bedtime yoga" || got.Notes != "slow" {
		t.Errorf("got = %+v", got)
	}
}

func TestAddVideo_Rejected(t *testing.T) {
	srv := testServer(t)
	r := callTool(t, srv, "add_video", map[string]any{
		"name": "x",
		"url":  "https://www.youtube.com/watch?v=",
	})
	if !r.IsError {
		t.Fatal("expected error")
	}
	text := resultText(r)
	if !strings.HasPrefix(text, videoservice.MsgInvalidURL) || !strings.Contains(text, "missing_identifier_parameter") {
		t.Errorf("text = %q", text)
	}
}

func TestAddVideo_Duplicate(t *testing.T) {
	srv := testServer(t)
	args := map[string]any{"name": "a", "url": "https://www.youtube.com/watch?v=abc"}
	if r := callTool(t, srv, "add_video", args); r.IsError {
		t.Fatalf("first add failed: %s", resultText(r))
	}
	r := callTool(t, srv, "add_video", args)
	if !r.IsError || resultText(r) != videoservice.MsgDuplicate {
		t.Errorf("second add = %q (error %v)", resultText(r), r.IsError)
	}
}

func TestAddVideo_MissingArgument(t *testing.T) {
	srv := testServer(t)
	r := callTool(t, srv, "add_video", map[string]any{"name": "a"})
	if !r.IsError {
		t.Error("expected error for missing url")
	}
}

func TestListVideos(t *testing.T) {
	srv := testServer(t)
	for i, name := range []string{"lmn", "AAA", "abc"} {
		callTool(t, srv, "add_video", map[string]any{
			"name": name,
			"url":  "https://www.youtube.com/watch?v=id" + string(rune('0'+i)),
		})
	}

	all := decode[[]models.Video](t, callTool(t, srv, "list_videos", map[string]any{}))
	var names []string
	for _, v := range all {
		names = append(names, v.Name)
	}
	if strings.Join(names, ",") != "AAA,abc,lmn" {
		t.Errorf("names = %v", names)
	}

	found := decode[[]models.Video](t, callTool(t, srv, "list_videos", map[string]any{"search": "A"}))
	if len(found) != 2 {
		t.Errorf("search found %d, want 2", len(found))
	}
}

func TestGetVideo_NotFound(t *testing.T) {
	srv := testServer(t)
	r := callTool(t, srv, "get_video", map[string]any{"id": float64(10000)})
	if !r.IsError || resultText(r) != videoservice.MsgNotFound {
		t.Errorf("result = %q (error %v)", resultText(r), r.IsError)
	}
}

func TestCheckURL(t *testing.T) {
	srv := testServer(t)

	ok := decode[checkResult](t, callTool(t, srv, "check_url", map[string]any{
		"url": "https://www.youtube.com/watch?v=abc&t=10",
	}))
	if !ok.Valid || ok.VideoID != "abc" {
		t.Errorf("valid check = %+v", ok)
	}

	bad := decode[checkResult](t, callTool(t, srv, "check_url", map[string]any{
		"url": "https://youtu.be/abc",
	}))
	if bad.Valid || bad.Reason != "not_expected_host" || bad.Message == "" {
		t.Errorf("invalid check = %+v", bad)
	}
}

func TestURLFormatResource(t *testing.T) {
	srv := testServer(t)
	contents, err := srv.readURLFormat(context.Background(), mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatal(err)
	}
	tc, ok := contents[0].(mcp.TextResourceContents)
	if !ok || !strings.Contains(tc.Text, "https://www.youtube.com/watch?v=6CueZ4zujMk") {
		t.Errorf("resource = %+v", contents)
	}
}

func TestGetVideo_RejectsNonIntegerID(t *testing.T) {
	srv := testServer(t)
	added := decode[models.Video](t, callTool(t, srv, "add_video", map[string]any{
		"name": "first",
		"url":  "https://www.youtube.com/watch?v=first",
	}))

	for _, id := range []float64{float64(added.ID) + 0.9, 0.5, 0, -1, 1e19} {
		r := callTool(t, srv, "get_video", map[string]any{"id": id})
		if !r.IsError {
			t.Errorf("id %v: expected error, got %s", id, resultText(r))
			continue
		}
		if !strings.Contains(resultText(r), "positive integer") {
			t.Errorf("id %v: text = %q", id, resultText(r))
		}
	}
}

func TestWholeID(t *testing.T) {
	tests := []struct {
		in     float64
		want   int64
		wantOK bool
	}{
		{1, 1, true},
		{42, 42, true},
		{1.9, 0, false},
		{0, 0, false},
		{-3, 0, false},
		{math.Inf(1), 0, false},
		{math.NaN(), 0, false},
	}
	for _, tt := range tests {
		got, ok := wholeID(tt.in)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("wholeID(%v) = %d, %v; want %d, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}
