package mcpserver

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/eihwaz/internal/index"
	"github.com/starford/eihwaz/internal/storage"
	"github.com/starford/eihwaz/internal/testutil"
	"github.com/starford/eihwaz/internal/treeservice"
)

func testServer(t *testing.T) (*Server, *storage.FS, *index.DB) {
	t.Helper()
	_, vault, db := testutil.TestEnv(t)
	srv := New(treeservice.NewService(vault, db, nil))
	return srv, vault, db
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// mcp-go has no direct "call tool" test helper, so the handler
	// functions are exercised directly.
	var result *mcp.CallToolResult
	var err error

	switch name {
	case "render_tree":
		result, err = srv.renderTree(ctx, req)
	case "read_note":
		result, err = srv.readNote(ctx, req)
	case "search_notes":
		result, err = srv.searchNotes(ctx, req)
	case "resolve_link":
		result, err = srv.resolveLink(ctx, req)
	case "get_backlinks":
		result, err = srv.getBacklinks(ctx, req)
	case "get_note_contract":
		result, err = srv.getNoteContract(ctx, req)
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

func TestRenderTree(t *testing.T) {
	srv, vault, db := testServer(t)
	testutil.WriteNote(t, vault, db, "root.md", "---\ntitle: Root\n---\n[[leaf]]\n")
	testutil.WriteNote(t, vault, db, "leaf.md", "---\ntitle: Leaf\n---\n")

	r := callTool(t, srv, "render_tree", map[string]interface{}{"root": "root.md"})
	if r.IsError {
		t.Fatalf("render_tree error: %s", resultText(r))
	}
	want := "'-* Root\n  '-* Leaf\n"
	if got := resultText(r); got != want {
		t.Errorf("tree = %q, want %q", got, want)
	}
}

func TestRenderTreeMissingRoot(t *testing.T) {
	srv, _, _ := testServer(t)
	r := callTool(t, srv, "render_tree", map[string]interface{}{"root": "nope.md"})
	if !r.IsError {
		t.Error("expected error for missing root")
	}
}

func TestReadNote(t *testing.T) {
	srv, vault, db := testServer(t)
	testutil.WriteNote(t, vault, db, "test.md", "# Test\nHello")

	r := callTool(t, srv, "read_note", map[string]interface{}{"path": "test.md"})
	if got := resultText(r); got != "# Test\nHello" {
		t.Errorf("read result = %q", got)
	}
}

func TestReadNoteMissing(t *testing.T) {
	srv, _, _ := testServer(t)
	r := callTool(t, srv, "read_note", map[string]interface{}{"path": "nope.md"})
	if !r.IsError {
		t.Error("expected error for missing note")
	}
}

func TestResolveLink(t *testing.T) {
	srv, vault, db := testServer(t)
	testutil.WriteNote(t, vault, db, "topics/go.md", "---\ntitle: Go Language\n---\n")

	r := callTool(t, srv, "resolve_link", map[string]interface{}{"target": "Go Language"})
	if got := resultText(r); got != "topics/go.md" {
		t.Errorf("resolved = %q, want topics/go.md", got)
	}

	r = callTool(t, srv, "resolve_link", map[string]interface{}{"target": "unknown"})
	if !r.IsError {
		t.Error("expected error for unresolvable target")
	}
}

func TestGetBacklinksTool(t *testing.T) {
	srv, vault, db := testServer(t)
	testutil.WriteNote(t, vault, db, "a.md", "links to [[b]]")

	r := callTool(t, srv, "get_backlinks", map[string]interface{}{"path": "b"})
	if got := resultText(r); got != "a.md" {
		t.Errorf("backlinks = %q, want a.md", got)
	}
}

func TestNoteContract(t *testing.T) {
	srv, _, _ := testServer(t)
	r := callTool(t, srv, "get_note_contract", map[string]interface{}{})
	if !strings.Contains(resultText(r), "wikilinks") {
		t.Error("contract missing wikilink rules")
	}
}
