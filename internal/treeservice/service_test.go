package treeservice

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/starford/eihwaz/internal/apperr"
	"github.com/starford/eihwaz/internal/testutil"
)

func testService(t *testing.T, notes map[string]string) *Service {
	t.Helper()
	_, vault, db := testutil.TestEnv(t)
	for path, content := range notes {
		testutil.WriteNote(t, vault, db, path, content)
	}
	return NewService(vault, db, nil)
}

func TestBuildTree_EndToEnd(t *testing.T) {
	svc := testService(t, map[string]string{
		"r.md": "---\ntitle: Root\n---\n[[a]] [[b]]",
		"a.md": "---\ntitle: A\n---\n",
		"b.md": "---\ntitle: B\n---\n[[a]]",
	})

	tree, err := svc.BuildTree(context.Background(), "r.md")
	if err != nil {
		t.Fatalf("BuildTree: %v", err)
	}
	want := strings.Join([]string{
		"'-* Root",
		"  +-* A",
		"  '-* B",
		"    '-* A",
		"",
	}, "\n")
	if tree.Layout.Text != want {
		t.Errorf("text =\n%s\nwant:\n%s", tree.Layout.Text, want)
	}
	if len(tree.Nav.Records) != len(tree.Layout.Nodes) {
		t.Error("one nav record per arena node")
	}
	if tree.Root != "r.md" {
		t.Errorf("root = %q", tree.Root)
	}
}

func TestBuildTree_RootByTitle(t *testing.T) {
	svc := testService(t, map[string]string{
		"notes/root.md": "---\ntitle: My Root\n---\nno links",
	})

	tree, err := svc.BuildTree(context.Background(), "My Root")
	if err != nil {
		t.Fatalf("BuildTree: %v", err)
	}
	if tree.Root != "notes/root.md" {
		t.Errorf("root = %q", tree.Root)
	}
}

func TestBuildTree_UnknownRoot(t *testing.T) {
	svc := testService(t, nil)
	_, err := svc.BuildTree(context.Background(), "nope")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestBuildTree_RepeatedBuildsIdentical(t *testing.T) {
	svc := testService(t, map[string]string{
		"r.md": "# R\n[[x]] [[y]]",
		"x.md": "# X\n[[y]]",
		"y.md": "# Y\n",
	})

	first, err := svc.BuildTree(context.Background(), "r.md")
	if err != nil {
		t.Fatal(err)
	}
	second, err := svc.BuildTree(context.Background(), "r.md")
	if err != nil {
		t.Fatal(err)
	}
	if first.Layout.Text != second.Layout.Text {
		t.Error("re-render of unchanged vault must be byte-identical")
	}
}

func TestGetNote_WithBacklinks(t *testing.T) {
	svc := testService(t, map[string]string{
		"target.md": "---\ntitle: Target\n---\nbody",
		"src.md":    "# Src\n[[target]]",
	})

	note, err := svc.GetNote(context.Background(), "target.md")
	if err != nil {
		t.Fatalf("GetNote: %v", err)
	}
	if note.Title != "Target" {
		t.Errorf("title = %q", note.Title)
	}
	if len(note.Backlinks) != 1 || note.Backlinks[0] != "src.md" {
		t.Errorf("backlinks = %v", note.Backlinks)
	}
}

func TestGetNote_NotFound(t *testing.T) {
	svc := testService(t, nil)
	_, err := svc.GetNote(context.Background(), "ghost.md")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
