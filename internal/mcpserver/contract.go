package mcpserver

// NoteFormatContract describes the canonical Markdown note format that
// LLM consumers should follow when creating notes, and how reference
// trees are rendered from them.
const NoteFormatContract = `# Eihwaz Note Format Contract

Every Markdown note stored in Eihwaz MUST follow this structure.

## Structure

` + "```" + `markdown
---
title: Human-readable title        # REQUIRED – first attribute shown on tree lines
keywords: topic-one topic-two      # OPTIONAL – shown after the title
date: 2025-01-15                    # OPTIONAL – ISO-8601 date
tags:                               # OPTIONAL – YAML list; used for filtering
  - tag-one
---

Body text in standard Markdown.

Use [[wikilinks]] to reference other notes (without .md extension).
Use [[target|alias]] for display text that differs from the target.
` + "```" + `

## Rules

1. **YAML frontmatter is mandatory.** The ` + "```" + `---` + "```" + ` fences must be the first
   thing in the file (no leading blank lines).
2. **` + "`" + `title` + "`" + ` field is required.** It is the primary display name everywhere,
   including rendered tree lines.
3. **Wikilinks** use double brackets: ` + "`" + `[[other-note]]` + "`" + `. The target is the
   filename stem (no ` + "`" + `.md` + "`" + ` extension, path separators OK: ` + "`" + `[[folder/note]]` + "`" + `).
   Link order in the body is the child order in rendered trees.
4. **File paths** end with ` + "`" + `.md` + "`" + ` and use forward slashes.
5. **Encoding** is UTF-8 with a trailing newline.

## Trees

The ` + "`" + `render_tree` + "`" + ` tool renders the reference graph reachable from a root
note as an indented tree. Each line is one note, marked with ` + "`" + `*` + "`" + ` and
labelled by its frontmatter attributes. A note already shown earlier in
the walk appears again as a childless repeat rather than being expanded
twice, so cyclic reference graphs always render as finite trees.
`
