package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/spf13/cobra"

	"github.com/teemow/optimeet/internal/server"
)

// toolCategories groups the tools for the reference.
var toolCategories = map[string]string{
	"find_meeting_slot":  "Scheduling Tools",
	"quick_schedule":     "Scheduling Tools",
	"book_meeting":       "Scheduling Tools",
	"list_meetings":      "Meeting Tools",
	"get_meeting":        "Meeting Tools",
	"set_meeting_agenda": "Meeting Tools",
	"set_meeting_notes":  "Meeting Tools",
	"record_notes":       "Notes Tools",
	"get_notes":          "Notes Tools",
}

// writeTools are registered only with --yolo.
var writeTools = map[string]bool{
	"book_meeting":       true,
	"record_notes":       true,
	"set_meeting_agenda": true,
	"set_meeting_notes":  true,
}

func newGenerateDocsCmd() *cobra.Command {
	var outputFile string

	cmd := &cobra.Command{
		Use:   "generate-docs",
		Short: "Generate MCP tool documentation",
		Long: `Generate a markdown reference of every MCP tool optimeet registers,
read straight from the tool definitions.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			md, err := toolsReference()
			if err != nil {
				return err
			}
			if outputFile == "" {
				_, err = io.WriteString(cmd.OutOrStdout(), md)
				return err
			}
			if err := os.WriteFile(outputFile, []byte(md), 0o644); err != nil {
				return fmt.Errorf("failed to write output file: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Documentation written to: %s\n", outputFile)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	return cmd
}

// toolsReference registers every tool, write tools included, against an
// empty server context and renders them.
func toolsReference() (string, error) {
	sc, err := server.NewServerContext(context.Background(), server.Config{})
	if err != nil {
		return "", fmt.Errorf("failed to create server context: %w", err)
	}
	defer func() { _ = sc.Shutdown() }()

	mcpSrv := newMCPServer()
	if err := registerAllTools(mcpSrv, sc, false); err != nil {
		return "", err
	}

	tools := make([]mcp.Tool, 0)
	for _, st := range mcpSrv.ListTools() {
		tools = append(tools, st.Tool)
	}
	return generateToolsMarkdown(tools), nil
}

func generateToolsMarkdown(tools []mcp.Tool) string {
	grouped := make(map[string][]mcp.Tool)
	for _, tool := range tools {
		category := getCategoryFromToolName(tool.Name)
		grouped[category] = append(grouped[category], tool)
	}
	categories := make([]string, 0, len(grouped))
	for category := range grouped {
		categories = append(categories, category)
	}
	slices.Sort(categories)

	var sb strings.Builder
	sb.WriteString("# MCP Tools Reference\n\n")
	sb.WriteString("Generated by `optimeet generate-docs`. Tools marked *(write)* are only registered when the server runs with `--yolo`.\n\n")

	sb.WriteString("## Table of Contents\n\n")
	for _, category := range categories {
		fmt.Fprintf(&sb, "- [%s](#%s)\n", category, strings.ToLower(strings.ReplaceAll(category, " ", "-")))
	}
	sb.WriteString("\n")

	for _, category := range categories {
		fmt.Fprintf(&sb, "## %s\n\n", category)
		group := grouped[category]
		slices.SortFunc(group, func(a, b mcp.Tool) int { return strings.Compare(a.Name, b.Name) })
		for _, tool := range group {
			writeToolSection(&sb, tool)
		}
	}
	return sb.String()
}

func getCategoryFromToolName(name string) string {
	if category, ok := toolCategories[name]; ok {
		return category
	}
	return "Other"
}

func writeToolSection(sb *strings.Builder, tool mcp.Tool) {
	sb.WriteString("### " + tool.Name)
	if writeTools[tool.Name] {
		sb.WriteString(" (write)")
	}
	sb.WriteString("\n\n")
	if tool.Description != "" {
		sb.WriteString(tool.Description + "\n\n")
	}

	props := tool.InputSchema.Properties
	if len(props) == 0 {
		return
	}
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	slices.Sort(names)

	sb.WriteString("**Arguments:**\n")
	for _, name := range names {
		prop, ok := props[name].(map[string]any)
		if !ok {
			continue
		}
		presence := "optional"
		if slices.Contains(tool.InputSchema.Required, name) {
			presence = "required"
		}
		fmt.Fprintf(sb, "- `%s` (%s): %s\n", name, presence, propertyDescription(prop))
	}
	sb.WriteString("\n")
}

// propertyDescription falls back to the JSON type when a property has no
// description, and appends its default if one is declared.
func propertyDescription(prop map[string]any) string {
	desc, _ := prop["description"].(string)
	if desc == "" {
		typ, ok := prop["type"].(string)
		if !ok {
			typ = "any"
		}
		desc = typ + " parameter"
	}
	if def, ok := prop["default"]; ok {
		desc += fmt.Sprintf(" (default: %v)", def)
	}
	return desc
}
