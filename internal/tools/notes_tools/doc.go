// Package notes_tools provides the MCP tools that record and read notes and
// agendas for meetings with contacts.
package notes_tools
