package main

import "github.com/charmbracelet/lipgloss"

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	processStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

func success(s string) string { return successStyle.Render(s) }
func process(s string) string { return processStyle.Render(s) }
func failure(s string) string { return errorStyle.Render(s) }
