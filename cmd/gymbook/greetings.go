package main

import (
	"fmt"
	"io"
	"math/rand"

	"github.com/charmbracelet/lipgloss"
)

var gymGreetings = [...]string{
	"The squat rack has been waiting. It does not wait well.",
	"Your spot in the 7am spin class is not going to book itself.",
	"Rest days are earned. Log in and earn one.",
	"The yoga mats are unrolled. Yours is the one still in the closet.",
	"Somebody just booked the last kettlebell slot. Could have been you.",
	"Progress is booked one class at a time.",
	"The timetable is full of classes. Your calendar is full of excuses.",
	"The coach counted heads this morning. Yours was missing.",
	"Warm up your fingers first. Then the rest of you.",
	"Every streak starts with a single booking.",
}

func printHelp(w io.Writer) {
	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#4ade80")).
		Bold(true).
		Render("G Y M B O O K")

	tagline := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Italic(true).
		Render("Classes, gyms and bookings from your terminal.")

	cmdStyle := lipgloss.NewStyle().Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	commands := []struct{ cmd, desc string }{
		{"gymbook", "Open the dashboard (interactive TUI)"},
		{"gymbook login", "Sign in with email and password"},
		{"gymbook logout", "Clear your session"},
		{"gymbook whoami", "Show the signed-in user"},
		{"gymbook classes", "List classes (--html for markup)"},
		{"gymbook gyms", "List gyms (--html for markup)"},
		{"gymbook bookings", "List your bookings (--html for markup)"},
		{"gymbook book <id>", "Book a class"},
		{"gymbook docs", "Open the API docs"},
		{"gymbook --version", "Show version"},
		{"gymbook help", "You are here"},
	}

	fmt.Fprintf(w, "\n  %s\n\n  %s\n\n  Commands:\n", title, tagline)
	for _, c := range commands {
		fmt.Fprintf(w, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-20s", c.cmd)), descStyle.Render(c.desc))
	}
	env := descStyle.Render("GYMBOOK_API_URL  GYMBOOK_TOKEN  GYMBOOK_HOME  GYMBOOK_LOG_LEVEL")
	fmt.Fprintf(w, "\n  Environment:\n    %s\n\n", env)
}

func printGreeting(w io.Writer) {
	msg := gymGreetings[rand.Intn(len(gymGreetings))]

	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#4ade80")).
		Bold(true).
		Render("GYMBOOK")

	quote := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Italic(true).
		Render(msg)

	hint := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Render("To sign in: gymbook login")

	fmt.Fprintf(w, "\n%s\n\n%s\n\n%s\n\n", title, quote, hint)
}
