package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/mcoot/cybersnake/internal/api/response"
	"github.com/mcoot/cybersnake/internal/model"
	"github.com/mcoot/cybersnake/internal/services/autopilot"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		o.printJSON(map[string]string{"message": msg})
	} else {
		fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case []model.LeaderboardEntry:
		o.printLeaderboard(v)
	case model.LeaderboardEntry:
		o.printEntry(v)
	case CheckNameResult:
		o.printCheckName(v)
	case response.Health:
		o.printHealth(v)
	case SimulateResult:
		o.printSimulation(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// CheckNameResult is a name check as printed by the CLI
type CheckNameResult struct {
	Name   string            `json:"name"`
	Result model.CheckResult `json:"result"`
}

// SimulateResult is an unattended run as printed by the CLI
type SimulateResult struct {
	Strategy string            `json:"strategy"`
	Seed     uint64            `json:"seed"`
	Result   *autopilot.Result `json:"result"`
	// Submitted is the stored record when the run was sent to the server
	Submitted *model.LeaderboardEntry `json:"submitted,omitempty"`
}

func (o *Output) printLeaderboard(entries []model.LeaderboardEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(o.w, "No scores yet")
		return
	}
	fmt.Fprintf(o.w, "%-4s %-20s %6s  %s\n", "RANK", "NAME", "SCORE", "DATE")
	for i, e := range entries {
		fmt.Fprintf(o.w, "%-4d %-20s %6d  %s\n", i+1, e.Name, e.Score, e.Date.UTC().Format(time.DateOnly))
	}
}

func (o *Output) printEntry(e model.LeaderboardEntry) {
	fmt.Fprintf(o.w, "Name: %s\n", e.Name)
	fmt.Fprintf(o.w, "Best Score: %d\n", e.Score)
	fmt.Fprintf(o.w, "Date: %s\n", e.Date.UTC().Format(time.DateOnly))
}

func (o *Output) printCheckName(c CheckNameResult) {
	switch c.Result {
	case model.CheckAvailable:
		fmt.Fprintf(o.w, "%s is available\n", c.Name)
	case model.CheckAuthenticated:
		fmt.Fprintf(o.w, "%s is yours\n", c.Name)
	default:
		fmt.Fprintf(o.w, "%s is taken\n", c.Name)
	}
}

func (o *Output) printHealth(h response.Health) {
	fmt.Fprintf(o.w, "Status: %s\n", h.Status)
	if h.Storage != "" {
		fmt.Fprintf(o.w, "Storage: %s\n", h.Storage)
	}
}

func (o *Output) printSimulation(s SimulateResult) {
	fmt.Fprintf(o.w, "Strategy: %s (seed %d)\n", s.Strategy, s.Seed)
	fmt.Fprintf(o.w, "Score: %d\n", s.Result.Score)
	fmt.Fprintf(o.w, "Length: %d\n", s.Result.Length)
	fmt.Fprintf(o.w, "Ticks: %d\n", s.Result.Ticks)
	fmt.Fprintf(o.w, "Ended: %s\n", s.Result.EndReason)
	if s.Submitted != nil {
		fmt.Fprintf(o.w, "Submitted as %s, best %d\n", s.Submitted.Name, s.Submitted.Score)
	}
}
