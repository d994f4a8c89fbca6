package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/utkarshverma439/SiteCraft-AI/pkg/types"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

// printer renders command results in the selected output format.
type printer struct {
	w      io.Writer
	format string
}

func newPrinter(w io.Writer, format string) *printer {
	return &printer{w: w, format: strings.ToLower(strings.TrimSpace(format))}
}

func (p *printer) validate() error {
	switch p.format {
	case formatTable, formatJSON, formatYAML:
		return nil
	default:
		return fmt.Errorf("unknown output format %q (want table, json or yaml)", p.format)
	}
}

// structured writes v as JSON or YAML and reports whether it did. Table
// output is left to the caller.
func (p *printer) structured(v any) (bool, error) {
	switch p.format {
	case formatJSON:
		enc := json.NewEncoder(p.w)
		enc.SetIndent("", "  ")
		return true, enc.Encode(v)
	case formatYAML:
		// Round-trip through JSON so YAML keys match the wire names.
		data, err := json.Marshal(v)
		if err != nil {
			return true, err
		}
		var generic any
		if err := json.Unmarshal(data, &generic); err != nil {
			return true, err
		}
		enc := yaml.NewEncoder(p.w)
		enc.SetIndent(2)
		if err := enc.Encode(generic); err != nil {
			return true, err
		}
		return true, enc.Close()
	default:
		return false, nil
	}
}

func (p *printer) success(format string, args ...any) {
	if p.format != formatTable {
		return
	}
	fmt.Fprintln(p.w, color.GreenString("✓")+" "+fmt.Sprintf(format, args...))
}

func (p *printer) projects(page *types.Page[*types.Project]) error {
	if ok, err := p.structured(page); ok {
		return err
	}
	if len(page.Items) == 0 {
		fmt.Fprintln(p.w, "No projects yet. Create one with 'sitecraft project create'.")
		return nil
	}

	w := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTYPE\tSTATUS\tUPDATED\t")
	for _, proj := range page.Items {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t\n",
			proj.ID,
			proj.Name,
			proj.WebsiteType,
			statusString(proj.Status),
			when(proj.UpdatedAt),
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(p.w, "\nPage %d (%d per page), %d total\n", page.Page, page.PerPage, page.Total)
	return nil
}

func (p *printer) project(proj *types.Project) error {
	if ok, err := p.structured(proj); ok {
		return err
	}

	w := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID:\t%d\n", proj.ID)
	fmt.Fprintf(w, "Name:\t%s\n", proj.Name)
	fmt.Fprintf(w, "Type:\t%s\n", proj.WebsiteType)
	fmt.Fprintf(w, "Status:\t%s\n", statusString(proj.Status))
	if proj.Description != "" {
		fmt.Fprintf(w, "Description:\t%s\n", proj.Description)
	}
	if proj.Requirements != "" {
		fmt.Fprintf(w, "Requirements:\t%s\n", proj.Requirements)
	}
	if proj.HasCode() {
		fmt.Fprintf(w, "Code:\t%d bytes\n", len(*proj.GeneratedCode))
	}
	fmt.Fprintf(w, "Created:\t%s\n", when(proj.CreatedAt))
	fmt.Fprintf(w, "Updated:\t%s\n", when(proj.UpdatedAt))
	return w.Flush()
}

func (p *printer) user(u *types.User) error {
	if ok, err := p.structured(u); ok {
		return err
	}
	w := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Username:\t%s\n", u.Username)
	fmt.Fprintf(w, "Full name:\t%s\n", u.FullName)
	fmt.Fprintf(w, "Email:\t%s\n", u.Email)
	fmt.Fprintf(w, "Member since:\t%s\n", when(u.CreatedAt))
	return w.Flush()
}

func (p *printer) history(entries []types.HistoryEntry) error {
	if ok, err := p.structured(entries); ok {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(p.w, "No generations yet.")
		return nil
	}
	w := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tWHEN\tSECONDS\tOK\tPROMPT\t")
	for _, e := range entries {
		ok := color.GreenString("yes")
		if !e.Success {
			ok = color.RedString("no")
		}
		fmt.Fprintf(w, "%d\t%s\t%.1f\t%s\t%s\t\n", e.ID, e.CreatedAt, e.GenerationTime, ok, truncate(e.Prompt, 60))
	}
	return w.Flush()
}

func statusString(s types.Status) string {
	switch s {
	case types.StatusGenerated:
		return color.GreenString(string(s))
	case types.StatusRegenerated:
		return color.CyanString(string(s))
	default:
		return color.HiBlackString(string(s))
	}
}

func when(ts types.Timestamp) string {
	if ts.IsZero() {
		return "-"
	}
	return ts.Local().Format("2006-01-02 15:04")
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

func seconds(d time.Duration) string {
	return fmt.Sprintf("%.1fs", d.Seconds())
}
