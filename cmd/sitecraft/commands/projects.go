package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/utkarshverma439/SiteCraft-AI/internal/artifact"
	"github.com/utkarshverma439/SiteCraft-AI/pkg/types"
)

var projectCmd = &cobra.Command{
	Use:     "project",
	Aliases: []string{"projects", "p"},
	Short:   "Manage website projects",
}

var (
	projectPage         int
	projectPerPage      int
	projectName         string
	projectDescription  string
	createType          string
	updateType          string
	projectRequirements string
	exportFormat        string
	exportOut           string
)

var projectListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List your projects, newest first",
	Args:    cobra.NoArgs,
	RunE:    withApp(runProjectList),
}

var projectShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a project",
	Args:  cobra.ExactArgs(1),
	RunE:  withApp(runProjectShow),
}

var projectCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a draft project",
	Long: `Create a draft project. Generate its website afterwards with
'sitecraft generate <id>'.

Examples:
  sitecraft project create --name "Corner Bakery" --type restaurant
  sitecraft project create --name Folio --type portfolio --requirements "dark theme"`,
	Args: cobra.NoArgs,
	RunE: withApp(runProjectCreate),
}

var projectUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Edit a project's details",
	Args:  cobra.ExactArgs(1),
	RunE:  withApp(runProjectUpdate),
}

var projectDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a project",
	Args:    cobra.ExactArgs(1),
	RunE:    withApp(runProjectDelete),
}

var projectExportCmd = &cobra.Command{
	Use:   "export <id>",
	Short: "Download a project's generated website",
	Long: `Write the generated website to a file named after the project.

--out may be a file, a directory, or "-" for stdout.`,
	Args: cobra.ExactArgs(1),
	RunE: withApp(runProjectExport),
}

var projectInspectCmd = &cobra.Command{
	Use:   "inspect <id>",
	Short: "Summarize a project's generated HTML",
	Args:  cobra.ExactArgs(1),
	RunE:  withApp(runProjectInspect),
}

func init() {
	projectListCmd.Flags().IntVar(&projectPage, "page", 1, "Page number")
	projectListCmd.Flags().IntVar(&projectPerPage, "per-page", 0, "Projects per page (default from config)")

	projectCreateCmd.Flags().StringVar(&projectName, "name", "", "Project name")
	projectCreateCmd.Flags().StringVar(&projectDescription, "description", "", "What the website is about")
	projectCreateCmd.Flags().StringVar(&createType, "type", string(types.WebsiteBusiness), typeUsage())
	projectCreateCmd.Flags().StringVar(&projectRequirements, "requirements", "", "Extra requirements")

	projectUpdateCmd.Flags().StringVar(&projectName, "name", "", "Project name")
	projectUpdateCmd.Flags().StringVar(&projectDescription, "description", "", "What the website is about")
	projectUpdateCmd.Flags().StringVar(&updateType, "type", "", typeUsage())
	projectUpdateCmd.Flags().StringVar(&projectRequirements, "requirements", "", "Extra requirements")

	projectExportCmd.Flags().StringVar(&exportFormat, "format", "html", "Export format (html|markdown)")
	projectExportCmd.Flags().StringVar(&exportOut, "out", "", "Output file or directory (default: current directory)")

	projectCmd.AddCommand(projectListCmd)
	projectCmd.AddCommand(projectShowCmd)
	projectCmd.AddCommand(projectCreateCmd)
	projectCmd.AddCommand(projectUpdateCmd)
	projectCmd.AddCommand(projectDeleteCmd)
	projectCmd.AddCommand(projectExportCmd)
	projectCmd.AddCommand(projectInspectCmd)
}

// parseID reads a project id argument.
func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, types.ValidationError("invalid project id %q", arg)
	}
	return id, nil
}

func runProjectList(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
	page, err := a.projects.List(ctx, projectPage, projectPerPage)
	if err != nil {
		return err
	}
	return a.out.projects(page)
}

func runProjectShow(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	p, err := a.projects.Get(ctx, id)
	if err != nil {
		return err
	}
	return a.out.project(p)
}

func runProjectCreate(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
	wt, err := parseWebsiteType(createType)
	if err != nil {
		return err
	}
	p, err := a.projects.Create(ctx, types.ProjectFields{
		Name:         projectName,
		Description:  projectDescription,
		WebsiteType:  wt,
		Requirements: projectRequirements,
	})
	if err != nil {
		return err
	}
	if ok, err := a.out.structured(p); ok {
		return err
	}
	a.out.success("Project created successfully (id %d)", p.ID)
	fmt.Fprintf(a.out.w, "Next: sitecraft generate %d\n", p.ID)
	return nil
}

func runProjectUpdate(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	var update types.ProjectUpdate
	flags := cmd.Flags()
	if flags.Changed("name") {
		update.Name = &projectName
	}
	if flags.Changed("description") {
		update.Description = &projectDescription
	}
	if flags.Changed("requirements") {
		update.Requirements = &projectRequirements
	}
	if flags.Changed("type") {
		wt, err := parseWebsiteType(updateType)
		if err != nil {
			return err
		}
		update.WebsiteType = &wt
	}

	p, err := a.projects.Update(ctx, id, update)
	if err != nil {
		return err
	}
	if ok, err := a.out.structured(p); ok {
		return err
	}
	a.out.success("Project updated successfully")
	return nil
}

func runProjectDelete(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	// Already gone counts as deleted.
	if err := a.projects.Remove(ctx, id); err != nil && !types.IsNotFound(err) {
		return err
	}
	a.out.success("Project deleted")
	return nil
}

func runProjectExport(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	p, err := a.projects.Get(ctx, id)
	if err != nil {
		return err
	}
	code, err := artifact.Code(p)
	if err != nil {
		return types.ValidationError("No generated code to download")
	}

	var content, name string
	switch exportFormat {
	case "html":
		content, name = code, artifact.FileName(p.Name)
	case "markdown", "md":
		if content, err = artifact.Markdown(code); err != nil {
			return fmt.Errorf("convert to markdown: %w", err)
		}
		name = artifact.MarkdownFileName(p.Name)
	default:
		return types.ValidationError("unknown export format %q (want html or markdown)", exportFormat)
	}

	if exportOut == "-" {
		_, err := fmt.Fprint(cmd.OutOrStdout(), content)
		return err
	}

	path := name
	if exportOut != "" {
		path = exportOut
		if info, err := os.Stat(exportOut); err == nil && info.IsDir() {
			path = filepath.Join(exportOut, name)
		}
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return err
	}
	a.out.success("Website downloaded to %s", path)
	return nil
}

func runProjectInspect(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	p, err := a.projects.Get(ctx, id)
	if err != nil {
		return err
	}
	code, err := artifact.Code(p)
	if err != nil {
		return types.ValidationError("Project has no generated code yet")
	}
	report, err := artifact.Inspect(code)
	if err != nil {
		return err
	}
	if ok, err := a.out.structured(report); ok {
		return err
	}

	w := a.out.w
	fmt.Fprintf(w, "Title:    %s\n", report.Title)
	fmt.Fprintf(w, "Size:     %d bytes\n", report.Bytes)
	fmt.Fprintf(w, "Scripts:  %d\n", report.Scripts)
	fmt.Fprintf(w, "Styles:   %d\n", report.Styles)
	fmt.Fprintf(w, "Forms:    %d\n", report.Forms)
	fmt.Fprintln(w, "Sections:")
	for _, s := range artifact.Sections {
		present := color.HiBlackString("missing")
		if report.Sections[s] {
			present = color.GreenString("present")
		}
		fmt.Fprintf(w, "  %-13s %s\n", s, present)
	}
	return nil
}
