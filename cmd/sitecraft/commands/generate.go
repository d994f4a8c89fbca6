package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/utkarshverma439/SiteCraft-AI/internal/artifact"
	"github.com/utkarshverma439/SiteCraft-AI/internal/generation"
	"github.com/utkarshverma439/SiteCraft-AI/internal/transport"
	"github.com/utkarshverma439/SiteCraft-AI/pkg/types"
)

var (
	generatePrompt string
	regenChanges   string
	regenShowDiff  bool
	promptExample  bool
)

var generateCmd = &cobra.Command{
	Use:   "generate <id>",
	Short: "Generate a project's website",
	Long: `Generate a complete website for a project.

Without --prompt, the prompt is built from the project's name, type,
description and requirements (see 'sitecraft prompt <id>').
Generation can take 1-2 minutes; press Ctrl-C to cancel.`,
	Args: cobra.ExactArgs(1),
	RunE: withApp(runGenerate),
}

var regenerateCmd = &cobra.Command{
	Use:   "regenerate <id>",
	Short: "Modify a project's generated website",
	Long: `Apply modifications to an already generated website.

Example:
  sitecraft regenerate 3 --changes "Add a pricing table and make the header sticky"`,
	Args: cobra.ExactArgs(1),
	RunE: withApp(runRegenerate),
}

var promptCmd = &cobra.Command{
	Use:   "prompt <id>",
	Short: "Print the auto-generated prompt for a project",
	Args:  cobra.ExactArgs(1),
	RunE:  withApp(runPrompt),
}

var historyCmd = &cobra.Command{
	Use:   "history <id>",
	Short: "Show a project's generation history",
	Args:  cobra.ExactArgs(1),
	RunE:  withApp(runHistory),
}

func init() {
	generateCmd.Flags().StringVarP(&generatePrompt, "prompt", "p", "", "Describe the website (default: auto-generated)")

	regenerateCmd.Flags().StringVarP(&regenChanges, "changes", "c", "", "Modifications to apply")
	regenerateCmd.Flags().BoolVar(&regenShowDiff, "diff", false, "Print the patch between the old and new code")

	promptCmd.Flags().BoolVar(&promptExample, "example", false, "Print an example prompt for the project's website type instead")
}

func runGenerate(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	prompt := generatePrompt
	if prompt == "" {
		p, err := a.projects.Get(ctx, id)
		if err != nil {
			return err
		}
		prompt = generation.BuildPrompt(p)
	}

	op, err := a.gen.GenerateAsync(ctx, id, prompt)
	if err != nil {
		return err
	}
	res, err := waitWithInterrupt(cmd, op)
	if err != nil {
		return err
	}

	if ok, err := a.out.structured(res.Project); ok {
		return err
	}
	a.out.success("Website generated successfully! (%s)", seconds(res.Request.Duration))
	fmt.Fprintf(a.out.w, "Export it with: sitecraft project export %d\n", id)
	return nil
}

func runRegenerate(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	before, err := a.projects.Get(ctx, id)
	if err != nil {
		return err
	}

	op, err := a.gen.RegenerateAsync(ctx, id, regenChanges)
	if err != nil {
		return err
	}
	res, err := waitWithInterrupt(cmd, op)
	if err != nil {
		return err
	}

	var old string
	if before.HasCode() {
		old = *before.GeneratedCode
	}
	diff := artifact.Diff(old, *res.Project.GeneratedCode)

	if ok, err := a.out.structured(map[string]any{"project": res.Project, "diff": diff}); ok {
		return err
	}
	a.out.success("Website regenerated successfully! (%s)", seconds(res.Request.Duration))
	fmt.Fprintf(a.out.w, "%s %s\n",
		color.GreenString("+%d", diff.Additions),
		color.RedString("-%d lines", diff.Deletions),
	)
	if regenShowDiff && diff.Patch != "" {
		fmt.Fprintln(a.out.w)
		fmt.Fprint(a.out.w, diff.Patch)
	}
	return nil
}

// waitWithInterrupt waits for op, cancelling it on SIGINT or SIGTERM.
func waitWithInterrupt(cmd *cobra.Command, op *generation.Operation) (*generation.Result, error) {
	stderr := cmd.ErrOrStderr()
	fmt.Fprintln(stderr, color.CyanString("AI is crafting your website... This may take 1-2 minutes."))

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sig)

	select {
	case <-op.Done():
	case <-sig:
		fmt.Fprintln(stderr, "Cancelling...")
		op.Cancel()
		res, err := op.Wait()
		if err != nil && transport.IsCanceled(err) {
			return nil, types.GenerationError("Generation cancelled; the project was not changed")
		}
		return res, err
	}
	return op.Wait()
}

func runPrompt(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	p, err := a.projects.Get(ctx, id)
	if err != nil {
		return err
	}

	text := generation.BuildPrompt(p)
	if promptExample {
		text = generation.ExamplePrompt(p.WebsiteType)
	}
	if ok, err := a.out.structured(map[string]string{"prompt": text}); ok {
		return err
	}
	fmt.Fprintln(a.out.w, text)
	return nil
}

func runHistory(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	entries, err := a.gen.History(ctx, id)
	if err != nil {
		return err
	}
	return a.out.history(entries)
}
