package e2e_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/utkarshverma439/SiteCraft-AI/internal/artifact"
	"github.com/utkarshverma439/SiteCraft-AI/internal/event"
	"github.com/utkarshverma439/SiteCraft-AI/internal/generation"
	"github.com/utkarshverma439/SiteCraft-AI/internal/mockapi"
	"github.com/utkarshverma439/SiteCraft-AI/pkg/types"
)

func inFlight(gen *generation.Orchestrator, id int64) bool {
	_, ok := gen.InFlight(id)
	return ok
}

var _ = Describe("Project Workflows", func() {
	create := func(name string, wt types.WebsiteType) (*types.Project, func() []event.Event, *generation.Orchestrator) {
		s := newStack()
		events := s.Collect()
		p, err := s.Projects.Create(ctx, types.ProjectFields{
			Name:         name,
			Description:  "A neighbourhood place",
			WebsiteType:  wt,
			Requirements: "Show opening hours",
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(p.Status).To(Equal(types.StatusDraft))
		Expect(p.HasCode()).To(BeFalse())
		return p, events, s.Generator
	}

	Describe("CRUD", func() {
		It("should list projects newest first with a total", func() {
			s := newStack()
			for _, name := range []string{"One", "Two", "Three"} {
				_, err := s.Projects.Create(ctx, types.ProjectFields{Name: name, WebsiteType: types.WebsiteBlog})
				Expect(err).NotTo(HaveOccurred())
			}

			page, err := s.Projects.List(ctx, 1, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(page.Total).To(Equal(3))
			Expect(page.Items).To(HaveLen(2))
			Expect(page.Items[0].Name).To(Equal("Three"))

			page, err = s.Projects.List(ctx, 2, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(page.Items).To(HaveLen(1))
			Expect(page.Items[0].Name).To(Equal("One"))
		})

		It("should update and delete a project", func() {
			s := newStack()
			p, err := s.Projects.Create(ctx, types.ProjectFields{Name: "Draft", WebsiteType: types.WebsiteLanding})
			Expect(err).NotTo(HaveOccurred())

			name := "Launch Page"
			updated, err := s.Projects.Update(ctx, p.ID, types.ProjectUpdate{Name: &name})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Name).To(Equal(name))
			Expect(updated.WebsiteType).To(Equal(types.WebsiteLanding))

			Expect(s.Projects.Remove(ctx, p.ID)).To(Succeed())
			_, err = s.Projects.Get(ctx, p.ID)
			Expect(types.IsNotFound(err)).To(BeTrue())
		})

		It("should not expose another user's project", func() {
			owner := newStack()
			p, err := owner.Projects.Create(ctx, types.ProjectFields{Name: "Private", WebsiteType: types.WebsiteOther})
			Expect(err).NotTo(HaveOccurred())

			other := newStack()
			_, err = other.Projects.Get(ctx, p.ID)
			Expect(types.IsNotFound(err)).To(BeTrue())
		})
	})

	Describe("Generation", func() {
		It("should generate and then regenerate a website", func() {
			p, events, gen := create("Corner Bakery", types.WebsiteRestaurant)

			res, err := gen.Generate(ctx, p.ID, generation.BuildPrompt(p))
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Project.Status).To(Equal(types.StatusGenerated))
			Expect(res.Project.HasCode()).To(BeTrue())

			report, err := artifact.Inspect(*res.Project.GeneratedCode)
			Expect(err).NotTo(HaveOccurred())
			Expect(report.Title).To(Equal("Corner Bakery"))
			Expect(report.Sections["menu"]).To(BeTrue())
			Expect(report.Forms).To(Equal(1))

			before := *res.Project.GeneratedCode
			res, err = gen.Regenerate(ctx, p.ID, "Add a reservations banner")
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Project.Status).To(Equal(types.StatusRegenerated))

			diff := artifact.Diff(before, *res.Project.GeneratedCode)
			Expect(diff.Changed()).To(BeTrue())
			Expect(diff.Deletions).To(Equal(0))

			history, err := gen.History(ctx, p.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(history).To(HaveLen(2))
			Expect(history[0].Prompt).To(ContainSubstring("reservations banner"))

			Eventually(func() int {
				n := 0
				for _, e := range events() {
					if e.Type == event.GenerationCompleted {
						n++
					}
				}
				return n
			}).Should(Equal(2))
		})

		It("should refuse to regenerate a draft", func() {
			p, _, gen := create("Empty", types.WebsiteBusiness)

			_, err := gen.Regenerate(ctx, p.ID, "More blue")
			Expect(types.IsKind(err, types.KindGeneration)).To(BeTrue())
			Expect(types.UserMessage(err)).To(Equal("No existing code to modify. Generate website first."))
		})

		It("should reject a second generation for the same project", func() {
			p, _, gen := create("Busy", types.WebsitePortfolio)

			op, err := gen.GenerateAsync(ctx, p.ID, "A photography portfolio")
			Expect(err).NotTo(HaveOccurred())
			Expect(inFlight(gen, p.ID)).To(BeTrue())

			_, err = gen.GenerateAsync(ctx, p.ID, "Another one")
			Expect(generation.IsInProgress(err)).To(BeTrue())

			Eventually(op.Done(), 5*time.Second).Should(BeClosed())
			_, err = op.Wait()
			Expect(err).NotTo(HaveOccurred())
			Expect(inFlight(gen, p.ID)).To(BeFalse())
		})

		It("should leave the project unchanged when cancelled", func() {
			p, _, gen := create("Cancelled", types.WebsiteEcommerce)
			testServer.API.InjectFault("POST", "/api/ai/generate-website", mockapi.Fault{Delay: time.Second, Times: 1})
			DeferCleanup(testServer.API.ClearFaults)

			op, err := gen.GenerateAsync(ctx, p.ID, "A small shop")
			Expect(err).NotTo(HaveOccurred())
			op.Cancel()

			_, err = op.Wait()
			Expect(err).To(HaveOccurred())
			Expect(inFlight(gen, p.ID)).To(BeFalse())
		})

		It("should surface server failures", func() {
			p, events, gen := create("Broken", types.WebsiteBlog)
			testServer.API.InjectFault("POST", "/api/ai/generate-website", mockapi.Fault{
				Status: 500,
				Error:  "Failed to generate website",
				Times:  1,
			})
			DeferCleanup(testServer.API.ClearFaults)

			_, err := gen.Generate(ctx, p.ID, "A travel blog")
			Expect(types.IsKind(err, types.KindServer)).To(BeTrue())
			Expect(types.UserMessage(err)).To(Equal("Failed to generate website"))

			Eventually(func() bool {
				for _, e := range events() {
					if e.Type == event.GenerationFailed {
						return true
					}
				}
				return false
			}).Should(BeTrue())
		})
	})
})
