package e2e_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/utkarshverma439/SiteCraft-AI/citest/testutil"
	"github.com/utkarshverma439/SiteCraft-AI/internal/event"
	"github.com/utkarshverma439/SiteCraft-AI/pkg/types"
)

var _ = Describe("Session Workflows", func() {
	Describe("Account lifecycle", func() {
		It("should register, persist and restore a session", func() {
			account := testutil.NewAccount()

			first, err := testServer.Client("")
			Expect(err).NotTo(HaveOccurred())
			defer first.Close()

			sess, err := first.Session.Register(ctx, account)
			Expect(err).NotTo(HaveOccurred())
			Expect(sess.Token).NotTo(BeEmpty())
			Expect(sess.User.Email).To(Equal(account.Email))

			second, err := testServer.Client(first.Dir)
			Expect(err).NotTo(HaveOccurred())
			defer second.Close()

			Expect(second.Session.IsAuthenticated()).To(BeTrue())
			Expect(second.Session.User().Username).To(Equal(account.Username))
		})

		It("should log in with an existing account", func() {
			account := testutil.NewAccount()
			_, ok := testServer.API.CreateUser(account.Username, account.Email, account.Password, account.FullName)
			Expect(ok).To(BeTrue())

			stack, err := testServer.Client("")
			Expect(err).NotTo(HaveOccurred())
			defer stack.Close()

			sess, err := stack.Session.Login(ctx, account.Email, account.Password)
			Expect(err).NotTo(HaveOccurred())
			Expect(sess.User.FullName).To(Equal(account.FullName))
		})

		It("should reject wrong credentials without a session", func() {
			stack, err := testServer.Client("")
			Expect(err).NotTo(HaveOccurred())
			defer stack.Close()

			_, err = stack.Session.Login(ctx, "nobody@example.com", "secret1")
			Expect(err).To(HaveOccurred())
			Expect(types.IsKind(err, types.KindUnauthorized) || types.IsKind(err, types.KindServer)).To(BeTrue())
			Expect(stack.Session.IsAuthenticated()).To(BeFalse())
		})

		It("should update the profile", func() {
			stack := newStack()
			name := "Renamed User"

			user, err := stack.Session.UpdateProfile(ctx, types.ProfileUpdate{FullName: &name})
			Expect(err).NotTo(HaveOccurred())
			Expect(user.FullName).To(Equal(name))
			Expect(stack.Session.User().FullName).To(Equal(name))
		})

		It("should forget the session on logout", func() {
			stack := newStack()
			Expect(stack.Session.Logout(ctx)).To(Succeed())

			again, err := testServer.Client(stack.Dir)
			Expect(err).NotTo(HaveOccurred())
			defer again.Close()
			Expect(again.Session.IsAuthenticated()).To(BeFalse())

			_, err = again.Projects.List(ctx, 1, 0)
			Expect(types.IsKind(err, types.KindUnauthorized)).To(BeTrue())
		})
	})

	Describe("Expired tokens", func() {
		It("should clear the session on the first 401 and fail fast afterwards", func() {
			stack := newStack()
			events := stack.Collect()

			testServer.API.RevokeToken(stack.Session.Current().Token)

			_, err := stack.Projects.List(ctx, 1, 0)
			Expect(types.IsKind(err, types.KindUnauthorized)).To(BeTrue())
			Expect(stack.Session.IsAuthenticated()).To(BeFalse())

			Eventually(func() []event.EventType {
				var kinds []event.EventType
				for _, e := range events() {
					kinds = append(kinds, e.Type)
				}
				return kinds
			}).Should(ContainElement(event.SessionUnauthorized))

			before := testServer.API.Hits("GET", "/api/projects")
			_, err = stack.Projects.List(ctx, 1, 0)
			Expect(types.IsKind(err, types.KindUnauthorized)).To(BeTrue())
			Expect(testServer.API.Hits("GET", "/api/projects")).To(Equal(before))
		})
	})
})
