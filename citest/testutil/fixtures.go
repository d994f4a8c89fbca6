package testutil

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/utkarshverma439/SiteCraft-AI/internal/event"
	"github.com/utkarshverma439/SiteCraft-AI/internal/generation"
	"github.com/utkarshverma439/SiteCraft-AI/internal/project"
	"github.com/utkarshverma439/SiteCraft-AI/internal/session"
	"github.com/utkarshverma439/SiteCraft-AI/internal/storage"
	"github.com/utkarshverma439/SiteCraft-AI/internal/transport"
	"github.com/utkarshverma439/SiteCraft-AI/pkg/types"
)

// RandomString generates a random string of n characters
func RandomString(n int) string {
	bytes := make([]byte, n/2+1)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)[:n]
}

// NewAccount returns registration input with a unique username and email.
func NewAccount() types.RegisterInput {
	id := RandomString(8)
	return types.RegisterInput{
		Username:        "user-" + id,
		Email:           fmt.Sprintf("user-%s@example.com", id),
		FullName:        "Test User " + id,
		Password:        "secret1",
		ConfirmPassword: "secret1",
	}
}

// Stack is a complete client wired against one server, with its own
// session file.
type Stack struct {
	Bus       *event.Bus
	Client    *transport.Client
	Session   *session.Store
	Projects  *project.Repository
	Generator *generation.Orchestrator
	Dir       string
}

// Client builds a new client stack for this server. Stacks sharing dir
// share the persisted session, like two runs of the CLI.
func (ts *TestServer) Client(dir string) (*Stack, error) {
	if dir == "" {
		var err error
		dir, err = os.MkdirTemp(ts.TempDir, "client-*")
		if err != nil {
			return nil, err
		}
	}

	bus := event.NewBus()
	client := transport.NewClient(transport.ClientOptions{BaseURL: ts.BaseURL})
	store := session.NewStore(client, session.NewFileStore(storage.New(filepath.Join(dir, "storage"))), bus)
	store.Attach()
	if _, err := store.Restore(context.Background()); err != nil {
		return nil, err
	}

	repo := project.NewRepository(client, bus, 0)
	return &Stack{
		Bus:       bus,
		Client:    client,
		Session:   store,
		Projects:  repo,
		Generator: generation.New(client, repo, bus, nil),
		Dir:       dir,
	}, nil
}

// Close releases the stack's subscriptions.
func (s *Stack) Close() {
	s.Generator.Close()
	s.Projects.Close()
	s.Bus.Close()
}

// Collect records every event published on the stack's bus.
func (s *Stack) Collect() func() []event.Event {
	ch := make(chan event.Event, 256)
	s.Bus.SubscribeAll(func(e event.Event) { ch <- e })
	return func() []event.Event {
		var out []event.Event
		for {
			select {
			case e := <-ch:
				out = append(out, e)
			default:
				return out
			}
		}
	}
}
