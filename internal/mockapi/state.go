package mockapi

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/utkarshverma439/SiteCraft-AI/pkg/types"
)

type account struct {
	user     types.User
	password string
}

// state is the backend's database.
type state struct {
	mu sync.Mutex

	accounts map[int64]*account
	byEmail  map[string]int64
	tokens   map[string]int64

	projects map[int64]*types.Project
	history  map[int64][]types.HistoryEntry

	nextUserID    int64
	nextProjectID int64
	nextHistoryID int64
}

func newState() *state {
	return &state{
		accounts: make(map[int64]*account),
		byEmail:  make(map[string]int64),
		tokens:   make(map[string]int64),
		projects: make(map[int64]*types.Project),
		history:  make(map[int64][]types.HistoryEntry),
	}
}

func now() types.Timestamp {
	return types.NewTimestamp(time.Now().UTC().Truncate(time.Second))
}

func (st *state) createAccount(username, email, password, fullName string) (types.User, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()

	key := strings.ToLower(email)
	if _, exists := st.byEmail[key]; exists {
		return types.User{}, false
	}
	for _, a := range st.accounts {
		if a.user.Username == username {
			return types.User{}, false
		}
	}

	st.nextUserID++
	ts := now()
	u := types.User{
		ID:        st.nextUserID,
		Username:  username,
		Email:     email,
		FullName:  fullName,
		IsActive:  true,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	st.accounts[u.ID] = &account{user: u, password: password}
	st.byEmail[key] = u.ID
	return u, true
}

func (st *state) authenticate(email, password string) (types.User, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()

	id, ok := st.byEmail[strings.ToLower(email)]
	if !ok {
		return types.User{}, false
	}
	a := st.accounts[id]
	if a.password != password || !a.user.IsActive {
		return types.User{}, false
	}
	return a.user, true
}

func (st *state) issueToken(userID int64) string {
	st.mu.Lock()
	defer st.mu.Unlock()

	token := "tok_" + ulid.Make().String()
	st.tokens[token] = userID
	return token
}

func (st *state) userForToken(token string) (int64, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	id, ok := st.tokens[token]
	return id, ok
}

func (st *state) revokeToken(token string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.tokens, token)
}

func (st *state) revokeAll() {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.tokens = make(map[string]int64)
}

func (st *state) user(id int64) (types.User, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	a, ok := st.accounts[id]
	if !ok {
		return types.User{}, false
	}
	return a.user, true
}

func (st *state) updateUser(id int64, fn func(u *types.User)) (types.User, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	a, ok := st.accounts[id]
	if !ok {
		return types.User{}, false
	}
	oldEmail := strings.ToLower(a.user.Email)
	fn(&a.user)
	a.user.UpdatedAt = now()
	if newEmail := strings.ToLower(a.user.Email); newEmail != oldEmail {
		delete(st.byEmail, oldEmail)
		st.byEmail[newEmail] = id
	}
	return a.user, true
}

func (st *state) emailTaken(email string, except int64) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	id, ok := st.byEmail[strings.ToLower(email)]
	return ok && id != except
}

func (st *state) insertProject(p *types.Project) *types.Project {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.nextProjectID++
	p.ID = st.nextProjectID
	ts := now()
	p.CreatedAt, p.UpdatedAt = ts, ts
	st.projects[p.ID] = p
	return p.Clone()
}

// project returns a copy of the project if it belongs to userID.
func (st *state) project(id, userID int64) (*types.Project, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	p, ok := st.projects[id]
	if !ok || p.UserID != userID {
		return nil, false
	}
	return p.Clone(), true
}

func (st *state) mutateProject(id, userID int64, fn func(p *types.Project)) (*types.Project, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	p, ok := st.projects[id]
	if !ok || p.UserID != userID {
		return nil, false
	}
	fn(p)
	p.UpdatedAt = now()
	return p.Clone(), true
}

func (st *state) deleteProject(id, userID int64) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	p, ok := st.projects[id]
	if !ok || p.UserID != userID {
		return false
	}
	delete(st.projects, id)
	delete(st.history, id)
	return true
}

// listProjects returns one page of the user's projects, newest first, and
// how many projects the user has in total.
func (st *state) listProjects(userID int64, limit, offset int) ([]*types.Project, int) {
	st.mu.Lock()
	defer st.mu.Unlock()

	var all []*types.Project
	for _, p := range st.projects {
		if p.UserID == userID {
			all = append(all, p)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })

	if offset >= len(all) {
		return []*types.Project{}, len(all)
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	out := make([]*types.Project, 0, end-offset)
	for _, p := range all[offset:end] {
		out = append(out, p.Clone())
	}
	return out, len(all)
}

func (st *state) logGeneration(projectID int64, prompt string, elapsed time.Duration, errMsg string) {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.nextHistoryID++
	entry := types.HistoryEntry{
		ID:             st.nextHistoryID,
		Prompt:         prompt,
		GenerationTime: elapsed.Seconds(),
		Success:        errMsg == "",
		CreatedAt:      time.Now().UTC().Format(time.RFC3339),
	}
	if errMsg != "" {
		entry.ErrorMessage = &errMsg
	}
	st.history[projectID] = append(st.history[projectID], entry)
}

// generationHistory returns the project's history, newest first.
func (st *state) generationHistory(projectID int64) []types.HistoryEntry {
	st.mu.Lock()
	defer st.mu.Unlock()

	src := st.history[projectID]
	out := make([]types.HistoryEntry, len(src))
	for i, e := range src {
		out[len(src)-1-i] = e
	}
	return out
}
