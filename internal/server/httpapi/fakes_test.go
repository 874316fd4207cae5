package httpapi

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/dmitrijs2005/taskmanager/internal/common"
	"github.com/dmitrijs2005/taskmanager/internal/logging"
	"github.com/dmitrijs2005/taskmanager/internal/server/models"
	"github.com/dmitrijs2005/taskmanager/internal/server/services"
)

func nopLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// fakeUsers resolves "tok-<id>" tokens for users it knows.
type fakeUsers struct {
	mu      sync.Mutex
	users   map[string]*models.User
	revoked map[string]bool

	registerErr error
	loginErr    error
	updateErr   error
	deleteErr   error
	profileGone bool

	lastPatch    map[string]any
	loggedOut    []string
	profileReads int
}

func newFakeUsers(us ...*models.User) *fakeUsers {
	f := &fakeUsers{users: map[string]*models.User{}, revoked: map[string]bool{}}
	for _, u := range us {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUsers) Register(ctx context.Context, in services.RegisterInput) (*models.User, string, error) {
	if f.registerErr != nil {
		return nil, "", f.registerErr
	}
	u := &models.User{ID: "new", Name: in.Name, Email: in.Email, Age: in.Age, PasswordHash: "hash"}
	f.mu.Lock()
	f.users[u.ID] = u
	f.mu.Unlock()
	return u, "tok-new", nil
}

func (f *fakeUsers) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	if f.loginErr != nil {
		return nil, "", f.loginErr
	}
	for _, u := range f.users {
		if u.Email == email {
			return u, "tok-" + u.ID, nil
		}
	}
	return nil, "", common.ErrInvalidCredentials
}

func (f *fakeUsers) Logout(ctx context.Context, userID, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.revoked[token] = true
	f.loggedOut = append(f.loggedOut, userID+":"+token)
	return nil
}

func (f *fakeUsers) LogoutAll(ctx context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.revoked["tok-"+userID] = true
	f.loggedOut = append(f.loggedOut, userID+":*")
	return nil
}

func (f *fakeUsers) Authenticate(ctx context.Context, token string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.revoked[token] {
		return nil, common.ErrorUnauthorized
	}
	id, ok := strings.CutPrefix(token, "tok-")
	if !ok {
		return nil, common.ErrorUnauthorized
	}
	u, ok := f.users[id]
	if !ok {
		return nil, common.ErrorUnauthorized
	}
	return u, nil
}

func (f *fakeUsers) Profile(ctx context.Context, userID string) (*models.User, error) {
	f.profileReads++
	if f.profileGone {
		return nil, common.ErrorNotFound
	}
	if u, ok := f.users[userID]; ok {
		return u, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsers) UpdateProfile(ctx context.Context, userID string, patch map[string]any) (*models.User, error) {
	f.lastPatch = patch
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	u := *f.users[userID]
	if name, ok := patch["name"].(string); ok {
		u.Name = name
	}
	return &u, nil
}

func (f *fakeUsers) DeleteAccount(ctx context.Context, userID string) (*models.User, error) {
	if f.deleteErr != nil {
		return nil, f.deleteErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	u := f.users[userID]
	delete(f.users, userID)
	return u, nil
}

type fakeTasks struct {
	tasks     map[string]*models.Task
	lastQuery models.TaskQuery
	lastInput services.TaskInput
	err       error
}

func newFakeTasks(ts ...*models.Task) *fakeTasks {
	f := &fakeTasks{tasks: map[string]*models.Task{}}
	for _, t := range ts {
		f.tasks[t.ID] = t
	}
	return f
}

func (f *fakeTasks) Create(ctx context.Context, ownerID string, in services.TaskInput) (*models.Task, error) {
	f.lastInput = in
	if f.err != nil {
		return nil, f.err
	}
	t := &models.Task{ID: "t-new", Description: in.Description, Completed: in.Completed, OwnerID: ownerID}
	f.tasks[t.ID] = t
	return t, nil
}

func (f *fakeTasks) List(ctx context.Context, ownerID string, q models.TaskQuery) ([]*models.Task, error) {
	f.lastQuery = q
	out := []*models.Task{}
	for _, t := range f.tasks {
		if t.OwnerID == ownerID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTasks) Get(ctx context.Context, ownerID, taskID string) (*models.Task, error) {
	t, ok := f.tasks[taskID]
	if !ok || t.OwnerID != ownerID {
		return nil, common.ErrorNotFound
	}
	return t, nil
}

func (f *fakeTasks) Update(ctx context.Context, ownerID, taskID string, patch map[string]any) (*models.Task, error) {
	if _, ok := patch["owner"]; ok {
		return nil, &common.ValidationError{Message: "invalid updates", Fields: map[string]string{"owner": "is not allowed"}}
	}
	t, err := f.Get(ctx, ownerID, taskID)
	if err != nil {
		return nil, err
	}
	if d, ok := patch["description"].(string); ok {
		t.Description = d
	}
	if c, ok := patch["completed"].(bool); ok {
		t.Completed = c
	}
	return t, nil
}

func (f *fakeTasks) Delete(ctx context.Context, ownerID, taskID string) (*models.Task, error) {
	t, err := f.Get(ctx, ownerID, taskID)
	if err != nil {
		return nil, err
	}
	delete(f.tasks, taskID)
	return t, nil
}

type fakeAvatars struct {
	images   map[string][]byte
	filename string
	size     int
	err      error
}

func (f *fakeAvatars) Upload(ctx context.Context, userID, filename string, data []byte) error {
	f.filename = filename
	f.size = len(data)
	if f.err != nil {
		return f.err
	}
	f.images[userID] = data
	return nil
}

func (f *fakeAvatars) Delete(ctx context.Context, userID string) error {
	delete(f.images, userID)
	return nil
}

func (f *fakeAvatars) Get(ctx context.Context, userID string) ([]byte, error) {
	b, ok := f.images[userID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return b, nil
}
