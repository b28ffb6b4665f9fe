package testutil

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"qualiobra/cmd/internal/domain/entity"
	cognitoclient "qualiobra/cmd/internal/infrastructure/aws/cognito"
	"qualiobra/cmd/internal/infrastructure/aws/websocket"
	"qualiobra/cmd/internal/infrastructure/minhareceita"
)

// FakeCognito keeps accounts in memory. Every call is recorded by name.
type FakeCognito struct {
	mu        sync.Mutex
	Users     map[string]string // email -> sub
	Calls     []string
	SignUpErr error
}

func NewFakeCognito() *FakeCognito {
	return &FakeCognito{Users: make(map[string]string)}
}

func (f *FakeCognito) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, call)
}

// Called reports whether the named call happened.
func (f *FakeCognito) Called(call string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.Calls {
		if c == call {
			return true
		}
	}
	return false
}

func (f *FakeCognito) SignUp(_ context.Context, user *cognitoclient.User) (string, error) {
	f.record("SignUp:" + user.Email)
	if f.SignUpErr != nil {
		return "", f.SignUpErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	sub := uuid.NewString()
	f.Users[user.Email] = sub
	return sub, nil
}

func (f *FakeCognito) SignIn(_ context.Context, user *cognitoclient.UserLogin) (*cognitoclient.AuthCreate, error) {
	f.record("SignIn:" + user.Email)
	return &cognitoclient.AuthCreate{IDToken: "id-" + user.Email, AccessToken: "access-" + user.Email}, nil
}

func (f *FakeCognito) GlobalSignOut(context.Context, string) error {
	f.record("GlobalSignOut")
	return nil
}

func (f *FakeCognito) AdminSignOut(_ context.Context, username string) error {
	f.record("AdminSignOut:" + username)
	return nil
}

func (f *FakeCognito) AdminCreateUser(_ context.Context, email, _ string) (string, error) {
	f.record("AdminCreateUser:" + email)

	f.mu.Lock()
	defer f.mu.Unlock()
	sub := uuid.NewString()
	f.Users[email] = sub
	return sub, nil
}

func (f *FakeCognito) AdminDeleteUser(_ context.Context, username string) error {
	f.record("AdminDeleteUser:" + username)

	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.Users, username)
	return nil
}

func (f *FakeCognito) ConfirmAccount(_ context.Context, user *cognitoclient.UserConfirmation) error {
	f.record("ConfirmAccount:" + user.Email)
	return nil
}

func (f *FakeCognito) ResendConfirmation(_ context.Context, email string) error {
	f.record("ResendConfirmation:" + email)
	return nil
}

// FakeS3 stores objects in memory.
type FakeS3 struct {
	mu      sync.Mutex
	Objects map[string][]byte
}

func NewFakeS3() *FakeS3 {
	return &FakeS3{Objects: make(map[string][]byte)}
}

func (f *FakeS3) UploadFile(_ context.Context, key string, data []byte, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Objects[key] = data
	return nil
}

func (f *FakeS3) DeleteFile(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.Objects, key)
	return nil
}

func (f *FakeS3) PublicURL(key string) string {
	return "https://cdn.test/" + key
}

func (f *FakeS3) Has(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.Objects[key]
	return ok
}

// FakeGateway records posted messages and deleted connections. Posting to a
// connection listed in Gone fails like a client that already hung up.
type FakeGateway struct {
	mu      sync.Mutex
	Posted  map[string][]any
	Deleted []string
	Gone    map[string]bool
}

func NewFakeGateway() *FakeGateway {
	return &FakeGateway{Posted: make(map[string][]any), Gone: make(map[string]bool)}
}

func (f *FakeGateway) PostToConnection(_ context.Context, connID string, data any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Gone[connID] {
		return websocket.ErrConnectionGone
	}
	f.Posted[connID] = append(f.Posted[connID], data)
	return nil
}

func (f *FakeGateway) DeleteConnection(_ context.Context, connID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Deleted = append(f.Deleted, connID)
	return nil
}

func (f *FakeGateway) PostedCount(connID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Posted[connID])
}

func (f *FakeGateway) DeletedConns() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.Deleted...)
}

type Mail struct {
	To      string
	Subject string
	Body    string
}

type FakeMailer struct {
	mu   sync.Mutex
	Sent []Mail
}

func (f *FakeMailer) Send(_ context.Context, to, subject, htmlBody string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Sent = append(f.Sent, Mail{To: to, Subject: subject, Body: htmlBody})
	return nil
}

func (f *FakeMailer) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Sent)
}

// FakeCompanyFetcher answers from Companies and counts the lookups.
type FakeCompanyFetcher struct {
	mu        sync.Mutex
	Companies map[string]*entity.Company
	Lookups   int
	Err       error
}

func (f *FakeCompanyFetcher) GetByCNPJ(_ context.Context, cnpj string) (*entity.Company, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Lookups++

	if f.Err != nil {
		return nil, f.Err
	}

	c, ok := f.Companies[cnpj]
	if !ok {
		return nil, minhareceita.ErrNotFound
	}
	copied := *c
	return &copied, nil
}
