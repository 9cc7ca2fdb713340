package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/aiclub-backend/internal/data/repos"
	types "github.com/yungbote/aiclub-backend/internal/domain"
	"github.com/yungbote/aiclub-backend/internal/platform/ctxutil"
	"github.com/yungbote/aiclub-backend/internal/platform/dbctx"
	"github.com/yungbote/aiclub-backend/internal/platform/gcp"
)

// memStore backs every fake repo. fakeTx snapshots it and restores on error,
// so a failed transaction leaves no trace.
type memStore struct {
	mu       sync.Mutex
	users    map[uuid.UUID]types.User
	tokens   map[uuid.UUID]types.UserToken
	clubs    map[uuid.UUID]types.Club
	agents   map[uuid.UUID]types.Agent
	prompts  map[uuid.UUID]types.DynamicPrompt
	progress map[uuid.UUID]types.StudentProgress
	licenses map[uuid.UUID]types.LicenseRequest
	manuals  map[uuid.UUID]types.Manual

	manualSeq int
	txOpen    int
	rowLocks  map[uuid.UUID]*sync.Mutex

	manualCreateErr error
}

func newMemStore() *memStore {
	return &memStore{
		users:    map[uuid.UUID]types.User{},
		tokens:   map[uuid.UUID]types.UserToken{},
		clubs:    map[uuid.UUID]types.Club{},
		agents:   map[uuid.UUID]types.Agent{},
		prompts:  map[uuid.UUID]types.DynamicPrompt{},
		progress: map[uuid.UUID]types.StudentProgress{},
		licenses: map[uuid.UUID]types.LicenseRequest{},
		manuals:  map[uuid.UUID]types.Manual{},
		rowLocks: map[uuid.UUID]*sync.Mutex{},
	}
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *memStore) snapshot() *memStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &memStore{
		users:    cloneMap(s.users),
		tokens:   cloneMap(s.tokens),
		clubs:    cloneMap(s.clubs),
		agents:   cloneMap(s.agents),
		prompts:  cloneMap(s.prompts),
		progress: cloneMap(s.progress),
		licenses: cloneMap(s.licenses),
		manuals:  cloneMap(s.manuals),

		manualSeq: s.manualSeq,
	}
}

func (s *memStore) restore(snap *memStore) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users, s.tokens, s.clubs = snap.users, snap.tokens, snap.clubs
	s.agents, s.prompts, s.progress = snap.agents, snap.prompts, snap.progress
	s.licenses, s.manuals = snap.licenses, snap.manuals
	s.manualSeq = snap.manualSeq
}

func (s *memStore) inTx() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.txOpen > 0
}

type fakeTx struct {
	store *memStore
	calls int
}

// fakeTxLocks collects the row locks a fake transaction holds until it ends.
type fakeTxLocks struct{ release []func() }

type fakeTxLocksKey struct{}

func (s *memStore) lockRow(ctx context.Context, id uuid.UUID) {
	s.mu.Lock()
	l, ok := s.rowLocks[id]
	if !ok {
		l = &sync.Mutex{}
		s.rowLocks[id] = l
	}
	s.mu.Unlock()
	l.Lock()
	if held, ok := ctx.Value(fakeTxLocksKey{}).(*fakeTxLocks); ok {
		held.release = append(held.release, l.Unlock)
		return
	}
	l.Unlock()
}

func (f *fakeTx) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	f.store.mu.Lock()
	f.calls++
	f.store.mu.Unlock()
	held := &fakeTxLocks{}
	ctx = context.WithValue(ctx, fakeTxLocksKey{}, held)
	defer func() {
		for _, release := range held.release {
			release()
		}
	}()
	snap := f.store.snapshot()
	f.store.mu.Lock()
	f.store.txOpen++
	f.store.mu.Unlock()
	defer func() {
		f.store.mu.Lock()
		f.store.txOpen--
		f.store.mu.Unlock()
	}()
	if err := fn(dbctx.Context{Ctx: ctx}); err != nil {
		f.store.restore(snap)
		return err
	}
	return nil
}

// ---- users ----

type fakeUserRepo struct{ s *memStore }

func (r fakeUserRepo) Create(dbc dbctx.Context, users []*types.User) ([]*types.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range users {
		for _, existing := range r.s.users {
			if existing.Email == u.Email {
				return nil, gorm.ErrDuplicatedKey
			}
		}
		if u.ID == uuid.Nil {
			u.ID = uuid.New()
		}
		r.s.users[u.ID] = *u
	}
	return users, nil
}

func (r fakeUserRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u, ok := r.s.users[id]; ok {
		return &u, nil
	}
	return nil, nil
}

func (r fakeUserRepo) GetByEmail(dbc dbctx.Context, email string) (*types.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

func (r fakeUserRepo) EmailExists(dbc dbctx.Context, email string) (bool, error) {
	u, err := r.GetByEmail(dbc, email)
	return u != nil, err
}

func (r fakeUserRepo) List(dbc dbctx.Context, filter repos.UserListFilter) ([]*types.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*types.User
	for _, u := range r.s.users {
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		u := u
		out = append(out, &u)
	}
	return out, nil
}

func (r fakeUserRepo) Update(dbc dbctx.Context, id uuid.UUID, fields map[string]any) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil
	}
	for k, v := range fields {
		switch k {
		case "first_name":
			u.FirstName = v.(string)
		case "last_name":
			u.LastName = v.(string)
		case "role":
			u.Role = v.(string)
		case "is_active":
			u.IsActive = v.(bool)
		case "club_id":
			id := v.(uuid.UUID)
			u.ClubID = &id
		}
	}
	r.s.users[id] = u
	return nil
}

func (r fakeUserRepo) Delete(dbc dbctx.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.users, id)
	return nil
}

func (r fakeUserRepo) CountByRole(dbc dbctx.Context, role string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, u := range r.s.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

// ---- tokens ----

type fakeTokenRepo struct{ s *memStore }

func (r fakeTokenRepo) Create(dbc dbctx.Context, toks []*types.UserToken) ([]*types.UserToken, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, t := range toks {
		r.s.tokens[t.ID] = *t
	}
	return toks, nil
}

func (r fakeTokenRepo) find(match func(types.UserToken) bool) *types.UserToken {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, t := range r.s.tokens {
		if match(t) {
			return &t
		}
	}
	return nil
}

func (r fakeTokenRepo) GetByAccessToken(dbc dbctx.Context, access string) (*types.UserToken, error) {
	return r.find(func(t types.UserToken) bool { return t.AccessToken == access }), nil
}

func (r fakeTokenRepo) GetByRefreshToken(dbc dbctx.Context, refresh string) (*types.UserToken, error) {
	return r.find(func(t types.UserToken) bool { return t.RefreshToken == refresh }), nil
}

func (r fakeTokenRepo) DeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, id := range ids {
		delete(r.s.tokens, id)
	}
	return nil
}

func (r fakeTokenRepo) DeleteByUserIDs(dbc dbctx.Context, userIDs []uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, t := range r.s.tokens {
		for _, uid := range userIDs {
			if t.UserID == uid {
				delete(r.s.tokens, id)
			}
		}
	}
	return nil
}

func (r fakeTokenRepo) DeleteExpired(dbc dbctx.Context, before time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, t := range r.s.tokens {
		if t.ExpiresAt.Before(before) {
			delete(r.s.tokens, id)
			n++
		}
	}
	return n, nil
}

// ---- clubs ----

type fakeClubRepo struct{ s *memStore }

func (r fakeClubRepo) Create(dbc dbctx.Context, c *types.Club) (*types.Club, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.clubs {
		if existing.Name == c.Name {
			return nil, gorm.ErrDuplicatedKey
		}
	}
	r.s.clubs[c.ID] = *c
	return c, nil
}

func (r fakeClubRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Club, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if c, ok := r.s.clubs[id]; ok {
		return &c, nil
	}
	return nil, nil
}

func (r fakeClubRepo) List(dbc dbctx.Context) ([]*types.Club, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*types.Club
	for _, c := range r.s.clubs {
		c := c
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// ---- agents ----

type fakeAgentRepo struct{ s *memStore }

func (r fakeAgentRepo) Create(dbc dbctx.Context, a *types.Agent) (*types.Agent, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	r.s.agents[a.ID] = *a
	return a, nil
}

func (r fakeAgentRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Agent, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if a, ok := r.s.agents[id]; ok {
		return &a, nil
	}
	return nil, nil
}

func (r fakeAgentRepo) List(dbc dbctx.Context, includeInactive bool) ([]*types.Agent, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*types.Agent
	for _, a := range r.s.agents {
		if !a.IsActive && !includeInactive {
			continue
		}
		a := a
		a.IconPresent = len(a.Icon) > 0
		a.Icon = nil
		out = append(out, &a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DisplayOrder < out[j].DisplayOrder })
	return out, nil
}

func (r fakeAgentRepo) Update(dbc dbctx.Context, id uuid.UUID, fields map[string]any) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.agents[id]
	if !ok {
		return nil
	}
	for k, v := range fields {
		switch k {
		case "title":
			a.Title = v.(string)
		case "subtitle":
			a.Subtitle = v.(string)
		case "prompt":
			a.Prompt = v.(string)
		case "tool_name":
			a.ToolName = v.(string)
		case "video_url":
			a.VideoURL = v.(string)
		case "is_active":
			a.IsActive = v.(bool)
		case "display_order":
			a.DisplayOrder = v.(int)
		case "icon":
			a.Icon = v.([]byte)
		case "icon_content_type":
			a.IconContentType = v.(string)
		}
	}
	r.s.agents[id] = a
	return nil
}

func (r fakeAgentRepo) Delete(dbc dbctx.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for pid, p := range r.s.prompts {
		if p.AgentID == id {
			delete(r.s.prompts, pid)
		}
	}
	delete(r.s.agents, id)
	return nil
}

func (r fakeAgentRepo) Count(dbc dbctx.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.agents)), nil
}

func (r fakeAgentRepo) ActiveToolNameExists(dbc dbctx.Context, toolName string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.agents {
		if a.IsActive && a.ToolName == toolName {
			return true, nil
		}
	}
	return false, nil
}

// ---- dynamic prompts ----

type fakePromptRepo struct{ s *memStore }

func (r fakePromptRepo) Create(dbc dbctx.Context, p *types.DynamicPrompt) (*types.DynamicPrompt, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().Add(time.Duration(len(r.s.prompts)) * time.Millisecond)
	}
	r.s.prompts[p.ID] = *p
	return p, nil
}

func (r fakePromptRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.DynamicPrompt, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p, ok := r.s.prompts[id]; ok {
		return &p, nil
	}
	return nil, nil
}

func (r fakePromptRepo) filter(match func(types.DynamicPrompt) bool) []*types.DynamicPrompt {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*types.DynamicPrompt
	for _, p := range r.s.prompts {
		if match(p) {
			p := p
			out = append(out, &p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (r fakePromptRepo) List(dbc dbctx.Context) ([]*types.DynamicPrompt, error) {
	return r.filter(func(types.DynamicPrompt) bool { return true }), nil
}

func (r fakePromptRepo) ListByAgentID(dbc dbctx.Context, agentID uuid.UUID) ([]*types.DynamicPrompt, error) {
	return r.filter(func(p types.DynamicPrompt) bool { return p.AgentID == agentID }), nil
}

func (r fakePromptRepo) Update(dbc dbctx.Context, id uuid.UUID, fields map[string]any) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.prompts[id]
	if !ok {
		return nil
	}
	for k, v := range fields {
		switch k {
		case "agent_id":
			p.AgentID = v.(uuid.UUID)
		case "system_prompt":
			p.SystemPrompt = v.(string)
		case "user_prompt":
			p.UserPrompt = v.(string)
		}
	}
	r.s.prompts[id] = p
	return nil
}

func (r fakePromptRepo) Delete(dbc dbctx.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.prompts, id)
	return nil
}

// ---- progress ----

type fakeProgressRepo struct{ s *memStore }

func (r fakeProgressRepo) GetByUserID(dbc dbctx.Context, userID uuid.UUID) (*types.StudentProgress, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p, ok := r.s.progress[userID]; ok {
		p.AppsUnlocked = append(datatypes.JSONSlice[string]{}, p.AppsUnlocked...)
		return &p, nil
	}
	return nil, nil
}

func (r fakeProgressRepo) GetOrCreate(dbc dbctx.Context, userID uuid.UUID) (*types.StudentProgress, error) {
	r.s.mu.Lock()
	if _, ok := r.s.progress[userID]; !ok {
		r.s.progress[userID] = types.StudentProgress{ID: uuid.New(), UserID: userID, AppsUnlocked: datatypes.JSONSlice[string]{}}
	}
	r.s.mu.Unlock()
	return r.GetByUserID(dbc, userID)
}

func (r fakeProgressRepo) GetForUpdate(dbc dbctx.Context, userID uuid.UUID) (*types.StudentProgress, error) {
	r.s.lockRow(dbc.Ctx, userID)
	return r.GetOrCreate(dbc, userID)
}

func (r fakeProgressRepo) IncrementPrompts(dbc dbctx.Context, userID uuid.UUID, by int) (*types.StudentProgress, error) {
	if _, err := r.GetOrCreate(dbc, userID); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	p := r.s.progress[userID]
	if by > 0 {
		p.PromptsCompleted += by
	}
	r.s.progress[userID] = p
	r.s.mu.Unlock()
	return r.GetByUserID(dbc, userID)
}

func (r fakeProgressRepo) SetAppsUnlocked(dbc dbctx.Context, userID uuid.UUID, apps []string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p := r.s.progress[userID]
	p.AppsUnlocked = append(datatypes.JSONSlice[string]{}, apps...)
	r.s.progress[userID] = p
	return nil
}

// ---- license requests ----

type fakeLicenseRepo struct{ s *memStore }

func (r fakeLicenseRepo) Create(dbc dbctx.Context, req *types.LicenseRequest) (*types.LicenseRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	if req.Status == "" {
		req.Status = types.LicenseStatusPending
	}
	r.s.licenses[req.ID] = *req
	return req, nil
}

func (r fakeLicenseRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.LicenseRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if req, ok := r.s.licenses[id]; ok {
		return &req, nil
	}
	return nil, nil
}

func (r fakeLicenseRepo) List(dbc dbctx.Context, status string) ([]*types.LicenseRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*types.LicenseRequest
	for _, req := range r.s.licenses {
		if status != "" && req.Status != status {
			continue
		}
		req := req
		out = append(out, &req)
	}
	return out, nil
}

func (r fakeLicenseRepo) Transition(dbc dbctx.Context, id uuid.UUID, fromStatus string, fields map[string]any) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	req, ok := r.s.licenses[id]
	if !ok || req.Status != fromStatus {
		return false, nil
	}
	for k, v := range fields {
		switch k {
		case "status":
			req.Status = v.(string)
		case "reviewed_by":
			id := v.(uuid.UUID)
			req.ReviewedBy = &id
		case "reviewed_at":
			at := v.(time.Time)
			req.ReviewedAt = &at
		case "club_id":
			id := v.(uuid.UUID)
			req.ClubID = &id
		case "user_id":
			id := v.(uuid.UUID)
			req.UserID = &id
		}
	}
	r.s.licenses[id] = req
	return true, nil
}

func (r fakeLicenseRepo) Delete(dbc dbctx.Context, id uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, ok := r.s.licenses[id]
	delete(r.s.licenses, id)
	return ok, nil
}

func (r fakeLicenseRepo) CountByStatus(dbc dbctx.Context, status string) (int64, error) {
	list, _ := r.List(dbc, status)
	return int64(len(list)), nil
}

// ---- manuals ----

type fakeManualRepo struct{ s *memStore }

func (r fakeManualRepo) Create(dbc dbctx.Context, m *types.Manual) (*types.Manual, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.manualCreateErr != nil {
		return nil, r.s.manualCreateErr
	}
	for _, existing := range r.s.manuals {
		if existing.Version == m.Version {
			return nil, gorm.ErrDuplicatedKey
		}
	}
	r.s.manuals[m.ID] = *m
	return m, nil
}

func (r fakeManualRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Manual, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if m, ok := r.s.manuals[id]; ok {
		return &m, nil
	}
	return nil, nil
}

func (r fakeManualRepo) List(dbc dbctx.Context) ([]*types.Manual, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*types.Manual
	for _, m := range r.s.manuals {
		m := m
		out = append(out, &m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Version > out[j].Version })
	return out, nil
}

func (r fakeManualRepo) GetLatest(dbc dbctx.Context) (*types.Manual, error) {
	list, _ := r.List(dbc)
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (r fakeManualRepo) MaxVersion(dbc dbctx.Context) (int, error) {
	latest, _ := r.GetLatest(dbc)
	if latest == nil {
		return 0, nil
	}
	return latest.Version, nil
}

func (r fakeManualRepo) NextVersion(dbc dbctx.Context) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, m := range r.s.manuals {
		if m.Version > r.s.manualSeq {
			r.s.manualSeq = m.Version
		}
	}
	r.s.manualSeq++
	return r.s.manualSeq, nil
}

func (r fakeManualRepo) Delete(dbc dbctx.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.manuals, id)
	return nil
}

func (r fakeManualRepo) Count(dbc dbctx.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.manuals)), nil
}

// ---- bucket ----

type fakeBucket struct {
	mu        sync.Mutex
	objects   map[string][]byte
	uploads   int
	deletes   int
	uploadErr error

	// store, when set, lets the bucket record uploads made while a fakeTx is open.
	store       *memStore
	uploadsInTx int
}

func newFakeBucket() *fakeBucket {
	return &fakeBucket{objects: map[string][]byte{}}
}

func (b *fakeBucket) UploadFile(ctx context.Context, category gcp.BucketCategory, key string, file io.Reader, contentType string) error {
	inTx := b.store != nil && b.store.inTx()
	b.mu.Lock()
	b.uploads++
	if inTx {
		b.uploadsInTx++
	}
	b.mu.Unlock()
	if b.uploadErr != nil {
		return b.uploadErr
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects[key] = data
	return nil
}

func (b *fakeBucket) DeleteFile(ctx context.Context, category gcp.BucketCategory, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.deletes++
	delete(b.objects, key)
	return nil
}

func (b *fakeBucket) OpenFile(ctx context.Context, category gcp.BucketCategory, key string) (io.ReadCloser, *gcp.ObjectAttrs, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	data, ok := b.objects[key]
	if !ok {
		return nil, nil, gcp.ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), &gcp.ObjectAttrs{Size: int64(len(data))}, nil
}

func (b *fakeBucket) Close() error { return nil }

// ---- llm ----

type fakeLLM struct {
	reply      string
	json       map[string]any
	err        error
	calls      int
	lastSystem string
	lastUser   string
}

func (f *fakeLLM) GenerateText(ctx context.Context, system, user string) (string, error) {
	f.calls++
	f.lastSystem, f.lastUser = system, user
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func (f *fakeLLM) GenerateJSON(ctx context.Context, system, user, schemaName string, schema map[string]any) (map[string]any, error) {
	f.calls++
	f.lastSystem, f.lastUser = system, user
	if f.err != nil {
		return nil, f.err
	}
	if f.json == nil {
		return nil, errors.New("no json configured")
	}
	return f.json, nil
}

// ---- helpers ----

func seedUser(s *memStore, email, role string) *types.User {
	hashed, _ := HashPassword("password123")
	u := types.User{
		ID:        uuid.New(),
		Email:     email,
		Password:  hashed,
		FirstName: "Test",
		Role:      role,
		IsActive:  true,
	}
	s.mu.Lock()
	s.users[u.ID] = u
	s.mu.Unlock()
	return &u
}

func seedAgent(s *memStore, title, tool string, active bool) *types.Agent {
	a := types.Agent{ID: uuid.New(), Title: title, ToolName: tool, Prompt: "You are " + title + ".", IsActive: active}
	s.mu.Lock()
	s.agents[a.ID] = a
	s.mu.Unlock()
	return &a
}

func asUser(u *types.User) context.Context {
	return ctxutil.WithRequestData(context.Background(), &ctxutil.RequestData{
		SessionID: uuid.New(),
		UserID:    u.ID,
		Role:      u.Role,
		ClubID:    u.ClubID,
	})
}

func dbcFor() dbctx.Context { return dbctx.From(context.Background()) }
