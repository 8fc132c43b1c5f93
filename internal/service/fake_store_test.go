package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"taskboard/internal/domain"
)

type memberKey struct{ board, user string }

type fakeState struct {
	users   map[string]domain.User
	boards  map[string]domain.Board
	members map[memberKey]domain.BoardMember
	tasks   map[string]domain.Task
	seq     int
}

func (s fakeState) clone() fakeState {
	out := fakeState{
		users:   make(map[string]domain.User, len(s.users)),
		boards:  make(map[string]domain.Board, len(s.boards)),
		members: make(map[memberKey]domain.BoardMember, len(s.members)),
		tasks:   make(map[string]domain.Task, len(s.tasks)),
		seq:     s.seq,
	}
	for k, v := range s.users {
		out.users[k] = v
	}
	for k, v := range s.boards {
		out.boards[k] = v
	}
	for k, v := range s.members {
		out.members[k] = v
	}
	for k, v := range s.tasks {
		out.tasks[k] = v
	}
	return out
}

// fakeStore is an in-memory Store. InTx snapshots the state and restores it
// when fn fails, which is how the tests observe rollbacks.
type fakeStore struct {
	st     fakeState
	writes int
	// calls records board and membership writes in order.
	calls []string

	// failure injection
	failMemberCount error
	vanishOnTaskAdd bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{st: fakeState{}.clone()}
}

var epoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func (f *fakeStore) tick() time.Time {
	f.st.seq++
	return epoch.Add(time.Duration(f.st.seq) * time.Millisecond)
}

func (f *fakeStore) Users() UserRepository     { return fakeUsers{f} }
func (f *fakeStore) Boards() BoardRepository   { return fakeBoards{f} }
func (f *fakeStore) Members() MemberRepository { return fakeMembers{f} }
func (f *fakeStore) Tasks() TaskRepository     { return fakeTasks{f} }

func (f *fakeStore) InTx(ctx context.Context, fn func(Repositories) error) error {
	snap := f.st.clone()
	writes := f.writes
	if err := fn(f); err != nil {
		f.st = snap
		f.writes = writes
		return err
	}
	return nil
}

func (f *fakeStore) Ping(context.Context) error { return nil }

func (f *fakeStore) memberCount(boardID string) int {
	n := 0
	for k := range f.st.members {
		if k.board == boardID {
			n++
		}
	}
	return n
}

func (f *fakeStore) taskCount(boardID string) int {
	n := 0
	for _, t := range f.st.tasks {
		if t.BoardID == boardID {
			n++
		}
	}
	return n
}

func (f *fakeStore) deleteBoard(id string) {
	delete(f.st.boards, id)
	for k := range f.st.members {
		if k.board == id {
			delete(f.st.members, k)
		}
	}
	for k, t := range f.st.tasks {
		if t.BoardID == id {
			delete(f.st.tasks, k)
		}
	}
}

// users

type fakeUsers struct{ f *fakeStore }

func (r fakeUsers) unique(id, username, email string) error {
	for _, u := range r.f.st.users {
		if u.ID == id {
			continue
		}
		if u.Username == username {
			return domain.Conflict("username", "Username already exists")
		}
		if strings.EqualFold(u.Email, email) {
			return domain.Conflict("email", "Email already exists")
		}
	}
	return nil
}

func (r fakeUsers) Create(_ context.Context, u *domain.User) error {
	r.f.writes++
	if u.ID == "" {
		u.ID = uuid.NewString()
	} else if _, ok := r.f.st.users[u.ID]; ok {
		return domain.Conflict("user_id", "User already exists")
	}
	if err := r.unique(u.ID, u.Username, u.Email); err != nil {
		return err
	}
	u.CreatedAt = r.f.tick()
	u.IsActive = true
	r.f.st.users[u.ID] = *u
	return nil
}

func (r fakeUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.f.st.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (r fakeUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.f.st.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r fakeUsers) Update(_ context.Context, id string, p domain.UserPatch) (*domain.User, error) {
	if p.Empty() {
		return nil, domain.ErrNoFieldsProvided
	}
	r.f.writes++
	u, ok := r.f.st.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if p.Username != nil {
		if err := r.unique(id, *p.Username, ""); err != nil {
			return nil, err
		}
		u.Username = *p.Username
	}
	if p.FullName != nil {
		u.FullName = *p.FullName
	}
	if p.AvatarURL.Set {
		u.AvatarURL = p.AvatarURL.Ptr()
	}
	r.f.st.users[id] = u
	return &u, nil
}

func (r fakeUsers) TouchLogin(_ context.Context, id string) (*domain.User, error) {
	r.f.writes++
	u, ok := r.f.st.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	now := r.f.tick()
	u.LastLogin = &now
	r.f.st.users[id] = u
	return &u, nil
}

// Delete mirrors the schema's cascades.
func (r fakeUsers) Delete(_ context.Context, id string) (*domain.User, error) {
	r.f.writes++
	u, ok := r.f.st.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	delete(r.f.st.users, id)
	for bid, b := range r.f.st.boards {
		if b.CreatedBy == id {
			r.f.deleteBoard(bid)
		}
	}
	for k := range r.f.st.members {
		if k.user == id {
			delete(r.f.st.members, k)
		}
	}
	for tid, t := range r.f.st.tasks {
		switch {
		case t.CreatedBy == id:
			delete(r.f.st.tasks, tid)
		case t.AssignedTo != nil && *t.AssignedTo == id:
			t.AssignedTo = nil
			r.f.st.tasks[tid] = t
		}
	}
	return &u, nil
}

// boards

type fakeBoards struct{ f *fakeStore }

func (r fakeBoards) Create(_ context.Context, b *domain.Board) error {
	r.f.writes++
	if _, ok := r.f.st.users[b.CreatedBy]; !ok {
		return domain.Reference("created_by", "Referenced created_by does not exist")
	}
	b.ID = uuid.NewString()
	b.CreatedAt = r.f.tick()
	b.UpdatedAt = b.CreatedAt
	r.f.st.boards[b.ID] = *b
	return nil
}

func (r fakeBoards) GetByID(_ context.Context, id string) (*domain.Board, error) {
	b, ok := r.f.st.boards[id]
	if !ok {
		return nil, domain.ErrBoardNotFound
	}
	return &b, nil
}

func (r fakeBoards) Exists(_ context.Context, id string) (bool, error) {
	_, ok := r.f.st.boards[id]
	return ok, nil
}

func (r fakeBoards) filter(keep func(domain.Board) bool) []domain.Board {
	out := make([]domain.Board, 0)
	for _, b := range r.f.st.boards {
		if keep(b) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r fakeBoards) ListAll(context.Context) ([]domain.Board, error) {
	return r.filter(func(domain.Board) bool { return true }), nil
}

func (r fakeBoards) ListByMember(_ context.Context, userID string) ([]domain.Board, error) {
	out := r.filter(func(b domain.Board) bool {
		_, ok := r.f.st.members[memberKey{b.ID, userID}]
		return ok
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (r fakeBoards) SearchByName(_ context.Context, name string) ([]domain.Board, error) {
	name = strings.ToLower(name)
	return r.filter(func(b domain.Board) bool {
		return strings.Contains(strings.ToLower(b.Name), name)
	}), nil
}

func (r fakeBoards) Update(_ context.Context, id string, p domain.BoardPatch) (*domain.Board, error) {
	if p.Empty() {
		return nil, domain.ErrNoFieldsProvided
	}
	r.f.writes++
	b, ok := r.f.st.boards[id]
	if !ok {
		return nil, domain.ErrBoardNotFound
	}
	if p.Name != nil {
		b.Name = *p.Name
	}
	if p.Description.Set {
		b.Description = p.Description.Ptr()
	}
	b.UpdatedAt = r.f.tick()
	r.f.st.boards[id] = b
	return &b, nil
}

func (r fakeBoards) Delete(_ context.Context, id string) (*domain.Board, error) {
	r.f.writes++
	b, ok := r.f.st.boards[id]
	if !ok {
		return nil, domain.ErrBoardNotFound
	}
	r.f.deleteBoard(id)
	return &b, nil
}

func (r fakeBoards) AdjustMemberCount(_ context.Context, id string, delta int) (bool, error) {
	r.f.writes++
	r.f.calls = append(r.f.calls, "boards.member_count")
	if r.f.failMemberCount != nil {
		return false, r.f.failMemberCount
	}
	b, ok := r.f.st.boards[id]
	if !ok {
		return false, nil
	}
	b.MemberCount = max(b.MemberCount+delta, 0)
	b.UpdatedAt = r.f.tick()
	r.f.st.boards[id] = b
	return true, nil
}

func (r fakeBoards) AdjustTaskCount(_ context.Context, id string, delta int) (bool, error) {
	r.f.writes++
	if delta > 0 && r.f.vanishOnTaskAdd {
		return false, nil
	}
	b, ok := r.f.st.boards[id]
	if !ok {
		return false, nil
	}
	b.TaskCount = max(b.TaskCount+delta, 0)
	b.UpdatedAt = r.f.tick()
	r.f.st.boards[id] = b
	return true, nil
}

func (r fakeBoards) Recount(_ context.Context, ids []string) (int64, error) {
	r.f.writes++
	var n int64
	for id, b := range r.f.st.boards {
		if ids != nil && !contains(ids, id) {
			continue
		}
		members, tasks := r.f.memberCount(id), r.f.taskCount(id)
		if b.MemberCount == members && b.TaskCount == tasks {
			continue
		}
		b.MemberCount, b.TaskCount = members, tasks
		r.f.st.boards[id] = b
		n++
	}
	return n, nil
}

func (r fakeBoards) ListIDsAffectedByUser(_ context.Context, userID string) ([]string, error) {
	seen := map[string]bool{}
	out := []string{}
	for k := range r.f.st.members {
		if k.user == userID && !seen[k.board] {
			seen[k.board] = true
			out = append(out, k.board)
		}
	}
	for _, t := range r.f.st.tasks {
		if t.CreatedBy == userID && !seen[t.BoardID] {
			seen[t.BoardID] = true
			out = append(out, t.BoardID)
		}
	}
	return out, nil
}

func contains(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}

// members

type fakeMembers struct{ f *fakeStore }

func (r fakeMembers) Add(_ context.Context, m *domain.BoardMember) (bool, error) {
	r.f.writes++
	if _, ok := r.f.st.boards[m.BoardID]; !ok {
		return false, domain.Reference("board_id", "Referenced board_id does not exist")
	}
	if _, ok := r.f.st.users[m.UserID]; !ok {
		return false, domain.Reference("user_id", "Referenced user_id does not exist")
	}
	k := memberKey{m.BoardID, m.UserID}
	if _, ok := r.f.st.members[k]; ok {
		return false, nil
	}
	m.JoinedAt = r.f.tick()
	r.f.st.members[k] = *m
	return true, nil
}

func (r fakeMembers) Remove(_ context.Context, boardID, userID string) (*domain.BoardMember, error) {
	r.f.writes++
	r.f.calls = append(r.f.calls, "members.remove")
	k := memberKey{boardID, userID}
	m, ok := r.f.st.members[k]
	if !ok {
		return nil, domain.ErrMembershipNotFound
	}
	delete(r.f.st.members, k)
	return &m, nil
}

func (r fakeMembers) ListByBoard(_ context.Context, boardID string) ([]domain.BoardMember, error) {
	out := make([]domain.BoardMember, 0)
	for k, m := range r.f.st.members {
		if k.board != boardID {
			continue
		}
		u := r.f.st.users[k.user]
		m.Username, m.Email, m.FullName, m.AvatarURL = u.Username, u.Email, u.FullName, u.AvatarURL
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].JoinedAt.Before(out[j].JoinedAt) })
	return out, nil
}

func (r fakeMembers) SetRole(_ context.Context, boardID, userID, role string) (*domain.BoardMember, error) {
	r.f.writes++
	k := memberKey{boardID, userID}
	m, ok := r.f.st.members[k]
	if !ok {
		return nil, domain.ErrMembershipNotFound
	}
	m.Role = role
	r.f.st.members[k] = m
	return &m, nil
}

// tasks

type fakeTasks struct{ f *fakeStore }

func (r fakeTasks) Create(_ context.Context, t *domain.Task) error {
	r.f.writes++
	if _, ok := r.f.st.boards[t.BoardID]; !ok {
		return domain.Reference("board_id", "Referenced board_id does not exist")
	}
	if _, ok := r.f.st.users[t.CreatedBy]; !ok {
		return domain.Reference("created_by", "Referenced created_by does not exist")
	}
	if t.AssignedTo != nil {
		if _, ok := r.f.st.users[*t.AssignedTo]; !ok {
			return domain.Reference("assigned_to", "Referenced assigned_to does not exist")
		}
	}
	pos := 0
	for _, o := range r.f.st.tasks {
		if o.BoardID == t.BoardID && o.Position >= pos {
			pos = o.Position + 1
		}
	}
	t.ID = uuid.NewString()
	t.Position = pos
	t.CreatedAt = r.f.tick()
	t.UpdatedAt = t.CreatedAt
	r.f.st.tasks[t.ID] = *t
	return nil
}

func (r fakeTasks) GetByID(_ context.Context, id string) (*domain.Task, error) {
	t, ok := r.f.st.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	return &t, nil
}

func (r fakeTasks) filter(keep func(domain.Task) bool) []domain.Task {
	out := make([]domain.Task, 0)
	for _, t := range r.f.st.tasks {
		if keep(t) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out
}

func (r fakeTasks) ListByBoard(_ context.Context, boardID string) ([]domain.Task, error) {
	return r.filter(func(t domain.Task) bool { return t.BoardID == boardID }), nil
}

func (r fakeTasks) ListByAssignee(_ context.Context, userID string) ([]domain.Task, error) {
	return r.filter(func(t domain.Task) bool { return t.AssignedTo != nil && *t.AssignedTo == userID }), nil
}

func (r fakeTasks) Update(_ context.Context, id string, ch domain.TaskChanges) (*domain.Task, error) {
	r.f.writes++
	t, ok := r.f.st.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	if ch.Title != nil {
		t.Title = *ch.Title
	}
	if ch.Description.Set {
		t.Description = ch.Description.Ptr()
	}
	if ch.AssignedTo.Set {
		t.AssignedTo = ch.AssignedTo.Ptr()
	}
	if ch.DueDate.Set {
		t.DueDate = ch.DueDate.Ptr()
	}
	if ch.Tags.Set {
		t.Tags = nil
		if !ch.Tags.Null {
			t.Tags = ch.Tags.Value
		}
	}
	if ch.Status != nil {
		t.Status = *ch.Status
	}
	if ch.Position != nil {
		t.Position = *ch.Position
	}
	t.UpdatedAt = r.f.tick()
	r.f.st.tasks[id] = t
	return &t, nil
}

func (r fakeTasks) Delete(_ context.Context, id string) (*domain.Task, error) {
	r.f.writes++
	t, ok := r.f.st.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	delete(r.f.st.tasks, id)
	return &t, nil
}
