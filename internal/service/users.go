package service

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/crypto/bcrypt"

	"taskboard/internal/domain"
	"taskboard/internal/identity"
	"taskboard/internal/logger"
	"taskboard/internal/validation"
)

// UserService manages accounts. Deleting a user also repairs the counters of
// every board the cascade touches.
type UserService struct {
	store Store
	opts  Options
}

func NewUserService(store Store, opts Options) *UserService {
	return &UserService{store: store, opts: opts}
}

func (s *UserService) Create(ctx context.Context, in domain.NewUser) (u *domain.User, err error) {
	ctx, finish := begin(ctx, s.opts, "user.create")
	defer func() { finish(err) }()

	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	in.FullName = strings.TrimSpace(in.FullName)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	id := ""
	if in.ID != "" {
		if id, err = identity.ParseID(in.ID); err != nil {
			return nil, err
		}
	}

	hash := in.PasswordHash
	switch {
	case in.Password != "":
		b, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, domain.Internal("hash password", err)
		}
		hash = string(b)
	case hash == "":
		return nil, domain.Validation("password_hash", "password_hash or password is required")
	}

	u = &domain.User{
		ID:           id,
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		FullName:     in.FullName,
		AvatarURL:    in.AvatarURL,
		IsActive:     true,
	}
	if err := s.store.Users().Create(ctx, u); err != nil {
		return nil, err
	}
	logger.WithContext(ctx).Info("user created", "user_id", u.ID)
	return u, nil
}

func (s *UserService) Get(ctx context.Context, id string) (u *domain.User, err error) {
	ctx, finish := begin(ctx, s.opts, "user.get", attribute.String("user_id", id))
	defer func() { finish(err) }()

	return s.store.Users().GetByID(ctx, id)
}

// Update applies a partial profile edit. An empty patch fails before storage
// is touched.
func (s *UserService) Update(ctx context.Context, id string, p domain.UserPatch) (u *domain.User, err error) {
	ctx, finish := begin(ctx, s.opts, "user.update", attribute.String("user_id", id))
	defer func() { finish(err) }()

	if p.Empty() {
		return nil, domain.ErrNoFieldsProvided
	}
	if p.Username != nil {
		v := strings.TrimSpace(*p.Username)
		p.Username = &v
	}
	if p.FullName != nil {
		v := strings.TrimSpace(*p.FullName)
		if v == "" {
			return nil, domain.Validation("full_name", "full_name must not be empty")
		}
		p.FullName = &v
	}
	if err := validation.Struct(p); err != nil {
		return nil, err
	}
	if p.AvatarURL.Set && !p.AvatarURL.Null {
		if err := validation.Length("avatar_url", p.AvatarURL.Value, 0, 500); err != nil {
			return nil, err
		}
	}

	return s.store.Users().Update(ctx, id, p)
}

// Login stamps last_login. When password is non-empty it must match the
// stored bcrypt hash.
func (s *UserService) Login(ctx context.Context, id, password string) (u *domain.User, err error) {
	ctx, finish := begin(ctx, s.opts, "user.login", attribute.String("user_id", id))
	defer func() { finish(err) }()

	if password != "" {
		cur, err := s.store.Users().GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if bcrypt.CompareHashAndPassword([]byte(cur.PasswordHash), []byte(password)) != nil {
			return nil, domain.ErrInvalidCredentials
		}
	}
	return s.store.Users().TouchLogin(ctx, id)
}

// Delete removes the user and everything that cascades from it, then rewrites
// the counters of the boards it touched and promotes any sole survivor.
func (s *UserService) Delete(ctx context.Context, id string) (u *domain.User, err error) {
	ctx, finish := begin(ctx, s.opts, "user.delete", attribute.String("user_id", id))
	defer func() { finish(err) }()

	err = s.store.InTx(ctx, func(r Repositories) error {
		affected, err := r.Boards().ListIDsAffectedByUser(ctx, id)
		if err != nil {
			return err
		}
		if u, err = r.Users().Delete(ctx, id); err != nil {
			return err
		}
		if len(affected) == 0 {
			return nil
		}

		if _, err := r.Boards().Recount(ctx, affected); err != nil {
			return err
		}
		for _, boardID := range affected {
			if _, err := promoteSoleMember(ctx, r, boardID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.WithContext(ctx).Info("user deleted", "user_id", id)
	return u, nil
}
