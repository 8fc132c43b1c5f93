package service

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"taskboard/internal/domain"
	"taskboard/internal/identity"
	"taskboard/internal/logger"
	"taskboard/internal/validation"
)

// MembershipService adds and removes board members, keeping member_count in
// step with the membership rows.
type MembershipService struct {
	store Store
	opts  Options
}

func NewMembershipService(store Store, opts Options) *MembershipService {
	return &MembershipService{store: store, opts: opts}
}

func (s *MembershipService) List(ctx context.Context, boardID string) (ms []domain.BoardMember, err error) {
	ctx, finish := begin(ctx, s.opts, "member.list", attribute.String("board_id", boardID))
	defer func() { finish(err) }()

	return s.store.Members().ListByBoard(ctx, boardID)
}

// Add makes a user a member of the board. The user is named by user_id or, when
// that is empty, by email. Adding an existing member fails with
// ErrAlreadyMember and changes nothing.
func (s *MembershipService) Add(ctx context.Context, boardID string, in domain.NewMember) (m *domain.BoardMember, err error) {
	ctx, finish := begin(ctx, s.opts, "member.add", attribute.String("board_id", boardID))
	defer func() { finish(err) }()

	in.Email = strings.TrimSpace(in.Email)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if in.UserID == "" && in.Email == "" {
		return nil, domain.Validation("user_id", "user_id or email is required")
	}
	if in.UserID != "" {
		if in.UserID, err = identity.ParseID(in.UserID); err != nil {
			return nil, err
		}
	}
	if in.Role == "" {
		in.Role = domain.RoleMember
	}

	err = s.store.InTx(ctx, func(r Repositories) error {
		ok, err := r.Boards().Exists(ctx, boardID)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrBoardNotFound
		}

		var u *domain.User
		if in.UserID != "" {
			u, err = r.Users().GetByID(ctx, in.UserID)
		} else {
			u, err = r.Users().GetByEmail(ctx, in.Email)
		}
		if err != nil {
			return err
		}

		m = &domain.BoardMember{BoardID: boardID, UserID: u.ID, Role: in.Role}
		inserted, err := r.Members().Add(ctx, m)
		if err != nil {
			return err
		}
		if !inserted {
			return domain.ErrAlreadyMember
		}
		if ok, err := r.Boards().AdjustMemberCount(ctx, boardID, 1); err != nil {
			return err
		} else if !ok {
			return domain.ErrBoardNotFound
		}

		m.Username, m.Email, m.FullName, m.AvatarURL = u.Username, u.Email, u.FullName, u.AvatarURL
		return nil
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Remove deletes a membership and decrements member_count. If exactly one
// member is left and it is not an admin, it is promoted. With
// AllowEmptyBoards off, removing the last member fails with ErrLastMember.
func (s *MembershipService) Remove(ctx context.Context, boardID, userID string) (res *domain.RemovedMember, err error) {
	ctx, finish := begin(ctx, s.opts, "member.remove",
		attribute.String("board_id", boardID),
		attribute.String("user_id", userID),
	)
	defer func() { finish(err) }()

	err = s.store.InTx(ctx, func(r Repositories) error {
		// Decrement first: the UPDATE locks the board row, so concurrent
		// removals on one board queue here before touching any membership.
		// A missing membership below rolls the decrement back.
		if _, err := r.Boards().AdjustMemberCount(ctx, boardID, -1); err != nil {
			return err
		}
		removed, err := r.Members().Remove(ctx, boardID, userID)
		if err != nil {
			return err
		}

		if !s.opts.AllowEmptyBoards {
			left, err := r.Members().ListByBoard(ctx, boardID)
			if err != nil {
				return err
			}
			if len(left) == 0 {
				return domain.ErrLastMember
			}
		}

		promoted, err := promoteSoleMember(ctx, r, boardID)
		if err != nil {
			return err
		}
		res = &domain.RemovedMember{Removed: removed, Promoted: promoted}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// promoteSoleMember makes the only remaining member of a board its admin.
// It returns nil when the board has zero or several members, or when the
// survivor already is an admin.
func promoteSoleMember(ctx context.Context, r Repositories, boardID string) (*domain.BoardMember, error) {
	left, err := r.Members().ListByBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if len(left) != 1 || left[0].Role == domain.RoleAdmin {
		return nil, nil
	}

	sole := left[0]
	m, err := r.Members().SetRole(ctx, boardID, sole.UserID, domain.RoleAdmin)
	if err != nil {
		return nil, err
	}
	m.Username, m.Email, m.FullName, m.AvatarURL = sole.Username, sole.Email, sole.FullName, sole.AvatarURL

	memberPromotions.Inc()
	logger.WithContext(ctx).Info("sole member promoted to admin", "board_id", boardID, "user_id", m.UserID)
	return m, nil
}
