package ledger

import (
	"context"
	"strings"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

// DeletePolicy decides what happens to a group's shared expenses when the
// group is deleted.
type DeletePolicy int

const (
	// OrphanSharedExpenses keeps the expenses under the former group id.
	OrphanSharedExpenses DeletePolicy = iota
	// CascadeSharedExpenses deletes the expenses with the group.
	CascadeSharedExpenses
)

func (p DeletePolicy) String() string {
	if p == CascadeSharedExpenses {
		return "cascade"
	}
	return "orphan"
}

// ParseDeletePolicy maps "orphan" (or "") and "cascade" to a policy.
func ParseDeletePolicy(s string) (DeletePolicy, bool) {
	switch strings.ToLower(s) {
	case "", "orphan":
		return OrphanSharedExpenses, true
	case "cascade":
		return CascadeSharedExpenses, true
	default:
		return 0, false
	}
}

// AddGroup creates a group. The creator is always a member and duplicate
// member ids collapse. Every member must be a registered user.
func (l *Ledger) AddGroup(ctx context.Context, name string, memberIDs []int64, creatorID int64) (*models.Group, error) {
	const op = "ledger.AddGroup"

	group := &models.Group{Name: strings.TrimSpace(name), CreatedBy: creatorID}
	err := l.write(ctx, op, func(ctx context.Context) error {
		if group.Name == "" {
			return validationError(op, "group name is required")
		}
		if err := positive(op, "creatorId", creatorID); err != nil {
			return err
		}
		for _, id := range memberIDs {
			if id <= 0 {
				return validationError(op, "member id %d must be positive", id)
			}
		}
		group.Members = models.NewMemberSet(memberIDs...).With(creatorID)

		err := l.store.InTx(ctx, func(ctx context.Context, repos storage.Repositories) error {
			for _, id := range group.Members {
				if _, err := repos.Users().GetByID(ctx, id); err != nil {
					if isNotFound(err) {
						return notFound(op, "user", "user_id", id)
					}
					return err
				}
			}
			if _, err := repos.Groups().Create(ctx, group); err != nil {
				return err
			}
			for _, id := range group.Members {
				if err := repos.Groups().AddMember(ctx, group.ID, id); err != nil {
					return err
				}
			}
			return nil
		})
		return classify(op, err, "creator_id", creatorID)
	})
	if err != nil {
		return nil, err
	}

	l.logger.Info("group created", "group_id", group.ID, "name", group.Name, "members", group.Members)
	return group, nil
}

// GetGroup returns a group with its members.
func (l *Ledger) GetGroup(ctx context.Context, groupID int64) (*models.Group, error) {
	const op = "ledger.GetGroup"

	var g *models.Group
	err := l.read(ctx, op, func(ctx context.Context) error {
		if err := positive(op, "groupId", groupID); err != nil {
			return err
		}
		var err error
		g, err = l.store.Repos().Groups().Get(ctx, groupID)
		if isNotFound(err) {
			return notFound(op, "group", "group_id", groupID)
		}
		return classify(op, err, "group_id", groupID)
	})
	return g, err
}

// GroupsForUser lists the groups userID belongs to.
func (l *Ledger) GroupsForUser(ctx context.Context, userID int64) ([]models.Group, error) {
	const op = "ledger.GroupsForUser"

	var out []models.Group
	err := l.read(ctx, op, func(ctx context.Context) error {
		if err := positive(op, "userId", userID); err != nil {
			return err
		}
		var err error
		out, err = l.store.Repos().Groups().ListForUser(ctx, userID)
		return classify(op, err, "user_id", userID)
	})
	return out, err
}

// SearchGroups lists groups whose name contains name.
func (l *Ledger) SearchGroups(ctx context.Context, name string) ([]models.Group, error) {
	const op = "ledger.SearchGroups"

	var out []models.Group
	err := l.read(ctx, op, func(ctx context.Context) error {
		if strings.TrimSpace(name) == "" {
			return validationError(op, "search name is required")
		}
		var err error
		out, err = l.store.Repos().Groups().SearchByName(ctx, name)
		return classify(op, err)
	})
	return out, err
}

// UsersInGroup resolves a group's members to user summaries.
func (l *Ledger) UsersInGroup(ctx context.Context, groupID int64) ([]models.UserSummary, error) {
	const op = "ledger.UsersInGroup"

	var out []models.UserSummary
	err := l.read(ctx, op, func(ctx context.Context) error {
		if err := positive(op, "groupId", groupID); err != nil {
			return err
		}
		repos := l.store.Repos()
		if _, err := repos.Groups().Get(ctx, groupID); err != nil {
			if isNotFound(err) {
				return notFound(op, "group", "group_id", groupID)
			}
			return classify(op, err, "group_id", groupID)
		}
		var err error
		out, err = repos.Groups().Members(ctx, groupID)
		return classify(op, err, "group_id", groupID)
	})
	return out, err
}

// AddGroupMember adds userID to an existing group.
func (l *Ledger) AddGroupMember(ctx context.Context, groupID, userID int64) error {
	const op = "ledger.AddGroupMember"

	return l.write(ctx, op, func(ctx context.Context) error {
		if err := positive(op, "groupId", groupID, "userId", userID); err != nil {
			return err
		}
		err := l.store.InTx(ctx, func(ctx context.Context, repos storage.Repositories) error {
			group, err := repos.Groups().Get(ctx, groupID)
			if err != nil {
				if isNotFound(err) {
					return notFound(op, "group", "group_id", groupID)
				}
				return err
			}
			if group.Members.Contains(userID) {
				return conflict(op, "user is already a member", "group_id", groupID, "user_id", userID)
			}
			if _, err := repos.Users().GetByID(ctx, userID); err != nil {
				if isNotFound(err) {
					return notFound(op, "user", "user_id", userID)
				}
				return err
			}
			if err := repos.Groups().AddMember(ctx, groupID, userID); err != nil {
				if isDuplicate(err) {
					return conflict(op, "user is already a member", "group_id", groupID, "user_id", userID)
				}
				return err
			}
			return nil
		})
		return classify(op, err, "group_id", groupID, "user_id", userID)
	})
}

// DeleteGroup removes a group and its membership rows, handling its shared
// expenses according to policy. It returns the number of shared expenses
// removed.
func (l *Ledger) DeleteGroup(ctx context.Context, groupID int64, policy DeletePolicy) (int64, error) {
	const op = "ledger.DeleteGroup"

	var removed int64
	err := l.write(ctx, op, func(ctx context.Context) error {
		if err := positive(op, "groupId", groupID); err != nil {
			return err
		}
		err := l.store.InTx(ctx, func(ctx context.Context, repos storage.Repositories) error {
			n, err := repos.Groups().Delete(ctx, groupID)
			if err != nil {
				return err
			}
			if n == 0 {
				return notFound(op, "group", "group_id", groupID)
			}
			if _, err := repos.Groups().DeleteMembers(ctx, groupID); err != nil {
				return err
			}
			if policy == CascadeSharedExpenses {
				removed, err = repos.SharedExpenses().DeleteForGroup(ctx, groupID)
				return err
			}
			return nil
		})
		return classify(op, err, "group_id", groupID)
	})
	if err != nil {
		return 0, err
	}

	l.logger.Info("group deleted", "group_id", groupID, "policy", policy.String(), "removed_expenses", removed)
	return removed, nil
}
