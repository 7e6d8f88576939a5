package sqlsource

import (
	"context"
	"fmt"

	"github.com/huangsam/gradepoint/internal/contract"
	"github.com/huangsam/gradepoint/schema"
)

type userInfo struct {
	scoped
}

var _ contract.UserInfoSource = &userInfo{} // Compile-time check

// TeamSize implements contract.UserInfoSource.
func (u *userInfo) TeamSize(ctx context.Context) (int, error) {
	pid, err := u.requireProject("team size query")
	if err != nil {
		return 0, err
	}
	var n int
	query := u.store.db.Rebind("SELECT COUNT(*) FROM team_member WHERE project_id = ?")
	if err := u.store.db.GetContext(ctx, &n, query, pid); err != nil {
		return 0, fmt.Errorf("failed to count team of project %d: %w", pid, err)
	}
	return n, nil
}

// TeamMembers implements contract.UserInfoSource.
func (u *userInfo) TeamMembers(ctx context.Context, role schema.MemberRole) ([]schema.Member, error) {
	pid, err := u.requireProject("team members query")
	if err != nil {
		return nil, err
	}
	query := "SELECT username, role FROM team_member WHERE project_id = ?"
	args := []any{pid}
	if role != "" {
		query += " AND role = ?"
		args = append(args, string(role))
	}
	var rows []struct {
		Username string `db:"username"`
		Role     string `db:"role"`
	}
	if err := u.store.db.SelectContext(ctx, &rows, u.store.db.Rebind(query+" ORDER BY username"), args...); err != nil {
		return nil, fmt.Errorf("failed to list team of project %d: %w", pid, err)
	}
	members := make([]schema.Member, 0, len(rows))
	for _, r := range rows {
		members = append(members, schema.Member{Username: r.Username, Role: schema.MemberRole(r.Role)})
	}
	return members, nil
}
