package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mornivek/stafflane/internal/models"
	apperrors "github.com/mornivek/stafflane/pkg/errors"
)

func TestFinanceGateByDepartment(t *testing.T) {
	tests := []struct {
		department string
		canView    bool
		canWrite   bool
	}{
		{models.DepartmentAdmin, true, false},
		{models.DepartmentFinance, true, true},
		{models.DepartmentHR, true, false},
		{models.DepartmentOperations, false, false},
		{models.DepartmentSales, false, false},
		{models.DepartmentRecruitment, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.department, func(t *testing.T) {
			identity := &Identity{
				UserID:     "u1",
				GlobalRole: models.GlobalRoleUser,
				Profile:    Profile{Department: tt.department, Role: models.OrgRoleMember},
			}

			viewErr := RequireFinanceViewAccess(identity)
			writeErr := RequireFinanceWriteAccess(identity)

			if tt.canView {
				assert.NoError(t, viewErr)
			} else {
				assert.ErrorIs(t, viewErr, apperrors.ErrForbidden)
			}
			if tt.canWrite {
				assert.NoError(t, writeErr)
			} else {
				assert.ErrorIs(t, writeErr, apperrors.ErrForbidden)
			}
		})
	}
}

func TestFinanceGateGlobalAdmin(t *testing.T) {
	identity := &Identity{
		UserID:     "u1",
		GlobalRole: models.GlobalRoleAdmin,
		Profile:    Profile{Department: models.DepartmentSales},
	}

	require.NoError(t, RequireFinanceViewAccess(identity))
	require.NoError(t, RequireFinanceWriteAccess(identity))
}

func TestFinanceGateNilIdentity(t *testing.T) {
	assert.ErrorIs(t, RequireFinanceViewAccess(nil), apperrors.ErrUnauthenticated)
	assert.ErrorIs(t, RequireFinanceWriteAccess(nil), apperrors.ErrUnauthenticated)
}

// Every department allowed to write must also be allowed to view, across all
// role and manager combinations.
func TestFinanceWriteImpliesView(t *testing.T) {
	for _, dept := range models.Departments() {
		for _, role := range []string{models.OrgRoleAdmin, models.OrgRoleMember} {
			for _, isManager := range []bool{true, false} {
				identity := &Identity{
					UserID:     "u1",
					GlobalRole: models.GlobalRoleUser,
					Profile:    Profile{Department: dept, Role: role, IsManager: isManager},
				}
				if RequireFinanceWriteAccess(identity) == nil {
					require.NoError(t, RequireFinanceViewAccess(identity),
						"dept=%s role=%s manager=%v can write but not view", dept, role, isManager)
				}
			}
		}
	}
}
