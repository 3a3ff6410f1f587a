package access

import (
	"github.com/mornivek/stafflane/internal/models"
	apperrors "github.com/mornivek/stafflane/pkg/errors"
	"github.com/mornivek/stafflane/pkg/metrics"
)

// Finance gate department sets. Write access must remain a strict subset of
// view access; TestFinanceWriteImpliesView enforces the containment.
var (
	financeViewDepartments  = []string{models.DepartmentAdmin, models.DepartmentFinance, models.DepartmentHR}
	financeWriteDepartments = []string{models.DepartmentFinance}
)

// RequireFinanceViewAccess passes when the caller may read finance data:
// global admins and the admin, finance, and hr departments.
func RequireFinanceViewAccess(identity *Identity) error {
	return requireFinanceAccess(identity, "view", financeViewDepartments)
}

// RequireFinanceWriteAccess passes when the caller may mutate finance data:
// global admins and the finance department only.
func RequireFinanceWriteAccess(identity *Identity) error {
	return requireFinanceAccess(identity, "write", financeWriteDepartments)
}

func requireFinanceAccess(identity *Identity, mode string, departments []string) error {
	if identity == nil {
		metrics.FinanceGateDecisions.WithLabelValues(mode, "deny").Inc()
		return apperrors.ErrUnauthenticated
	}

	if identity.IsGlobalAdmin() {
		metrics.FinanceGateDecisions.WithLabelValues(mode, "allow").Inc()
		return nil
	}

	for _, dept := range departments {
		if identity.Profile.Department == dept {
			metrics.FinanceGateDecisions.WithLabelValues(mode, "allow").Inc()
			return nil
		}
	}

	metrics.FinanceGateDecisions.WithLabelValues(mode, "deny").Inc()
	return apperrors.ErrForbidden
}
