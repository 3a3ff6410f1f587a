package access

import (
	"fmt"

	"github.com/mornivek/stafflane/internal/models"
)

// Module names a feature area gated independently of any single resource.
type Module string

const (
	ModuleProjects    Module = "projects"
	ModuleFinance     Module = "finance"
	ModuleHR          Module = "hr"
	ModulePayroll     Module = "payroll"
	ModuleLoans       Module = "loans"
	ModuleInvoicing   Module = "invoicing"
	ModuleDocuments   Module = "documents"
	ModuleRecruitment Module = "recruitment"
	ModuleFleet       Module = "fleet"
	ModuleMessaging   Module = "messaging"
	ModuleReports     Module = "reports"
)

// Modules lists every module the application knows about.
func Modules() []Module {
	return []Module{
		ModuleProjects,
		ModuleFinance,
		ModuleHR,
		ModulePayroll,
		ModuleLoans,
		ModuleInvoicing,
		ModuleDocuments,
		ModuleRecruitment,
		ModuleFleet,
		ModuleMessaging,
		ModuleReports,
	}
}

// moduleRule states who may use a module: either everyone in the
// organization, members of the listed departments, or managers only.
type moduleRule struct {
	AllowAll     bool
	ManagersOnly bool
	Departments  []string
}

var moduleRules = map[Module]moduleRule{
	ModuleProjects:    {AllowAll: true},
	ModuleDocuments:   {AllowAll: true},
	ModuleMessaging:   {AllowAll: true},
	ModuleFinance:     {Departments: []string{models.DepartmentAdmin, models.DepartmentFinance, models.DepartmentHR}},
	ModulePayroll:     {Departments: []string{models.DepartmentAdmin, models.DepartmentHR, models.DepartmentFinance}},
	ModuleLoans:       {Departments: []string{models.DepartmentAdmin, models.DepartmentFinance}},
	ModuleInvoicing:   {Departments: []string{models.DepartmentAdmin, models.DepartmentFinance, models.DepartmentSales}},
	ModuleHR:          {Departments: []string{models.DepartmentAdmin, models.DepartmentHR}},
	ModuleRecruitment: {Departments: []string{models.DepartmentAdmin, models.DepartmentHR, models.DepartmentRecruitment}},
	ModuleFleet:       {Departments: []string{models.DepartmentAdmin, models.DepartmentOperations}},
	ModuleReports:     {ManagersOnly: true},
}

// ValidateModules checks the gate table at startup. Every enumerated module
// must have exactly one rule and every department in a rule must be known.
// An unmapped module is a configuration fault, never a silent deny.
func ValidateModules() error {
	known := make(map[string]struct{})
	for _, dept := range models.Departments() {
		known[dept] = struct{}{}
	}

	for _, module := range Modules() {
		rule, ok := moduleRules[module]
		if !ok {
			return fmt.Errorf("access: module %q has no gate rule", module)
		}
		if rule.AllowAll && (rule.ManagersOnly || len(rule.Departments) > 0) {
			return fmt.Errorf("access: module %q mixes allow-all with other predicates", module)
		}
		if !rule.AllowAll && !rule.ManagersOnly && len(rule.Departments) == 0 {
			return fmt.Errorf("access: module %q allows nobody", module)
		}
		for _, dept := range rule.Departments {
			if _, ok := known[dept]; !ok {
				return fmt.Errorf("access: module %q references unknown department %q", module, dept)
			}
		}
	}

	if len(moduleRules) != len(Modules()) {
		return fmt.Errorf("access: gate table has %d rules for %d modules", len(moduleRules), len(Modules()))
	}

	return nil
}

// CanAccessModule decides whether the identity may use the named module.
// Global admins always pass. An unknown module name returns an error so a
// misconfigured gate fails fast instead of silently denying.
func CanAccessModule(identity *Identity, module Module) (bool, error) {
	if identity == nil {
		return false, nil
	}

	rule, ok := moduleRules[module]
	if !ok {
		return false, fmt.Errorf("access: unknown module %q", module)
	}

	if identity.IsGlobalAdmin() {
		return true, nil
	}

	if rule.AllowAll {
		return true, nil
	}

	if rule.ManagersOnly {
		return identity.Profile.IsManager, nil
	}

	for _, dept := range rule.Departments {
		if identity.Profile.Department == dept {
			return true, nil
		}
	}
	return false, nil
}
