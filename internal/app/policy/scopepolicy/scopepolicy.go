// Package scopepolicy is the tenant scope guard: every operation resolves
// its target entity company-scoped and fails closed when the entity belongs
// to another company. A cross-tenant entity is reported as NotFound so it is
// indistinguishable from an absent one; tenant boundaries never leak
// through error classes.
//
// Stores already filter their queries by company_id; these helpers cover the
// cases where an entity was loaded by ID first (or arrived embedded in
// another document) and the company check happens in code.
package scopepolicy

import (
	"github.com/sprinthub/sprinthub/internal/app/system/apperr"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RequireCompany fails with NotFound when entityCompanyID does not match the
// caller's company. label names the entity in the error ("project",
// "sprint", …). This check runs before any role or ownership check.
func RequireCompany(entityCompanyID, callerCompanyID primitive.ObjectID, label string) error {
	if entityCompanyID != callerCompanyID {
		return apperr.NotFound("%s not found", label)
	}
	return nil
}

// RequireCreator fails with Forbidden when the caller is not the entity's
// creator. Ownership checks always run after RequireCompany, so a Forbidden
// here never reveals anything about another tenant.
func RequireCreator(createdBy, callerID primitive.ObjectID, label string) error {
	if createdBy != callerID {
		return apperr.Forbidden("only the %s creator may perform this action", label)
	}
	return nil
}
