// Package memberpolicy is the membership validator: the single place that
// cross-checks a candidate set of users against the parent member sets they
// must belong to. Team creation/updates and task assignment both call the
// same Validate so the rules never diverge.
//
// Validation always reads the parent sets as they are at write time; nothing
// is cached between requests, since project membership can change between
// writes. A violation rejects the whole write; there are no partial
// membership writes.
package memberpolicy

import (
	"sort"
	"strings"

	"github.com/sprinthub/sprinthub/internal/app/system/apperr"
	"github.com/sprinthub/sprinthub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Validate checks that every candidate appears in every required set. On
// violation it returns a Validation error naming the offending IDs (they
// belong to the caller's own request, so surfacing them leaks nothing).
func Validate(candidates []primitive.ObjectID, requiredSets ...[]primitive.ObjectID) error {
	var offending []string
	for _, candidate := range candidates {
		for _, set := range requiredSets {
			if !contains(set, candidate) {
				offending = append(offending, candidate.Hex())
				break
			}
		}
	}
	if len(offending) == 0 {
		return nil
	}
	sort.Strings(offending)
	return apperr.Validation("users not in required member sets: %s", strings.Join(offending, ", "))
}

// ValidateTeamMembers checks that every member being placed on a team is a
// member of the team's parent project.
func ValidateTeamMembers(members []primitive.ObjectID, project *models.Project) error {
	if err := Validate(members, project.Members); err != nil {
		return apperr.Validation("all team members must belong to the project")
	}
	return nil
}

// ValidateAssignee checks a task assignee: same company as the caller, and a
// member of both the task's project and its team. Called on creation and on
// every reassignment.
func ValidateAssignee(assignee *models.User, callerCompanyID primitive.ObjectID, project *models.Project, team *models.Team) error {
	if assignee == nil {
		return apperr.NotFound("user not found")
	}
	if assignee.CompanyID != callerCompanyID {
		return apperr.Validation("user does not belong to this company")
	}
	if !project.HasMember(assignee.ID) || !team.HasMember(assignee.ID) {
		return apperr.Validation("assigned user must belong to project and team")
	}
	return nil
}

func contains(set []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, m := range set {
		if m == id {
			return true
		}
	}
	return false
}
