package memberpolicy_test

import (
	"strings"
	"testing"

	"github.com/sprinthub/sprinthub/internal/app/policy/memberpolicy"
	"github.com/sprinthub/sprinthub/internal/app/system/apperr"
	"github.com/sprinthub/sprinthub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestValidate_AllPresent(t *testing.T) {
	a, b := primitive.NewObjectID(), primitive.NewObjectID()
	set := []primitive.ObjectID{a, b, primitive.NewObjectID()}

	if err := memberpolicy.Validate([]primitive.ObjectID{a, b}, set); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidate_EmptyCandidates(t *testing.T) {
	if err := memberpolicy.Validate(nil, []primitive.ObjectID{primitive.NewObjectID()}); err != nil {
		t.Errorf("empty candidate set should pass: %v", err)
	}
}

func TestValidate_MissingFromOneSet(t *testing.T) {
	a := primitive.NewObjectID()
	setWith := []primitive.ObjectID{a}
	setWithout := []primitive.ObjectID{primitive.NewObjectID()}

	err := memberpolicy.Validate([]primitive.ObjectID{a}, setWith, setWithout)
	if !apperr.IsValidation(err) {
		t.Fatalf("expected Validation error, got %v", err)
	}
	if !strings.Contains(err.Error(), a.Hex()) {
		t.Errorf("error should name the offending ID: %q", err.Error())
	}
}

func TestValidate_NamesAllOffenders(t *testing.T) {
	good := primitive.NewObjectID()
	bad1, bad2 := primitive.NewObjectID(), primitive.NewObjectID()
	set := []primitive.ObjectID{good}

	err := memberpolicy.Validate([]primitive.ObjectID{good, bad1, bad2}, set)
	if err == nil {
		t.Fatal("expected error")
	}
	for _, id := range []primitive.ObjectID{bad1, bad2} {
		if !strings.Contains(err.Error(), id.Hex()) {
			t.Errorf("error should name %s: %q", id.Hex(), err.Error())
		}
	}
	if strings.Contains(err.Error(), good.Hex()) {
		t.Errorf("error should not name valid members: %q", err.Error())
	}
}

func TestValidateTeamMembers(t *testing.T) {
	inProject := primitive.NewObjectID()
	outside := primitive.NewObjectID()
	project := &models.Project{Members: []primitive.ObjectID{inProject}}

	if err := memberpolicy.ValidateTeamMembers([]primitive.ObjectID{inProject}, project); err != nil {
		t.Errorf("project member should be assignable: %v", err)
	}

	err := memberpolicy.ValidateTeamMembers([]primitive.ObjectID{inProject, outside}, project)
	if !apperr.IsValidation(err) {
		t.Fatalf("expected Validation error, got %v", err)
	}
}

func TestValidateAssignee(t *testing.T) {
	company := primitive.NewObjectID()
	userID := primitive.NewObjectID()
	user := &models.User{ID: userID, CompanyID: company}

	bothSets := []primitive.ObjectID{userID}
	project := &models.Project{Members: bothSets}
	team := &models.Team{Members: bothSets}

	t.Run("valid assignee", func(t *testing.T) {
		if err := memberpolicy.ValidateAssignee(user, company, project, team); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("nil user is not found", func(t *testing.T) {
		err := memberpolicy.ValidateAssignee(nil, company, project, team)
		if !apperr.IsNotFound(err) {
			t.Errorf("expected NotFound, got %v", err)
		}
	})

	t.Run("wrong company", func(t *testing.T) {
		err := memberpolicy.ValidateAssignee(user, primitive.NewObjectID(), project, team)
		if !apperr.IsValidation(err) {
			t.Errorf("expected Validation, got %v", err)
		}
	})

	t.Run("not a project member", func(t *testing.T) {
		err := memberpolicy.ValidateAssignee(user, company, &models.Project{}, team)
		if !apperr.IsValidation(err) {
			t.Errorf("expected Validation, got %v", err)
		}
	})

	t.Run("not a team member", func(t *testing.T) {
		err := memberpolicy.ValidateAssignee(user, company, project, &models.Team{})
		if !apperr.IsValidation(err) {
			t.Errorf("expected Validation, got %v", err)
		}
	})
}
