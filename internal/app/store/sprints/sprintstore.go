// internal/app/store/sprints/sprintstore.go
package sprintstore

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/sprinthub/sprinthub/internal/app/system/apperr"
	"github.com/sprinthub/sprinthub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrActiveSprintExists is returned when an activation or active-state
// insert collides with the partial unique index on (project_id, status:
// Active). The index is the source of truth for one-active-per-project;
// handlers pre-check only to produce a friendlier message.
var ErrActiveSprintExists = apperr.Conflict("project already has an active sprint")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("sprints")}
}

// Create inserts a sprint in Planned state.
func (s *Store) Create(ctx context.Context, sp models.Sprint) (models.Sprint, error) {
	now := time.Now().UTC()
	sp.ID = primitive.NewObjectID()
	sp.Status = models.SprintPlanned
	sp.CreatedAt = now
	sp.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, sp); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Sprint{}, ErrActiveSprintExists
		}
		return models.Sprint{}, err
	}
	return sp, nil
}

// GetScoped loads a sprint by ID filtered to the caller's company.
func (s *Store) GetScoped(ctx context.Context, id, companyID primitive.ObjectID) (models.Sprint, error) {
	var sp models.Sprint
	err := s.c.FindOne(ctx, bson.M{"_id": id, "company_id": companyID}).Decode(&sp)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Sprint{}, apperr.NotFound("sprint not found")
	}
	if err != nil {
		return models.Sprint{}, err
	}
	return sp, nil
}

// ListByProject returns a project's sprints, newest first.
func (s *Store) ListByProject(ctx context.Context, companyID, projectID primitive.ObjectID) ([]models.Sprint, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"company_id": companyID, "project_id": projectID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Sprint
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FindActive returns the project's active sprint, if any. Used by the
// activation pre-check to name the conflicting sprint.
func (s *Store) FindActive(ctx context.Context, companyID, projectID primitive.ObjectID) (models.Sprint, bool, error) {
	var sp models.Sprint
	err := s.c.FindOne(ctx, bson.M{
		"company_id": companyID,
		"project_id": projectID,
		"status":     models.SprintActive,
	}).Decode(&sp)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Sprint{}, false, nil
	}
	if err != nil {
		return models.Sprint{}, false, err
	}
	return sp, true, nil
}

// Activate moves a Planned sprint to Active, writing any field edits in u
// in the same update so a rejected activation changes nothing. The filter
// pins the expected current status so concurrent activations of the same
// sprint cannot double apply, and the partial unique index rejects a second
// active sprint in the project even if two requests pass the pre-check
// together.
func (s *Store) Activate(ctx context.Context, id, companyID primitive.ObjectID, u Update) (models.Sprint, error) {
	set := u.set()
	set["status"] = models.SprintActive

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var sp models.Sprint
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "company_id": companyID, "status": models.SprintPlanned},
		bson.M{"$set": set}, opts).Decode(&sp)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Sprint{}, mongo.ErrNoDocuments
	}
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.Sprint{}, ErrActiveSprintExists
		}
		return models.Sprint{}, err
	}
	return sp, nil
}

// Complete moves an Active sprint to Completed, writing any field edits in
// u in the same update. Returns ErrNoDocuments when the sprint is not
// currently Active so the handler can report the actual transition error.
func (s *Store) Complete(ctx context.Context, id, companyID primitive.ObjectID, u Update) (models.Sprint, error) {
	set := u.set()
	set["status"] = models.SprintCompleted

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var sp models.Sprint
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "company_id": companyID, "status": models.SprintActive},
		bson.M{"$set": set}, opts).Decode(&sp)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Sprint{}, mongo.ErrNoDocuments
	}
	if err != nil {
		return models.Sprint{}, err
	}
	return sp, nil
}

// Update is the typed allow-list for sprint field edits. Status is absent on
// purpose; lifecycle moves go through Activate and Complete, which accept an
// Update so an edit that rides along with a transition shares its write.
type Update struct {
	Name      *string
	Goal      *string
	StartDate *time.Time
	EndDate   *time.Time
}

func (u Update) set() bson.M {
	set := bson.M{"updated_at": time.Now().UTC()}
	if u.Name != nil {
		set["name"] = *u.Name
	}
	if u.Goal != nil {
		set["goal"] = *u.Goal
	}
	if u.StartDate != nil {
		set["start_date"] = *u.StartDate
	}
	if u.EndDate != nil {
		set["end_date"] = *u.EndDate
	}
	return set
}

// Apply writes the non-nil fields of u, company-scoped, returning the
// updated document.
func (s *Store) Apply(ctx context.Context, id, companyID primitive.ObjectID, u Update) (models.Sprint, error) {
	set := u.set()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var sp models.Sprint
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "company_id": companyID},
		bson.M{"$set": set}, opts).Decode(&sp)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Sprint{}, apperr.NotFound("sprint not found")
	}
	if err != nil {
		return models.Sprint{}, err
	}
	return sp, nil
}

// Delete removes a sprint, company-scoped. The tasks-assigned guard lives
// in the handler so the check and the delete share one request flow.
func (s *Store) Delete(ctx context.Context, id, companyID primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id, "company_id": companyID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("sprint not found")
	}
	return nil
}
