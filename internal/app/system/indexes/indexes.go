// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
We aggregate errors so any problem is visible and startup can fail fast.

The sprints partial unique index is load-bearing: it is what makes
one-active-sprint-per-project hold under concurrent activations, so a
failure here must abort startup rather than be logged and ignored.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureCompanies(ctx, db); err != nil {
		problems = append(problems, "companies: "+err.Error())
	}
	if err := ensureUsers(ctx, db); err != nil {
		problems = append(problems, "users: "+err.Error())
	}
	if err := ensureProjects(ctx, db); err != nil {
		problems = append(problems, "projects: "+err.Error())
	}
	if err := ensureTeams(ctx, db); err != nil {
		problems = append(problems, "teams: "+err.Error())
	}
	if err := ensureSprints(ctx, db); err != nil {
		problems = append(problems, "sprints: "+err.Error())
	}
	if err := ensureTasks(ctx, db); err != nil {
		problems = append(problems, "tasks: "+err.Error())
	}
	if err := ensureAuditEvents(ctx, db); err != nil {
		problems = append(problems, "audit_events: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Core helper: reconcile a set of desired indexes for one collection         */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func sameBoolPtr(a, b *bool) bool {
	av := false
	bv := false
	if a != nil {
		av = *a
	}
	if b != nil {
		bv = *b
	}
	return av == bv
}

// Mongo/DocDB sometimes returns IndexOptionsConflict when an index with the
// same keys already exists under a different name (or options differ).
func isOptionsConflictErr(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "IndexOptionsConflict")
}

func ensureIndexSet(ctx context.Context, coll *mongo.Collection, desired []mongo.IndexModel) error {
	var errs []string

	existing := map[string]existingIndex{} // key signature -> index
	cur, err := coll.Indexes().List(ctx)
	if err == nil {
		for cur.Next(ctx) {
			var idx existingIndex
			if err := cur.Decode(&idx); err != nil {
				zap.L().Warn("failed to decode existing index",
					zap.String("collection", coll.Name()),
					zap.Error(err))
				continue
			}
			existing[keySig(idx.Key)] = idx
		}
		cur.Close(ctx)
	}

	for _, m := range desired {
		var desiredName string
		var desiredUnique *bool
		if m.Options != nil {
			if m.Options.Name != nil {
				desiredName = *m.Options.Name
			}
			desiredUnique = m.Options.Unique
		}
		desiredSig := keySig(m.Keys.(bson.D))
		start := time.Now()

		if ex, ok := existing[desiredSig]; ok {
			if sameBoolPtr(desiredUnique, ex.Unique) && (desiredName == "" || ex.Name == desiredName) {
				zap.L().Debug("reusing existing index",
					zap.String("collection", coll.Name()),
					zap.String("name", ex.Name),
					zap.String("keys", desiredSig))
				continue
			}
			// Name or options mismatch (e.g. upgrading to unique). Drop & recreate.
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				errs = append(errs, fmt.Sprintf("%s(%s): drop failed: %v", coll.Name(), desiredName, err))
				continue
			}
		}

		if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			if isOptionsConflictErr(err) {
				// Same keys under another name; leave it alone.
				zap.L().Warn("index options conflict, keeping existing",
					zap.String("collection", coll.Name()),
					zap.String("keys", desiredSig),
					zap.Error(err))
				continue
			}
			errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), desiredName, err))
			continue
		}
		zap.L().Info("index ensured",
			zap.String("collection", coll.Name()),
			zap.String("name", desiredName),
			zap.String("keys", desiredSig),
			zap.Bool("unique", desiredUnique != nil && *desiredUnique),
			zap.String("took", time.Since(start).String()))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Collection-specific index sets                                             */
/* -------------------------------------------------------------------------- */

func ensureCompanies(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("companies")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Company names are unique case-insensitively; the folded name is
		// what concurrent registrations race on.
		{
			Keys:    bson.D{{Key: "name_ci", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_companies_nameci"),
		},
	})
}

func ensureUsers(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("users")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Emails are globally unique, folded.
		{
			Keys:    bson.D{{Key: "email_ci", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_users_emailci"),
		},
		{
			Keys:    bson.D{{Key: "company_id", Value: 1}},
			Options: options.Index().SetName("idx_users_company"),
		},
	})
}

func ensureProjects(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("projects")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Project keys are unique within a company.
		{
			Keys:    bson.D{{Key: "company_id", Value: 1}, {Key: "key", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_projects_company_key"),
		},
		{
			Keys:    bson.D{{Key: "company_id", Value: 1}, {Key: "members", Value: 1}},
			Options: options.Index().SetName("idx_projects_company_members"),
		},
		{
			Keys:    bson.D{{Key: "company_id", Value: 1}, {Key: "created_by", Value: 1}},
			Options: options.Index().SetName("idx_projects_company_createdby"),
		},
	})
}

func ensureTeams(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("teams")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Team keys are unique within a project.
		{
			Keys:    bson.D{{Key: "project_id", Value: 1}, {Key: "key", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_teams_project_key"),
		},
		{
			Keys:    bson.D{{Key: "company_id", Value: 1}, {Key: "project_id", Value: 1}},
			Options: options.Index().SetName("idx_teams_company_project"),
		},
		{
			Keys:    bson.D{{Key: "company_id", Value: 1}, {Key: "members", Value: 1}},
			Options: options.Index().SetName("idx_teams_company_members"),
		},
	})
}

func ensureSprints(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("sprints")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// At most one Active sprint per project. Partial so Planned and
		// Completed sprints do not collide.
		{
			Keys: bson.D{{Key: "project_id", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetName("uniq_sprints_project_active").
				SetPartialFilterExpression(bson.D{{Key: "status", Value: "Active"}}),
		},
		{
			Keys:    bson.D{{Key: "company_id", Value: 1}, {Key: "project_id", Value: 1}},
			Options: options.Index().SetName("idx_sprints_company_project"),
		},
	})
}

func ensureTasks(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("tasks")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "company_id", Value: 1}, {Key: "project_id", Value: 1}},
			Options: options.Index().SetName("idx_tasks_company_project"),
		},
		{
			Keys:    bson.D{{Key: "company_id", Value: 1}, {Key: "team_id", Value: 1}},
			Options: options.Index().SetName("idx_tasks_company_team"),
		},
		{
			Keys:    bson.D{{Key: "company_id", Value: 1}, {Key: "assigned_to", Value: 1}},
			Options: options.Index().SetName("idx_tasks_company_assignee"),
		},
		// Sprint deletion counts tasks by sprint_id.
		{
			Keys:    bson.D{{Key: "company_id", Value: 1}, {Key: "sprint_id", Value: 1}},
			Options: options.Index().SetName("idx_tasks_company_sprint"),
		},
	})
}

func ensureAuditEvents(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("audit_events")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "company_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_audit_company_createdat"),
		},
	})
}
