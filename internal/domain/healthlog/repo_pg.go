package healthlog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/healthintel/healthintel/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

var dialect = goqu.Dialect("postgres")

const (
	symptomTable    = "symptom_logs"
	nutritionTable  = "nutrition_logs"
	medicationTable = "medication_logs"
	labTable        = "lab_reports"
)

var (
	symptomCols    = []interface{}{"id", "user_id", "symptoms", "predicted_disease", "triage_level", "logged_at"}
	nutritionCols  = []interface{}{"id", "user_id", "food_name", "calories", "protein", "carbs", "fats", "logged_at"}
	medicationCols = []interface{}{"id", "user_id", "medication_name", "logged_at"}
	labCols        = []interface{}{"id", "user_id", "report_name", "abnormal_values", "logged_at"}
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

func scanSymptom(row pgx.Row) (*SymptomEntry, error) {
	var e SymptomEntry
	err := row.Scan(&e.ID, &e.UserID, &e.Symptoms, &e.PredictedDisease, &e.TriageLevel, &e.Timestamp)
	return &e, err
}

func scanNutrition(row pgx.Row) (*NutritionEntry, error) {
	var e NutritionEntry
	err := row.Scan(&e.ID, &e.UserID, &e.FoodName, &e.Calories, &e.Protein, &e.Carbs, &e.Fats, &e.Timestamp)
	return &e, err
}

func scanMedication(row pgx.Row) (*MedicationEntry, error) {
	var e MedicationEntry
	err := row.Scan(&e.ID, &e.UserID, &e.MedicationName, &e.Timestamp)
	return &e, err
}

func scanLab(row pgx.Row) (*LabReportEntry, error) {
	var e LabReportEntry
	err := row.Scan(&e.ID, &e.UserID, &e.ReportName, &e.AbnormalValues, &e.Timestamp)
	return &e, err
}

// stamp assigns the id and, when unset, the log time.
func stamp(id *uuid.UUID, ts *time.Time) {
	*id = uuid.New()
	if ts.IsZero() {
		*ts = time.Now().UTC()
	}
}

func (r *repoPG) insert(ctx context.Context, table string, rec goqu.Record) error {
	query, args, err := dialect.Insert(table).Rows(rec).Prepared(true).ToSQL()
	if err != nil {
		return fmt.Errorf("build insert into %s: %w", table, err)
	}
	if _, err := r.conn(ctx).Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("insert into %s: %w", table, err)
	}
	return nil
}

func (r *repoPG) CreateSymptom(ctx context.Context, e *SymptomEntry) error {
	stamp(&e.ID, &e.Timestamp)
	if e.Symptoms == nil {
		e.Symptoms = []string{}
	}
	// goqu renders Go slices as value lists; the JSONB column gets raw JSON.
	symptoms, err := json.Marshal(e.Symptoms)
	if err != nil {
		return fmt.Errorf("encode symptoms: %w", err)
	}
	return r.insert(ctx, symptomTable, goqu.Record{
		"id":                e.ID.String(),
		"user_id":           e.UserID.String(),
		"symptoms":          symptoms,
		"predicted_disease": e.PredictedDisease,
		"triage_level":      e.TriageLevel,
		"logged_at":         e.Timestamp,
	})
}

func (r *repoPG) CreateNutrition(ctx context.Context, e *NutritionEntry) error {
	stamp(&e.ID, &e.Timestamp)
	return r.insert(ctx, nutritionTable, goqu.Record{
		"id":        e.ID.String(),
		"user_id":   e.UserID.String(),
		"food_name": e.FoodName,
		"calories":  e.Calories,
		"protein":   e.Protein,
		"carbs":     e.Carbs,
		"fats":      e.Fats,
		"logged_at": e.Timestamp,
	})
}

func (r *repoPG) CreateMedication(ctx context.Context, e *MedicationEntry) error {
	stamp(&e.ID, &e.Timestamp)
	return r.insert(ctx, medicationTable, goqu.Record{
		"id":              e.ID.String(),
		"user_id":         e.UserID.String(),
		"medication_name": e.MedicationName,
		"logged_at":       e.Timestamp,
	})
}

func (r *repoPG) CreateLab(ctx context.Context, e *LabReportEntry) error {
	stamp(&e.ID, &e.Timestamp)
	return r.insert(ctx, labTable, goqu.Record{
		"id":              e.ID.String(),
		"user_id":         e.UserID.String(),
		"report_name":     e.ReportName,
		"abnormal_values": e.AbnormalValues,
		"logged_at":       e.Timestamp,
	})
}

func userFilter(userID uuid.UUID, since *time.Time) []exp.Expression {
	where := []exp.Expression{goqu.C("user_id").Eq(userID.String())}
	if since != nil {
		where = append(where, goqu.C("logged_at").Gte(*since))
	}
	return where
}

func list[T any](ctx context.Context, q queryable, ds *goqu.SelectDataset, scan func(pgx.Row) (*T, error)) ([]*T, error) {
	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []*T{}
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *repoPG) history(table string, cols []interface{}, userID uuid.UUID, since *time.Time) *goqu.SelectDataset {
	return dialect.From(table).
		Select(cols...).
		Where(userFilter(userID, since)...).
		Order(goqu.C("logged_at").Asc(), goqu.C("id").Asc())
}

func (r *repoPG) ListSymptoms(ctx context.Context, userID uuid.UUID, since *time.Time) ([]*SymptomEntry, error) {
	return list(ctx, r.conn(ctx), r.history(symptomTable, symptomCols, userID, since), scanSymptom)
}

func (r *repoPG) ListNutrition(ctx context.Context, userID uuid.UUID, since *time.Time) ([]*NutritionEntry, error) {
	return list(ctx, r.conn(ctx), r.history(nutritionTable, nutritionCols, userID, since), scanNutrition)
}

func (r *repoPG) ListMedications(ctx context.Context, userID uuid.UUID, since *time.Time) ([]*MedicationEntry, error) {
	return list(ctx, r.conn(ctx), r.history(medicationTable, medicationCols, userID, since), scanMedication)
}

func (r *repoPG) ListLabs(ctx context.Context, userID uuid.UUID, since *time.Time) ([]*LabReportEntry, error) {
	return list(ctx, r.conn(ctx), r.history(labTable, labCols, userID, since), scanLab)
}

func (r *repoPG) CountMedications(ctx context.Context, userID uuid.UUID, since time.Time) (map[string]int, error) {
	name := goqu.L("LOWER(TRIM(medication_name))")
	query, args, err := dialect.From(medicationTable).
		Select(name.As("name"), goqu.COUNT("*")).
		Where(userFilter(userID, &since)...).
		GroupBy(name).
		Prepared(true).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build medication count: %w", err)
	}
	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	counts := make(map[string]int)
	for rows.Next() {
		var (
			med string
			n   int
		)
		if err := rows.Scan(&med, &n); err != nil {
			return nil, err
		}
		counts[med] = n
	}
	return counts, rows.Err()
}

func page[T any](ctx context.Context, q queryable, table string, cols []interface{}, userID uuid.UUID, limit, offset int, scan func(pgx.Row) (*T, error)) ([]*T, int, error) {
	countSQL, countArgs, err := dialect.From(table).
		Select(goqu.COUNT("*")).
		Where(userFilter(userID, nil)...).
		Prepared(true).ToSQL()
	if err != nil {
		return nil, 0, fmt.Errorf("build count: %w", err)
	}
	var total int
	if err := q.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	ds := dialect.From(table).
		Select(cols...).
		Where(userFilter(userID, nil)...).
		Order(goqu.C("logged_at").Desc(), goqu.C("id").Desc()).
		Limit(uint(limit)).
		Offset(uint(offset))
	items, err := list(ctx, q, ds, scan)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *repoPG) PageSymptoms(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*SymptomEntry, int, error) {
	return page(ctx, r.conn(ctx), symptomTable, symptomCols, userID, limit, offset, scanSymptom)
}

func (r *repoPG) PageNutrition(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*NutritionEntry, int, error) {
	return page(ctx, r.conn(ctx), nutritionTable, nutritionCols, userID, limit, offset, scanNutrition)
}

func (r *repoPG) PageMedications(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*MedicationEntry, int, error) {
	return page(ctx, r.conn(ctx), medicationTable, medicationCols, userID, limit, offset, scanMedication)
}

func (r *repoPG) PageLabs(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*LabReportEntry, int, error) {
	return page(ctx, r.conn(ctx), labTable, labCols, userID, limit, offset, scanLab)
}
