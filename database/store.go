package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/gofrs/uuid"
	"github.com/pkg/errors"

	"github.com/eyalbz/leadform/model"
	"github.com/eyalbz/leadform/schema"
)

// Store is the SQLite-backed data service: the three public calls consumed by
// the respondent path plus the owner-side repository behind the admin API.
type Store struct {
	*sql.DB
}

// GetPublicBranding resolves a public token to its branding. Returns
// model.ErrNotFound for tokens that do not resolve to a published
// questionnaire.
func (s *Store) GetPublicBranding(ctx context.Context, token string) (model.Branding, error) {
	var b model.Branding
	err := s.QueryRowContext(ctx, `
		SELECT primary_color, logo_url
		FROM questionnaire
		WHERE public_token = ? AND published = 1`,
		token,
	).Scan(&b.PrimaryColor, &b.LogoURL)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Branding{}, model.ErrNotFound
	}
	if err != nil {
		return model.Branding{}, errors.Wrap(err, "db.get_branding")
	}
	return b, nil
}

// GetPublicQuestionnaire resolves a public token to the raw questionnaire
// record. Question rows are returned shape-preserving (options JSON decoded
// as stored, legacy shapes included); canonicalization is the normalizer's
// job, not the store's.
func (s *Store) GetPublicQuestionnaire(ctx context.Context, token string) (schema.Raw, error) {
	var (
		id             int
		title, desc    string
		requireContact bool
	)
	err := s.QueryRowContext(ctx, `
		SELECT id, title, description, require_contact
		FROM questionnaire
		WHERE public_token = ? AND published = 1`,
		token,
	).Scan(&id, &title, &desc, &requireContact)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "db.get_questionnaire")
	}

	rows, err := s.QueryContext(ctx, `
		SELECT qid, type, label, required, options, min, max, placeholder
		FROM question
		WHERE questionnaire_id = ?
		ORDER BY ord`,
		id,
	)
	if err != nil {
		return nil, errors.Wrap(err, "db.get_questionnaire.questions")
	}
	defer rows.Close()

	questions := []any{}
	for rows.Next() {
		var (
			qid, typ, label, placeholder string
			required                     bool
			opts                         string
			min, max                     sql.NullFloat64
		)
		err = rows.Scan(&qid, &typ, &label, &required, &opts, &min, &max, &placeholder)
		if err != nil {
			return nil, errors.Wrap(err, "db.get_questionnaire.questions.scan")
		}

		q := map[string]any{
			"id":       qid,
			"type":     typ,
			"label":    label,
			"required": required,
		}
		if opts != "" {
			var decoded any
			if err := json.Unmarshal([]byte(opts), &decoded); err != nil {
				return nil, errors.Wrap(err, "db.get_questionnaire.questions.parse_options")
			}
			q["options"] = decoded
		}
		if min.Valid {
			q["min"] = min.Float64
		}
		if max.Valid {
			q["max"] = max.Float64
		}
		if placeholder != "" {
			q["placeholder"] = placeholder
		}
		questions = append(questions, q)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.Wrap(err, "db.get_questionnaire.questions.rows")
	}

	return schema.Raw{
		"id":              float64(id),
		"title":           title,
		"description":     desc,
		"require_contact": requireContact,
		"questions":       questions,
	}, nil
}

// SubmitResponse stores one response with its answers and assigns the
// response id. The token must still resolve to a published questionnaire at
// submit time.
func (s *Store) SubmitResponse(ctx context.Context, sub model.Submission) (string, error) {
	var questionnaireID int
	err := s.QueryRowContext(ctx, `
		SELECT id FROM questionnaire
		WHERE public_token = ? AND published = 1`,
		sub.Token,
	).Scan(&questionnaireID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", model.ErrNotFound
	}
	if err != nil {
		return "", errors.Wrap(err, "db.insert_response.resolve")
	}

	tx, err := s.BeginTx(ctx, nil)
	if err != nil {
		return "", errors.Wrap(err, "db.begin_tx")
	}
	defer tx.Rollback()

	responseID := newID()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO response (id, questionnaire_id, time, name, email, phone, lang, channel, ref, ip)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		responseID,
		questionnaireID,
		time.Now().UTC(),
		sub.Contact.Name,
		sub.Contact.Email,
		sub.Contact.Phone,
		string(sub.Lang),
		string(sub.Channel),
		sub.Ref,
		sub.RemoteIP,
	)
	if err != nil {
		return "", errors.Wrap(err, "db.insert_response")
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO response_answer (response_id, qid, value)
		VALUES (?, ?, ?)`)
	if err != nil {
		return "", errors.Wrap(err, "db.insert_response.answers.prepare")
	}
	defer stmt.Close()

	for qid, answer := range sub.Answers {
		value, err := json.Marshal(answer)
		if err != nil {
			return "", errors.Wrap(err, "db.insert_response.answers.encode")
		}
		_, err = stmt.ExecContext(ctx, responseID, qid, string(value))
		if err != nil {
			return "", errors.Wrap(err, "db.insert_response.answers.insert")
		}
	}

	if err = tx.Commit(); err != nil {
		return "", errors.Wrap(err, "db.insert_response.commit")
	}
	return responseID, nil
}

// CreateQuestionnaire stores a new unpublished questionnaire with its
// questions and returns the assigned id.
func (s *Store) CreateQuestionnaire(ctx context.Context, q model.Questionnaire) (int, error) {
	tx, err := s.BeginTx(ctx, nil)
	if err != nil {
		return 0, errors.Wrap(err, "db.begin_tx")
	}
	defer tx.Rollback()

	var id int
	err = tx.QueryRowContext(ctx, `
		INSERT INTO questionnaire (title, description, require_contact, primary_color, logo_url)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id`,
		q.Title,
		q.Description,
		q.RequireContact,
		q.Branding.PrimaryColor,
		q.Branding.LogoURL,
	).Scan(&id)
	if err != nil {
		return 0, errors.Wrap(err, "db.insert_questionnaire")
	}

	if err = insertQuestions(ctx, tx, id, q.Questions); err != nil {
		return 0, err
	}

	if err = tx.Commit(); err != nil {
		return 0, errors.Wrap(err, "db.insert_questionnaire.commit")
	}
	return id, nil
}

// UpdateQuestionnaire replaces title, description, branding and the whole
// question list. The version column is an optimistic lock: a stale version
// fails with ErrVersionConflict.
func (s *Store) UpdateQuestionnaire(ctx context.Context, id int, q model.Questionnaire) error {
	tx, err := s.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "db.begin_tx")
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		DELETE FROM question
		WHERE questionnaire_id = ?`,
		id,
	)
	if err != nil {
		return errors.Wrap(err, "db.update_questionnaire.delete_questions")
	}

	if err = insertQuestions(ctx, tx, id, q.Questions); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE questionnaire
		SET
			title = ?,
			description = ?,
			require_contact = ?,
			primary_color = ?,
			logo_url = ?,
			version = version+1
		WHERE	id = ?
			AND version = ?`,
		q.Title,
		q.Description,
		q.RequireContact,
		q.Branding.PrimaryColor,
		q.Branding.LogoURL,
		id,
		q.Version,
	)
	if err != nil {
		return errors.Wrap(err, "db.update_questionnaire")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "db.update_questionnaire.verify")
	}
	if n < 1 {
		// either unknown id or stale version
		var exists bool
		err = tx.QueryRowContext(ctx, `SELECT 1 FROM questionnaire WHERE id = ?`, id).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return model.ErrNotFound
		}
		return ErrVersionConflict
	}

	return errors.Wrap(tx.Commit(), "db.update_questionnaire.commit")
}

// ErrVersionConflict signals an optimistic lock failure on update.
var ErrVersionConflict = errors.New("version conflict")

func insertQuestions(ctx context.Context, tx *sql.Tx, questionnaireID int, questions []model.Question) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO question (questionnaire_id, qid, ord, type, label, required, options, min, max, placeholder)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return errors.Wrap(err, "db.insert_questions.prepare")
	}
	defer stmt.Close()

	for i, q := range questions {
		var optionsJSON string
		if len(q.Options) > 0 {
			raw, err := json.Marshal(q.Options)
			if err != nil {
				return errors.Wrap(err, "db.insert_questions.encode_options")
			}
			optionsJSON = string(raw)
		}

		var min, max any
		if q.Min != nil {
			min = *q.Min
		}
		if q.Max != nil {
			max = *q.Max
		}

		_, err = stmt.ExecContext(ctx,
			questionnaireID, q.ID, i, string(q.Type), q.Label, q.Required,
			optionsJSON, min, max, q.Placeholder,
		)
		if err != nil {
			return errors.Wrap(err, "db.insert_questions.insert")
		}
	}
	return nil
}

// ListQuestionnaires returns questionnaire headers (no question lists) in
// creation order.
func (s *Store) ListQuestionnaires(ctx context.Context) ([]model.Questionnaire, error) {
	rows, err := s.QueryContext(ctx, `
		SELECT id, version, COALESCE(public_token, ''), title, description, require_contact,
			primary_color, logo_url, published
		FROM questionnaire
		ORDER BY id`)
	if err != nil {
		return nil, errors.Wrap(err, "db.get_questionnaires")
	}
	defer rows.Close()

	list := []model.Questionnaire{}
	for rows.Next() {
		var q model.Questionnaire
		err = rows.Scan(
			&q.ID, &q.Version, &q.PublicToken, &q.Title, &q.Description, &q.RequireContact,
			&q.Branding.PrimaryColor, &q.Branding.LogoURL, &q.Published,
		)
		if err != nil {
			return nil, errors.Wrap(err, "db.get_questionnaires.scan")
		}
		list = append(list, q)
	}
	return list, rows.Err()
}

// GetQuestionnaire loads one questionnaire with its canonical question list.
func (s *Store) GetQuestionnaire(ctx context.Context, id int) (model.Questionnaire, error) {
	var q model.Questionnaire
	err := s.QueryRowContext(ctx, `
		SELECT id, version, COALESCE(public_token, ''), title, description, require_contact,
			primary_color, logo_url, published
		FROM questionnaire
		WHERE id = ?`,
		id,
	).Scan(
		&q.ID, &q.Version, &q.PublicToken, &q.Title, &q.Description, &q.RequireContact,
		&q.Branding.PrimaryColor, &q.Branding.LogoURL, &q.Published,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Questionnaire{}, model.ErrNotFound
	}
	if err != nil {
		return model.Questionnaire{}, errors.Wrap(err, "db.get_questionnaire")
	}

	rows, err := s.QueryContext(ctx, `
		SELECT qid, type, label, required, options, min, max, placeholder
		FROM question
		WHERE questionnaire_id = ?
		ORDER BY ord`,
		id,
	)
	if err != nil {
		return model.Questionnaire{}, errors.Wrap(err, "db.get_questions")
	}
	defer rows.Close()

	q.Questions = []model.Question{}
	for rows.Next() {
		var (
			question model.Question
			typ      string
			opts     string
			min, max sql.NullFloat64
		)
		err = rows.Scan(&question.ID, &typ, &question.Label, &question.Required, &opts, &min, &max, &question.Placeholder)
		if err != nil {
			return model.Questionnaire{}, errors.Wrap(err, "db.get_questions.scan")
		}

		question.Type = model.QuestionType(typ)
		if !question.Type.Known() {
			question.Type = model.TypeText
		}
		question.Options = []model.Option{}
		if opts != "" {
			// legacy rows may hold bare string arrays
			var decoded any
			if err := json.Unmarshal([]byte(opts), &decoded); err != nil {
				return model.Questionnaire{}, errors.Wrap(err, "db.get_questions.parse_options")
			}
			question.Options = schema.NormalizeOptions(decoded)
		}
		if min.Valid {
			v := min.Float64
			question.Min = &v
		}
		if max.Valid {
			v := max.Float64
			question.Max = &v
		}

		q.Questions = append(q.Questions, question)
	}
	return q, rows.Err()
}

// DeleteQuestionnaire removes a questionnaire; questions and responses go
// with it via cascade.
func (s *Store) DeleteQuestionnaire(ctx context.Context, id int) error {
	res, err := s.ExecContext(ctx, `
		DELETE FROM questionnaire WHERE id = ?`,
		id,
	)
	if err != nil {
		return errors.Wrap(err, "db.delete_questionnaire")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "db.delete_questionnaire.verify")
	}
	if n < 1 {
		return model.ErrNotFound
	}
	return nil
}

// Publish marks a questionnaire published and ensures it has a public token.
// The token is assigned exactly once, at first publish; republishing returns
// the existing token unchanged.
func (s *Store) Publish(ctx context.Context, id int) (string, error) {
	tx, err := s.BeginTx(ctx, nil)
	if err != nil {
		return "", errors.Wrap(err, "db.begin_tx")
	}
	defer tx.Rollback()

	var token sql.NullString
	err = tx.QueryRowContext(ctx, `
		SELECT public_token FROM questionnaire WHERE id = ?`,
		id,
	).Scan(&token)
	if errors.Is(err, sql.ErrNoRows) {
		return "", model.ErrNotFound
	}
	if err != nil {
		return "", errors.Wrap(err, "db.publish.get_token")
	}

	if !token.Valid || token.String == "" {
		token = sql.NullString{String: newID(), Valid: true}
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE questionnaire
		SET public_token = ?, published = 1
		WHERE id = ?`,
		token.String,
		id,
	)
	if err != nil {
		return "", errors.Wrap(err, "db.publish")
	}

	if err = tx.Commit(); err != nil {
		return "", errors.Wrap(err, "db.publish.commit")
	}
	return token.String, nil
}

// ListLeads returns the responses of a questionnaire, newest first, each with
// its contact block and answers.
func (s *Store) ListLeads(ctx context.Context, questionnaireID int) ([]model.Lead, error) {
	rows, err := s.QueryContext(ctx, `
		SELECT r.id, r.time, r.name, r.email, r.phone, r.lang, r.channel, r.ref,
			a.qid, a.value
		FROM response r
		LEFT OUTER JOIN response_answer a ON (r.id = a.response_id)
		WHERE r.questionnaire_id = ?
		ORDER BY r.time DESC, r.id`,
		questionnaireID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "db.get_leads")
	}
	defer rows.Close()

	leads := []model.Lead{}
	for rows.Next() {
		var (
			lead          model.Lead
			lang, channel string
			qid, value    sql.NullString
		)
		err = rows.Scan(
			&lead.ID, &lead.Time, &lead.Contact.Name, &lead.Contact.Email, &lead.Contact.Phone,
			&lang, &channel, &lead.Ref,
			&qid, &value,
		)
		if err != nil {
			return nil, errors.Wrap(err, "db.get_leads.scan")
		}
		lead.Lang = model.Lang(lang)
		lead.Channel = model.Channel(channel)

		lastIdx := len(leads) - 1
		if lastIdx < 0 || leads[lastIdx].ID != lead.ID {
			lead.Answers = model.AnswerMap{}
			leads = append(leads, lead)
			lastIdx++
		}

		if qid.Valid && value.Valid && value.String != "" {
			var answer model.Answer
			if err := json.Unmarshal([]byte(value.String), &answer); err != nil {
				return nil, errors.Wrap(err, "db.get_leads.parse_answer")
			}
			leads[lastIdx].Answers[qid.String] = answer
		}
	}
	return leads, rows.Err()
}

// newID produces an opaque identifier: a v4 UUID stripped to its hex, so
// public URLs do not leak sequential ids.
func newID() string {
	return strings.ReplaceAll(uuid.Must(uuid.NewV4()).String(), "-", "")
}
