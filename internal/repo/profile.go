package repo

import (
	"context"
	"database/sql"

	"github.com/devhub/devconnect/internal/models"
)

type ProfileRepo struct {
	DB *sql.DB
}

func NewProfileRepo(db *sql.DB) *ProfileRepo {
	return &ProfileRepo{DB: db}
}

const profileColumns = `
	p.id, p.user_id, p.company, p.website, p.location, p.bio, p.status, p.github_username,
	p.skills, p.social, p.experience, p.education, p.version, u.name, u.avatar
`

func scanProfile(row interface{ Scan(...interface{}) error }) (*models.Profile, error) {
	p := &models.Profile{}
	var skills, social, experience, education []byte

	err := row.Scan(
		&p.ID, &p.UserID, &p.Company, &p.Website, &p.Location, &p.Bio, &p.Status, &p.GithubUsername,
		&skills, &social, &experience, &education, &p.Version, &p.UserName, &p.UserAvatar,
	)
	if err != nil {
		return nil, err
	}

	p.Skills = []string{}
	p.Experience = []models.Experience{}
	p.Education = []models.Education{}
	if err := unmarshalInto(skills, &p.Skills); err != nil {
		return nil, err
	}
	if err := unmarshalInto(social, &p.Social); err != nil {
		return nil, err
	}
	if err := unmarshalInto(experience, &p.Experience); err != nil {
		return nil, err
	}
	if err := unmarshalInto(education, &p.Education); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *ProfileRepo) GetByUserID(ctx context.Context, userID int) (*models.Profile, error) {
	query := `
		SELECT ` + profileColumns + `
		FROM profiles p
		JOIN users u ON u.id = p.user_id
		WHERE p.user_id = $1
	`
	return scanProfile(r.DB.QueryRowContext(ctx, query, userID))
}

func (r *ProfileRepo) List(ctx context.Context) ([]models.Profile, error) {
	query := `
		SELECT ` + profileColumns + `
		FROM profiles p
		JOIN users u ON u.id = p.user_id
		ORDER BY p.id
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	profiles := []models.Profile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, *p)
	}

	return profiles, rows.Err()
}

// Upsert replaces the caller's profile fields or creates the profile on first
// submission. The caller merges present fields beforehand; this writes them all.
// The conflict update leaves experience and education alone: those lists are
// only ever edited through the versioned Save, and overwriting them here from
// the caller's read snapshot would lose a concurrent list mutation.
func (r *ProfileRepo) Upsert(ctx context.Context, p *models.Profile) error {
	query := `
		INSERT INTO profiles (user_id, company, website, location, bio, status, github_username,
		                      skills, social, experience, education)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (user_id) DO UPDATE SET
			company = EXCLUDED.company,
			website = EXCLUDED.website,
			location = EXCLUDED.location,
			bio = EXCLUDED.bio,
			status = EXCLUDED.status,
			github_username = EXCLUDED.github_username,
			skills = EXCLUDED.skills,
			social = EXCLUDED.social,
			version = profiles.version + 1,
			updated_at = now()
		RETURNING id, version
	`

	skills, err := marshalList(p.Skills)
	if err != nil {
		return err
	}
	social, err := marshalList(p.Social)
	if err != nil {
		return err
	}
	experience, err := marshalList(p.Experience)
	if err != nil {
		return err
	}
	education, err := marshalList(p.Education)
	if err != nil {
		return err
	}

	return r.DB.QueryRowContext(ctx, query,
		p.UserID, p.Company, p.Website, p.Location, p.Bio, p.Status, p.GithubUsername,
		skills, social, experience, education,
	).Scan(&p.ID, &p.Version)
}

// Save persists mutated experience/education lists with an optimistic version
// guard. Returns ErrVersionConflict if another save won the race.
func (r *ProfileRepo) Save(ctx context.Context, p *models.Profile) error {
	query := `
		UPDATE profiles
		SET experience = $1, education = $2, version = version + 1, updated_at = now()
		WHERE user_id = $3 AND version = $4
	`

	experience, err := marshalList(p.Experience)
	if err != nil {
		return err
	}
	education, err := marshalList(p.Education)
	if err != nil {
		return err
	}

	result, err := r.DB.ExecContext(ctx, query, experience, education, p.UserID, p.Version)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrVersionConflict
	}

	p.Version++
	return nil
}

// DeleteByUserID removes the profile if one exists. Absence is not an error.
func (r *ProfileRepo) DeleteByUserID(ctx context.Context, userID int) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM profiles WHERE user_id = $1`, userID)
	return err
}
