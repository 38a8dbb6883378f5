package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/devhub/devconnect/internal/middleware"
	"github.com/devhub/devconnect/internal/repo"
	"github.com/go-chi/chi/v5"
)

var profileTestCols = []string{
	"id", "user_id", "company", "website", "location", "bio", "status", "github_username",
	"skills", "social", "experience", "education", "version", "name", "avatar",
}

func profileRouter(db *sql.DB, userID int) http.Handler {
	h := &ProfileHandler{
		Profiles: repo.NewProfileRepo(db),
		Users:    repo.NewUserRepo(db),
		Posts:    repo.NewPostRepo(db),
	}

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(middleware.WithUserID(req.Context(), userID)))
		})
	})
	r.Get("/api/profile/me", h.Me)
	r.Post("/api/profile", h.Upsert)
	r.Get("/api/profile", h.List)
	r.Get("/api/profile/user/{user_id}", h.GetByUserID)
	r.Delete("/api/profile", h.DeleteAccount)
	r.Put("/api/profile/experience", h.AddExperience)
	r.Delete("/api/profile/experience/{exp_id}", h.RemoveExperience)
	r.Put("/api/profile/education", h.AddEducation)
	r.Delete("/api/profile/education/{edu_id}", h.RemoveEducation)
	return r
}

func TestProfileHandler_Me_NoProfile(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`FROM profiles p`).
		WithArgs(1).
		WillReturnError(sql.ErrNoRows)

	rr := do(t, profileRouter(db, 1), "GET", "/api/profile/me", nil)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("Me status: got %d, want 400", rr.Code)
	}
	if msg := decodeMsg(t, rr); msg != "There is no profile for this user" {
		t.Errorf("unexpected msg: %q", msg)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestProfileHandler_Upsert_MissingStatusAndSkills(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	rr := do(t, profileRouter(db, 1), "POST", "/api/profile", map[string]string{"company": "Acme"})

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("Upsert status: got %d, want 400", rr.Code)
	}
	var out struct {
		Errors []FieldError `json:"errors"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode errors: %v", err)
	}
	if len(out.Errors) != 2 {
		t.Errorf("expected 2 field errors, got: %+v", out.Errors)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestProfileHandler_Upsert_CreatesAndSplitsSkills(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	// No profile yet, so the merge starts from scratch.
	mock.ExpectQuery(`FROM profiles p`).
		WithArgs(1).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(`INSERT INTO profiles`).
		WithArgs(1, "Acme", "", "", "", "Developer", "ann",
			[]byte(`["Go","SQL","HTTP"]`), []byte(`{"twitter":"https://twitter.com/ann"}`), []byte(`[]`), []byte(`[]`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "version"}).AddRow(10, 1))
	// Reload for the joined user fields.
	mock.ExpectQuery(`FROM profiles p`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(profileTestCols).AddRow(
			10, 1, "Acme", "", "", "", "Developer", "ann",
			[]byte(`["Go","SQL","HTTP"]`), []byte(`{"twitter":"https://twitter.com/ann"}`),
			[]byte(`[]`), []byte(`[]`), 1, "Ann", "https://avatar",
		))

	rr := do(t, profileRouter(db, 1), "POST", "/api/profile", map[string]string{
		"status":         "Developer",
		"company":        "Acme",
		"githubusername": "ann",
		"skills":         "Go, SQL ,HTTP",
		"twitter":        "https://twitter.com/ann",
	})

	if rr.Code != http.StatusOK {
		t.Fatalf("Upsert status: got %d, want 200", rr.Code)
	}
	var out struct {
		Skills []string `json:"skills"`
		Name   string   `json:"name"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode profile: %v", err)
	}
	if len(out.Skills) != 3 || out.Skills[1] != "SQL" {
		t.Errorf("skills not split/trimmed: %+v", out.Skills)
	}
	if out.Name != "Ann" {
		t.Errorf("joined name missing: %+v", out)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestProfileHandler_Upsert_IdempotentOnRepeat(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	social := []byte(`{"twitter":"https://twitter.com/ann"}`)
	row := func(version int) *sqlmock.Rows {
		return sqlmock.NewRows(profileTestCols).AddRow(
			10, 1, "Acme", "", "", "", "Developer", "ann",
			[]byte(`["Go"]`), social, []byte(`[]`), []byte(`[]`), version, "Ann", "https://avatar",
		)
	}

	// Applying identical fields twice must write the same values both times.
	for _, version := range []int{2, 3} {
		mock.ExpectQuery(`FROM profiles p`).
			WithArgs(1).
			WillReturnRows(row(version))
		mock.ExpectQuery(`INSERT INTO profiles`).
			WithArgs(1, "Acme", "", "", "", "Developer", "ann",
				[]byte(`["Go"]`), social, []byte(`[]`), []byte(`[]`)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "version"}).AddRow(10, version+1))
		mock.ExpectQuery(`FROM profiles p`).
			WithArgs(1).
			WillReturnRows(row(version + 1))
	}

	router := profileRouter(db, 1)
	body := map[string]string{
		"status":         "Developer",
		"company":        "Acme",
		"githubusername": "ann",
		"skills":         "Go",
		"twitter":        "https://twitter.com/ann",
	}

	first := do(t, router, "POST", "/api/profile", body)
	if first.Code != http.StatusOK {
		t.Fatalf("first Upsert status: got %d, want 200", first.Code)
	}
	second := do(t, router, "POST", "/api/profile", body)
	if second.Code != http.StatusOK {
		t.Fatalf("second Upsert status: got %d, want 200", second.Code)
	}

	if first.Body.String() != second.Body.String() {
		t.Errorf("repeated upsert changed the stored document:\nfirst:  %s\nsecond: %s",
			first.Body.String(), second.Body.String())
	}
	var out struct {
		Status string   `json:"status"`
		Skills []string `json:"skills"`
	}
	if err := json.NewDecoder(second.Body).Decode(&out); err != nil {
		t.Fatalf("decode profile: %v", err)
	}
	if out.Status != "Developer" || len(out.Skills) != 1 || out.Skills[0] != "Go" {
		t.Errorf("unexpected profile after repeat: %+v", out)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestProfileHandler_GetByUserID_Malformed(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	rr := do(t, profileRouter(db, 1), "GET", "/api/profile/user/not-a-number", nil)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("GetByUserID status: got %d, want 400", rr.Code)
	}
	if msg := decodeMsg(t, rr); msg != "Profile not found" {
		t.Errorf("unexpected msg: %q", msg)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestProfileHandler_DeleteAccount_Cascades(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	// Posts, then profile, then user.
	mock.ExpectExec(`DELETE FROM posts WHERE user_id = \$1`).
		WithArgs(1).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DELETE FROM profiles WHERE user_id = \$1`).
		WithArgs(1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM users WHERE id = \$1`).
		WithArgs(1).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rr := do(t, profileRouter(db, 1), "DELETE", "/api/profile", nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("DeleteAccount status: got %d, want 200", rr.Code)
	}
	if msg := decodeMsg(t, rr); msg != "User deleted" {
		t.Errorf("unexpected msg: %q", msg)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestProfileHandler_AddExperience_Validation(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	rr := do(t, profileRouter(db, 1), "PUT", "/api/profile/experience", map[string]string{"title": "Dev"})

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("AddExperience status: got %d, want 400", rr.Code)
	}
	var out struct {
		Errors []FieldError `json:"errors"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode errors: %v", err)
	}
	if len(out.Errors) != 2 {
		t.Errorf("expected company+from errors, got: %+v", out.Errors)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestProfileHandler_AddExperience_PrependsEntry(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	existing := `[{"id":"e0","title":"Old","company":"Past","from":"2018","current":false}]`
	mock.ExpectQuery(`FROM profiles p`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(profileTestCols).AddRow(
			10, 1, "", "", "", "", "Developer", "",
			[]byte(`[]`), []byte(`{}`), []byte(existing), []byte(`[]`), 1, "Ann", "",
		))
	mock.ExpectExec(`UPDATE profiles`).
		WithArgs(sqlmock.AnyArg(), []byte(`[]`), 1, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rr := do(t, profileRouter(db, 1), "PUT", "/api/profile/experience", map[string]string{
		"title": "Dev", "company": "Acme", "from": "2020",
	})

	if rr.Code != http.StatusOK {
		t.Fatalf("AddExperience status: got %d, want 200", rr.Code)
	}
	var out struct {
		Experience []struct {
			ID    string `json:"id"`
			Title string `json:"title"`
		} `json:"experience"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode profile: %v", err)
	}
	if len(out.Experience) != 2 {
		t.Fatalf("expected 2 entries, got: %+v", out.Experience)
	}
	if out.Experience[0].Title != "Dev" || out.Experience[1].ID != "e0" {
		t.Errorf("new entry not prepended: %+v", out.Experience)
	}
	if out.Experience[0].ID == "" {
		t.Error("new entry must get an id")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestProfileHandler_RemoveExperience_NoProfile(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`FROM profiles p`).
		WithArgs(1).
		WillReturnError(sql.ErrNoRows)

	rr := do(t, profileRouter(db, 1), "DELETE", "/api/profile/experience/e1", nil)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("RemoveExperience status: got %d, want 404", rr.Code)
	}
	if msg := decodeMsg(t, rr); msg != "Profile not found" {
		t.Errorf("unexpected msg: %q", msg)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestProfileHandler_RemoveEducation_ByEntryID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	education := `[{"id":"ed1","school":"MIT","degree":"BSc","fieldofstudy":"CS","from":"2015","current":false},` +
		`{"id":"ed2","school":"CMU","degree":"MSc","fieldofstudy":"CS","from":"2019","current":false}]`
	mock.ExpectQuery(`FROM profiles p`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(profileTestCols).AddRow(
			10, 1, "", "", "", "", "Developer", "",
			[]byte(`[]`), []byte(`{}`), []byte(`[]`), []byte(education), 2, "Ann", "",
		))
	mock.ExpectExec(`UPDATE profiles`).
		WithArgs([]byte(`[]`), []byte(`[{"id":"ed2","school":"CMU","degree":"MSc","fieldofstudy":"CS","from":"2019","current":false}]`), 1, 2).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rr := do(t, profileRouter(db, 1), "DELETE", "/api/profile/education/ed1", nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("RemoveEducation status: got %d, want 200", rr.Code)
	}
	var out struct {
		Education []struct {
			ID string `json:"id"`
		} `json:"education"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode profile: %v", err)
	}
	if len(out.Education) != 1 || out.Education[0].ID != "ed2" {
		t.Errorf("wrong entry removed: %+v", out.Education)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
