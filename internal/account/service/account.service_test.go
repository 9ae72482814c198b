package service

import (
	"regexp"
	"testing"
	"time"

	"github.com/Solvent24/wps-ai/internal/account/model"
	"github.com/Solvent24/wps-ai/internal/account/repository"
	"github.com/Solvent24/wps-ai/internal/apperr"
	"github.com/Solvent24/wps-ai/pkg/credentials"
	"github.com/Solvent24/wps-ai/pkg/logger"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var accountCols = []string{"id", "email", "name", "password_hash", "google_id", "created_at", "updated_at"}

const selectByEmail = `SELECT id, email, name, password_hash, google_id, created_at, updated_at FROM users WHERE email = $1`
const selectByGoogleID = `SELECT id, email, name, password_hash, google_id, created_at, updated_at FROM users WHERE google_id = $1`
const selectByID = `SELECT id, email, name, password_hash, google_id, created_at, updated_at FROM users WHERE id = $1`

func newAccountService(t *testing.T) (*AccountService, sqlmock.Sqlmock, func()) {
	t.Helper()
	logger.Init()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return NewAccountService(repository.NewAccountRepository(db)), mock, func() { db.Close() }
}

func accountRow(id, email, name, passwordHash string, googleID interface{}) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(accountCols).AddRow(id, email, name, passwordHash, googleID, now, now)
}

func TestResolveOrCreate_CreatesAccountAndSettings(t *testing.T) {
	svc, mock, done := newAccountService(t)
	defer done()

	mock.ExpectQuery(regexp.QuoteMeta(selectByEmail)).
		WithArgs("a@x.com").
		WillReturnRows(sqlmock.NewRows(accountCols))
	mock.ExpectQuery(regexp.QuoteMeta(selectByGoogleID)).
		WithArgs("g-1").
		WillReturnRows(sqlmock.NewRows(accountCols))
	mock.ExpectExec("INSERT INTO users").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO user_settings (user_id) VALUES ($1)")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(selectByID)).
		WillReturnRows(accountRow("new-id", "a@x.com", "Ann", credentials.SentinelOAuth, "g-1"))

	acc, err := svc.ResolveOrCreate("a@x.com", "Ann", "g-1", "")
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", acc.Email)
	assert.Equal(t, "g-1", acc.GoogleID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveOrCreate_IdempotentForSameEmail(t *testing.T) {
	svc, mock, done := newAccountService(t)
	defer done()

	for i := 0; i < 2; i++ {
		mock.ExpectQuery(regexp.QuoteMeta(selectByEmail)).
			WithArgs("a@x.com").
			WillReturnRows(accountRow("acct-1", "a@x.com", "Ann", credentials.SentinelOAuth, "g-1"))
	}

	first, err := svc.ResolveOrCreate("a@x.com", "Ann", "g-1", "")
	require.NoError(t, err)
	second, err := svc.ResolveOrCreate("a@x.com", "Ann", "g-1", "")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveOrCreate_UpgradesPasswordAccount(t *testing.T) {
	svc, mock, done := newAccountService(t)
	defer done()

	mock.ExpectQuery(regexp.QuoteMeta(selectByEmail)).
		WithArgs("a@x.com").
		WillReturnRows(accountRow("acct-1", "a@x.com", "Ann", "$2b$real-hash", nil))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET google_id = $1, updated_at = NOW() WHERE id = $2")).
		WithArgs("g-1", "acct-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	acc, err := svc.ResolveOrCreate("a@x.com", "Ann", "g-1", "")
	require.NoError(t, err)

	// Upgrade, not duplication: same identifier, password credential intact.
	assert.Equal(t, "acct-1", acc.ID)
	assert.Equal(t, "g-1", acc.GoogleID)
	assert.Equal(t, "$2b$real-hash", acc.PasswordHash)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveOrCreate_FindsByGoogleIDWhenEmailMisses(t *testing.T) {
	svc, mock, done := newAccountService(t)
	defer done()

	mock.ExpectQuery(regexp.QuoteMeta(selectByEmail)).
		WithArgs("new@x.com").
		WillReturnRows(sqlmock.NewRows(accountCols))
	mock.ExpectQuery(regexp.QuoteMeta(selectByGoogleID)).
		WithArgs("g-1").
		WillReturnRows(accountRow("acct-1", "old@x.com", "Ann", credentials.SentinelOAuth, "g-1"))

	acc, err := svc.ResolveOrCreate("new@x.com", "Ann", "g-1", "")
	require.NoError(t, err)
	assert.Equal(t, "acct-1", acc.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveOrCreate_RejectsMissingEmail(t *testing.T) {
	svc, mock, done := newAccountService(t)
	defer done()

	_, err := svc.ResolveOrCreate("", "Ann", "g-1", "")
	assert.True(t, apperr.IsValidation(err))
	// Fails before any persistence access.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveOrCreate_RetriesLookupOnUniqueConflict(t *testing.T) {
	svc, mock, done := newAccountService(t)
	defer done()

	mock.ExpectQuery(regexp.QuoteMeta(selectByEmail)).
		WithArgs("a@x.com").
		WillReturnRows(sqlmock.NewRows(accountCols))
	mock.ExpectQuery(regexp.QuoteMeta(selectByGoogleID)).
		WithArgs("g-1").
		WillReturnRows(sqlmock.NewRows(accountCols))
	// A concurrent signup won the insert race.
	mock.ExpectExec("INSERT INTO users").
		WillReturnError(&pq.Error{Code: "23505"})
	mock.ExpectQuery(regexp.QuoteMeta(selectByEmail)).
		WithArgs("a@x.com").
		WillReturnRows(accountRow("winner-id", "a@x.com", "Ann", credentials.SentinelOAuth, "g-1"))

	acc, err := svc.ResolveOrCreate("a@x.com", "Ann", "g-1", "")
	require.NoError(t, err)
	assert.Equal(t, "winner-id", acc.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveOrCreate_ReportsInconsistentStore(t *testing.T) {
	svc, mock, done := newAccountService(t)
	defer done()

	mock.ExpectQuery(regexp.QuoteMeta(selectByEmail)).
		WillReturnRows(sqlmock.NewRows(accountCols))
	mock.ExpectQuery(regexp.QuoteMeta(selectByGoogleID)).
		WillReturnRows(sqlmock.NewRows(accountCols))
	mock.ExpectExec("INSERT INTO users").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO user_settings").
		WillReturnResult(sqlmock.NewResult(0, 1))
	// Post-insert re-read finds nothing.
	mock.ExpectQuery(regexp.QuoteMeta(selectByID)).
		WillReturnRows(sqlmock.NewRows(accountCols))

	_, err := svc.ResolveOrCreate("a@x.com", "Ann", "g-1", "")
	assert.ErrorIs(t, err, apperr.ErrAccountCreation)
}

func TestRegister_RejectsDuplicateEmail(t *testing.T) {
	svc, mock, done := newAccountService(t)
	defer done()

	mock.ExpectQuery(regexp.QuoteMeta(selectByEmail)).
		WithArgs("a@x.com").
		WillReturnRows(accountRow("acct-1", "a@x.com", "Ann", "$2b$hash", nil))

	_, err := svc.Register(model.RegisterRequest{Email: "a@x.com", Name: "Ann", Password: "pw"})
	assert.True(t, apperr.IsValidation(err))
}

func TestAuthenticate(t *testing.T) {
	svc, mock, done := newAccountService(t)
	defer done()

	hash, err := credentials.Hash("secret")
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta(selectByEmail)).
		WithArgs("a@x.com").
		WillReturnRows(accountRow("acct-1", "a@x.com", "Ann", hash, nil))
	mock.ExpectQuery(regexp.QuoteMeta(selectByEmail)).
		WithArgs("a@x.com").
		WillReturnRows(accountRow("acct-1", "a@x.com", "Ann", hash, nil))

	acc, err := svc.Authenticate("a@x.com", "secret")
	require.NoError(t, err)
	require.NotNil(t, acc)
	assert.Equal(t, "acct-1", acc.ID)

	acc, err = svc.Authenticate("a@x.com", "wrong")
	require.NoError(t, err)
	assert.Nil(t, acc)
}

func TestAuthenticate_OAuthAccountHasNoPassword(t *testing.T) {
	svc, mock, done := newAccountService(t)
	defer done()

	mock.ExpectQuery(regexp.QuoteMeta(selectByEmail)).
		WithArgs("a@x.com").
		WillReturnRows(accountRow("acct-1", "a@x.com", "Ann", credentials.SentinelOAuth, "g-1"))

	acc, err := svc.Authenticate("a@x.com", credentials.SentinelOAuth)
	require.NoError(t, err)
	assert.Nil(t, acc)
}
