package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"go.uber.org/zap"
)

var activeSessionColumns = []string{
	"id", "user_id", "token", "user_agent", "ip_address",
	"expires_at", "created_at", "username", "is_admin",
}

func TestFindActiveJoinsProfile(t *testing.T) {
	mock := newMockPool(t)
	repo := NewSessionRepository(mock, zap.NewNop())
	id, userID, token := uuid.New(), uuid.New(), uuid.New()
	agent := "curl/8"
	var ip *string
	now := time.Now()

	mock.ExpectQuery(`FROM sessions s\s+JOIN profiles p ON p.id = s.user_id`).
		WithArgs(token.String()).
		WillReturnRows(pgxmock.NewRows(activeSessionColumns).
			AddRow(id, userID, token, &agent, ip, now.Add(time.Hour), now, "reader", true))

	session, err := repo.FindActive(context.Background(), token.String())
	if err != nil {
		t.Fatalf("find active: %v", err)
	}
	if session == nil || session.UserID != userID || session.Username != "reader" || !session.IsAdmin {
		t.Fatalf("unexpected session %+v", session)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestFindActiveUnknownToken(t *testing.T) {
	mock := newMockPool(t)
	repo := NewSessionRepository(mock, zap.NewNop())

	mock.ExpectQuery(`FROM sessions s`).
		WillReturnError(pgx.ErrNoRows)

	session, err := repo.FindActive(context.Background(), uuid.NewString())
	if err != nil || session != nil {
		t.Fatalf("got %+v, %v; want nil, nil", session, err)
	}
}

func TestRevokeIsScopedToOwner(t *testing.T) {
	mock := newMockPool(t)
	repo := NewSessionRepository(mock, zap.NewNop())
	token, other := uuid.NewString(), uuid.New()

	mock.ExpectExec(`UPDATE sessions SET revoked_at = NOW\(\)\s+WHERE token = \$1 AND user_id = \$2`).
		WithArgs(token, other).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.Revoke(context.Background(), other, token)
	if !errors.Is(err, ErrNoRows) {
		t.Fatalf("err = %v, want ErrNoRows", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestPurgeReportsDeleted(t *testing.T) {
	mock := newMockPool(t)
	repo := NewSessionRepository(mock, zap.NewNop())
	cutoff := time.Now().Add(-7 * 24 * time.Hour)

	mock.ExpectExec(`DELETE FROM sessions`).
		WithArgs(cutoff).
		WillReturnResult(pgxmock.NewResult("DELETE", 3))

	n, err := repo.Purge(context.Background(), cutoff)
	if err != nil || n != 3 {
		t.Fatalf("purge = %d, %v; want 3", n, err)
	}
}
