package sqlite

import (
	"context"
	"database/sql"

	"github.com/veilhq/veil/internal/broker/domain"
)

type challengesRepo struct {
	q querier
}

func (r *challengesRepo) CreateChallenge(ctx context.Context, c domain.Challenge) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO challenges (id, user_id, channel, purpose, code_hash, attempts, issued_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.UserID, string(c.Channel), string(c.Purpose), c.CodeHash,
		c.Attempts, c.IssuedAt, c.ExpiresAt,
	)
	return err
}

const challengeColumns = `id, user_id, channel, purpose, code_hash, attempts, issued_at, expires_at, consumed_at`

func scanChallenge(row *sql.Row) (domain.Challenge, error) {
	var c domain.Challenge
	var channel, purpose string
	var consumedAt sql.NullTime
	err := row.Scan(&c.ID, &c.UserID, &channel, &purpose, &c.CodeHash,
		&c.Attempts, &c.IssuedAt, &c.ExpiresAt, &consumedAt)
	if err != nil {
		return domain.Challenge{}, mapNotFound(err)
	}

	c.Channel = domain.Channel(channel)
	c.Purpose = domain.Purpose(purpose)
	c.ConsumedAt = mapNullTimePtr(consumedAt)
	return c, nil
}

func (r *challengesRepo) GetActiveChallenge(ctx context.Context, userID string, ch domain.Channel, p domain.Purpose) (domain.Challenge, error) {
	return scanChallenge(r.q.QueryRowContext(ctx, `
		SELECT `+challengeColumns+`
		FROM challenges
		WHERE user_id = ? AND channel = ? AND purpose = ? AND consumed_at IS NULL
		ORDER BY issued_at DESC, id DESC
		LIMIT 1`,
		userID, string(ch), string(p),
	))
}

func (r *challengesRepo) GetLatestChallenge(ctx context.Context, userID string, ch domain.Channel, p domain.Purpose) (domain.Challenge, error) {
	return scanChallenge(r.q.QueryRowContext(ctx, `
		SELECT `+challengeColumns+`
		FROM challenges
		WHERE user_id = ? AND channel = ? AND purpose = ?
		ORDER BY issued_at DESC, id DESC
		LIMIT 1`,
		userID, string(ch), string(p),
	))
}

func (r *challengesRepo) GetActiveChallengeForPurpose(ctx context.Context, userID string, p domain.Purpose) (domain.Challenge, error) {
	return scanChallenge(r.q.QueryRowContext(ctx, `
		SELECT `+challengeColumns+`
		FROM challenges
		WHERE user_id = ? AND purpose = ? AND consumed_at IS NULL
		ORDER BY issued_at DESC, id DESC
		LIMIT 1`,
		userID, string(p),
	))
}

func (r *challengesRepo) ConsumeChallenge(ctx context.Context, id string) error {
	_, err := r.q.ExecContext(ctx,
		`UPDATE challenges SET consumed_at = CURRENT_TIMESTAMP WHERE id = ? AND consumed_at IS NULL`,
		id,
	)
	return err
}

func (r *challengesRepo) ConsumeActiveChallenges(ctx context.Context, userID string, ch domain.Channel, p domain.Purpose) error {
	_, err := r.q.ExecContext(ctx, `
		UPDATE challenges SET consumed_at = CURRENT_TIMESTAMP
		WHERE user_id = ? AND channel = ? AND purpose = ? AND consumed_at IS NULL`,
		userID, string(ch), string(p),
	)
	return err
}

func (r *challengesRepo) IncrementChallengeAttempts(ctx context.Context, id string) (int, error) {
	row := r.q.QueryRowContext(ctx, `
		UPDATE challenges SET attempts = attempts + 1
		WHERE id = ?
		RETURNING attempts`,
		id,
	)

	var attempts int
	if err := row.Scan(&attempts); err != nil {
		return 0, mapNotFound(err)
	}
	return attempts, nil
}

func (r *challengesRepo) DeleteExpiredChallenges(ctx context.Context) error {
	_, err := r.q.ExecContext(ctx,
		`DELETE FROM challenges WHERE expires_at < CURRENT_TIMESTAMP OR consumed_at IS NOT NULL`,
	)
	return err
}
