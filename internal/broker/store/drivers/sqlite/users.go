package sqlite

import (
	"context"
	"database/sql"

	"github.com/veilhq/veil/internal/broker/domain"
	"github.com/veilhq/veil/internal/broker/store"
)

type usersRepo struct {
	q querier
}

const userColumns = `id, email, phone, id_number, display_name, password_hash,
	external_sub, pseudo_handle, email_verified, phone_verified, mfa_channel,
	deletion_requested, deleted_at, created_at, updated_at`

func (r *usersRepo) scanUser(row *sql.Row) (domain.User, error) {
	var u domain.User
	var mfaChannel string
	var deletedAt sql.NullTime

	err := row.Scan(
		&u.ID, &u.Email, &u.Phone, &u.IDNumber, &u.DisplayName, &u.PasswordHash,
		&u.ExternalSub, &u.PseudoHandle, &u.EmailVerified, &u.PhoneVerified,
		&mfaChannel, &u.DeletionRequested, &deletedAt, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}

	u.MFAChannel = domain.Channel(mfaChannel)
	u.DeletedAt = mapNullTimePtr(deletedAt)
	return u, nil
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	return r.scanUser(r.q.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id))
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.scanUser(r.q.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ? AND email <> ''`, email))
}

func (r *usersRepo) GetUserByExternalSub(ctx context.Context, sub string) (domain.User, error) {
	return r.scanUser(r.q.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE external_sub = ? AND external_sub <> ''`, sub))
}

func (r *usersRepo) GetUserByPseudoHandle(ctx context.Context, handle string) (domain.User, error) {
	return r.scanUser(r.q.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE pseudo_handle = ?`, handle))
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO users (
			id, email, phone, id_number, display_name, password_hash,
			external_sub, pseudo_handle, email_verified, phone_verified
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.Phone, u.IDNumber, u.DisplayName, u.PasswordHash,
		u.ExternalSub, u.PseudoHandle, u.EmailVerified, u.PhoneVerified,
	)
	return mapConflict(err)
}

func (r *usersRepo) UpdateProfile(ctx context.Context, userID, phone, idNumber, displayName string) error {
	// Empty parameters keep the existing column value so partial updates
	// never erase previously supplied attributes.
	_, err := r.q.ExecContext(ctx, `
		UPDATE users SET
			phone = CASE WHEN ? <> '' THEN ? ELSE phone END,
			id_number = CASE WHEN ? <> '' THEN ? ELSE id_number END,
			display_name = CASE WHEN ? <> '' THEN ? ELSE display_name END,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		phone, phone, idNumber, idNumber, displayName, displayName, userID,
	)
	return mapConflict(err)
}

func (r *usersRepo) SetChannelVerified(ctx context.Context, userID string, ch domain.Channel) error {
	column := "email_verified"
	if ch == domain.ChannelPhone {
		column = "phone_verified"
	}
	_, err := r.q.ExecContext(ctx,
		`UPDATE users SET `+column+` = 1, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		userID,
	)
	return err
}

func (r *usersRepo) SetMFAChannel(ctx context.Context, userID string, ch domain.Channel) error {
	_, err := r.q.ExecContext(ctx,
		`UPDATE users SET mfa_channel = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		string(ch), userID,
	)
	return err
}

func (r *usersRepo) SetDeletionRequested(ctx context.Context, userID string, requested bool) error {
	_, err := r.q.ExecContext(ctx,
		`UPDATE users SET deletion_requested = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		requested, userID,
	)
	return err
}

func (r *usersRepo) SoftDeleteUser(ctx context.Context, userID string) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE users SET
			email = '', phone = '', id_number = '', display_name = '',
			password_hash = '', external_sub = '',
			deleted_at = CURRENT_TIMESTAMP, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND deleted_at IS NULL`,
		userID,
	)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
