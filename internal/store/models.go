package store

import (
	"time"

	"github.com/uptrace/bun"

	"github.com/hyojeonglee673-dot/massi5-backend/internal/domain"
)

type userRow struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID              int64     `bun:"id,pk,autoincrement"`
	KakaoID         int64     `bun:"kakao_id,notnull,unique"`
	Email           *string   `bun:"email,type:varchar(255)"`
	Nickname        *string   `bun:"nickname,type:varchar(100)"`
	ProfileImageURL *string   `bun:"profile_image_url,type:varchar(500)"`
	CreatedAt       time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt       time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

func (r *userRow) toDomain() *domain.User {
	return &domain.User{
		ID:              r.ID,
		KakaoID:         r.KakaoID,
		Email:           r.Email,
		Nickname:        r.Nickname,
		ProfileImageURL: r.ProfileImageURL,
		CreatedAt:       r.CreatedAt.UTC(),
		UpdatedAt:       r.UpdatedAt.UTC(),
	}
}

func userRowFrom(u *domain.User) *userRow {
	return &userRow{
		ID:              u.ID,
		KakaoID:         u.KakaoID,
		Email:           u.Email,
		Nickname:        u.Nickname,
		ProfileImageURL: u.ProfileImageURL,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}

// lunchRecordRow stores recorded_at as "YYYY-MM-DD" so both backends compare
// dates lexically without timezone drift.
type lunchRecordRow struct {
	bun.BaseModel `bun:"table:lunch_records,alias:lr"`

	ID         int64     `bun:"id,pk,autoincrement"`
	UserID     int64     `bun:"user_id,notnull"`
	RecordedAt string    `bun:"recorded_at,type:varchar(10),notnull"`
	Category   *string   `bun:"category,type:varchar(50)"`
	MenuName   *string   `bun:"menu_name,type:varchar(200)"`
	Content    *string   `bun:"content,type:text"`
	CreatedAt  time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt  time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

func (r *lunchRecordRow) toDomain() (*domain.LunchRecord, error) {
	recordedAt, err := domain.ParseDate(r.RecordedAt)
	if err != nil {
		return nil, err
	}
	return &domain.LunchRecord{
		ID:         r.ID,
		UserID:     r.UserID,
		RecordedAt: recordedAt,
		Category:   r.Category,
		MenuName:   r.MenuName,
		Content:    r.Content,
		CreatedAt:  r.CreatedAt.UTC(),
		UpdatedAt:  r.UpdatedAt.UTC(),
	}, nil
}

func lunchRecordRowFrom(r *domain.LunchRecord) *lunchRecordRow {
	return &lunchRecordRow{
		ID:         r.ID,
		UserID:     r.UserID,
		RecordedAt: domain.FormatDate(r.RecordedAt),
		Category:   r.Category,
		MenuName:   r.MenuName,
		Content:    r.Content,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

// reactionRow is unique per (lunch_record_id, user_id).
type reactionRow struct {
	bun.BaseModel `bun:"table:reactions,alias:r"`

	ID            int64     `bun:"id,pk,autoincrement"`
	LunchRecordID int64     `bun:"lunch_record_id,notnull,unique:uq_reactions_record_user"`
	UserID        int64     `bun:"user_id,notnull,unique:uq_reactions_record_user"`
	ReactionType  string    `bun:"reaction_type,type:varchar(20),notnull"`
	CreatedAt     time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

func (r *reactionRow) toDomain() *domain.Reaction {
	return &domain.Reaction{
		ID:            r.ID,
		LunchRecordID: r.LunchRecordID,
		UserID:        r.UserID,
		Type:          domain.ReactionCode(r.ReactionType),
		CreatedAt:     r.CreatedAt.UTC(),
	}
}
