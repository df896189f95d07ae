package domain

import "time"

// User is an account created on first Kakao login. KakaoID is the immutable identity key.
type User struct {
	ID              int64
	KakaoID         int64
	Email           *string
	Nickname        *string
	ProfileImageURL *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// KakaoProfile is the subset of the Kakao user payload the server keeps.
type KakaoProfile struct {
	ID              int64
	Nickname        *string
	Email           *string
	ProfileImageURL *string
}
