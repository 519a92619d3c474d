package models

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims - полезная нагрузка JWT.
type Claims struct {
	UserID      uuid.UUID `json:"user_id"`
	AccessUUID  string    `json:"access_uuid,omitempty"`
	RefreshUUID string    `json:"refresh_uuid,omitempty"`
	jwt.RegisteredClaims
}

// TokenDetails - пара access/refresh токенов с идентификаторами для Redis.
type TokenDetails struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	AccessUUID   string `json:"-"`
	RefreshUUID  string `json:"-"`
	AtExpires    int64  `json:"-"`
	RtExpires    int64  `json:"-"`
}
