package models

type contextKey string

// Ключи контекста запроса.
const (
	UserContextKey contextKey = "userID"
)

// GinUserIDKey - ключ, под которым auth middleware кладет userID в gin.Context.
const GinUserIDKey = "userID"
