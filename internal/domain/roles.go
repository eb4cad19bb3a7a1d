package domain

const (
	RoleAdmin = "ADMIN"
)
