package entity

import "time"

// Login del usuario creado en el primer arranque.
const InitialAdminLogin = "admin"

// User representa un operador del back-office.
type User struct {
	ID           int64
	Login        string
	Name         string
	Email        *string
	PasswordHash string // bcrypt
	CreatedAt    time.Time
}
