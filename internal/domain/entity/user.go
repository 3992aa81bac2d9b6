package entity

// Roles de usuario dentro de una organización.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleStaff   = "staff"
)

// User operario de la organización que registra movimientos.
// Solo se usa para resolver nombres en los reportes de uso.
type User struct {
	ID   string
	Name string
	Role string // admin, manager, staff
}

// Site obra o ubicación donde se usan los activos.
type Site struct {
	ID   string
	Name string
}
